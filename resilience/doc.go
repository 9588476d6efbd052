// Package resilience bounds concurrent work.
//
// Bulkhead caps how many calls run at once. Callers beyond the cap queue for
// at most MaxWait and are then rejected, so a burst of uploads cannot start
// more model processes than the host can run.
//
//	bh := resilience.NewBulkhead(resilience.BulkheadConfig{
//	    Name:          "inference",
//	    MaxConcurrent: 2,
//	    MaxWait:       5 * time.Minute,
//	})
//	err := bh.Execute(ctx, func() error { return model.Transcribe(ctx, path, lang) })
package resilience
