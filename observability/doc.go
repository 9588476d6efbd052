// Package observability provides OpenTelemetry tracing and metrics for
// whisperd. Export over OTLP/HTTP is enabled only when an endpoint is
// configured; otherwise the global no-op providers stay in place and spans
// cost nothing.
//
//	tel, err := observability.Setup(ctx, cfg.Observability, observability.Resource{
//	    ServiceName: "whisperd", ServiceVersion: version.Version,
//	})
//	defer tel.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanTranscribe)
//	defer span.End()
package observability
