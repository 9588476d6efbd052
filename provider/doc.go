// Package provider holds a typed registry of named backend factories.
//
// A backend is selected once, at startup, by name:
//
//	reg := provider.NewRegistry[transcription.Config, transcription.Backend]()
//	reg.RegisterFactory("whisper", whisper.New)
//	backend, err := reg.Create(cfg.Backend, cfg)
package provider
