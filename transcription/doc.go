// Package transcription defines the speech-to-text capability the gateway
// depends on, the registry of selectable backends and the process-wide model
// handle.
//
// # Backends
//
//   - transcription/whisper: openai-whisper CLI, full precision
//   - transcription/fasterwhisper: whisper-ctranslate2 CLI, quantized CTranslate2 inference
//
// # Usage
//
//	reg := transcription.NewRegistry()
//	whisper.Register(reg)
//	fasterwhisper.Register(reg)
//
//	backend, err := reg.Create(cfg.Backend, cfg)
//	model := transcription.NewModel(backend, cfg, log)
//	// model is registered as a component; Start loads it once.
//	text, err := model.Transcribe(ctx, "/tmp/clip.wav", "en")
package transcription
