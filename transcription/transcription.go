package transcription

import (
	"context"

	"github.com/kbukum/whisperd/provider"
)

// Transcriber turns a staged audio file into text. An empty language asks
// the backend to auto-detect it.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, language string) (string, error)
}

// Backend is a selectable speech-to-text implementation.
type Backend interface {
	provider.Provider
	Transcriber

	// Load prepares the backend for inference. It is called once at startup
	// and any error is fatal.
	Load(ctx context.Context) error
}

// Registry holds backend factories keyed by backend name.
type Registry = provider.Registry[Config, Backend]

// NewRegistry creates an empty backend registry.
func NewRegistry() *Registry {
	return provider.NewRegistry[Config, Backend]()
}
