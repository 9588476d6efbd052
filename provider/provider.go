package provider

import "context"

// Provider is the base interface all providers implement.
type Provider interface {
	// Name returns the provider's unique name.
	Name() string
	// IsAvailable reports whether the provider can serve requests.
	IsAvailable(ctx context.Context) bool
}

// Factory creates a provider from typed configuration.
type Factory[C any, T Provider] func(cfg C) (T, error)
