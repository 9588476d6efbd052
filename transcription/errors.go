package transcription

import (
	"fmt"
	"strings"
)

// LoadError describes why a backend could not load its model. The message
// carries enough for an operator to fix the configuration.
type LoadError struct {
	Backend   string
	Model     string
	Cause     error
	Available []string
	Install   string
}

func (e *LoadError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "load %s model %q: %v", e.Backend, e.Model, e.Cause)
	if len(e.Available) > 0 {
		fmt.Fprintf(&b, " (available models: %s)", strings.Join(e.Available, ", "))
	}
	if e.Install != "" {
		fmt.Fprintf(&b, "; install with: %s", e.Install)
	}
	return b.String()
}

func (e *LoadError) Unwrap() error { return e.Cause }
