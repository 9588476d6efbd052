// Package process runs external executables with process-group cancellation.
//
// Speech backends are command-line programs; each transcription is one Run
// call whose lifetime is bound to the request context.
package process

import (
	"io"
	"time"
)

// DefaultGracePeriod is the delay between SIGTERM and SIGKILL on cancellation.
const DefaultGracePeriod = 5 * time.Second

// Command configures a subprocess to execute.
type Command struct {
	// Binary is the executable path or name (resolved via PATH).
	Binary string
	// Args are the command-line arguments.
	Args []string
	// Dir is the working directory. If empty, uses the current directory.
	Dir string
	// Env is additional environment variables (key=value). Merged with os.Environ.
	Env []string
	// Stdin provides input to the process. May be nil.
	Stdin io.Reader
	// GracePeriod is how long to wait after SIGTERM before SIGKILL.
	// Defaults to DefaultGracePeriod if zero.
	GracePeriod time.Duration
}
