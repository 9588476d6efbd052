package transcription

import (
	"github.com/kbukum/whisperd/validation"
)

// Config selects and tunes the speech backend.
type Config struct {
	// Backend is the registered backend name ("faster-whisper" or "whisper").
	Backend string `yaml:"backend" mapstructure:"backend" validate:"required"`
	// Model is the model size, e.g. "base" or "large-v3".
	Model string `yaml:"model" mapstructure:"model" validate:"required"`
	// Device is the inference device. Only the faster-whisper backend uses it.
	Device string `yaml:"device" mapstructure:"device" validate:"required"`
	// ComputeType is the quantization mode. Only the faster-whisper backend uses it.
	ComputeType string `yaml:"compute_type" mapstructure:"compute_type" validate:"required"`
	// Binary overrides the backend CLI executable.
	Binary string `yaml:"binary" mapstructure:"binary"`
	// BeamSize is the decoding beam width.
	BeamSize int `yaml:"beam_size" mapstructure:"beam_size" validate:"gte=1,lte=20"`
	// WorkDir holds CLI output and the warm-up clip. Set from staging.dir;
	// empty means the system temp dir.
	WorkDir string `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults sets sensible default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = "faster-whisper"
	}
	if c.Model == "" {
		c.Model = "base"
	}
	if c.Device == "" {
		c.Device = "cpu"
	}
	if c.ComputeType == "" {
		c.ComputeType = "int8"
	}
	if c.BeamSize == 0 {
		c.BeamSize = 5
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	return validation.Validate(c)
}
