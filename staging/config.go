package staging

import (
	"fmt"
	"os"
)

// Config holds upload staging configuration.
type Config struct {
	// Dir is where staged files are created. Defaults to the OS temp dir.
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// ApplyDefaults sets sensible default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Dir == "" {
		c.Dir = os.TempDir()
	}
}

// Validate checks that the staging directory exists.
func (c *Config) Validate() error {
	info, err := os.Stat(c.Dir)
	if err != nil {
		return fmt.Errorf("staging.dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("staging.dir: %s is not a directory", c.Dir)
	}
	return nil
}
