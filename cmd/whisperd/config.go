package main

import (
	"fmt"
	"time"

	"github.com/kbukum/whisperd/config"
	"github.com/kbukum/whisperd/observability"
	"github.com/kbukum/whisperd/server"
	"github.com/kbukum/whisperd/staging"
	"github.com/kbukum/whisperd/transcription"
)

// Config is the whisperd configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Whisper       transcription.Config `yaml:"whisper" mapstructure:"whisper"`
	Inference     InferenceConfig      `yaml:"inference" mapstructure:"inference"`
	Staging       staging.Config       `yaml:"staging" mapstructure:"staging"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// InferenceConfig bounds concurrent backend calls.
type InferenceConfig struct {
	MaxConcurrent int           `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	MaxWait       time.Duration `yaml:"max_wait" mapstructure:"max_wait"`
}

// envAliases keeps the environment names operators already use.
var envAliases = map[string][]string{
	"server.host": {"HOST"},
	"server.port": {"PORT"},
}

func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Whisper.ApplyDefaults()
	c.Staging.ApplyDefaults()
	c.Observability.ApplyDefaults()

	if c.Inference.MaxConcurrent == 0 {
		c.Inference.MaxConcurrent = 2
	}
	if c.Inference.MaxWait == 0 {
		c.Inference.MaxWait = 5 * time.Minute
	}
}

func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Whisper.Validate(); err != nil {
		return fmt.Errorf("whisper: %w", err)
	}
	if c.Inference.MaxConcurrent < 1 {
		return fmt.Errorf("inference.max_concurrent must be at least 1 (got: %d)", c.Inference.MaxConcurrent)
	}
	if c.Inference.MaxWait < 0 {
		return fmt.Errorf("inference.max_wait must be non-negative (got: %s)", c.Inference.MaxWait)
	}
	if err := c.Staging.Validate(); err != nil {
		return err
	}
	return c.Observability.Validate()
}
