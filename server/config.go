package server

import (
	"fmt"

	"github.com/kbukum/whisperd/server/middleware"
)

// DefaultFallbackPorts are tried in order when the preferred port is taken.
var DefaultFallbackPorts = []int{8001, 8002, 8003, 8080, 8888}

// Config holds HTTP server configuration.
type Config struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
	// FallbackPorts are probed in order when Port is busy.
	FallbackPorts     []int                 `yaml:"fallback_ports" mapstructure:"fallback_ports"`
	ReadHeaderTimeout int                   `yaml:"read_header_timeout" mapstructure:"read_header_timeout"` // seconds
	ReadTimeout       int                   `yaml:"read_timeout" mapstructure:"read_timeout"`               // seconds, 0 = none
	WriteTimeout      int                   `yaml:"write_timeout" mapstructure:"write_timeout"`             // seconds, 0 = none
	IdleTimeout       int                   `yaml:"idle_timeout" mapstructure:"idle_timeout"`               // seconds
	ShutdownTimeout   int                   `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`       // seconds
	MaxBodySize       string                `yaml:"max_body_size" mapstructure:"max_body_size"`             // e.g. "100MB"
	CORS              middleware.CORSConfig `yaml:"cors" mapstructure:"cors"`
}

// ApplyDefaults sets sensible default values for unset fields.
// Read and write timeouts stay at zero: an upload or an inference may take
// minutes.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8000
	}
	if c.FallbackPorts == nil {
		c.FallbackPorts = append([]int(nil), DefaultFallbackPorts...)
	}
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = 10
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 120
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 5
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "100MB"
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
	if len(c.CORS.AllowedMethods) == 0 {
		c.CORS.AllowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	if len(c.CORS.AllowedHeaders) == 0 {
		c.CORS.AllowedHeaders = []string{"*"}
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535 (got: %d)", c.Port)
	}
	for _, p := range c.FallbackPorts {
		if p < 1 || p > 65535 {
			return fmt.Errorf("server.fallback_ports must be between 1 and 65535 (got: %d)", p)
		}
	}
	for name, v := range map[string]int{
		"read_header_timeout": c.ReadHeaderTimeout,
		"read_timeout":        c.ReadTimeout,
		"write_timeout":       c.WriteTimeout,
		"idle_timeout":        c.IdleTimeout,
		"shutdown_timeout":    c.ShutdownTimeout,
	} {
		if v < 0 {
			return fmt.Errorf("server.%s must be non-negative (got: %d)", name, v)
		}
	}
	return nil
}
