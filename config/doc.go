// Package config loads service configuration from a config.yml file, an
// optional .env file and the process environment.
//
// Environment variables map onto nested keys by splitting on underscores, so
// WHISPER_COMPUTE_TYPE populates whisper.compute_type. Names that do not follow
// that pattern (HOST, PORT) are mapped with WithEnvAliases.
//
//	var cfg Config
//	err := config.LoadConfig("whisperd", &cfg,
//	    config.WithEnvAliases(map[string][]string{"server.port": {"PORT"}}))
package config
