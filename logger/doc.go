// Package logger provides structured logging for whisperd using zerolog.
//
// It supports console and JSON formats, log level configuration,
// component-scoped loggers and rotating file output.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//	  output: "/var/log/whisperd/whisperd.log"
//
// # Usage
//
//	log := logger.WithComponent("gateway")
//	log.Info("transcription completed", logger.Fields("file", name))
package logger
