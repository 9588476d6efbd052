// Package component defines lifecycle-managed parts of the service and the
// registry that starts and stops them.
//
// Components start in registration order and stop in reverse order. whisperd
// registers the transcription model before the HTTP server, so a model that
// fails to load aborts startup before any port is bound.
package component
