// Package gateway serves the OpenAI-compatible audio transcription endpoint.
//
// A request moves through upload binding, staging, bounded inference and a
// JSON response. The staged file is removed on every exit path.
package gateway
