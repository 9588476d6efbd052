// Package errors defines the structured error type used across whisperd.
//
// Every AppError carries a machine-readable code, an HTTP status and an
// optional cause. Handlers render it with ToResponse, which produces the
// OpenAI-compatible envelope {"error":{"message":...,"type":"server_error"}}.
package errors
