package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Request errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInvalidUpload indicates the multipart upload could not be read.
	ErrCodeInvalidUpload ErrorCode = "INVALID_UPLOAD"
	// ErrCodePayloadTooLarge indicates the request body exceeded the configured limit.
	ErrCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"
)

// Processing errors
const (
	// ErrCodeStagingFailed indicates the upload could not be written to local storage.
	ErrCodeStagingFailed ErrorCode = "STAGING_FAILED"
	// ErrCodeTranscriptionFailed indicates the speech backend failed.
	ErrCodeTranscriptionFailed ErrorCode = "TRANSCRIPTION_FAILED"
	// ErrCodeModelNotLoaded indicates a request reached an unloaded model.
	ErrCodeModelNotLoaded ErrorCode = "MODEL_NOT_LOADED"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Availability errors
const (
	// ErrCodeServiceUnavailable indicates the service cannot take more work right now.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeNotFound indicates the requested route or resource does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeClientClosed indicates the client went away before the transcription finished.
	ErrCodeClientClosed ErrorCode = "CLIENT_CLOSED_REQUEST"
)

// StatusClientClosedRequest is the non-standard status nginx logs when the
// client closes the connection first.
const StatusClientClosedRequest = 499

// TypeServerError is the OpenAI error type reported for every failure.
const TypeServerError = "server_error"
