package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message returned to clients.
	Message string `json:"message"`
	// HTTPStatus is the HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for server-side logs.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error. It is logged, never serialized.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// InvalidUpload reports a malformed or missing multipart upload. It is served
// as 500 like every other per-request failure.
func InvalidUpload(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInvalidUpload, Message: withCause("Invalid audio upload", cause),
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}

// PayloadTooLarge reports a request body larger than limit bytes.
func PayloadTooLarge(limit int64) *AppError {
	return &AppError{
		Code: ErrCodePayloadTooLarge, Message: fmt.Sprintf("Request body exceeds the %d byte limit", limit),
		HTTPStatus: http.StatusRequestEntityTooLarge,
		Details:    map[string]any{"limit": limit},
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// StagingFailed reports an I/O failure while persisting an upload.
func StagingFailed(cause error) *AppError {
	return &AppError{
		Code: ErrCodeStagingFailed, Message: withCause("Failed to stage uploaded audio", cause),
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}

// TranscriptionFailed reports a backend inference failure.
func TranscriptionFailed(backend string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeTranscriptionFailed, Message: withCause("Transcription failed", cause),
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
		Details: map[string]any{"backend": backend},
	}
}

// ModelNotLoaded reports a transcription attempt before the model finished loading.
func ModelNotLoaded() *AppError {
	return &AppError{
		Code: ErrCodeModelNotLoaded, Message: "The transcription model is not loaded",
		HTTPStatus: http.StatusInternalServerError,
	}
}

// ServiceUnavailable reports that no inference slot became free in time.
func ServiceUnavailable(reason string) *AppError {
	return &AppError{
		Code: ErrCodeServiceUnavailable, Message: reason,
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// ClientClosed reports a request abandoned by its client, while queued for an
// inference slot or during inference.
func ClientClosed(cause error) *AppError {
	return &AppError{
		Code: ErrCodeClientClosed, Message: "Client closed the request",
		HTTPStatus: StatusClientClosedRequest, Cause: cause,
	}
}

// NotFound reports an unknown route or resource.
func NotFound(resource string) *AppError {
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"resource": resource},
	}
}

// Internal creates a new AppError for an internal server error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: withCause("Internal server error", cause),
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}

func withCause(prefix string, cause error) string {
	if cause == nil {
		return prefix
	}
	return prefix + ": " + cause.Error()
}
