package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Client-facing messages. Upstream bodies and local causes never reach the caller.
const (
	MsgPromptRequired       = "Prompt is required"
	MsgChatHistoryRequired  = "Chat history is required"
	MsgMethodNotAllowed     = "Method not allowed"
	MsgAPIKeyNotConfigured  = "API key is not configured. Set the GEMINI_API_KEY environment variable."
	MsgUpstreamFailed       = "Failed to get response from Gemini API."
	MsgUnexpected           = "An unexpected error occurred."
	MsgAuthenticationNeeded = "Authentication required."
	MsgPayloadTooLarge      = "Request body is too large."
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is the message shown to the caller.
	Message string `json:"message"`
	// HTTPStatus is the status code the error maps to.
	HTTPStatus int `json:"-"`
	// Details carries server-side context for logging. Never serialized to callers.
	Details map[string]any `json:"-"`
	// Cause is the underlying error that caused this error.
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

// --- Constructors ---

// InvalidRequest creates an error for malformed or missing client input.
func InvalidRequest(message string) *AppError {
	return New(ErrCodeInvalidRequest, message, http.StatusBadRequest)
}

// PayloadTooLarge creates an error for a body over the configured limit.
func PayloadTooLarge(limit int64) *AppError {
	return New(ErrCodePayloadTooLarge, MsgPayloadTooLarge, http.StatusRequestEntityTooLarge).
		WithDetail("limit_bytes", limit)
}

// FromBindError maps a request decoding failure. A body cut off by the size
// limit becomes PayloadTooLarge, anything else InvalidRequest(message).
func FromBindError(err error, message string) *AppError {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return PayloadTooLarge(tooLarge.Limit).WithCause(err)
	}
	return InvalidRequest(message).WithCause(err)
}

// MethodNotAllowed creates an error for a route hit with the wrong verb.
func MethodNotAllowed(method string) *AppError {
	return New(ErrCodeMethodNotAllowed, MsgMethodNotAllowed, http.StatusMethodNotAllowed).
		WithDetail("method", method)
}

// ConfigurationError creates an error for missing process configuration,
// such as an absent upstream credential.
func ConfigurationError(message string) *AppError {
	if message == "" {
		message = MsgAPIKeyNotConfigured
	}
	return New(ErrCodeConfiguration, message, http.StatusInternalServerError)
}

// UpstreamUnreachable creates an error for a transport-level upstream failure.
// The caller sees the generic unexpected-error message.
func UpstreamUnreachable(cause error) *AppError {
	return &AppError{
		Code:       ErrCodeUpstreamUnreachable,
		Message:    MsgUnexpected,
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// UpstreamError creates an error for a non-success upstream status. The
// caller receives the same status when it is a valid error status, 502
// otherwise. The upstream body is kept in Details for logging only.
func UpstreamError(status int, body []byte) *AppError {
	httpStatus := status
	if httpStatus < 400 || httpStatus > 599 {
		httpStatus = http.StatusBadGateway
	}
	e := &AppError{
		Code:       ErrCodeUpstreamError,
		Message:    MsgUpstreamFailed,
		HTTPStatus: httpStatus,
	}
	e.WithDetail("upstream_status", status)
	if len(body) > 0 {
		e.WithDetail("upstream_body", string(body))
	}
	return e
}

// Unauthorized creates an error for unauthorized access.
func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = MsgAuthenticationNeeded
	}
	return New(ErrCodeUnauthorized, reason, http.StatusUnauthorized)
}

// AlreadyExists creates an error for a resource that already exists. The
// status is 400 to match the sign-up contract of the auth service.
func AlreadyExists(message string) *AppError {
	return New(ErrCodeAlreadyExists, message, http.StatusBadRequest)
}

// Internal creates an error for an unhandled local fault.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       ErrCodeInternal,
		Message:    MsgUnexpected,
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}
