package errors

import (
	stderrors "errors"
)

// ErrorResponse is the JSON body returned to clients: a single error string.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the body shape of the auth service: a single message string.
type MessageResponse struct {
	Message string `json:"message"`
}

// ToResponse converts an AppError to an ErrorResponse for JSON serialization.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message}
}

// ToMessageResponse converts an AppError to a MessageResponse.
func (e *AppError) ToMessageResponse() MessageResponse {
	return MessageResponse{Message: e.Message}
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// Wrap returns err as an AppError, wrapping unknown errors as Internal.
// It returns nil for a nil error.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}
