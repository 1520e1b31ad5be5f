package flow

import (
	"errors"
	"fmt"
	"strings"

	internalTypes "github.com/eshaffer321/flowmoney-go/internal/types"
)

var (
	// ErrNotAuthenticated is returned when authentication is required
	ErrNotAuthenticated = internalTypes.ErrNotAuthenticated

	// ErrLoginFailed is returned when login fails
	ErrLoginFailed = internalTypes.ErrLoginFailed

	// ErrSessionExpired is returned when session has expired
	ErrSessionExpired = internalTypes.ErrSessionExpired

	// ErrRateLimited is returned when rate limited
	ErrRateLimited = internalTypes.ErrRateLimited

	// ErrTimeout is returned on timeout
	ErrTimeout = internalTypes.ErrTimeout

	// ErrNotFound is returned when resource not found
	ErrNotFound = internalTypes.ErrNotFound

	// ErrServerError is returned for server errors
	ErrServerError = internalTypes.ErrServerError

	// ErrInvalidRequest is returned when client-side validation rejects a request
	ErrInvalidRequest = errors.New("invalid request")
)

// Error represents an API error. Message is the server's own wording when it
// sent one.
type Error = internalTypes.Error

// ValidationError represents validation errors
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors struct {
	Errors []*ValidationError `json:"errors"`
}

// Error implements the error interface
func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msgs := make([]string, 0, len(e.Errors))
	for _, ve := range e.Errors {
		msgs = append(msgs, ve.Field+": "+ve.Message)
	}
	return fmt.Sprintf("%d validation errors occurred: %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Is lets errors.Is(err, ErrInvalidRequest) match any validation failure
func (e *ValidationErrors) Is(target error) bool {
	return target == ErrInvalidRequest
}

// Field returns the message for a field, or "" when the field passed
func (e *ValidationErrors) Field(name string) string {
	for _, ve := range e.Errors {
		if ve.Field == name {
			return ve.Message
		}
	}
	return ""
}

// NewError creates a new API error
func NewError(code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an error with additional context
func WrapError(err error, code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// UserMessage returns the text to show next to a failed form: the server's
// message verbatim when it sent one, the first validation message for a
// client-side rejection, else fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var verrs *ValidationErrors
	if errors.As(err, &verrs) && len(verrs.Errors) > 0 {
		return verrs.Errors[0].Message
	}

	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.ServerMessage != "" {
		return apiErr.ServerMessage
	}

	return fallback
}

// IsAuthError checks if error is authentication related
func IsAuthError(err error) bool {
	return errors.Is(err, ErrNotAuthenticated) ||
		errors.Is(err, ErrLoginFailed) ||
		errors.Is(err, ErrSessionExpired)
}

// IsRetryable checks if error is retryable
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrServerError) {
		return true
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500 || apiErr.StatusCode == 429
	}

	return false
}
