package types

import "fmt"

// Error represents an API error
type Error struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	RequestID  string `json:"requestId,omitempty"`

	// ServerMessage is the body's message field exactly as received
	ServerMessage string `json:"serverMessage,omitempty"`

	Err error `json:"-"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("error: %s", e.Code)
}

// Unwrap returns the wrapped sentinel, if any
func (e *Error) Unwrap() error {
	return e.Err
}
