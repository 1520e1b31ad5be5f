package types

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Session represents an authenticated session
type Session struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session has a deadline that has passed
func (s *Session) Expired(now time.Time) bool {
	return s != nil && !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Envelope is the wrapper every API response is delivered in
type Envelope struct {
	Data    json.RawMessage `json:"data,omitempty"`
	Success *bool           `json:"success,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   json.RawMessage `json:"error,omitempty"`
}

// Failed reports whether the envelope itself signals a failure, regardless of
// the HTTP status it arrived with.
func (e *Envelope) Failed() bool {
	if e.Success != nil && !*e.Success {
		return true
	}
	switch string(e.Error) {
	case "", "null", "false", `""`:
		return false
	}
	return true
}

// Logger interface for logging
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// RetryConfig configures retry behavior
type RetryConfig struct {
	MaxRetries int           `json:"maxRetries"`
	RetryWait  time.Duration `json:"retryWait"`
	MaxWait    time.Duration `json:"maxWait"`
}

// Hooks provides lifecycle hooks for requests
type Hooks struct {
	OnRequest  func(ctx context.Context, req *http.Request)
	OnResponse func(ctx context.Context, resp *http.Response, duration time.Duration)
	OnError    func(ctx context.Context, err error)
}
