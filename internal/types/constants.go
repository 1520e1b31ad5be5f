package types

import (
	"errors"
	"time"
)

const (
	// DefaultBaseURL is the default Flow API base URL
	DefaultBaseURL = "http://localhost:8080/api/v1"

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 10 * time.Second

	// DefaultSessionLifetime applies when the token carries no expiry of its own
	DefaultSessionLifetime = 7 * 24 * time.Hour

	// UserAgent is the user agent string
	UserAgent = "flowmoney-go/1.0.0"
)

// Common errors
var (
	// ErrNotAuthenticated is returned when authentication is required
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrLoginFailed is returned when login fails
	ErrLoginFailed = errors.New("login failed")

	// ErrSessionExpired is returned when session has expired
	ErrSessionExpired = errors.New("session expired")

	// ErrRateLimited is returned when rate limited
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout is returned on timeout
	ErrTimeout = errors.New("request timeout")

	// ErrNotFound is returned when resource not found
	ErrNotFound = errors.New("resource not found")

	// ErrServerError is returned for server errors
	ErrServerError = errors.New("server error")
)
