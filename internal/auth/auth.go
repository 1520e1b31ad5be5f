package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/eshaffer321/flowmoney-go/internal/transport"
	"github.com/eshaffer321/flowmoney-go/internal/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const (
	loginEndpoint    = "/auth/login"
	registerEndpoint = "/auth/register"

	// DefaultLoginFailure is shown when the server gives no reason
	DefaultLoginFailure = "Invalid email or password"
)

// Service handles the unauthenticated auth endpoints and session persistence
type Service struct {
	baseURL    string
	httpClient *http.Client
	headers    map[string]string
	session    *types.Session
	logger     types.Logger
	now        func() time.Time
}

// RegisterInput is the registration payload
type RegisterInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// NewService creates a new auth service
func NewService(baseURL string, httpClient *http.Client, logger types.Logger) *Service {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: types.DefaultTimeout}
	}

	headers := map[string]string{
		"Accept":       "application/json",
		"Content-Type": "application/json",
		"User-Agent":   types.UserAgent,
	}

	return &Service{
		baseURL:    baseURL,
		httpClient: httpClient,
		headers:    headers,
		logger:     logger,
		now:        time.Now,
	}
}

// Login performs authentication
func (s *Service) Login(ctx context.Context, email, password string) error {
	reqBody := map[string]interface{}{
		"email":    email,
		"password": password,
	}

	token, err := s.post(ctx, loginEndpoint, reqBody, DefaultLoginFailure)
	if err != nil {
		return err
	}
	if token == "" {
		return &types.Error{Code: "LOGIN_FAILED", Message: DefaultLoginFailure, Err: types.ErrLoginFailed}
	}

	s.session = s.newSession(token, email)

	if s.logger != nil {
		s.logger.Info("Login successful", "email", email)
	}

	return nil
}

// Register creates an account. When the server answers with a token the
// new user is signed in straight away.
func (s *Service) Register(ctx context.Context, input *RegisterInput) (bool, error) {
	token, err := s.post(ctx, registerEndpoint, input, "Registration failed")
	if err != nil {
		return false, err
	}

	if s.logger != nil {
		s.logger.Info("Registration successful", "email", input.Email)
	}

	if token == "" {
		return false, nil
	}
	s.session = s.newSession(token, input.Email)
	return true, nil
}

// GetSession returns the current session
func (s *Service) GetSession() (*types.Session, error) {
	if s.session == nil {
		return nil, types.ErrNotAuthenticated
	}
	return s.session, nil
}

// SetSession sets the current session
func (s *Service) SetSession(session *types.Session) {
	s.session = session
}

// ClearSession forgets the session and removes its file, if any
func (s *Service) ClearSession(path string) error {
	s.session = nil
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove session file")
	}
	return nil
}

// SaveSession saves session to file
func (s *Service) SaveSession(path string) error {
	if s.session == nil {
		return types.ErrNotAuthenticated
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.Wrap(err, "failed to create session directory")
	}

	data, err := json.MarshalIndent(s.session, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal session")
	}

	// Write to file with restrictive permissions
	if err := os.WriteFile(path, data, 0600); err != nil {
		return errors.Wrap(err, "failed to write session file")
	}

	if s.logger != nil {
		s.logger.Info("Session saved", "path", path)
	}

	return nil
}

// LoadSession loads session from file
func (s *Service) LoadSession(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.ErrNotAuthenticated
		}
		return errors.Wrap(err, "failed to read session file")
	}

	var session types.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return errors.Wrap(err, "failed to unmarshal session")
	}

	if session.Token == "" {
		return types.ErrNotAuthenticated
	}

	if session.Expired(s.now()) {
		return types.ErrSessionExpired
	}

	s.session = &session

	if s.logger != nil {
		s.logger.Info("Session loaded", "path", path, "email", session.Email)
	}

	return nil
}

// NewSession builds a session for token, taking the expiry from the token when
// it is a JWT carrying an exp claim.
func NewSession(token, email string, now time.Time) *types.Session {
	return &types.Session{
		Token:     token,
		Email:     email,
		ExpiresAt: TokenExpiry(token, now),
	}
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature.
// Opaque tokens fall back to the default session lifetime.
func TokenExpiry(token string, now time.Time) time.Time {
	parser := jwt.NewParser()
	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(token, &claims); err == nil && claims.ExpiresAt != nil {
		return claims.ExpiresAt.Time
	}
	return now.Add(types.DefaultSessionLifetime)
}

func (s *Service) newSession(token, email string) *types.Session {
	return NewSession(token, email, s.now())
}

// post sends an unauthenticated request and returns data.token, if any
func (s *Service) post(ctx context.Context, endpoint string, payload interface{}, fallback string) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, transport.BuildURL(s.baseURL, endpoint, nil), bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "failed to create request")
	}

	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	if s.logger != nil {
		s.logger.Debug("Auth request", "endpoint", endpoint)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "auth request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read auth response")
	}

	if s.logger != nil {
		s.logger.Debug("Auth response", "endpoint", endpoint, "status", resp.StatusCode)
	}

	var authResp authResponse
	_ = json.Unmarshal(respBody, &authResp)

	ok := resp.StatusCode >= 200 && resp.StatusCode <= 299 && authResp.Success
	if !ok {
		msg := authResp.Message
		if msg == "" {
			msg = fallback
		}
		apiErr := &types.Error{
			Code:          "AUTH_FAILED",
			Message:       msg,
			StatusCode:    resp.StatusCode,
			ServerMessage: authResp.Message,
		}
		if endpoint == loginEndpoint {
			apiErr.Err = types.ErrLoginFailed
		}
		return "", apiErr
	}

	if authResp.Data == nil {
		return "", nil
	}
	return authResp.Data.Token, nil
}

// authResponse represents the login and register API response
type authResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *struct {
		Token string `json:"token"`
	} `json:"data"`
}
