package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/eshaffer321/flowmoney-go/internal/types"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

const (
	authHeaderKey   = "Authorization"
	requestIDHeader = "X-Request-ID"
	contentType     = "application/json"
)

// RESTTransport handles JSON-envelope REST communication
type RESTTransport struct {
	baseURL     string
	httpClient  *http.Client
	retryClient *retryablehttp.Client
	headers     map[string]string
	session     *types.Session
	logger      types.Logger
	hooks       *types.Hooks
	now         func() time.Time
}

// NewRESTTransport creates a new REST transport
func NewRESTTransport(opts *Options) *RESTTransport {
	if opts == nil {
		opts = &Options{}
	}

	// Set defaults
	if opts.BaseURL == "" {
		opts.BaseURL = types.DefaultBaseURL
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Timeout: types.DefaultTimeout,
		}
	}

	// Create retry client if configured
	var retryClient *retryablehttp.Client
	if opts.RetryConfig != nil {
		retryClient = retryablehttp.NewClient()
		retryClient.HTTPClient = opts.HTTPClient
		retryClient.RetryMax = opts.RetryConfig.MaxRetries
		retryClient.RetryWaitMin = opts.RetryConfig.RetryWait
		retryClient.RetryWaitMax = opts.RetryConfig.MaxWait
		// Error bodies are decoded by handleHTTPError, not by the retry client
		retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

		if opts.Logger != nil {
			retryClient.Logger = &retryLogger{logger: opts.Logger}
		} else {
			retryClient.Logger = nil
		}
	}

	// Set default headers
	headers := map[string]string{
		"Accept":       contentType,
		"Content-Type": contentType,
		"User-Agent":   types.UserAgent,
	}

	// Merge custom headers
	for k, v := range opts.Headers {
		headers[k] = v
	}

	return &RESTTransport{
		baseURL:     opts.BaseURL,
		httpClient:  opts.HTTPClient,
		retryClient: retryClient,
		headers:     headers,
		logger:      opts.Logger,
		hooks:       opts.Hooks,
		now:         time.Now,
	}
}

// Do sends an authenticated request and decodes the envelope's data into result.
// query and body may be nil.
func (t *RESTTransport) Do(ctx context.Context, method, path string, query url.Values, body, result interface{}) error {
	// Check authentication
	if t.session == nil || t.session.Token == "" {
		return types.ErrNotAuthenticated
	}

	// Check session expiry
	if t.session.Expired(t.now()) {
		return types.ErrSessionExpired
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to marshal request")
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, BuildURL(t.baseURL, path, query), reader)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}

	// Set headers
	for k, v := range t.headers {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set(authHeaderKey, "Bearer "+t.session.Token)

	requestID := uuid.New().String()
	httpReq.Header.Set(requestIDHeader, requestID)

	// Call request hook
	if t.hooks != nil && t.hooks.OnRequest != nil {
		t.hooks.OnRequest(ctx, httpReq)
	}

	if t.logger != nil {
		t.logger.Debug("API request", "method", method, "path", path, "request_id", requestID)
	}

	start := time.Now()
	resp, err := t.doRequest(httpReq)
	duration := time.Since(start)

	if err != nil {
		if t.hooks != nil && t.hooks.OnError != nil {
			t.hooks.OnError(ctx, err)
		}
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	// Call response hook
	if t.hooks != nil && t.hooks.OnResponse != nil {
		t.hooks.OnResponse(ctx, resp, duration)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response")
	}

	if t.logger != nil {
		t.logger.Debug("API response", "status", resp.StatusCode, "duration", duration, "size", len(respBody), "request_id", requestID)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := t.handleHTTPError(resp.StatusCode, respBody)
		if e, ok := apiErr.(*types.Error); ok {
			e.RequestID = requestID
		}
		return apiErr
	}

	return DecodeEnvelope(resp.StatusCode, respBody, result)
}

// SetAuth sets the authentication token
func (t *RESTTransport) SetAuth(token string) {
	if t.session == nil {
		t.session = &types.Session{}
	}
	t.session.Token = token
}

// SetSession sets the session
func (t *RESTTransport) SetSession(session *types.Session) {
	t.session = session
}

// BuildURL joins base and path with exactly one slash and appends the encoded query.
func BuildURL(base, path string, query url.Values) string {
	u := strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// DecodeEnvelope unpacks a successful response body. A body that is a bare JSON
// array is accepted as the data itself.
func DecodeEnvelope(statusCode int, body []byte, result interface{}) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}

	if trimmed[0] == '[' {
		if result == nil {
			return nil
		}
		return errors.Wrap(json.Unmarshal(trimmed, result), "failed to unmarshal result")
	}

	var env types.Envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return errors.Wrap(err, "failed to parse response")
	}

	if env.Failed() {
		return &types.Error{
			Code:          "REQUEST_FAILED",
			Message:       env.Message,
			StatusCode:    statusCode,
			ServerMessage: env.Message,
		}
	}

	if result != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return errors.Wrap(err, "failed to unmarshal result")
		}
	}

	return nil
}

// doRequest executes the HTTP request with retry if configured
func (t *RESTTransport) doRequest(req *http.Request) (*http.Response, error) {
	if t.retryClient != nil {
		retryReq, err := retryablehttp.FromRequest(req)
		if err != nil {
			return nil, err
		}
		return t.retryClient.Do(retryReq)
	}
	return t.httpClient.Do(req)
}

// handleHTTPError maps a non-2xx response to an error, keeping the server's
// message whenever the body carries one.
func (t *RESTTransport) handleHTTPError(statusCode int, body []byte) error {
	var errResp struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}

	_ = json.Unmarshal(body, &errResp)

	msg := errResp.Message
	if msg == "" {
		var s string
		if json.Unmarshal(errResp.Error, &s) == nil {
			msg = s
		}
	}

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &types.Error{
			Code:          "UNAUTHORIZED",
			Message:       msg,
			StatusCode:    statusCode,
			ServerMessage: msg,
			Err:           types.ErrNotAuthenticated,
		}
	case http.StatusNotFound:
		return &types.Error{
			Code:          "NOT_FOUND",
			Message:       msg,
			StatusCode:    statusCode,
			ServerMessage: msg,
			Err:           types.ErrNotFound,
		}
	case http.StatusTooManyRequests:
		return &types.Error{
			Code:          "RATE_LIMITED",
			Message:       msg,
			StatusCode:    statusCode,
			ServerMessage: msg,
			Err:           types.ErrRateLimited,
		}
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return &types.Error{
			Code:          "TIMEOUT",
			Message:       msg,
			StatusCode:    statusCode,
			ServerMessage: msg,
			Err:           types.ErrTimeout,
		}
	case http.StatusBadRequest:
		return &types.Error{
			Code:          "BAD_REQUEST",
			Message:       msg,
			StatusCode:    statusCode,
			ServerMessage: msg,
		}
	default:
		if statusCode >= 500 {
			baseMsg := fmt.Sprintf("server error: %d", statusCode)
			if desc := httpStatusDescription(statusCode); desc != "" {
				baseMsg = fmt.Sprintf("server error: %d (%s)", statusCode, desc)
			}
			if msg != "" {
				baseMsg = fmt.Sprintf("%s: %s", baseMsg, msg)
			}

			return &types.Error{
				Code:          "SERVER_ERROR",
				Message:       baseMsg,
				StatusCode:    statusCode,
				ServerMessage: msg,
				Err:           types.ErrServerError,
			}
		}
		display := msg
		if display == "" {
			display = fmt.Sprintf("HTTP error: %d", statusCode)
		}
		return &types.Error{
			Code:          "HTTP_ERROR",
			Message:       display,
			StatusCode:    statusCode,
			ServerMessage: msg,
		}
	}
}

// httpStatusDescription returns a human-readable description for common HTTP status codes.
func httpStatusDescription(statusCode int) string {
	descriptions := map[int]string{
		500: "Internal Server Error",
		501: "Not Implemented",
		502: "Bad Gateway",
		503: "Service Unavailable",
		504: "Gateway Timeout",
	}
	return descriptions[statusCode]
}

// Options for REST transport
type Options struct {
	BaseURL     string
	HTTPClient  *http.Client
	Headers     map[string]string
	RetryConfig *types.RetryConfig
	Logger      types.Logger
	Hooks       *types.Hooks
}

// retryLogger adapts our logger to retryablehttp
type retryLogger struct {
	logger types.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, keysAndValues...)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, keysAndValues...)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, keysAndValues...)
}
