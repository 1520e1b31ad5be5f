package flow

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/eshaffer321/flowmoney-go/internal/transport"
	internalTypes "github.com/eshaffer321/flowmoney-go/internal/types"
	"github.com/getsentry/sentry-go"
)

const (
	// DefaultBaseURL is the default Flow API base URL
	DefaultBaseURL = internalTypes.DefaultBaseURL

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = internalTypes.DefaultTimeout

	// UserAgent is the user agent string
	UserAgent = internalTypes.UserAgent
)

// Client is the main Flow API client
type Client struct {
	// Service interfaces
	Transactions TransactionService
	Budgets      BudgetService
	SavingsGoals SavingsGoalService
	Categories   CategoryService
	Users        UserService
	Analytics    AnalyticsService
	Auth         AuthService

	// Internal fields
	baseURL    string
	httpClient *http.Client
	transport  Transport
	options    *ClientOptions
	session    *Session
}

// ClientOptions configures the client
type ClientOptions struct {
	// BaseURL overrides the default API base URL
	BaseURL string

	// HTTPClient allows using a custom HTTP client
	HTTPClient *http.Client

	// Timeout sets the HTTP client timeout
	Timeout time.Duration

	// Token provides direct authentication token
	Token string

	// SessionFile path for session persistence
	SessionFile string

	// Logger for debug logging
	Logger Logger

	// RetryConfig configures retry behavior. Nil disables retries.
	RetryConfig *internalTypes.RetryConfig

	// RateLimiter for rate limiting
	RateLimiter RateLimiter

	// Hooks for observability
	Hooks *internalTypes.Hooks

	// SentryDSN enables Sentry error tracking when set
	SentryDSN string

	// SentryOptions allows custom Sentry configuration
	SentryOptions *sentry.ClientOptions
}

// Logger interface for logging
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// RateLimiter interface for rate limiting. *rate.Limiter satisfies it.
type RateLimiter interface {
	Wait(ctx context.Context) error
}

// Transport handles HTTP/JSON communication
type Transport interface {
	Do(ctx context.Context, method, path string, query url.Values, body, result interface{}) error
	SetAuth(token string)
	SetSession(session *internalTypes.Session)
}

// NewClient creates a new Flow client
func NewClient(opts *ClientOptions) (*Client, error) {
	if opts == nil {
		opts = &ClientOptions{}
	}

	// Initialize Sentry if DSN is provided
	if opts.SentryDSN != "" || opts.SentryOptions != nil {
		sentryOpts := sentry.ClientOptions{}

		if opts.SentryOptions != nil {
			sentryOpts = *opts.SentryOptions
		}

		if opts.SentryDSN != "" {
			sentryOpts.Dsn = opts.SentryDSN
		}

		if sentryOpts.Environment == "" {
			sentryOpts.Environment = "production"
		}

		if err := sentry.Init(sentryOpts); err != nil {
			// Log error but don't fail client creation
			if opts.Logger != nil {
				opts.Logger.Error("Failed to initialize Sentry", "error", err)
			}
		}
	}

	// Set defaults
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Timeout: DefaultTimeout,
		}
	}

	if opts.Timeout > 0 {
		opts.HTTPClient.Timeout = opts.Timeout
	}

	transportOpts := &transport.Options{
		BaseURL:     opts.BaseURL,
		HTTPClient:  opts.HTTPClient,
		RetryConfig: opts.RetryConfig,
		Hooks:       transportHooks(opts.Hooks),
	}
	if opts.Logger != nil {
		transportOpts.Logger = opts.Logger
	}
	trans := transport.NewRESTTransport(transportOpts)

	c := &Client{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		transport:  trans,
		options:    opts,
	}

	c.initServices()

	if opts.Token != "" {
		c.SetToken(opts.Token)
	}

	// Load session if file specified
	if opts.SessionFile != "" && opts.Token == "" {
		if err := c.loadSession(opts.SessionFile); err != nil && opts.Logger != nil {
			opts.Logger.Warn("Failed to load session", "error", err)
		}
	}

	return c, nil
}

// NewClientWithToken creates a client with an auth token
func NewClientWithToken(token string) (*Client, error) {
	return NewClient(&ClientOptions{
		Token: token,
	})
}

// initServices initializes all service implementations
func (c *Client) initServices() {
	c.Transactions = &transactionService{client: c}
	c.Budgets = &budgetService{client: c}
	c.SavingsGoals = &savingsGoalService{client: c}
	c.Categories = &categoryService{client: c}
	c.Users = &userService{client: c}
	c.Analytics = &analyticsService{client: c}
	c.Auth = newAuthService(c)
}

// SetToken sets the authentication token
func (c *Client) SetToken(token string) {
	c.transport.SetAuth(token)
	if c.session == nil {
		c.session = &Session{}
	}
	c.session.Token = token
}

// GetSession returns the current session
func (c *Client) GetSession() *Session {
	return c.session
}

// IsAuthenticated reports whether a usable token is held
func (c *Client) IsAuthenticated() bool {
	return c.session != nil && c.session.Token != "" && !c.session.Expired(time.Now())
}

// loadSession loads session from file
func (c *Client) loadSession(path string) error {
	if c.Auth != nil {
		return c.Auth.LoadSession(path)
	}
	return nil
}

func (c *Client) logger() Logger {
	if c.options == nil {
		return nil
	}
	return c.options.Logger
}

// execute runs one API call through the rate limiter, error capture and hooks
func (c *Client) execute(ctx context.Context, method, path string, query url.Values, body, result interface{}) error {
	// Rate limiting
	if c.options.RateLimiter != nil {
		if err := c.options.RateLimiter.Wait(ctx); err != nil {
			if hub := sentry.GetHubFromContext(ctx); hub != nil {
				hub.CaptureException(err)
			} else {
				sentry.CaptureException(err)
			}
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	start := time.Now()
	err := c.transport.Do(ctx, method, path, query, body, result)
	duration := time.Since(start)

	if err != nil {
		capture := func(scope *sentry.Scope, capture func(error) *sentry.EventID) {
			scope.SetTag("api.endpoint", method+" "+path)
			scope.SetContext("api", map[string]interface{}{
				"method":   method,
				"path":     path,
				"query":    query.Encode(),
				"duration": duration.String(),
			})
			capture(err)
		}
		if hub := sentry.GetHubFromContext(ctx); hub != nil {
			hub.WithScope(func(scope *sentry.Scope) { capture(scope, hub.CaptureException) })
		} else {
			sentry.WithScope(func(scope *sentry.Scope) { capture(scope, sentry.CaptureException) })
		}
	}

	if err != nil && c.options.Hooks != nil && c.options.Hooks.OnError != nil {
		c.options.Hooks.OnError(ctx, err)
	}

	return err
}

// Close flushes any pending Sentry events and performs cleanup
func (c *Client) Close() {
	sentry.Flush(2 * time.Second)
}

// transportHooks hands the request and response hooks to the transport, which
// sees the real HTTP exchange. Errors are reported once, from execute.
func transportHooks(h *internalTypes.Hooks) *internalTypes.Hooks {
	if h == nil {
		return nil
	}
	return &internalTypes.Hooks{
		OnRequest:  h.OnRequest,
		OnResponse: h.OnResponse,
	}
}
