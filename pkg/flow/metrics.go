package flow

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var idSegment = regexp.MustCompile(`/\d+(/|$)`)

// Metrics records API calls as Prometheus series
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	errors   *prometheus.CounterVec
}

// NewMetrics registers the client metrics with reg. A nil reg uses the
// default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flow_api_requests_total",
				Help: "Total number of Flow API responses by method, endpoint and status",
			},
			[]string{"method", "endpoint", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flow_api_request_duration_seconds",
				Help:    "Flow API request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flow_api_errors_total",
				Help: "Total number of failed Flow API calls by kind",
			},
			[]string{"kind"},
		),
	}
}

// Hooks returns request hooks feeding m
func (m *Metrics) Hooks() *Hooks {
	return &Hooks{
		OnResponse: func(ctx context.Context, resp *http.Response, duration time.Duration) {
			method, endpoint := "", ""
			if resp.Request != nil {
				method = resp.Request.Method
				endpoint = EndpointLabel(resp.Request.URL.Path)
			}
			m.requests.WithLabelValues(method, endpoint, strconv.Itoa(resp.StatusCode)).Inc()
			m.duration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
		},
		OnError: func(ctx context.Context, err error) {
			m.errors.WithLabelValues(ErrorKind(err)).Inc()
		},
	}
}

// EndpointLabel replaces numeric path segments so ids do not become labels
func EndpointLabel(path string) string {
	for idSegment.MatchString(path) {
		path = idSegment.ReplaceAllString(path, "/{id}$1")
	}
	return path
}

// ErrorKind names the class of err for metrics and logs
func ErrorKind(err error) string {
	var verrs *ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return "validation"
	case IsAuthError(err):
		return "auth"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ErrServerError):
		return "server"
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return "request"
	}
	return "network"
}
