package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eshaffer321/flowmoney-go/internal/config"
	"github.com/eshaffer321/flowmoney-go/pkg/flow"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

func main() {
	cfg := config.Load()

	// stdout carries the MCP protocol, so logs go to stderr
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Level(),
	})).With("component", "mcp")

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := flow.NewMetrics(reg)

	opts := &flow.ClientOptions{
		BaseURL:     cfg.APIURL,
		Timeout:     cfg.Timeout,
		Token:       cfg.Token,
		SessionFile: cfg.SessionFile,
		Logger:      flow.NewSlogLogger(logger.With("component", "client")),
		RetryConfig: cfg.RetryConfig(),
		Hooks:       metrics.Hooks(),
		SentryDSN:   cfg.SentryDSN,
	}
	if cfg.RateLimit > 0 {
		opts.RateLimiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	client, err := flow.NewClient(opts)
	if err != nil {
		logger.Error("Failed to initialize Flow client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	if !client.IsAuthenticated() {
		logger.Error("FLOW_TOKEN or a saved session from 'flow login' is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		srv := serveMetrics(cfg.MetricsAddr, reg, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "flow-money",
		Version: "1.0.0",
	}, nil)

	registerTools(server, client)

	// Run server over stdio transport (for desktop MCP clients)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", "error", err)
		}
	}()

	return srv
}

func registerTools(server *mcp.Server, client *flow.Client) {
	tools := &flowTools{client: client, now: time.Now}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_transactions",
		Description: "Get one page of transactions, optionally narrowed by a search query, type (INCOME or EXPENSE) and date range. Filters apply to the fetched page only. Returns rows with date, amount, type, description and category, plus income, expense and net totals of the rows.",
	}, tools.GetTransactions)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_budget_month",
		Description: "Get the budgets of one month with their limits, spending and usage tier (normal, warning or over-budget), plus the month totals.",
	}, tools.GetBudgetMonth)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_savings_goals",
		Description: "Get all savings goals ordered by nearest deadline, with progress and the time left until each deadline.",
	}, tools.GetSavingsGoals)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_summary",
		Description: "Get the account summary: total balance, income and expenses with transaction counts, and monthly income and expense trends.",
	}, tools.GetSummary)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_categories",
		Description: "Get the transaction categories, optionally only INCOME or EXPENSE ones.",
	}, tools.GetCategories)
}
