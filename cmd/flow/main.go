package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/eshaffer321/flowmoney-go/internal/config"
	"github.com/eshaffer321/flowmoney-go/internal/render"
	"github.com/eshaffer321/flowmoney-go/pkg/flow"
	"github.com/mattn/go-isatty"
	"golang.org/x/time/rate"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	base := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
	logger := base.With("component", "cli")

	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg, base, os.Stdout, isatty.IsTerminal(os.Stdout.Fd()))
	if err != nil {
		logger.Error("Failed to create client", "error", err)
		os.Exit(1)
	}
	defer a.client.Close()

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", flow.UserMessage(err, err.Error()))
		logger.Debug("Command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

// newApp builds the client from configuration. Each side gets its own
// component attribute on top of base.
func newApp(cfg *config.Config, base *slog.Logger, out io.Writer, styled bool) (*app, error) {
	opts := &flow.ClientOptions{
		BaseURL:     cfg.APIURL,
		Timeout:     cfg.Timeout,
		Token:       cfg.Token,
		SessionFile: cfg.SessionFile,
		Logger:      flow.NewSlogLogger(base.With("component", "client")),
		RetryConfig: cfg.RetryConfig(),
		SentryDSN:   cfg.SentryDSN,
	}
	if cfg.RateLimit > 0 {
		opts.RateLimiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	client, err := flow.NewClient(opts)
	if err != nil {
		return nil, err
	}

	return &app{
		client:   client,
		renderer: render.New(styled),
		out:      out,
		in:       os.Stdin,
		logger:   base.With("component", "cli"),
	}, nil
}
