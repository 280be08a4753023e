// Command refresh runs the pipeline once and prints the run report as JSON.
// It exits non-zero when the run produced no ranked articles.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"newsdesk/internal/bootstrap"
	"newsdesk/internal/observability/logging"
)

func main() {
	pretty := flag.Bool("pretty", true, "indent the JSON report")
	flag.Parse()

	logger := logging.New(os.Stderr, logging.FormatText, logging.ParseLevel(os.Getenv("LOG_LEVEL")))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	components, err := bootstrap.Build(ctx, logger)
	if err != nil {
		logger.Error("failed to build pipeline", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = components.Close() }()

	ctx, cancel := context.WithTimeout(ctx, components.Refresh.Timeout)
	defer cancel()

	report, runErr := components.Pipeline.Run(ctx)
	if report != nil {
		enc := json.NewEncoder(os.Stdout)
		if *pretty {
			enc.SetIndent("", "  ")
		}
		if err := enc.Encode(report); err != nil {
			logger.Error("failed to encode report", slog.Any("error", err))
		}
	}
	if runErr != nil {
		logger.Error("refresh run failed", slog.Any("error", runErr))
		_ = components.Close()
		cancel()
		stop()
		os.Exit(1)
	}
}
