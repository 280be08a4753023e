package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"newsdesk/internal/bootstrap"
	hhttp "newsdesk/internal/handler/http"
	"newsdesk/internal/handler/http/digest"
	"newsdesk/internal/handler/http/requestid"
	"newsdesk/internal/infra/worker"
	"newsdesk/internal/observability/logging"
	"newsdesk/internal/observability/tracing"
	"newsdesk/internal/usecase/refresh"
	envconfig "newsdesk/pkg/config"
)

func main() {
	logger := initLogger()
	version := envconfig.GetEnvString("VERSION", "dev")

	shutdownTracing := tracing.Setup(tracing.LoadConfigFromEnv(logger), version)
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("tracer shutdown failed", slog.Any("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	components, err := bootstrap.Build(ctx, logger)
	if err != nil {
		logger.Error("failed to build pipeline", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := components.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	workerCfg := worker.LoadConfigFromEnv(logger)
	loc, err := time.LoadLocation(workerCfg.Timezone)
	if err != nil {
		logger.Warn("invalid timezone, using UTC", slog.String("timezone", workerCfg.Timezone))
		loc = time.UTC
	}

	orchestrator := refresh.NewOrchestrator(components.Pipeline, components.Refresh, refresh.WithLocation(loc))
	chain := refresh.NewFallbackChain(orchestrator, components.Pipeline, components.Refresh.EmergencyTTL)
	ready := func() bool { return orchestrator.Scheduled() || orchestrator.Snapshot() != nil }

	handler := setupHandler(logger, version, components, orchestrator, chain, ready)
	runServers(ctx, logger, handler, workerCfg, orchestrator, ready, version)
}

// initLogger builds the process logger and installs it as the slog default.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// setupHandler registers the digest and probe routes and applies middleware.
// Order: Request ID → Tracing → Recovery → Logging → Body Limit → Metrics → Timeout.
func setupHandler(
	logger *slog.Logger,
	version string,
	components *bootstrap.Components,
	orchestrator *refresh.Orchestrator,
	chain *refresh.Chain,
	ready func() bool,
) http.Handler {
	mux := http.NewServeMux()
	digest.Register(mux, chain, orchestrator, components.Registry)

	mux.Handle("GET /health", &hhttp.HealthHandler{
		Version:  version,
		Cache:    orchestrator,
		Breakers: components.Registry,
		DB:       components.DB,
	})
	mux.Handle("GET /health/ready", &hhttp.ReadyHandler{Ready: ready})
	mux.Handle("GET /health/live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	requestTimeout := envconfig.GetEnvDuration("HTTP_REQUEST_TIMEOUT", components.Refresh.Timeout)
	maxBody := envconfig.GetEnvInt64("HTTP_MAX_BODY_BYTES", 1<<20)

	return hhttp.Chain(mux,
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Recover(logger),
		hhttp.Logging(logger),
		hhttp.LimitRequestBody(maxBody),
		hhttp.MetricsMiddleware,
		hhttp.Timeout(requestTimeout),
	)
}

// runServers starts the API server, the probe server and the refresh
// scheduler, and shuts all three down when ctx is done.
func runServers(
	ctx context.Context,
	logger *slog.Logger,
	handler http.Handler,
	workerCfg worker.Config,
	orchestrator *refresh.Orchestrator,
	ready func() bool,
	version string,
) {
	addr := envconfig.GetEnvString("HTTP_ADDR", ":8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := orchestrator.Run(ctx); err != nil {
			logger.Error("refresh scheduler failed", slog.Any("error", err))
		}
	}()

	healthServer := worker.NewHealthServer(workerCfg.HealthAddr(), logger, ready)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}

	wg.Wait()
	logger.Info("server stopped")
}
