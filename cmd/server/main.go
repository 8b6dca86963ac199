package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/app"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/featureflags"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/infrastructure/logger"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/observability/metrics"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/observability/tracing"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/security"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/security/middleware"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/security/ratelimit"
	"github.com/Spectronyx/rent-manager-app-sub000/internal/worker"
	"github.com/Spectronyx/rent-manager-app-sub000/pkg/config"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("starting rent manager server",
		slog.String("environment", cfg.Environment),
		slog.String("storage", cfg.StorageDriver),
	)
	if cfg.IsProduction() && cfg.JWTSecret == "" {
		log.Error("JWT_SECRET must be set in production")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Tracing; a no-op unless an OTLP endpoint is configured
	shutdownTracing, err := tracing.Init(ctx, log, "rent-manager", cfg.Environment)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Storage and generation lock
	store, err := app.OpenStorage(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	// 5. Services
	svc := app.NewServices(store, cfg, log)

	// 6. Security components
	rateLimiter := ratelimit.NewLimiter(cfg.RateLimitPerMinute, time.Minute)
	authz := security.NewAuthorizationService(log)

	// 7. Routes
	mux := http.NewServeMux()
	svc.Routes(store.Checks, rateLimiter, cfg.IsProduction(), log).Register(mux, authz, svc.Audit)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Chain middleware: request ID -> CORS -> metrics -> tracing -> JWT -> rate limit -> audit -> body checks
	var api http.Handler = middleware.ValidateJSONContentType(log)(mux)
	if featureflags.Enabled(featureflags.SanitizeInputs) {
		api = middleware.SanitizeInputs(log)(api)
	}
	rootHandler := middleware.RequestID(log)(
		middleware.CORS(cfg.CORSAllowedOrigins)(
			metrics.HTTPMetricsMiddleware(
				otelhttp.NewHandler(
					middleware.JWTMiddleware(svc.Tokens, log)(
						middleware.RateLimitMiddleware(rateLimiter, log)(
							middleware.AuditMiddleware(svc.Audit)(api),
						),
					),
					"rent-manager",
				),
			),
		),
	)

	// 8. Start receivables worker in background; zero interval disables it
	if cfg.ReceivablesScanMinutes > 0 && featureflags.Enabled(featureflags.ReceivablesWorker) {
		receivables := worker.NewReceivablesWorker(store.Bills, log, time.Duration(cfg.ReceivablesScanMinutes)*time.Minute)
		go receivables.Start(ctx)
	}

	// 9. Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      rootHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.String("auth", "jwt"),
		slog.Int("rate_limit", cfg.RateLimitPerMinute),
		slog.String("rate_limit_window", "1m"),
	)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", slog.String("error", err.Error()))
			sigChan <- syscall.SIGTERM
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("tracing shutdown error", slog.String("error", err.Error()))
	}

	cancel() // Stop receivables worker
	rateLimiter.Stop()
	log.Info("server stopped")
}
