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

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Alan16168/review-system-sub000/docs"
	"github.com/Alan16168/review-system-sub000/internal/auth"
	"github.com/Alan16168/review-system-sub000/internal/config"
	"github.com/Alan16168/review-system-sub000/internal/database"
	"github.com/Alan16168/review-system-sub000/internal/handlers"
	"github.com/Alan16168/review-system-sub000/internal/logger"
	"github.com/Alan16168/review-system-sub000/internal/metrics"
	"github.com/Alan16168/review-system-sub000/internal/middleware"
	"github.com/Alan16168/review-system-sub000/internal/repository"
	"github.com/Alan16168/review-system-sub000/internal/service"
	"github.com/Alan16168/review-system-sub000/internal/vault"
	"github.com/Alan16168/review-system-sub000/migrations"
)

// @title Review System Answer Set API
// @version 1.0
// @description Versioned answer sets and batch locks for reviews.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger.Setup(logger.Config{Level: cfg.Log.Level})
	slog.Info("Starting application", "name", cfg.App.Name, "version", cfg.App.Version, "env", cfg.App.Env)

	if err := run(cfg); err != nil {
		slog.Error("Application stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Vault.Enabled {
		if err := loadVaultSecrets(ctx, cfg); err != nil {
			return err
		}
	}
	if err := cfg.ValidateSecrets(); err != nil {
		return err
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	slog.Info("Database connection established", "host", cfg.Database.Host, "name", cfg.Database.Name)

	if cfg.Database.RunMigrations {
		if err := database.NewMigrationExecutor(db.DB, migrations.Files).RunMigrations(ctx); err != nil {
			return err
		}
		slog.Info("Database migrations completed")
	}

	tokens, err := auth.NewService(&cfg.JWT)
	if err != nil {
		return err
	}
	slog.Info("JWT verification configured", "algorithm", tokens.Algorithm())

	m := metrics.New("review_system")

	answerRepo := repository.NewAnswerSetRepository(db.DB)
	reviewRepo := repository.NewReviewRepository(db.DB)
	auditRepo := repository.NewAuditRepository(db.DB)

	auditSvc := service.NewAuditService(auditRepo)
	lockSvc := service.NewLockService(db.DB, answerRepo, reviewRepo, auditSvc, m)
	answerSetSvc := service.NewAnswerSetService(db.DB, answerRepo, reviewRepo, lockSvc, m)
	reviewSvc := service.NewReviewService(db.DB, reviewRepo, auditSvc)

	authMw := middleware.NewAuthMiddleware(tokens)
	corsMw := middleware.NewCORSMiddleware(&cfg.CORS)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit)
	defer rateLimiter.Stop()

	routes := &handlers.Routes{
		AnswerSets: handlers.NewAnswerSetHandler(answerSetSvc, lockSvc),
		Reviews:    handlers.NewReviewHandler(reviewSvc),
		Audit:      handlers.NewAuditHandler(auditSvc),
	}

	mux := http.NewServeMux()
	routes.Register(mux, authMw.Authenticate)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.HealthCheck(r.Context()); err != nil {
			slog.Error("Health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unhealthy","database":"error"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy","version":"` + cfg.App.Version + `"}`))
	})
	mux.Handle("GET /metrics", m.Handler())

	docs.SwaggerInfo.Version = cfg.App.Version
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	handler := middleware.LoggingMiddleware(
		middleware.Metrics(m)(
			middleware.SecurityHeaders(
				corsMw.Handler(
					rateLimiter.Limit(
						middleware.ClientInfo(mux),
					),
				),
			),
		),
	)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.TimeoutRead,
		WriteTimeout: cfg.Server.TimeoutWrite,
		IdleTimeout:  cfg.Server.TimeoutIdle,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

func loadVaultSecrets(ctx context.Context, cfg *config.Config) error {
	client, err := vault.NewClient(&cfg.Vault)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.Health(ctx); err != nil {
		return err
	}
	if err := client.ApplySecrets(ctx, cfg); err != nil {
		if errors.Is(err, vault.ErrSecretNotFound) {
			slog.Warn("No secrets stored in Vault, keeping environment values", "path", cfg.Vault.SecretPath)
			return nil
		}
		return err
	}
	return nil
}
