package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quoteoffer_backend/internal/email"
	"quoteoffer_backend/internal/events"
	apphttp "quoteoffer_backend/internal/http"
	"quoteoffer_backend/internal/http/router"
	"quoteoffer_backend/internal/notification"
	"quoteoffer_backend/internal/quoteoffers"
	"quoteoffer_backend/internal/requestquote"
	"quoteoffer_backend/internal/storage"
	"quoteoffer_backend/platform/config"
	"quoteoffer_backend/platform/db"
	"quoteoffer_backend/platform/logger"
	"quoteoffer_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// Storage service for quote file attachments (MinIO)
	var storageSvc storage.StorageService
	if cfg.IsMinIOEnabled() {
		storageSvc, err = storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}

		bucket := cfg.GetMinioBucketQuoteFiles()
		if err := withRetry(ctx, log, "ensure quote files bucket", 5, 2*time.Second, func() error {
			return storageSvc.EnsureBucketExists(ctx, bucket)
		}); err != nil {
			log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
			panic("failed to ensure storage bucket exists: " + err.Error())
		}
		log.Info("storage service initialized", "quoteFilesBucket", bucket)
	} else {
		log.Warn("MINIO_ENDPOINT not configured; file attachments disabled")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	var sender email.Sender
	if cfg.GetEmailEnabled() {
		sender = email.NewSMTPSender(cfg)
	} else {
		log.Warn("SMTP not configured; email notifications disabled")
	}
	notificationModule := notification.NewModule(sender, cfg.GetAppBaseURL(), log)
	notificationModule.RegisterHandlers(eventBus)

	quoteOffersModule, err := quoteoffers.NewModule(ctx, pool, eventBus, val, log, cfg.GetQuoteValidityDays())
	if err != nil {
		log.Error("failed to initialize quote offers module", "error", err)
		panic("failed to initialize quote offers module: " + err.Error())
	}

	if storageSvc != nil {
		quoteOffersModule.Service().SetStorage(storageSvc, cfg.GetMinioBucketQuoteFiles())
	}

	// Wire the request-quote integration so new drafts are seeded from
	// the upstream request when an id is supplied
	if cfg.IsRequestQuoteEnabled() {
		rqClient := requestquote.NewClient(cfg, log)
		rqMapper := requestquote.NewMapper(cfg.GetDefaultPhoneRegion())
		quoteOffersModule.Service().SetDraftSeeder(requestquote.NewSeeder(rqClient, rqMapper))
		log.Info("request-quote integration enabled", "baseUrl", cfg.GetRequestQuoteBaseURL())
	} else {
		log.Warn("REQUEST_QUOTE_BASE_URL not configured; drafts start empty")
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			quoteOffersModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
