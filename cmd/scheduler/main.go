package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quoteoffer_backend/internal/email"
	"quoteoffer_backend/internal/events"
	"quoteoffer_backend/internal/notification"
	"quoteoffer_backend/internal/quoteoffers/repository"
	"quoteoffer_backend/internal/quoteoffers/service"
	"quoteoffer_backend/internal/scheduler"
	"quoteoffer_backend/platform/config"
	"quoteoffer_backend/platform/db"
	"quoteoffer_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	eventBus := events.NewInMemoryBus(log)

	// The expiry sweep publishes OfferExpired events; subscribe the
	// notification module so clients are told their offer lapsed.
	var sender email.Sender
	if cfg.GetEmailEnabled() {
		sender = email.NewSMTPSender(cfg)
	} else {
		log.Warn("SMTP not configured; email notifications disabled")
	}
	notificationModule := notification.NewModule(sender, cfg.GetAppBaseURL(), log)
	notificationModule.RegisterHandlers(eventBus)

	repo, err := repository.New(pool)
	if err != nil {
		log.Error("failed to initialize quote offer repository", "error", err)
		panic("failed to initialize quote offer repository: " + err.Error())
	}

	seq := service.NewSequenceService(repo, log)
	seq.Init(ctx)

	svc := service.New(repo, seq, log, cfg.GetQuoteValidityDays())
	svc.SetEventBus(eventBus)

	client := scheduler.NewClient(cfg)
	defer func() { _ = client.Close() }()

	dispatcher := scheduler.NewExpirySweepDispatcher(client, cfg.GetExpirySweepInterval(), log)
	go dispatcher.Run(ctx)

	worker := scheduler.NewWorker(cfg, svc, log)
	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
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
