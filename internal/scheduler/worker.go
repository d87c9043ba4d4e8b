package scheduler

import (
	"context"
	"time"

	"quoteoffer_backend/platform/config"
	"quoteoffer_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// ExpirySweeper marks overdue offers as expired.
type ExpirySweeper interface {
	ExpireOverdue(ctx context.Context, now time.Time) (int, error)
}

// Worker consumes scheduler tasks.
type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	sweeper ExpirySweeper
	log     *logger.Logger
}

func NewWorker(cfg config.RedisConfig, sweeper ExpirySweeper, log *logger.Logger) *Worker {
	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(redisClientOpt(cfg), asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:  server,
		mux:     mux,
		sweeper: sweeper,
		log:     log,
	}

	mux.HandleFunc(TaskOfferExpirySweep, w.handleOfferExpirySweep)

	return w
}

func (w *Worker) handleOfferExpirySweep(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseOfferExpirySweepPayload(task)
	if err != nil {
		return err
	}

	now := payload.SweepAt
	if now.IsZero() {
		now = time.Now().UTC()
	}

	expired, err := w.sweeper.ExpireOverdue(ctx, now)
	if err != nil {
		return err
	}

	if expired > 0 {
		w.log.Info("expiry sweep marked offers expired", "count", expired)
	}
	return nil
}

// Run serves tasks until the context is canceled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
