package scheduler

import (
	"context"
	"time"

	"quoteoffer_backend/platform/config"
	"quoteoffer_backend/platform/logger"

	"github.com/hibiken/asynq"
)

const defaultExpirySweepInterval = time.Hour

// Client enqueues scheduler tasks.
type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		client: asynq.NewClient(redisClientOpt(cfg)),
		queue:  queueName(cfg),
	}
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueExpirySweep schedules one expiry sweep run.
func (c *Client) EnqueueExpirySweep(ctx context.Context, sweepAt time.Time) error {
	task, err := NewOfferExpirySweepTask(OfferExpirySweepPayload{SweepAt: sweepAt})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue))
	return err
}

// ExpirySweepDispatcher periodically enqueues expiry sweep tasks.
type ExpirySweepDispatcher struct {
	client   *Client
	interval time.Duration
	log      *logger.Logger
}

func NewExpirySweepDispatcher(client *Client, interval time.Duration, log *logger.Logger) *ExpirySweepDispatcher {
	if interval <= 0 {
		interval = defaultExpirySweepInterval
	}
	return &ExpirySweepDispatcher{
		client:   client,
		interval: interval,
		log:      log,
	}
}

// Run enqueues one sweep immediately and then one per interval until
// the context is canceled.
func (d *ExpirySweepDispatcher) Run(ctx context.Context) {
	if d == nil || d.client == nil {
		return
	}

	d.dispatch(ctx)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.dispatch(ctx)
		}
	}
}

func (d *ExpirySweepDispatcher) dispatch(ctx context.Context) {
	if err := d.client.EnqueueExpirySweep(ctx, time.Now().UTC()); err != nil {
		d.log.Warn("expiry sweep enqueue failed", "error", err)
	}
}

func redisClientOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.GetRedisPassword(),
		DB:       cfg.GetRedisDB(),
	}
}

func queueName(cfg config.RedisConfig) string {
	if q := cfg.GetAsynqQueueName(); q != "" {
		return q
	}
	return "default"
}
