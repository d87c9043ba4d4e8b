package scheduler

import (
	"context"
	"testing"
	"time"

	"quoteoffer_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

type testRedisConfig struct {
	addr string
}

func (c testRedisConfig) GetRedisAddr() string                  { return c.addr }
func (c testRedisConfig) GetRedisPassword() string              { return "" }
func (c testRedisConfig) GetRedisDB() int                       { return 0 }
func (c testRedisConfig) GetAsynqQueueName() string             { return "default" }
func (c testRedisConfig) GetAsynqConcurrency() int              { return 1 }
func (c testRedisConfig) GetExpirySweepInterval() time.Duration { return time.Hour }

type countingSweeper struct {
	calls int
	now   time.Time
	count int
	err   error
}

func (s *countingSweeper) ExpireOverdue(_ context.Context, now time.Time) (int, error) {
	s.calls++
	s.now = now
	return s.count, s.err
}

func TestOfferExpirySweepPayloadRoundtrip(t *testing.T) {
	at := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	task, err := NewOfferExpirySweepTask(OfferExpirySweepPayload{SweepAt: at})
	if err != nil {
		t.Fatalf("NewOfferExpirySweepTask: %v", err)
	}
	if task.Type() != TaskOfferExpirySweep {
		t.Errorf("task type = %q, want %q", task.Type(), TaskOfferExpirySweep)
	}

	payload, err := ParseOfferExpirySweepPayload(task)
	if err != nil {
		t.Fatalf("ParseOfferExpirySweepPayload: %v", err)
	}
	if !payload.SweepAt.Equal(at) {
		t.Errorf("sweepAt = %s, want %s", payload.SweepAt, at)
	}
}

func TestWorkerHandlerRunsSweepWithPayloadTime(t *testing.T) {
	sweeper := &countingSweeper{count: 3}
	w := &Worker{sweeper: sweeper, log: logger.New("test")}

	at := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	task, err := NewOfferExpirySweepTask(OfferExpirySweepPayload{SweepAt: at})
	if err != nil {
		t.Fatalf("NewOfferExpirySweepTask: %v", err)
	}

	if err := w.handleOfferExpirySweep(context.Background(), task); err != nil {
		t.Fatalf("handleOfferExpirySweep: %v", err)
	}
	if sweeper.calls != 1 {
		t.Fatalf("sweeper calls = %d, want 1", sweeper.calls)
	}
	if !sweeper.now.Equal(at) {
		t.Errorf("sweep time = %s, want payload time %s", sweeper.now, at)
	}
}

func TestWorkerHandlerDefaultsZeroSweepTime(t *testing.T) {
	sweeper := &countingSweeper{}
	w := &Worker{sweeper: sweeper, log: logger.New("test")}

	task, err := NewOfferExpirySweepTask(OfferExpirySweepPayload{})
	if err != nil {
		t.Fatalf("NewOfferExpirySweepTask: %v", err)
	}

	if err := w.handleOfferExpirySweep(context.Background(), task); err != nil {
		t.Fatalf("handleOfferExpirySweep: %v", err)
	}
	if sweeper.now.IsZero() {
		t.Error("zero payload time should be replaced with the current time")
	}
}

func TestClientEnqueuesSweepTask(t *testing.T) {
	srv := miniredis.RunT(t)

	cfg := testRedisConfig{addr: srv.Addr()}
	client := NewClient(cfg)
	defer func() { _ = client.Close() }()

	if err := client.EnqueueExpirySweep(context.Background(), time.Now().UTC()); err != nil {
		t.Fatalf("EnqueueExpirySweep: %v", err)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: srv.Addr()})
	defer func() { _ = inspector.Close() }()

	pending, err := inspector.ListPendingTasks("default")
	if err != nil {
		t.Fatalf("ListPendingTasks: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending tasks = %d, want 1", len(pending))
	}
	if pending[0].Type != TaskOfferExpirySweep {
		t.Errorf("task type = %q, want %q", pending[0].Type, TaskOfferExpirySweep)
	}
}
