package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"zillowlike.app/api/common/logger"
	"zillowlike.app/api/internal/queue"
)

// maxClaimRounds bounds one sweep so a huge backlog cannot starve Stop.
const maxClaimRounds = 10

type RedisReclaimerConfig struct {
	Stream    string
	Group     string
	Consumer  string
	MinIdle   time.Duration
	Interval  time.Duration
	BatchSize int64
}

// Acker drops a message from the group's pending list.
type Acker interface {
	Ack(ctx context.Context, msg queue.Message) error
}

// RedisReclaimer takes over lead tasks that sat unacknowledged longer than
// MinIdle, e.g. because a worker died between reading and acking them.
type RedisReclaimer struct {
	client    *redis.Client
	cfg       RedisReclaimerConfig
	acker     Acker
	processor queue.MessageProcessor

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func NewRedisReclaimer(client *redis.Client, cfg RedisReclaimerConfig, acker Acker, processor queue.MessageProcessor) *RedisReclaimer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	return &RedisReclaimer{
		client:    client,
		cfg:       cfg,
		acker:     acker,
		processor: processor,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Run sweeps on every tick until Stop is called or ctx ends.
func (r *RedisReclaimer) Run(ctx context.Context) {
	defer close(r.stoppedCh)
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "worker.reclaimer"})

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "lead task reclaimer started",
		"stream", r.cfg.Stream, "min_idle", r.cfg.MinIdle, "interval", r.cfg.Interval)

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return
		case <-ticker.C:
			claimed, err := r.sweep(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "reclaim sweep failed", "error", err, "claimed", claimed)
			} else if claimed > 0 {
				slog.InfoContext(ctx, "reclaim sweep finished", "claimed", claimed)
			}
		}
	}
}

func (r *RedisReclaimer) Stop() {
	close(r.stopCh)
	<-r.stoppedCh
}

// sweep walks the pending list with XAUTOCLAIM, taking ownership of idle
// entries and handing each to the processor.
func (r *RedisReclaimer) sweep(ctx context.Context) (int, error) {
	cursor := "0-0"
	claimed := 0
	for range maxClaimRounds {
		msgs, next, err := r.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   r.cfg.Stream,
			Group:    r.cfg.Group,
			Consumer: r.cfg.Consumer,
			MinIdle:  r.cfg.MinIdle,
			Start:    cursor,
			Count:    r.cfg.BatchSize,
		}).Result()
		if err != nil {
			return claimed, fmt.Errorf("xautoclaim: %w", err)
		}

		for _, raw := range msgs {
			claimed++
			r.handle(ctx, raw)
		}

		if next == "0-0" || len(msgs) == 0 {
			return claimed, nil
		}
		cursor = next
	}
	return claimed, nil
}

func (r *RedisReclaimer) handle(ctx context.Context, raw redis.XMessage) {
	msgID := raw.ID
	ctx = logger.WithLogFields(ctx, logger.LogFields{MessageID: &msgID})

	msg, err := queue.ParseMessage(raw)
	if err != nil {
		// A malformed entry would be reclaimed forever.
		slog.ErrorContext(ctx, "dropping unparseable lead task", "error", err)
		if ackErr := r.acker.Ack(ctx, queue.Message{ID: raw.ID, Raw: raw}); ackErr != nil {
			slog.ErrorContext(ctx, "failed to ack unparseable lead task", "error", ackErr)
		}
		return
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{LeadID: &msg.LeadID})
	slog.InfoContext(ctx, "reclaimed lead task", "task_type", msg.TaskType, "attempt", msg.Attempt)

	if err := r.processor(ctx, msg); err != nil {
		slog.WarnContext(ctx, "reclaimed lead task failed", "error", err)
	}
}
