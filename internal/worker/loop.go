// Package worker runs the polling loop that feeds queued generation jobs to
// the processor. A worker executes at most one job at a time; horizontal
// scaling relies on the queue's atomic claim, not on anything here.
package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"LetterForge/internal/models"
)

type Queue interface {
	FetchNextPending(ctx context.Context) (*models.QueueItem, error)
}

type JobProcessor interface {
	Process(ctx context.Context, id uuid.UUID) error
}

type Config struct {
	// PollInterval is the idle sleep between polls when the queue is empty.
	PollInterval time.Duration

	// RetryDelay is the first delay after a failed iteration; it doubles per
	// consecutive failure up to MaxRetryDelay.
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration

	// After MaxConsecutiveErrors failed iterations in a row the loop sleeps
	// for ErrorCooldown before resuming normal polling. This guards against
	// systemic failure storms and is independent of any single job's
	// attempts counter.
	MaxConsecutiveErrors int
	ErrorCooldown        time.Duration
}

type Loop struct {
	queue     Queue
	processor JobProcessor
	cfg       Config
	logger    *zap.Logger

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

func New(queue Queue, processor JobProcessor, cfg Config, logger *zap.Logger) *Loop {
	return &Loop{
		queue:     queue,
		processor: processor,
		cfg:       cfg,
		logger:    logger,
		sleep:     sleepContext,
	}
}

// Run polls until the context is cancelled. A job failure never stops the
// loop; it only feeds the consecutive-failure accounting.
func (l *Loop) Run(ctx context.Context) error {
	consecutive := 0

	for {
		if err := ctx.Err(); err != nil {
			l.logger.Info("worker loop shutting down")
			return err
		}

		item, err := l.queue.FetchNextPending(ctx)
		if err != nil {
			l.logger.Error("failed to poll queue", zap.Error(err))
			consecutive++
			if err := l.pause(ctx, &consecutive); err != nil {
				return err
			}
			continue
		}

		if item == nil {
			if err := l.sleep(ctx, l.cfg.PollInterval); err != nil {
				return err
			}
			continue
		}

		if err := l.processor.Process(ctx, item.ID); err != nil {
			consecutive++
			if err := l.pause(ctx, &consecutive); err != nil {
				return err
			}
			continue
		}

		consecutive = 0
	}
}

// pause sleeps between failed iterations: exponential delay per consecutive
// failure, and a full cooldown once the storm threshold is hit.
func (l *Loop) pause(ctx context.Context, consecutive *int) error {
	if *consecutive >= l.cfg.MaxConsecutiveErrors {
		l.logger.Warn("too many consecutive failures, cooling down",
			zap.Int("consecutive_failures", *consecutive),
			zap.Duration("cooldown", l.cfg.ErrorCooldown),
		)
		*consecutive = 0
		return l.sleep(ctx, l.cfg.ErrorCooldown)
	}

	delay := l.cfg.RetryDelay
	for i := 1; i < *consecutive; i++ {
		delay *= 2
		if delay >= l.cfg.MaxRetryDelay {
			delay = l.cfg.MaxRetryDelay
			break
		}
	}
	return l.sleep(ctx, delay)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
