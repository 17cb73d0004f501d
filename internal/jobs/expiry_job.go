// Package jobs runs scheduled background tasks of the dispatch worker.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"parcel-dispatch/internal/domain"
	"parcel-dispatch/internal/logx"
)

// DefaultExpirySchedule runs the sweep every five seconds.
const DefaultExpirySchedule = "*/5 * * * * *"

type sweeper interface {
	ExpireOverdue(ctx context.Context) ([]domain.AssignmentOffer, error)
	Unmatched(ctx context.Context) ([]uuid.UUID, error)
}

type redispatcher interface {
	Redispatch(ctx context.Context, orderIDs []uuid.UUID) error
}

// OfferExpiryJob expires overdue offers on a cron schedule and tries to
// match every pending order that nobody is offered, including those whose
// offers just expired.
type OfferExpiryJob struct {
	sweeper      sweeper
	redispatcher redispatcher
	schedule     string
	timeout      time.Duration
	cron         *cron.Cron
	logger       logx.Logger

	mu      sync.Mutex
	started bool
}

// NewOfferExpiryJob creates the job. An empty schedule falls back to
// DefaultExpirySchedule; the schedule has a seconds field.
func NewOfferExpiryJob(s sweeper, r redispatcher, schedule string, timeout time.Duration, logger logx.Logger) *OfferExpiryJob {
	if schedule == "" {
		schedule = DefaultExpirySchedule
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &OfferExpiryJob{
		sweeper:      s,
		redispatcher: r,
		schedule:     schedule,
		timeout:      timeout,
		cron:         cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:       logger.With(logx.String("component", "offer_expiry_job")),
	}
}

// Start schedules the sweep.
func (j *OfferExpiryJob) Start() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.started {
		return nil
	}

	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()
		if err := j.RunOnce(ctx); err != nil {
			j.logger.Error("offer expiry sweep failed", logx.Err(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule offer expiry %q: %w", j.schedule, err)
	}

	j.cron.Start()
	j.started = true
	j.logger.Info("offer expiry job started", logx.String("schedule", j.schedule))
	return nil
}

// Stop unschedules the sweep and waits for a running one to finish or ctx.
func (j *OfferExpiryJob) Stop(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.started {
		return nil
	}
	j.started = false

	done := j.cron.Stop().Done()
	select {
	case <-done:
		j.logger.Info("offer expiry job stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce performs one sweep and re-dispatches the waiting orders.
func (j *OfferExpiryJob) RunOnce(ctx context.Context) error {
	if _, err := j.sweeper.ExpireOverdue(ctx); err != nil {
		return fmt.Errorf("expire overdue offers: %w", err)
	}
	if j.redispatcher == nil {
		return nil
	}
	waiting, err := j.sweeper.Unmatched(ctx)
	if err != nil {
		return fmt.Errorf("list unmatched orders: %w", err)
	}
	if len(waiting) == 0 {
		return nil
	}
	if err := j.redispatcher.Redispatch(ctx, waiting); err != nil {
		return fmt.Errorf("redispatch waiting orders: %w", err)
	}
	return nil
}
