// Package retry runs calls to external providers with capped exponential backoff.
package retry

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"parcel-dispatch/internal/apperr"
	"parcel-dispatch/internal/logx"
)

type counter interface {
	Inc()
}

// Config describes the retry behaviour.
type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Policy retries transient provider failures.
type Policy struct {
	name    string
	logger  logx.Logger
	retries counter
	cfg     Config
	sleep   func(context.Context, time.Duration) bool
}

// New returns a Policy. name identifies the provider in logs.
func New(name string, cfg Config, logger logx.Logger, retries counter) *Policy {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Policy{name: name, logger: logger, retries: retries, cfg: cfg, sleep: sleepWithContext}
}

// Do calls fn until it succeeds, fails permanently, attempts run out or ctx ends.
func (p *Policy) Do(ctx context.Context, method string, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil || attempt == p.cfg.MaxAttempts || !IsRetryable(err) {
			break
		}

		delay := Backoff(p.cfg.BaseDelay, p.cfg.MaxDelay, attempt)
		if p.retries != nil {
			p.retries.Inc()
		}
		p.logger.Warn("gateway retry",
			logx.String("gateway", p.name),
			logx.String("method", method),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Err(err),
		)
		if !p.sleep(ctx, delay) {
			break
		}
	}
	return lastErr
}

// IsRetryable reports whether err is a transient provider failure: a gRPC
// status from a provider SDK signalling overload or unavailability, a
// deadline, or an error classified as apperr.ErrUpstreamUnavailable.
func IsRetryable(err error) bool {
	if errors.Is(err, apperr.ErrUpstreamUnavailable) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	st, ok := status.FromError(err)
	if !ok {
		return false
	}
	switch st.Code() {
	case codes.ResourceExhausted,
		codes.Unavailable,
		codes.DeadlineExceeded:
		return true
	default:
		return false
	}
}

// Backoff computes the delay before retry number attempt.
func Backoff(base, max time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > max || d < 0 {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
