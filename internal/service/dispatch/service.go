// Package dispatch offers orders to couriers and resolves the offers.
//
// Every offer for an order moves under that order's lock and, in storage,
// under the order row lock, so accept, decline, cancellation and the expiry
// sweep agree on exactly one outcome per offer. Storage additionally keeps
// at most one pending and at most one accepted offer per order.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"parcel-dispatch/internal/apperr"
	"parcel-dispatch/internal/domain"
	"parcel-dispatch/internal/keylock"
	"parcel-dispatch/internal/logx"
)

// Config tunes dispatch.
type Config struct {
	ResponseWindow   time.Duration
	MatchRadiusKm    float64
	OperationTimeout time.Duration
}

// Deps groups the collaborators of the Service.
type Deps struct {
	Store     Store
	Notifier  Notifier
	Publisher StatusPublisher
	Locks     *keylock.Map
	Offers    *prometheus.CounterVec
}

// Service is the assignment dispatcher.
type Service struct {
	store     Store
	notifier  Notifier
	publisher StatusPublisher
	locks     *keylock.Map
	offers    *prometheus.CounterVec

	responseWindow   time.Duration
	matchRadiusKm    float64
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// NewService creates a new dispatch Service.
func NewService(d Deps, cfg Config, logger logx.Logger) *Service {
	if cfg.ResponseWindow <= 0 {
		cfg.ResponseWindow = 60 * time.Second
	}
	if cfg.MatchRadiusKm <= 0 {
		cfg.MatchRadiusKm = 10
	}
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = 3 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	if d.Locks == nil {
		d.Locks = keylock.New()
	}
	return &Service{
		store:            d.Store,
		notifier:         d.Notifier,
		publisher:        d.Publisher,
		locks:            d.Locks,
		offers:           d.Offers,
		responseWindow:   cfg.ResponseWindow,
		matchRadiusKm:    cfg.MatchRadiusKm,
		operationTimeout: cfg.OperationTimeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// outcomeCreated labels newly created offers; other outcomes use the offer status.
const outcomeCreated = "created"

func (s *Service) count(outcome string, n int) {
	if s.offers == nil || n == 0 {
		return
	}
	s.offers.WithLabelValues(outcome).Add(float64(n))
}

// notify is best-effort: failures are logged and never surface.
func (s *Service) notify(ctx context.Context, userID uuid.UUID, format string, args ...any) {
	if s.notifier == nil {
		return
	}
	if _, err := s.notifier.Send(ctx, userID, domain.ChannelPush, fmt.Sprintf(format, args...)); err != nil {
		s.logger.Warn("notification failed",
			logx.String("event", "notification_failed"),
			logx.String("user_id", userID.String()),
			logx.Err(err),
		)
	}
}

func retryOnConflict(fn func() error) error {
	err := fn()
	if errors.Is(err, apperr.ErrConflict) {
		err = fn()
	}
	return err
}
