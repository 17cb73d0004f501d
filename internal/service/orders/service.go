// Package orders implements order creation, lookup, status updates and checkout.
package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"parcel-dispatch/internal/apperr"
	"parcel-dispatch/internal/domain"
	"parcel-dispatch/internal/keylock"
	"parcel-dispatch/internal/logx"
	"parcel-dispatch/internal/pricing"
)

// Deps groups the collaborators of the Service.
type Deps struct {
	Store     Store
	Pricing   *pricing.Engine
	Geocoder  Geocoder
	Payments  PaymentGateway
	Signaler  DispatchSignaler
	Publisher StatusPublisher
	Locks     *keylock.Map
	// Offers counts offers resolved as a side effect of order transitions.
	Offers *prometheus.CounterVec
}

// Service coordinates the order lifecycle.
type Service struct {
	store     Store
	pricing   *pricing.Engine
	geocoder  Geocoder
	payments  PaymentGateway
	signaler  DispatchSignaler
	publisher StatusPublisher
	locks     *keylock.Map
	offers    *prometheus.CounterVec

	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// NewService creates a new order Service.
func NewService(d Deps, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	if d.Locks == nil {
		d.Locks = keylock.New()
	}
	return &Service{
		store:            d.Store,
		pricing:          d.Pricing,
		geocoder:         d.Geocoder,
		payments:         d.Payments,
		signaler:         d.Signaler,
		publisher:        d.Publisher,
		locks:            d.Locks,
		offers:           d.Offers,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Get returns an order by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	o, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.New(apperr.ErrNotFound, "order not found")
	}
	return o, nil
}

// History returns the status history of an order in commit order.
func (s *Service) History(ctx context.Context, id uuid.UUID) ([]domain.StatusHistoryEntry, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.store.ListHistory(ctx, id)
}

// retryOnConflict runs fn again once if it lost a race.
func retryOnConflict(fn func() error) error {
	err := fn()
	if errors.Is(err, apperr.ErrConflict) {
		err = fn()
	}
	return err
}

func (s *Service) countOffers(outcome string, n int) {
	if s.offers == nil || n == 0 {
		return
	}
	s.offers.WithLabelValues(outcome).Add(float64(n))
}
