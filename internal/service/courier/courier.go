package courier

import (
	"context"
	"time"

	"github.com/google/uuid"

	"parcel-dispatch/internal/apperr"
	"parcel-dispatch/internal/domain"
	"parcel-dispatch/internal/logx"
)

// Service manages courier availability.
type Service struct {
	repo             availabilityRepository
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// NewService creates and configures a courier Service.
func NewService(r availabilityRepository, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		repo:             r,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// AvailabilityInput is a manual availability toggle.
type AvailabilityInput struct {
	CourierID uuid.UUID
	Status    domain.AvailabilityStatus
	MaxOrders *int
}

// in_delivery is driven by accepted orders and cannot be set by hand.
func validateAvailability(in AvailabilityInput) error {
	if in.CourierID == uuid.Nil {
		return apperr.Invalid("courier id is required")
	}
	if !in.Status.Valid() || in.Status == domain.AvailabilityInDelivery {
		return apperr.Invalid("status must be online, offline or on_break")
	}
	if in.MaxOrders != nil && *in.MaxOrders < 1 {
		return apperr.Invalid("max_orders must be at least 1")
	}
	return nil
}

// SetAvailability toggles the courier's availability. Unknown couriers are
// registered on their first toggle.
func (s *Service) SetAvailability(ctx context.Context, in AvailabilityInput) (*domain.CourierAvailability, error) {
	if err := validateAvailability(in); err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	a, err := s.repo.SetAvailability(ctx, in.CourierID, in.Status, in.MaxOrders, s.now())
	if err != nil {
		return nil, err
	}
	s.logger.Info("courier availability changed",
		logx.String("event", "courier_availability_changed"),
		logx.String("courier_id", in.CourierID.String()),
		logx.String("status", string(a.Status)),
		logx.Int("max_orders", a.MaxOrders),
		logx.Int("current_orders", a.CurrentOrders),
	)
	return a, nil
}

// GetAvailability returns the courier's availability and last position.
func (s *Service) GetAvailability(ctx context.Context, courierID uuid.UUID) (*domain.CourierAvailability, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	a, err := s.repo.GetAvailability(ctx, courierID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.New(apperr.ErrNotFound, "courier not found")
	}
	return a, nil
}
