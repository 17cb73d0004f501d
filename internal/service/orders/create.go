package orders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"parcel-dispatch/internal/apperr"
	"parcel-dispatch/internal/domain"
	"parcel-dispatch/internal/geo"
	"parcel-dispatch/internal/logx"
	"parcel-dispatch/internal/orderfsm"
	"parcel-dispatch/internal/ports/ordertx"
	"parcel-dispatch/internal/pricing"
)

// AddressInput is an address line with optional coordinates. Without
// coordinates the line is geocoded.
type AddressInput struct {
	Line  string
	Point *domain.Coordinates
}

// CreateInput is a new order request.
type CreateInput struct {
	SenderID    uuid.UUID
	Pickup      AddressInput
	Delivery    AddressInput
	Package     domain.Package
	Urgency     domain.UrgencyTier
	ScheduledAt *time.Time
}

func validateAddress(field string, a AddressInput) error {
	if a.Point == nil && strings.TrimSpace(a.Line) == "" {
		return apperr.Invalid(field + ": address or coordinates required")
	}
	if a.Point != nil && !a.Point.Valid() {
		return apperr.Invalid(field + ": coordinates out of range")
	}
	return nil
}

func validateCreate(in *CreateInput, now time.Time) error {
	if in.SenderID == uuid.Nil {
		return apperr.Invalid("sender_id is required")
	}
	if err := validateAddress("pickup", in.Pickup); err != nil {
		return err
	}
	if err := validateAddress("delivery", in.Delivery); err != nil {
		return err
	}
	if !in.Package.Size.Valid() {
		return apperr.Invalid("unknown package size")
	}
	if in.Package.WeightKg < 0 || in.Package.DeclaredValue < 0 {
		return apperr.Invalid("weight and declared value must be non-negative")
	}
	if !in.Urgency.Valid() {
		return apperr.Invalid("unknown urgency tier")
	}
	return pricing.CheckSchedule(in.Urgency, in.ScheduledAt, now)
}

func (s *Service) resolve(ctx context.Context, a AddressInput) (domain.Address, error) {
	line := strings.TrimSpace(a.Line)
	if a.Point != nil {
		return domain.Address{Line: line, Point: *a.Point}, nil
	}
	res, err := s.geocoder.Geocode(ctx, line)
	if err != nil {
		return domain.Address{}, apperr.New(apperr.ErrUpstreamUnavailable, "geocoder unavailable")
	}
	if res.Approximate {
		s.logger.Warn("using approximate coordinates",
			logx.String("event", "geocode_approximate"),
			logx.String("address", line),
		)
	}
	return domain.Address{Line: line, Point: res.Point, Approximate: res.Approximate}, nil
}

// Create prices and persists a new pending order with its package, then
// signals dispatch. A failed signal is logged and does not fail creation.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Order, error) {
	now := s.now()
	if err := validateCreate(&in, now); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	pickup, err := s.resolve(ctx, in.Pickup)
	if err != nil {
		return nil, err
	}
	delivery, err := s.resolve(ctx, in.Delivery)
	if err != nil {
		return nil, err
	}

	distance := geo.Between(pickup.Point, delivery.Point)
	price, err := s.pricing.Quote(distance, pricing.PackageSpec{Size: in.Package.Size, Fragile: in.Package.Fragile}, in.Urgency)
	if err != nil {
		return nil, err
	}
	etaPickup, etaDelivery := pricing.EstimateTimes(in.Urgency, now, in.ScheduledAt)

	pkg := in.Package
	pkg.ID = uuid.New()
	o := &domain.Order{
		ID:                  uuid.New(),
		SenderID:            in.SenderID,
		Pickup:              pickup,
		Delivery:            delivery,
		Package:             pkg,
		Urgency:             in.Urgency,
		Price:               price,
		DistanceKm:          pricing.Round2(distance),
		PaymentStatus:       domain.PaymentUnpaid,
		EstimatedPickupAt:   etaPickup,
		EstimatedDeliveryAt: etaDelivery,
	}
	entry := orderfsm.Start(o, in.SenderID, now)

	err = s.store.WithTx(ctx, func(tx ordertx.Repository) error {
		if err := tx.InsertOrder(ctx, o); err != nil {
			return err
		}
		return tx.AppendHistory(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		logx.String("event", "order_created"),
		logx.String("order_id", o.ID.String()),
		logx.String("sender_id", o.SenderID.String()),
		logx.String("urgency", string(o.Urgency)),
		logx.Float64("distance_km", o.DistanceKm),
		logx.Float64("total", o.Price.Total),
	)

	s.signal(ctx, o)
	return o, nil
}

func (s *Service) signal(ctx context.Context, o *domain.Order) {
	if s.signaler == nil {
		return
	}
	err := s.signaler.SignalNewOrder(ctx, domain.MatchingRequest{
		OrderID:           o.ID,
		PickupLocation:    o.Pickup.Point,
		Urgency:           o.Urgency,
		EstimatedEarnings: pricing.CourierEarnings(o.Price),
		CreatedAt:         o.CreatedAt,
	})
	if err != nil {
		s.logger.Warn("dispatch signal failed",
			logx.String("event", "dispatch_signal_failed"),
			logx.String("order_id", o.ID.String()),
			logx.Err(err),
		)
	}
}
