package handlers

import (
	"context"

	"github.com/google/uuid"

	"parcel-dispatch/internal/domain"
	"parcel-dispatch/internal/pricing"
	"parcel-dispatch/internal/pubsub"
	"parcel-dispatch/internal/service/courier"
	"parcel-dispatch/internal/service/dispatch"
	"parcel-dispatch/internal/service/location"
	"parcel-dispatch/internal/service/orders"
)

type quoter interface {
	Quote(distanceKm float64, pkg pricing.PackageSpec, urgency domain.UrgencyTier) (domain.PriceBreakdown, error)
}

type orderUsecase interface {
	Create(ctx context.Context, in orders.CreateInput) (*domain.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	History(ctx context.Context, id uuid.UUID) ([]domain.StatusHistoryEntry, error)
	UpdateStatus(ctx context.Context, in orders.StatusInput) (*domain.Order, error)
	Pay(ctx context.Context, orderID uuid.UUID, method string) (*domain.Order, error)
}

// NewOrderUsecase wires an orders.Service into an orderUsecase.
func NewOrderUsecase(svc *orders.Service) orderUsecase {
	return svc
}

type dispatchUsecase interface {
	Offer(ctx context.Context, in dispatch.OfferInput) (*domain.AssignmentOffer, error)
	Respond(ctx context.Context, in dispatch.RespondInput) (*dispatch.RespondResult, error)
}

// NewDispatchUsecase wires a dispatch.Service into a dispatchUsecase.
func NewDispatchUsecase(svc *dispatch.Service) dispatchUsecase {
	return svc
}

type courierUsecase interface {
	SetAvailability(ctx context.Context, in courier.AvailabilityInput) (*domain.CourierAvailability, error)
	GetAvailability(ctx context.Context, courierID uuid.UUID) (*domain.CourierAvailability, error)
}

// NewCourierUsecase wires a courier.Service into a courierUsecase.
func NewCourierUsecase(svc *courier.Service) courierUsecase {
	return svc
}

type locationUsecase interface {
	PublishPing(ctx context.Context, in location.PingInput) (domain.LocationPing, error)
	Subscribe(ctx context.Context, orderID, subscriberID uuid.UUID) (*pubsub.Subscription, error)
}

// NewLocationUsecase wires a location.Service into a locationUsecase.
func NewLocationUsecase(svc *location.Service) locationUsecase {
	return svc
}
