//go:generate mockgen -source=contracts.go -destination=dispatch_mocks_test.go -package=dispatch_test

package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"

	"parcel-dispatch/internal/domain"
	"parcel-dispatch/internal/ports/ordertx"
)

// Store is the persistence the dispatcher needs.
type Store interface {
	ordertx.Runner
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetOffer(ctx context.Context, id uuid.UUID) (*domain.AssignmentOffer, error)
	ListOffers(ctx context.Context, orderID uuid.UUID) ([]domain.AssignmentOffer, error)
	GetAvailability(ctx context.Context, courierID uuid.UUID) (*domain.CourierAvailability, error)
	ListAvailableCouriers(ctx context.Context) ([]domain.CourierAvailability, error)
	ExpireOverdueOffers(ctx context.Context, now time.Time) ([]domain.AssignmentOffer, error)
	ListUnmatchedOrders(ctx context.Context, limit int) ([]uuid.UUID, error)
}

// Notifier pushes messages to users. Delivery is best-effort.
type Notifier interface {
	Send(ctx context.Context, userID uuid.UUID, channel, message string) (domain.NotificationReceipt, error)
}

// StatusPublisher announces committed status transitions.
type StatusPublisher interface {
	PublishStatus(o domain.Order, e domain.StatusHistoryEntry)
}

// AutoDispatcher finds a courier for a pending order.
type AutoDispatcher interface {
	AutoDispatch(ctx context.Context, orderID uuid.UUID) (*domain.AssignmentOffer, error)
}
