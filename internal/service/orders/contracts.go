//go:generate mockgen -source=contracts.go -destination=orders_mocks_test.go -package=orders_test

package orders

import (
	"context"

	"github.com/google/uuid"

	"parcel-dispatch/internal/domain"
	"parcel-dispatch/internal/ports/ordertx"
)

// Store is the persistence the order service needs.
type Store interface {
	ordertx.Runner
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListHistory(ctx context.Context, orderID uuid.UUID) ([]domain.StatusHistoryEntry, error)
}

// Geocoder resolves an address line into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (domain.GeocodeResult, error)
}

// PaymentGateway charges the sender for an order.
type PaymentGateway interface {
	Charge(ctx context.Context, amount float64, method string) (domain.PaymentReceipt, error)
}

// DispatchSignaler tells the dispatch subsystem that an order needs a courier.
type DispatchSignaler interface {
	SignalNewOrder(ctx context.Context, req domain.MatchingRequest) error
}

// StatusPublisher announces committed status transitions.
type StatusPublisher interface {
	PublishStatus(o domain.Order, e domain.StatusHistoryEntry)
}
