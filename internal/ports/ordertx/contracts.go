// Package ordertx is the storage contract shared by the order, dispatch and
// location services. Row-level "ForUpdate" reads lock the row until the
// surrounding transaction ends, which is how exclusive access is scoped to a
// single order instead of the whole process.
package ordertx

import (
	"context"
	"time"

	"github.com/google/uuid"

	"parcel-dispatch/internal/domain"
)

// Repository is the transaction-scoped view of storage.
// Lookups return (nil, nil) when the row does not exist.
type Repository interface {
	InsertOrder(ctx context.Context, o *domain.Order) error
	GetOrderForUpdate(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	UpdateOrder(ctx context.Context, o *domain.Order) error
	AppendHistory(ctx context.Context, e domain.StatusHistoryEntry) error

	// InsertOffer fails with apperr.ErrConflict when the order already has a
	// pending offer.
	InsertOffer(ctx context.Context, o *domain.AssignmentOffer) error
	GetOfferForUpdate(ctx context.Context, id uuid.UUID) (*domain.AssignmentOffer, error)
	UpdateOffer(ctx context.Context, o *domain.AssignmentOffer) error
	// CancelPendingOffers forces every pending offer of the order to cancelled
	// and returns the affected offers.
	CancelPendingOffers(ctx context.Context, orderID uuid.UUID, at time.Time) ([]domain.AssignmentOffer, error)

	// AdjustActiveOrders atomically adds delta to the courier's active order
	// counter (never below zero) and flips online <-> in_delivery accordingly.
	AdjustActiveOrders(ctx context.Context, courierID uuid.UUID, delta int, at time.Time) error
}

// Runner runs fn inside one transaction; any error from fn rolls it back.
type Runner interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}
