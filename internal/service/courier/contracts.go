//go:generate mockgen -source=contracts.go -destination=courier_mocks_test.go -package=courier_test

package courier

import (
	"context"
	"time"

	"github.com/google/uuid"

	"parcel-dispatch/internal/domain"
)

// availabilityRepository defines storage operations required by the business layer.
type availabilityRepository interface {
	GetAvailability(ctx context.Context, courierID uuid.UUID) (*domain.CourierAvailability, error)
	SetAvailability(ctx context.Context, courierID uuid.UUID, status domain.AvailabilityStatus, maxOrders *int, at time.Time) (*domain.CourierAvailability, error)
}
