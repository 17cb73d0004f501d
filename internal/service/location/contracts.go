//go:generate mockgen -source=contracts.go -destination=location_mocks_test.go -package=location_test

package location

import (
	"context"

	"github.com/google/uuid"

	"parcel-dispatch/internal/domain"
	"parcel-dispatch/internal/pubsub"
)

// Store is the persistence the broadcaster needs.
type Store interface {
	RecordPing(ctx context.Context, p domain.LocationPing) error
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
}

// Hub is the channel fan-out primitive.
type Hub interface {
	Subscribe(channelKey, subscriberID string) *pubsub.Subscription
	Publish(evt pubsub.Event) int
	Retain(channelKey string, keep func(subscriberID string) bool) int
}
