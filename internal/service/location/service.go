// Package location ingests courier pings and fans order events out to
// the subscribers of each order channel. Delivery is at-most-once: a
// subscriber that is slow or disconnected misses events and nothing is
// replayed.
package location

import (
	"context"
	"time"

	"github.com/google/uuid"

	"parcel-dispatch/internal/apperr"
	"parcel-dispatch/internal/domain"
	"parcel-dispatch/internal/logx"
	"parcel-dispatch/internal/pubsub"
)

// Service is the location broadcaster.
type Service struct {
	store            Store
	hub              Hub
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// NewService creates a new location Service.
func NewService(store Store, hub Hub, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		store:            store,
		hub:              hub,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// PingInput is one position report of a courier.
type PingInput struct {
	CourierID uuid.UUID
	OrderID   *uuid.UUID
	Point     domain.Coordinates
	Telemetry domain.Telemetry
}

type locationPayload struct {
	OrderID     uuid.UUID          `json:"order_id"`
	CourierID   uuid.UUID          `json:"courier_id"`
	Coordinates domain.Coordinates `json:"coordinates"`
	Telemetry   domain.Telemetry   `json:"telemetry"`
	Timestamp   time.Time          `json:"timestamp"`
}

type statusPayload struct {
	OrderID   uuid.UUID          `json:"order_id"`
	Previous  domain.OrderStatus `json:"previous"`
	Current   domain.OrderStatus `json:"current"`
	Actor     uuid.UUID          `json:"actor"`
	Note      string             `json:"note,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

func validatePing(in PingInput) error {
	if in.CourierID == uuid.Nil {
		return apperr.Invalid("courier_id is required")
	}
	if !in.Point.Valid() {
		return apperr.Invalid("coordinates out of range")
	}
	if in.Telemetry.Battery < 0 || in.Telemetry.Battery > 100 {
		return apperr.Invalid("battery must be between 0 and 100")
	}
	if in.Telemetry.AccuracyM < 0 || in.Telemetry.SpeedKmh < 0 {
		return apperr.Invalid("accuracy and speed must be non-negative")
	}
	return nil
}

// PublishPing stores the ping, mirrors it as the courier's last position and,
// when the ping carries an order the courier is assigned to, republishes it
// on that order's channel.
func (s *Service) PublishPing(ctx context.Context, in PingInput) (domain.LocationPing, error) {
	if err := validatePing(in); err != nil {
		return domain.LocationPing{}, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p := domain.LocationPing{
		ID:        uuid.New(),
		CourierID: in.CourierID,
		OrderID:   in.OrderID,
		Point:     in.Point,
		Telemetry: in.Telemetry,
		CreatedAt: s.now(),
	}
	if err := s.store.RecordPing(ctx, p); err != nil {
		return domain.LocationPing{}, err
	}
	if p.OrderID == nil {
		return p, nil
	}

	o, err := s.store.GetOrder(ctx, *p.OrderID)
	if err != nil {
		return domain.LocationPing{}, err
	}
	if o == nil || !o.HasCourier() || *o.CourierID != p.CourierID {
		s.logger.Warn("ping not broadcast: courier is not assigned to order",
			logx.String("event", "ping_not_broadcast"),
			logx.String("courier_id", p.CourierID.String()),
			logx.String("order_id", p.OrderID.String()),
		)
		return p, nil
	}

	n := s.publish(o, pubsub.EventLocationUpdate, p.CreatedAt, locationPayload{
		OrderID:     o.ID,
		CourierID:   p.CourierID,
		Coordinates: p.Point,
		Telemetry:   p.Telemetry,
		Timestamp:   p.CreatedAt,
	})
	s.logger.Debug("location broadcast",
		logx.String("order_id", o.ID.String()),
		logx.Int("subscribers", n),
	)
	return p, nil
}

// Subscribe joins subscriberID to the order's channel. Only the sender and
// the currently assigned courier may subscribe.
func (s *Service) Subscribe(ctx context.Context, orderID, subscriberID uuid.UUID) (*pubsub.Subscription, error) {
	if subscriberID == uuid.Nil {
		return nil, apperr.Invalid("subscriber id is required")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.New(apperr.ErrNotFound, "order not found")
	}
	if !authorized(o)(subscriberID.String()) {
		return nil, apperr.New(apperr.ErrForbidden, "not a participant of this order")
	}

	sub := s.hub.Subscribe(pubsub.OrderChannel(o.ID.String()), subscriberID.String())
	s.logger.Info("subscribed to order channel",
		logx.String("event", "channel_subscribed"),
		logx.String("order_id", o.ID.String()),
		logx.String("subscriber_id", subscriberID.String()),
	)
	return sub, nil
}

// PublishStatus announces a committed status transition. Callers invoke it
// after the commit and while holding the order's lock.
func (s *Service) PublishStatus(o domain.Order, e domain.StatusHistoryEntry) {
	s.publish(&o, pubsub.EventOrderStatusChange, e.CreatedAt, statusPayload{
		OrderID:   o.ID,
		Previous:  e.Previous,
		Current:   e.Current,
		Actor:     e.Actor,
		Note:      e.Note,
		Timestamp: e.CreatedAt,
	})
}

// publish re-checks membership against the latest order state before the
// fan-out, so a reassigned courier stops receiving events.
func (s *Service) publish(o *domain.Order, eventType string, at time.Time, data any) int {
	id := o.ID.String()
	if evicted := s.hub.Retain(pubsub.OrderChannel(id), authorized(o)); evicted > 0 {
		s.logger.Info("evicted unauthorized subscribers",
			logx.String("event", "channel_evicted"),
			logx.String("order_id", id),
			logx.Int("evicted", evicted),
		)
	}
	return s.hub.Publish(pubsub.NewOrderEvent(eventType, id, at, data))
}

func authorized(o *domain.Order) func(string) bool {
	sender := o.SenderID.String()
	courier := ""
	if o.HasCourier() {
		courier = o.CourierID.String()
	}
	return func(id string) bool {
		return id == sender || (courier != "" && id == courier)
	}
}
