package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"

	"parcel-dispatch/internal/apperr"
	"parcel-dispatch/internal/domain"
	"parcel-dispatch/internal/geo"
	"parcel-dispatch/internal/logx"
	"parcel-dispatch/internal/ports/ordertx"
	"parcel-dispatch/internal/pricing"
)

// OfferInput asks for an order to be offered to a courier.
type OfferInput struct {
	OrderID   uuid.UUID
	CourierID uuid.UUID
	Type      domain.AssignmentType
	// ResponseWindow overrides the configured window when positive.
	ResponseWindow time.Duration
}

func awaitingCourier(o *domain.Order) error {
	if o == nil {
		return apperr.New(apperr.ErrNotFound, "order not found")
	}
	if o.Status != domain.OrderPending || o.HasCourier() {
		return apperr.New(apperr.ErrInvalidTransition, "order is not awaiting a courier")
	}
	return nil
}

// Offer creates a pending offer for the courier. It fails with ErrConflict
// when the order already has a pending offer.
func (s *Service) Offer(ctx context.Context, in OfferInput) (*domain.AssignmentOffer, error) {
	if in.Type == "" {
		in.Type = domain.AssignmentManual
	}
	if !in.Type.Valid() {
		return nil, apperr.Invalid("unknown assignment type")
	}
	if in.CourierID == uuid.Nil {
		return nil, apperr.Invalid("courier_id is required")
	}
	if in.ResponseWindow < 0 {
		return nil, apperr.Invalid("response window must be positive")
	}
	window := in.ResponseWindow
	if window == 0 {
		window = s.responseWindow
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	courier, err := s.store.GetAvailability(ctx, in.CourierID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(in.OrderID.String())
	defer unlock()

	var (
		offer *domain.AssignmentOffer
		order domain.Order
	)
	err = s.store.WithTx(ctx, func(tx ordertx.Repository) error {
		o, err := tx.GetOrderForUpdate(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if err := awaitingCourier(o); err != nil {
			return err
		}

		now := s.now()
		offer = &domain.AssignmentOffer{
			ID:               uuid.New(),
			OrderID:          o.ID,
			CourierID:        in.CourierID,
			Type:             in.Type,
			Status:           domain.OfferPending,
			OfferedAt:        now,
			ResponseDeadline: now.Add(window),
		}
		if courier != nil && courier.LastPosition != nil {
			offer.DistanceToPickup = pricing.Round2(geo.Between(*courier.LastPosition, o.Pickup.Point))
		}
		order = *o
		return tx.InsertOffer(ctx, offer)
	})
	if err != nil {
		return nil, err
	}

	s.count(outcomeCreated, 1)
	s.logger.Info("offer created",
		logx.String("event", "offer_created"),
		logx.String("offer_id", offer.ID.String()),
		logx.String("order_id", offer.OrderID.String()),
		logx.String("courier_id", offer.CourierID.String()),
		logx.String("type", string(offer.Type)),
		logx.Time("deadline", offer.ResponseDeadline),
	)
	s.notify(ctx, offer.CourierID, "New delivery offer %s: pickup %s, %.2f km away, earn %.2f. Respond by %s.",
		offer.ID, order.Pickup.Line, offer.DistanceToPickup, pricing.CourierEarnings(order.Price),
		offer.ResponseDeadline.Format(time.RFC3339))
	return offer, nil
}
