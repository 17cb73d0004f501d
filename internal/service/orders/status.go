package orders

import (
	"context"

	"github.com/google/uuid"

	"parcel-dispatch/internal/apperr"
	"parcel-dispatch/internal/domain"
	"parcel-dispatch/internal/logx"
	"parcel-dispatch/internal/orderfsm"
	"parcel-dispatch/internal/ports/ordertx"
)

// StatusInput is a status change requested through the API.
type StatusInput struct {
	OrderID uuid.UUID
	Status  domain.OrderStatus
	Actor   uuid.UUID
	Note    string
}

type transitionResult struct {
	order     domain.Order
	entry     domain.StatusHistoryEntry
	cancelled []domain.AssignmentOffer
	released  *uuid.UUID
}

// UpdateStatus moves an order to a new status. Terminal statuses release the
// assigned courier; cancelled and failed also cancel every pending offer, so
// a cancellation preempts an in-flight dispatch.
func (s *Service) UpdateStatus(ctx context.Context, in StatusInput) (*domain.Order, error) {
	if !in.Status.Valid() {
		return nil, apperr.Invalid("unknown status")
	}
	if in.Actor == uuid.Nil {
		return nil, apperr.Invalid("actor is required")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	unlock := s.locks.Lock(in.OrderID.String())
	defer unlock()

	var res transitionResult
	err := retryOnConflict(func() error {
		var err error
		res, err = s.transition(ctx, in)
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.PublishStatus(res.order, res.entry)
	}
	s.countOffers(string(domain.OfferCancelled), len(res.cancelled))

	fields := []logx.Field{
		logx.String("event", "order_status_changed"),
		logx.String("order_id", res.order.ID.String()),
		logx.String("previous", string(res.entry.Previous)),
		logx.String("current", string(res.entry.Current)),
		logx.String("actor", in.Actor.String()),
	}
	if len(res.cancelled) > 0 {
		fields = append(fields, logx.Int("offers_cancelled", len(res.cancelled)))
	}
	if res.released != nil {
		fields = append(fields, logx.String("released_courier_id", res.released.String()))
	}
	s.logger.Info("order status changed", fields...)

	if res.entry.Current == domain.OrderCancelled {
		s.logger.Info("order cancelled",
			logx.String("event", "order_cancelled"),
			logx.String("order_id", res.order.ID.String()),
			logx.String("reason", res.order.CancelReason),
		)
	}
	return &res.order, nil
}

func (s *Service) transition(ctx context.Context, in StatusInput) (transitionResult, error) {
	var res transitionResult
	err := s.store.WithTx(ctx, func(tx ordertx.Repository) error {
		o, err := tx.GetOrderForUpdate(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if o == nil {
			return apperr.New(apperr.ErrNotFound, "order not found")
		}

		now := s.now()
		entry, err := orderfsm.Transition(o, in.Status, in.Actor, in.Note, now)
		if err != nil {
			return err
		}

		if in.Status == domain.OrderCancelled || in.Status == domain.OrderFailed {
			cancelled, err := tx.CancelPendingOffers(ctx, o.ID, now)
			if err != nil {
				return err
			}
			res.cancelled = cancelled
		}
		if orderfsm.ReleasesCourier(in.Status) && o.HasCourier() {
			if err := tx.AdjustActiveOrders(ctx, *o.CourierID, -1, now); err != nil {
				return err
			}
			res.released = o.CourierID
		}

		if err := tx.UpdateOrder(ctx, o); err != nil {
			return err
		}
		if err := tx.AppendHistory(ctx, entry); err != nil {
			return err
		}
		res.order = *o
		res.entry = entry
		return nil
	})
	return res, err
}
