package dispatch

import (
	"context"

	"github.com/google/uuid"

	"parcel-dispatch/internal/apperr"
	"parcel-dispatch/internal/domain"
	"parcel-dispatch/internal/logx"
	"parcel-dispatch/internal/orderfsm"
	"parcel-dispatch/internal/ports/ordertx"
)

// RespondInput is a courier's answer to an offer.
type RespondInput struct {
	OfferID       uuid.UUID
	CourierID     uuid.UUID
	Decision      domain.Decision
	DeclineReason string
}

// RespondResult is the resolved offer and, on accept, the assigned order.
type RespondResult struct {
	Offer     domain.AssignmentOffer
	Order     *domain.Order
	entry     domain.StatusHistoryEntry
	cancelled int
}

var errNoPendingOffer = apperr.New(apperr.ErrNotFound, "no pending offer for this courier")

// Respond resolves a pending offer. An answer after the response deadline
// fails with ErrDeadlinePassed whether or not the sweep has expired the
// offer yet. Accept assigns the courier in the same transaction that marks
// the offer accepted and cancels the order's other pending offers. A decline
// offers the order to the next eligible courier.
func (s *Service) Respond(ctx context.Context, in RespondInput) (*RespondResult, error) {
	if !in.Decision.Valid() {
		return nil, apperr.Invalid("decision must be accept or decline")
	}
	if in.CourierID == uuid.Nil {
		return nil, apperr.Invalid("courier_id is required")
	}

	res, err := s.respond(ctx, in)
	if err != nil {
		return nil, err
	}
	if res.Offer.Status == domain.OfferDeclined {
		s.redispatch(ctx, res.Offer.OrderID)
	}
	return res, nil
}

// redispatch runs after the order lock is released. The decline stands
// whatever the outcome; an order left waiting is retried by the sweep.
func (s *Service) redispatch(ctx context.Context, orderID uuid.UUID) {
	next, err := s.AutoDispatch(ctx, orderID)
	if err != nil {
		s.logger.Info("order not re-offered after decline",
			logx.String("event", "redispatch_skipped"),
			logx.String("order_id", orderID.String()),
			logx.String("reason", apperr.MessageOf(err)),
			logx.Err(err),
		)
		return
	}
	s.logger.Info("order re-offered after decline",
		logx.String("event", "redispatched"),
		logx.String("order_id", orderID.String()),
		logx.String("courier_id", next.CourierID.String()),
	)
}

func (s *Service) respond(ctx context.Context, in RespondInput) (*RespondResult, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	// The offer's order decides which lock to take; ownership and state are
	// checked again under that lock.
	peek, err := s.store.GetOffer(ctx, in.OfferID)
	if err != nil {
		return nil, err
	}
	if peek == nil || peek.CourierID != in.CourierID {
		return nil, errNoPendingOffer
	}

	unlock := s.locks.Lock(peek.OrderID.String())
	defer unlock()

	var res *RespondResult
	err = retryOnConflict(func() error {
		var err error
		res, err = s.resolve(ctx, peek.OrderID, in)
		return err
	})
	if err != nil {
		return nil, err
	}

	switch res.Offer.Status {
	case domain.OfferAccepted:
		s.count(string(domain.OfferAccepted), 1)
		s.count(string(domain.OfferCancelled), res.cancelled)
		if s.publisher != nil {
			s.publisher.PublishStatus(*res.Order, res.entry)
		}
		s.logger.Info("offer accepted",
			logx.String("event", "offer_accepted"),
			logx.String("offer_id", res.Offer.ID.String()),
			logx.String("order_id", res.Offer.OrderID.String()),
			logx.String("courier_id", in.CourierID.String()),
			logx.Int("offers_cancelled", res.cancelled),
		)
		s.notify(ctx, res.Order.SenderID, "A courier accepted your order %s.", res.Order.ID)
	case domain.OfferDeclined:
		s.count(string(domain.OfferDeclined), 1)
		s.logger.Info("offer declined",
			logx.String("event", "offer_declined"),
			logx.String("offer_id", res.Offer.ID.String()),
			logx.String("order_id", res.Offer.OrderID.String()),
			logx.String("courier_id", in.CourierID.String()),
			logx.String("reason", res.Offer.DeclineReason),
		)
	}
	return res, nil
}

func (s *Service) resolve(ctx context.Context, orderID uuid.UUID, in RespondInput) (*RespondResult, error) {
	var res RespondResult
	err := s.store.WithTx(ctx, func(tx ordertx.Repository) error {
		o, err := tx.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		off, err := tx.GetOfferForUpdate(ctx, in.OfferID)
		if err != nil {
			return err
		}
		if off == nil || off.CourierID != in.CourierID {
			return errNoPendingOffer
		}

		now := s.now()
		switch {
		case off.Status == domain.OfferExpired,
			off.Status == domain.OfferPending && off.Overdue(now):
			return apperr.New(apperr.ErrDeadlinePassed, "response deadline has passed")
		case off.Status != domain.OfferPending:
			return errNoPendingOffer
		}

		if in.Decision == domain.DecisionDecline {
			off.Resolve(domain.OfferDeclined, now)
			off.DeclineReason = in.DeclineReason
			res.Offer = *off
			return tx.UpdateOffer(ctx, off)
		}

		if o == nil {
			return apperr.New(apperr.ErrNotFound, "order not found")
		}
		if o.Status != domain.OrderPending || o.HasCourier() {
			return apperr.New(apperr.ErrConflict, "order is already assigned")
		}

		off.Resolve(domain.OfferAccepted, now)
		if err := tx.UpdateOffer(ctx, off); err != nil {
			return err
		}

		entry, err := orderfsm.Transition(o, domain.OrderCourierAssigned, in.CourierID, "offer accepted", now)
		if err != nil {
			return err
		}
		courier := in.CourierID
		o.CourierID = &courier
		if err := tx.UpdateOrder(ctx, o); err != nil {
			return err
		}
		if err := tx.AppendHistory(ctx, entry); err != nil {
			return err
		}
		if err := tx.AdjustActiveOrders(ctx, courier, 1, now); err != nil {
			return err
		}
		cancelled, err := tx.CancelPendingOffers(ctx, o.ID, now)
		if err != nil {
			return err
		}

		res.Offer = *off
		res.Order = o
		res.entry = entry
		res.cancelled = len(cancelled)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}
