package orders

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"parcel-dispatch/internal/apperr"
	"parcel-dispatch/internal/domain"
	"parcel-dispatch/internal/logx"
	"parcel-dispatch/internal/ports/ordertx"
)

func checkPayable(o *domain.Order) error {
	if o == nil {
		return apperr.New(apperr.ErrNotFound, "order not found")
	}
	if o.Status.Terminal() {
		return apperr.New(apperr.ErrInvalidTransition, "order is "+string(o.Status))
	}
	if o.PaymentStatus == domain.PaymentPaid {
		return apperr.New(apperr.ErrConflict, "order is already paid")
	}
	return nil
}

// Pay charges the order total. A gateway failure leaves the order unpaid.
func (s *Service) Pay(ctx context.Context, orderID uuid.UUID, method string) (*domain.Order, error) {
	method = strings.TrimSpace(method)
	if method == "" {
		return nil, apperr.Invalid("payment method is required")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	unlock := s.locks.Lock(orderID.String())
	defer unlock()

	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := checkPayable(o); err != nil {
		return nil, err
	}

	receipt, err := s.payments.Charge(ctx, o.Price.Total, method)
	if err != nil {
		s.logger.Error("payment failed",
			logx.String("event", "payment_failed"),
			logx.String("order_id", orderID.String()),
			logx.Err(err),
		)
		return nil, apperr.New(apperr.ErrUpstreamUnavailable, "payment gateway unavailable")
	}

	var paid domain.Order
	err = s.store.WithTx(ctx, func(tx ordertx.Repository) error {
		cur, err := tx.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := checkPayable(cur); err != nil {
			return err
		}
		cur.PaymentStatus = domain.PaymentPaid
		cur.TransactionID = receipt.TransactionID
		cur.UpdatedAt = s.now()
		if err := tx.UpdateOrder(ctx, cur); err != nil {
			return err
		}
		paid = *cur
		return nil
	})
	if err != nil {
		s.logger.Error("charged but not recorded",
			logx.String("event", "payment_unrecorded"),
			logx.String("order_id", orderID.String()),
			logx.String("transaction_id", receipt.TransactionID),
			logx.Err(err),
		)
		return nil, err
	}

	s.logger.Info("order paid",
		logx.String("event", "order_paid"),
		logx.String("order_id", orderID.String()),
		logx.String("transaction_id", receipt.TransactionID),
		logx.Float64("amount", paid.Price.Total),
	)
	return &paid, nil
}
