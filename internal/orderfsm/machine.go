// Package orderfsm owns the order status machine.
//
// Any non-terminal status may move to any other status, including skipping
// intermediate steps (pending -> delivered). Sequencing policy lives in the
// dispatch and order services. Only two rules are hard:
//
//   - a transition to the current status is rejected, not ignored;
//   - nothing leaves a terminal status (delivered, cancelled, failed).
package orderfsm

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"parcel-dispatch/internal/apperr"
	"parcel-dispatch/internal/domain"
)

// Start puts a freshly built order into pending and returns the first history entry.
func Start(o *domain.Order, actor uuid.UUID, now time.Time) domain.StatusHistoryEntry {
	o.Status = domain.OrderPending
	o.CreatedAt = now
	o.UpdatedAt = now
	return domain.StatusHistoryEntry{
		ID:        uuid.New(),
		OrderID:   o.ID,
		Previous:  "",
		Current:   domain.OrderPending,
		Actor:     actor,
		Note:      "order created",
		CreatedAt: now,
	}
}

// Check validates a transition of o to next without mutating o.
func Check(o *domain.Order, next domain.OrderStatus) error {
	if !next.Valid() {
		return apperr.Invalid(fmt.Sprintf("unknown status %q", next))
	}
	if o.Status.Terminal() {
		return apperr.New(apperr.ErrInvalidTransition,
			fmt.Sprintf("order is %s and cannot change status", o.Status))
	}
	if o.Status == next {
		return apperr.New(apperr.ErrInvalidTransition,
			fmt.Sprintf("order is already %s", next))
	}
	return nil
}

// Transition moves o to next, stamps lifecycle timestamps and returns the
// history entry the caller must persist in the same transaction.
func Transition(o *domain.Order, next domain.OrderStatus, actor uuid.UUID, note string, now time.Time) (domain.StatusHistoryEntry, error) {
	if err := Check(o, next); err != nil {
		return domain.StatusHistoryEntry{}, err
	}

	prev := o.Status
	o.Status = next
	o.UpdatedAt = now

	switch next {
	case domain.OrderPickupInProgress, domain.OrderInTransit:
		if o.ActualPickupAt == nil {
			o.ActualPickupAt = &now
		}
	case domain.OrderDelivered:
		if o.ActualPickupAt == nil {
			o.ActualPickupAt = &now
		}
		o.ActualDeliveryAt = &now
	case domain.OrderCancelled:
		o.CancelledAt = &now
		by := actor
		o.CancelledBy = &by
		o.CancelReason = note
	}

	return domain.StatusHistoryEntry{
		ID:        uuid.New(),
		OrderID:   o.ID,
		Previous:  prev,
		Current:   next,
		Actor:     actor,
		Note:      note,
		CreatedAt: now,
	}, nil
}

// ReleasesCourier reports whether entering status ends the courier's work on the order.
func ReleasesCourier(status domain.OrderStatus) bool {
	return status.Terminal()
}
