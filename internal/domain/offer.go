package domain

import (
	"time"

	"github.com/google/uuid"
)

// AssignmentOffer is a time-bounded proposal that a courier fulfill an order.
type AssignmentOffer struct {
	ID               uuid.UUID
	OrderID          uuid.UUID
	CourierID        uuid.UUID
	Type             AssignmentType
	Status           OfferStatus
	OfferedAt        time.Time
	ResponseDeadline time.Time
	ResolvedAt       *time.Time
	DeclineReason    string
	DistanceToPickup float64
}

// Overdue reports whether the response deadline has passed at now.
func (o *AssignmentOffer) Overdue(now time.Time) bool {
	return now.After(o.ResponseDeadline)
}

// Resolve moves a pending offer into a terminal status.
func (o *AssignmentOffer) Resolve(status OfferStatus, at time.Time) {
	o.Status = status
	o.ResolvedAt = &at
}
