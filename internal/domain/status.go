package domain

// OrderStatus is the canonical lifecycle status of a delivery order.
type OrderStatus string

// List of order statuses.
const (
	OrderPending          OrderStatus = "pending"
	OrderCourierAssigned  OrderStatus = "courier_assigned"
	OrderPickupInProgress OrderStatus = "pickup_in_progress"
	OrderInTransit        OrderStatus = "in_transit"
	OrderDelivered        OrderStatus = "delivered"
	OrderCancelled        OrderStatus = "cancelled"
	OrderFailed           OrderStatus = "failed"
)

var allowedOrderStatuses = [...]OrderStatus{
	OrderPending, OrderCourierAssigned, OrderPickupInProgress, OrderInTransit,
	OrderDelivered, OrderCancelled, OrderFailed,
}

// Valid checks if the OrderStatus is known.
func (s OrderStatus) Valid() bool {
	for _, v := range allowedOrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is permitted from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled || s == OrderFailed
}

// PaymentStatus tracks checkout of an order.
type PaymentStatus string

// List of payment statuses.
const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// OfferStatus is the status of an assignment offer.
type OfferStatus string

// List of offer statuses.
const (
	OfferPending   OfferStatus = "pending"
	OfferAccepted  OfferStatus = "accepted"
	OfferDeclined  OfferStatus = "declined"
	OfferExpired   OfferStatus = "expired"
	OfferCancelled OfferStatus = "cancelled"
)

// AssignmentType describes how an offer came to exist.
type AssignmentType string

// List of assignment types.
const (
	AssignmentAutoMatch        AssignmentType = "auto_match"
	AssignmentManual           AssignmentType = "manual"
	AssignmentCourierInitiated AssignmentType = "courier_initiated"
)

// Valid checks if the AssignmentType is known.
func (t AssignmentType) Valid() bool {
	switch t {
	case AssignmentAutoMatch, AssignmentManual, AssignmentCourierInitiated:
		return true
	default:
		return false
	}
}

// Decision is a courier's answer to an offer.
type Decision string

// List of decisions.
const (
	DecisionAccept  Decision = "accept"
	DecisionDecline Decision = "decline"
)

// Valid checks if the Decision is known.
func (d Decision) Valid() bool {
	return d == DecisionAccept || d == DecisionDecline
}

// AvailabilityStatus is the courier's working state.
type AvailabilityStatus string

// List of courier availability statuses.
const (
	AvailabilityOnline     AvailabilityStatus = "online"
	AvailabilityOffline    AvailabilityStatus = "offline"
	AvailabilityOnBreak    AvailabilityStatus = "on_break"
	AvailabilityInDelivery AvailabilityStatus = "in_delivery"
)

// Valid checks if the AvailabilityStatus is known.
func (s AvailabilityStatus) Valid() bool {
	switch s {
	case AvailabilityOnline, AvailabilityOffline, AvailabilityOnBreak, AvailabilityInDelivery:
		return true
	default:
		return false
	}
}
