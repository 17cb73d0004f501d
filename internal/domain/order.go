package domain

import (
	"time"

	"github.com/google/uuid"
)

// Coordinates is a WGS84 point in degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the point lies within latitude/longitude bounds.
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Address is a pickup or delivery location. Approximate is set when the
// coordinates come from a geocoder fallback rather than a precise match.
type Address struct {
	Line        string
	Point       Coordinates
	Approximate bool
}

// PriceBreakdown is an itemized quote. Total is the sum of every other field.
type PriceBreakdown struct {
	Base           float64 `json:"base"`
	UrgencyPremium float64 `json:"urgency_premium"`
	SizePremium    float64 `json:"size_premium"`
	HandlingFee    float64 `json:"handling_fee"`
	ServiceFee     float64 `json:"service_fee"`
	Tax            float64 `json:"tax"`
	Total          float64 `json:"total"`
}

// Order is a delivery order. It is mutated only through status transitions
// and never deleted.
type Order struct {
	ID        uuid.UUID
	SenderID  uuid.UUID
	CourierID *uuid.UUID

	Pickup   Address
	Delivery Address
	Package  Package
	Urgency  UrgencyTier

	Status        OrderStatus
	Price         PriceBreakdown
	DistanceKm    float64
	PaymentStatus PaymentStatus
	TransactionID string

	EstimatedPickupAt   time.Time
	EstimatedDeliveryAt time.Time
	ActualPickupAt      *time.Time
	ActualDeliveryAt    *time.Time

	CancelledBy  *uuid.UUID
	CancelReason string
	CancelledAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasCourier reports whether a courier is attached to the order.
func (o *Order) HasCourier() bool {
	return o.CourierID != nil && *o.CourierID != uuid.Nil
}

// StatusHistoryEntry is one append-only audit record of a status transition.
type StatusHistoryEntry struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	Previous  OrderStatus
	Current   OrderStatus
	Actor     uuid.UUID
	Note      string
	CreatedAt time.Time
}
