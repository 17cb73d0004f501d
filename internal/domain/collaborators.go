package domain

import (
	"time"

	"github.com/google/uuid"
)

// GeocodeResult is the answer of an address lookup.
type GeocodeResult struct {
	Point       Coordinates
	Approximate bool
}

// PaymentReceipt is returned by a successful charge.
type PaymentReceipt struct {
	TransactionID string
	Status        string
}

// NotificationReceipt acknowledges a notification handed to a provider.
type NotificationReceipt struct {
	ID      string
	Channel string
	Status  string
	SentAt  time.Time
}

// Notification channels.
const (
	ChannelPush  = "push"
	ChannelSMS   = "sms"
	ChannelEmail = "email"
)

// MatchingRequest asks the dispatch subsystem to find a courier for an order.
type MatchingRequest struct {
	OrderID           uuid.UUID   `json:"order_id"`
	PickupLocation    Coordinates `json:"pickup_location"`
	Urgency           UrgencyTier `json:"urgency"`
	EstimatedEarnings float64     `json:"estimated_earnings"`
	CreatedAt         time.Time   `json:"created_at"`
}
