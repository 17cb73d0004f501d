package pubsub

import (
	"encoding/json"
	"time"
)

// Event types published on order channels.
const (
	EventOrderStatusChange   = "order_status_change"
	EventLocationUpdate      = "location_update"
	EventNewOrderForMatching = "new_order_for_matching"
)

// Event is one real-time message. Data holds the type-specific JSON payload.
type Event struct {
	Type      string          `json:"type"`
	Channel   string          `json:"-"`
	OrderID   string          `json:"order_id,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// OrderChannel returns the channel key of one order.
func OrderChannel(orderID string) string { return "order:" + orderID }

// NewEvent marshals data into an Event. Payloads are plain structs, so a
// marshal failure is a programming error.
func NewEvent(eventType, channel string, at time.Time, data any) Event {
	raw, err := json.Marshal(data)
	if err != nil {
		panic("pubsub: marshal event data: " + err.Error())
	}
	return Event{Type: eventType, Channel: channel, Timestamp: at.UTC(), Data: raw}
}

// NewOrderEvent builds an event routed to the channel of orderID.
func NewOrderEvent(eventType, orderID string, at time.Time, data any) Event {
	evt := NewEvent(eventType, OrderChannel(orderID), at, data)
	evt.OrderID = orderID
	return evt
}
