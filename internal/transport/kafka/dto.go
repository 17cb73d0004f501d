package kafka

import (
	"encoding/json"
	"strings"
	"time"

	"parcel-dispatch/internal/pubsub"
)

// EventDTO is the wire form of a pubsub.Event on Kafka topics.
type EventDTO struct {
	Type      string          `json:"type"`
	OrderID   string          `json:"order_id"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// ToEvent converts EventDTO to pubsub.Event.
func ToEvent(dto EventDTO) pubsub.Event {
	orderID := strings.TrimSpace(dto.OrderID)
	evt := pubsub.Event{
		Type:      strings.TrimSpace(dto.Type),
		OrderID:   orderID,
		Timestamp: dto.Timestamp.UTC(),
		Data:      dto.Data,
	}
	if orderID != "" {
		evt.Channel = pubsub.OrderChannel(orderID)
	}
	return evt
}

// FromEvent converts pubsub.Event to EventDTO.
func FromEvent(evt pubsub.Event) EventDTO {
	return EventDTO{
		Type:      evt.Type,
		OrderID:   evt.OrderID,
		Timestamp: evt.Timestamp.UTC(),
		Data:      evt.Data,
	}
}
