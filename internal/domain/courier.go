package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultMaxOrders is the concurrent order capacity of a courier that never set one.
const DefaultMaxOrders = 1

// CourierAvailability is the courier's working state and last known position.
type CourierAvailability struct {
	CourierID     uuid.UUID
	Online        bool
	Status        AvailabilityStatus
	MaxOrders     int
	CurrentOrders int
	LastPosition  *Coordinates
	UpdatedAt     time.Time
}

// HasCapacity reports whether the courier can take another order.
func (c *CourierAvailability) HasCapacity() bool {
	return c.Online && c.Status == AvailabilityOnline && c.CurrentOrders < c.MaxOrders
}

// Telemetry is the device data sent along with a position.
type Telemetry struct {
	AccuracyM float64 `json:"accuracy_m"`
	SpeedKmh  float64 `json:"speed_kmh"`
	Heading   float64 `json:"heading"`
	Battery   int     `json:"battery"`
}

// LocationPing is one sample of the courier position time series.
type LocationPing struct {
	ID        uuid.UUID
	CourierID uuid.UUID
	OrderID   *uuid.UUID
	Point     Coordinates
	Telemetry Telemetry
	CreatedAt time.Time
}
