package handlers

import (
	"time"

	"github.com/google/uuid"

	"parcel-dispatch/internal/domain"
)

type packageSpecDTO struct {
	Size    domain.SizeCategory `json:"size"`
	Fragile bool                `json:"fragile"`
}

type estimateRequest struct {
	Pickup      *domain.Coordinates `json:"pickup"`
	Delivery    *domain.Coordinates `json:"delivery"`
	Package     packageSpecDTO      `json:"package"`
	Urgency     domain.UrgencyTier  `json:"urgency"`
	ScheduledAt *time.Time          `json:"scheduled_at,omitempty"`
}

type estimateResponse struct {
	DistanceKm          float64               `json:"distance_km"`
	Price               domain.PriceBreakdown `json:"price"`
	EstimatedPickupAt   time.Time             `json:"estimated_pickup_at"`
	EstimatedDeliveryAt time.Time             `json:"estimated_delivery_at"`
}

type addressDTO struct {
	Address     string              `json:"address,omitempty"`
	Coordinates *domain.Coordinates `json:"coordinates,omitempty"`
	Approximate bool                `json:"approximate,omitempty"`
}

type packageDTO struct {
	ID                uuid.UUID           `json:"id,omitempty"`
	Type              string              `json:"type,omitempty"`
	Size              domain.SizeCategory `json:"size"`
	WeightKg          float64             `json:"weight_kg"`
	DeclaredValue     float64             `json:"declared_value"`
	Fragile           bool                `json:"fragile"`
	PickupCondition   string              `json:"pickup_condition,omitempty"`
	DeliveryCondition string              `json:"delivery_condition,omitempty"`
}

type createOrderRequest struct {
	Pickup      addressDTO         `json:"pickup"`
	Delivery    addressDTO         `json:"delivery"`
	Package     packageDTO         `json:"package"`
	Urgency     domain.UrgencyTier `json:"urgency"`
	ScheduledAt *time.Time         `json:"scheduled_at,omitempty"`
}

type updateOrderRequest struct {
	Status *domain.OrderStatus `json:"status,omitempty"`
	Note   string              `json:"note,omitempty"`
}

type payRequest struct {
	Method string `json:"method"`
}

type orderDTO struct {
	ID                  uuid.UUID             `json:"id"`
	SenderID            uuid.UUID             `json:"sender_id"`
	CourierID           *uuid.UUID            `json:"courier_id,omitempty"`
	Pickup              addressDTO            `json:"pickup"`
	Delivery            addressDTO            `json:"delivery"`
	Package             packageDTO            `json:"package"`
	Urgency             domain.UrgencyTier    `json:"urgency"`
	Status              domain.OrderStatus    `json:"status"`
	Price               domain.PriceBreakdown `json:"price"`
	DistanceKm          float64               `json:"distance_km"`
	PaymentStatus       domain.PaymentStatus  `json:"payment_status"`
	TransactionID       string                `json:"transaction_id,omitempty"`
	EstimatedPickupAt   time.Time             `json:"estimated_pickup_at"`
	EstimatedDeliveryAt time.Time             `json:"estimated_delivery_at"`
	ActualPickupAt      *time.Time            `json:"actual_pickup_at,omitempty"`
	ActualDeliveryAt    *time.Time            `json:"actual_delivery_at,omitempty"`
	CancelledBy         *uuid.UUID            `json:"cancelled_by,omitempty"`
	CancelReason        string                `json:"cancel_reason,omitempty"`
	CancelledAt         *time.Time            `json:"cancelled_at,omitempty"`
	CreatedAt           time.Time             `json:"created_at"`
	UpdatedAt           time.Time             `json:"updated_at"`
}

type historyEntryDTO struct {
	ID        uuid.UUID          `json:"id"`
	Previous  domain.OrderStatus `json:"previous,omitempty"`
	Current   domain.OrderStatus `json:"current"`
	Actor     uuid.UUID          `json:"actor"`
	Note      string             `json:"note,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

type createOfferRequest struct {
	CourierID             uuid.UUID             `json:"courier_id"`
	ResponseWindowSeconds *int                  `json:"response_window_seconds,omitempty"`
	AssignmentType        domain.AssignmentType `json:"assignment_type,omitempty"`
}

type offerDTO struct {
	ID               uuid.UUID             `json:"id"`
	OrderID          uuid.UUID             `json:"order_id"`
	CourierID        uuid.UUID             `json:"courier_id"`
	Type             domain.AssignmentType `json:"assignment_type"`
	Status           domain.OfferStatus    `json:"status"`
	OfferedAt        time.Time             `json:"offered_at"`
	ResponseDeadline time.Time             `json:"response_deadline"`
	ResolvedAt       *time.Time            `json:"resolved_at,omitempty"`
	DeclineReason    string                `json:"decline_reason,omitempty"`
	DistanceToPickup float64               `json:"distance_to_pickup_km"`
}

type respondRequest struct {
	Decision      domain.Decision `json:"decision"`
	DeclineReason string          `json:"decline_reason,omitempty"`
}

type respondResponse struct {
	Offer offerDTO  `json:"offer"`
	Order *orderDTO `json:"order,omitempty"`
}

type locationRequest struct {
	OrderID     *uuid.UUID          `json:"order_id,omitempty"`
	Coordinates *domain.Coordinates `json:"coordinates"`
	Telemetry   domain.Telemetry    `json:"telemetry"`
}

type locationResponse struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

type availabilityRequest struct {
	Status    domain.AvailabilityStatus `json:"status"`
	MaxOrders *int                      `json:"max_orders,omitempty"`
}

type availabilityDTO struct {
	CourierID     uuid.UUID                 `json:"courier_id"`
	Online        bool                      `json:"online"`
	Status        domain.AvailabilityStatus `json:"status"`
	MaxOrders     int                       `json:"max_orders"`
	CurrentOrders int                       `json:"current_orders"`
	LastPosition  *domain.Coordinates       `json:"last_position,omitempty"`
	UpdatedAt     time.Time                 `json:"updated_at"`
}
