package handlers

import (
	"strings"

	"parcel-dispatch/internal/domain"
	"parcel-dispatch/internal/service/orders"
)

func (a addressDTO) toInput() orders.AddressInput {
	return orders.AddressInput{Line: strings.TrimSpace(a.Address), Point: a.Coordinates}
}

func (p packageDTO) toModel() domain.Package {
	return domain.Package{
		Type:              strings.TrimSpace(p.Type),
		Size:              p.Size,
		WeightKg:          p.WeightKg,
		DeclaredValue:     p.DeclaredValue,
		Fragile:           p.Fragile,
		PickupCondition:   p.PickupCondition,
		DeliveryCondition: p.DeliveryCondition,
	}
}

func addressToResponse(a domain.Address) addressDTO {
	p := a.Point
	return addressDTO{Address: a.Line, Coordinates: &p, Approximate: a.Approximate}
}

func packageToResponse(p domain.Package) packageDTO {
	return packageDTO{
		ID:                p.ID,
		Type:              p.Type,
		Size:              p.Size,
		WeightKg:          p.WeightKg,
		DeclaredValue:     p.DeclaredValue,
		Fragile:           p.Fragile,
		PickupCondition:   p.PickupCondition,
		DeliveryCondition: p.DeliveryCondition,
	}
}

func orderToResponse(o domain.Order) orderDTO {
	return orderDTO{
		ID:                  o.ID,
		SenderID:            o.SenderID,
		CourierID:           o.CourierID,
		Pickup:              addressToResponse(o.Pickup),
		Delivery:            addressToResponse(o.Delivery),
		Package:             packageToResponse(o.Package),
		Urgency:             o.Urgency,
		Status:              o.Status,
		Price:               o.Price,
		DistanceKm:          o.DistanceKm,
		PaymentStatus:       o.PaymentStatus,
		TransactionID:       o.TransactionID,
		EstimatedPickupAt:   o.EstimatedPickupAt,
		EstimatedDeliveryAt: o.EstimatedDeliveryAt,
		ActualPickupAt:      o.ActualPickupAt,
		ActualDeliveryAt:    o.ActualDeliveryAt,
		CancelledBy:         o.CancelledBy,
		CancelReason:        o.CancelReason,
		CancelledAt:         o.CancelledAt,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}
}

func historyToResponse(list []domain.StatusHistoryEntry) []historyEntryDTO {
	out := make([]historyEntryDTO, 0, len(list))
	for _, e := range list {
		out = append(out, historyEntryDTO{
			ID:        e.ID,
			Previous:  e.Previous,
			Current:   e.Current,
			Actor:     e.Actor,
			Note:      e.Note,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}

func offerToResponse(o domain.AssignmentOffer) offerDTO {
	return offerDTO{
		ID:               o.ID,
		OrderID:          o.OrderID,
		CourierID:        o.CourierID,
		Type:             o.Type,
		Status:           o.Status,
		OfferedAt:        o.OfferedAt,
		ResponseDeadline: o.ResponseDeadline,
		ResolvedAt:       o.ResolvedAt,
		DeclineReason:    o.DeclineReason,
		DistanceToPickup: o.DistanceToPickup,
	}
}

func availabilityToResponse(a domain.CourierAvailability) availabilityDTO {
	return availabilityDTO{
		CourierID:     a.CourierID,
		Online:        a.Online,
		Status:        a.Status,
		MaxOrders:     a.MaxOrders,
		CurrentOrders: a.CurrentOrders,
		LastPosition:  a.LastPosition,
		UpdatedAt:     a.UpdatedAt,
	}
}
