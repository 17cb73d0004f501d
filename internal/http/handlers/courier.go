package handlers

import (
	"net/http"

	"parcel-dispatch/internal/apperr"
	"parcel-dispatch/internal/logx"
	"parcel-dispatch/internal/service/courier"
	"parcel-dispatch/internal/service/location"
)

// CourierHandler serves courier positions and availability.
type CourierHandler struct {
	logger   logx.Logger
	uc       courierUsecase
	location locationUsecase
}

// NewCourierHandler wires courier and location usecases into HTTP handlers.
func NewCourierHandler(logger logx.Logger, uc courierUsecase, loc locationUsecase) *CourierHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &CourierHandler{logger: logger, uc: uc, location: loc}
}

// UpdateLocation handles POST /couriers/location. The courier is the acting user.
func (h *CourierHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	courierID, err := actorFromRequest(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	var req locationRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	if req.Coordinates == nil {
		writeError(h.logger, w, r, apperr.Invalid("coordinates are required"))
		return
	}

	ping, err := h.location.PublishPing(r.Context(), location.PingInput{
		CourierID: courierID,
		OrderID:   req.OrderID,
		Point:     *req.Coordinates,
		Telemetry: req.Telemetry,
	})
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusAccepted, locationResponse{ID: ping.ID, CreatedAt: ping.CreatedAt})
}

// SetAvailability handles PUT /couriers/{id}/availability.
func (h *CourierHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := uuidFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	var req availabilityRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}

	a, err := h.uc.SetAvailability(r.Context(), courier.AvailabilityInput{
		CourierID: id,
		Status:    req.Status,
		MaxOrders: req.MaxOrders,
	})
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, availabilityToResponse(*a))
}

// GetAvailability handles GET /couriers/{id}/availability.
func (h *CourierHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := uuidFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	a, err := h.uc.GetAvailability(r.Context(), id)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, availabilityToResponse(*a))
}
