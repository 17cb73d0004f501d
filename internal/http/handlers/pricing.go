package handlers

import (
	"net/http"
	"time"

	"parcel-dispatch/internal/geo"
	"parcel-dispatch/internal/logx"
	"parcel-dispatch/internal/pricing"
)

// PricingHandler serves price estimates.
type PricingHandler struct {
	logger logx.Logger
	quoter quoter
	now    func() time.Time
}

// NewPricingHandler wires a quoter into HTTP handlers.
func NewPricingHandler(logger logx.Logger, q quoter) *PricingHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &PricingHandler{logger: logger, quoter: q, now: time.Now}
}

// Estimate handles POST /pricing/estimate.
func (h *PricingHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	if req.Pickup == nil || req.Delivery == nil {
		writeInvalid(h.logger, w, r, "pickup and delivery coordinates are required")
		return
	}
	if !req.Pickup.Valid() || !req.Delivery.Valid() {
		writeInvalid(h.logger, w, r, "coordinates out of range")
		return
	}
	if !req.Package.Size.Valid() {
		writeInvalid(h.logger, w, r, "unknown package size")
		return
	}
	if !req.Urgency.Valid() {
		writeInvalid(h.logger, w, r, "unknown urgency tier")
		return
	}

	now := h.now().UTC()
	if err := pricing.CheckSchedule(req.Urgency, req.ScheduledAt, now); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	distance := geo.Between(*req.Pickup, *req.Delivery)
	price, err := h.quoter.Quote(distance, pricing.PackageSpec{Size: req.Package.Size, Fragile: req.Package.Fragile}, req.Urgency)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	pickup, delivery := pricing.EstimateTimes(req.Urgency, now, req.ScheduledAt)
	writeJSON(h.logger, w, r, http.StatusOK, estimateResponse{
		DistanceKm:          pricing.Round2(distance),
		Price:               price,
		EstimatedPickupAt:   pickup,
		EstimatedDeliveryAt: delivery,
	})
}
