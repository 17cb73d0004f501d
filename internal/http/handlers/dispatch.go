package handlers

import (
	"net/http"
	"time"

	"parcel-dispatch/internal/apperr"
	"parcel-dispatch/internal/domain"
	"parcel-dispatch/internal/logx"
	"parcel-dispatch/internal/service/dispatch"
)

// maxResponseWindowSeconds caps a requested response window at one day.
const maxResponseWindowSeconds = 24 * 60 * 60

// DispatchHandler serves assignment offers and courier responses.
type DispatchHandler struct {
	logger logx.Logger
	uc     dispatchUsecase
}

// NewDispatchHandler wires a dispatchUsecase into HTTP handlers.
func NewDispatchHandler(logger logx.Logger, uc dispatchUsecase) *DispatchHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &DispatchHandler{logger: logger, uc: uc}
}

// CreateOffer handles POST /orders/{id}/offers.
func (h *DispatchHandler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuidFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	var req createOfferRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}

	in := dispatch.OfferInput{
		OrderID:   orderID,
		CourierID: req.CourierID,
		Type:      req.AssignmentType,
	}
	if in.Type == "" {
		in.Type = domain.AssignmentManual
	}
	if req.ResponseWindowSeconds != nil {
		switch secs := *req.ResponseWindowSeconds; {
		case secs <= 0:
			writeError(h.logger, w, r, apperr.Invalid("response_window_seconds must be positive"))
			return
		case secs > maxResponseWindowSeconds:
			writeError(h.logger, w, r, apperr.Invalid("response_window_seconds must not exceed 86400"))
			return
		}
		in.ResponseWindow = time.Duration(*req.ResponseWindowSeconds) * time.Second
	}

	offer, err := h.uc.Offer(r.Context(), in)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusCreated, offerToResponse(*offer))
}

// Respond handles POST /assignments/{id}/respond. The courier is the acting user.
func (h *DispatchHandler) Respond(w http.ResponseWriter, r *http.Request) {
	offerID, err := uuidFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	courierID, err := actorFromRequest(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	var req respondRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}

	res, err := h.uc.Respond(r.Context(), dispatch.RespondInput{
		OfferID:       offerID,
		CourierID:     courierID,
		Decision:      req.Decision,
		DeclineReason: req.DeclineReason,
	})
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	out := respondResponse{Offer: offerToResponse(res.Offer)}
	if res.Order != nil {
		o := orderToResponse(*res.Order)
		out.Order = &o
	}
	writeJSON(h.logger, w, r, http.StatusOK, out)
}
