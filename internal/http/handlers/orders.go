package handlers

import (
	"net/http"

	"parcel-dispatch/internal/apperr"
	"parcel-dispatch/internal/logx"
	"parcel-dispatch/internal/service/orders"
)

// OrderHandler serves HTTP endpoints for order resources.
type OrderHandler struct {
	logger logx.Logger
	uc     orderUsecase
}

// NewOrderHandler wires an orderUsecase into HTTP handlers.
func NewOrderHandler(logger logx.Logger, uc orderUsecase) *OrderHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &OrderHandler{logger: logger, uc: uc}
}

// Create handles POST /orders. The sender is the acting user.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	sender, err := actorFromRequest(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	var req createOrderRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}

	o, err := h.uc.Create(r.Context(), orders.CreateInput{
		SenderID:    sender,
		Pickup:      req.Pickup.toInput(),
		Delivery:    req.Delivery.toInput(),
		Package:     req.Package.toModel(),
		Urgency:     req.Urgency,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	w.Header().Set("Location", "/orders/"+o.ID.String())
	writeJSON(h.logger, w, r, http.StatusCreated, orderToResponse(*o))
}

// Get handles GET /orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuidFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	o, err := h.uc.Get(r.Context(), id)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, orderToResponse(*o))
}

// History handles GET /orders/{id}/history.
func (h *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := uuidFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	list, err := h.uc.History(r.Context(), id)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, historyToResponse(list))
}

// Update handles PUT /orders/{id}. A status change goes through the state machine.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuidFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	actor, err := actorFromRequest(r)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	var req updateOrderRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	if req.Status == nil {
		writeError(h.logger, w, r, apperr.Invalid("nothing to update"))
		return
	}

	o, err := h.uc.UpdateStatus(r.Context(), orders.StatusInput{
		OrderID: id,
		Status:  *req.Status,
		Actor:   actor,
		Note:    req.Note,
	})
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, orderToResponse(*o))
}

// Pay handles POST /orders/{id}/pay.
func (h *OrderHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id, err := uuidFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	var req payRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	o, err := h.uc.Pay(r.Context(), id, req.Method)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, orderToResponse(*o))
}
