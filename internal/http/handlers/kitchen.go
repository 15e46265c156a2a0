package handlers

import (
	"net/http"

	"dinehall-order-service/internal/engine"
	"dinehall-order-service/pkg/response"
)

// KitchenQueue returns the floor-wide work queue for one status, priority
// tickets first. Defaults to pending, the "what do I cook next" view.
func (h *Handler) KitchenQueue(w http.ResponseWriter, r *http.Request) {
	status := engine.StatusPending
	if value := r.URL.Query().Get("status"); value != "" {
		status = engine.Status(value)
		if !status.Valid() {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "unknown status")
			return
		}
	}
	response.Success(w, h.Engine.KitchenQueue(status))
}

type transitionRequest struct {
	Reason          string `json:"reason"`
	ExpectedVersion *int   `json:"expectedVersion"`
}

func (h *Handler) transitionRequest(w http.ResponseWriter, r *http.Request) (transitionRequest, bool) {
	var req transitionRequest
	if r.ContentLength == 0 {
		return req, true
	}
	if !decodeJSON(w, r, &req) {
		return req, false
	}
	return req, true
}

type transitionFunc func(h *Handler, r *http.Request, tableID string, req engine.TransitionRequest) (engine.OrderItem, error)

func (h *Handler) applyTransition(w http.ResponseWriter, r *http.Request, apply transitionFunc) {
	tableID := readPathString(r, "tableId")
	body, ok := h.transitionRequest(w, r)
	if !ok {
		return
	}

	item, err := apply(h, r, tableID, engine.TransitionRequest{
		ActorID:         actorID(r),
		Reason:          body.Reason,
		ExpectedVersion: body.ExpectedVersion,
	})
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	response.Success(w, item)
}

// ItemStartPreparing claims a pending ticket for the kitchen.
func (h *Handler) ItemStartPreparing(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, func(h *Handler, r *http.Request, tableID string, req engine.TransitionRequest) (engine.OrderItem, error) {
		itemID, ok := readPathUUID(r, "itemId")
		if !ok {
			return engine.OrderItem{}, engine.ErrItemNotFound
		}
		return h.Engine.StartPreparing(r.Context(), tableID, itemID, req)
	})
}

// ItemMarkReady flags a dish as ready for the pass.
func (h *Handler) ItemMarkReady(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, func(h *Handler, r *http.Request, tableID string, req engine.TransitionRequest) (engine.OrderItem, error) {
		itemID, ok := readPathUUID(r, "itemId")
		if !ok {
			return engine.OrderItem{}, engine.ErrItemNotFound
		}
		return h.Engine.MarkReady(r.Context(), tableID, itemID, req)
	})
}

// ItemMarkServed records delivery to the table.
func (h *Handler) ItemMarkServed(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, func(h *Handler, r *http.Request, tableID string, req engine.TransitionRequest) (engine.OrderItem, error) {
		itemID, ok := readPathUUID(r, "itemId")
		if !ok {
			return engine.OrderItem{}, engine.ErrItemNotFound
		}
		return h.Engine.MarkServed(r.Context(), tableID, itemID, req)
	})
}

// ItemCancel voids a pending ticket with a reason. Anything past pending is
// refused with a conflict.
func (h *Handler) ItemCancel(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, func(h *Handler, r *http.Request, tableID string, req engine.TransitionRequest) (engine.OrderItem, error) {
		itemID, ok := readPathUUID(r, "itemId")
		if !ok {
			return engine.OrderItem{}, engine.ErrItemNotFound
		}
		return h.Engine.Cancel(r.Context(), tableID, itemID, req)
	})
}
