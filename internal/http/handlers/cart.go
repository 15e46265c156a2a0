package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"dinehall-order-service/internal/engine"
	"dinehall-order-service/pkg/response"
)

type cartItemRequest struct {
	MenuItemID          string `json:"menuItemId"`
	Quantity            int    `json:"quantity"`
	SpecialInstructions string `json:"specialInstructions"`
	IsPriority          bool   `json:"isPriority"`
}

type cartView struct {
	SessionID string            `json:"sessionId"`
	Lines     []engine.CartLine `json:"lines"`
	Total     float64           `json:"total"`
}

func (h *Handler) cartView(sessionID string) cartView {
	cart := h.Engine.CartFor(sessionID)
	return cartView{
		SessionID: sessionID,
		Lines:     cart.Lines(),
		Total:     cart.Total(),
	}
}

// CartGet returns the session's staged lines and running total.
func (h *Handler) CartGet(w http.ResponseWriter, r *http.Request) {
	sessionID := readPathString(r, "sessionId")
	response.Success(w, h.cartView(sessionID))
}

// CartAddItem stages a menu item. Prices are captured from the catalog at add
// time; repeated adds of the same item merge into one line.
func (h *Handler) CartAddItem(w http.ResponseWriter, r *http.Request) {
	sessionID := readPathString(r, "sessionId")

	var req cartItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	menuItemID, err := uuid.Parse(req.MenuItemID)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "menuItemId must be a UUID")
		return
	}
	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	snap, err := h.Catalog.Lookup(r.Context(), menuItemID)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	cart := h.Engine.CartFor(sessionID)
	cart.AddLine(engine.CartLine{
		MenuItemID:          snap.MenuItemID,
		Name:                snap.Name,
		UnitPrice:           snap.UnitPrice,
		Quantity:            quantity,
		SpecialInstructions: req.SpecialInstructions,
		IsPriority:          req.IsPriority,
	})

	response.Success(w, h.cartView(sessionID))
}

// CartSetQuantity updates one line. Zero or negative removes it.
func (h *Handler) CartSetQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID := readPathString(r, "sessionId")
	menuItemID, ok := readPathUUID(r, "menuItemId")
	if !ok {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "menuItemId must be a UUID")
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	h.Engine.CartFor(sessionID).SetQuantity(menuItemID, req.Quantity)
	response.Success(w, h.cartView(sessionID))
}

// CartRemoveItem drops one line from the cart.
func (h *Handler) CartRemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID := readPathString(r, "sessionId")
	menuItemID, ok := readPathUUID(r, "menuItemId")
	if !ok {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "menuItemId must be a UUID")
		return
	}

	h.Engine.CartFor(sessionID).Remove(menuItemID)
	response.Success(w, h.cartView(sessionID))
}

// CartClear abandons the staged cart entirely.
func (h *Handler) CartClear(w http.ResponseWriter, r *http.Request) {
	sessionID := readPathString(r, "sessionId")
	h.Engine.DropCart(sessionID)
	response.Success(w, map[string]any{"sessionId": sessionID, "cleared": true})
}
