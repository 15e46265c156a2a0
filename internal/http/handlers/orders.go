package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"dinehall-order-service/internal/auth"
	"dinehall-order-service/internal/engine"
	"dinehall-order-service/internal/middleware"
	"dinehall-order-service/pkg/response"
)

type placeOrderRequest struct {
	SessionID string `json:"sessionId"`
}

// OrderPlace commits the session's cart onto the table ledger. The whole
// cart lands or none of it does.
func (h *Handler) OrderPlace(w http.ResponseWriter, r *http.Request) {
	tableID := readPathString(r, "tableId")

	var req placeOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.SessionID == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "sessionId is required")
		return
	}

	cart := h.Engine.CartFor(req.SessionID)
	items, err := h.Engine.PlaceOrder(r.Context(), tableID, cart, h.placeMeta(r))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"data":    items,
	})
}

type bulkOrderRequest struct {
	Items []cartItemRequest `json:"items"`
}

// OrderPlaceBulk submits items directly without a staged cart, for POS
// terminals that batch a whole round of table orders in one call.
func (h *Handler) OrderPlaceBulk(w http.ResponseWriter, r *http.Request) {
	tableID := readPathString(r, "tableId")

	var req bulkOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Items) == 0 {
		response.Error(w, http.StatusBadRequest, "EMPTY_CART", "items is required")
		return
	}

	cart := engine.NewCart()
	for _, entry := range req.Items {
		menuItemID, err := uuid.Parse(entry.MenuItemID)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "menuItemId must be a UUID")
			return
		}
		snap, err := h.Catalog.Lookup(r.Context(), menuItemID)
		if err != nil {
			h.writeEngineError(w, err)
			return
		}
		quantity := entry.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		cart.AddLine(engine.CartLine{
			MenuItemID:          snap.MenuItemID,
			Name:                snap.Name,
			UnitPrice:           snap.UnitPrice,
			Quantity:            quantity,
			SpecialInstructions: entry.SpecialInstructions,
			IsPriority:          entry.IsPriority,
		})
	}

	items, err := h.Engine.PlaceOrder(r.Context(), tableID, cart, h.placeMeta(r))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"data":    items,
	})
}

// TableItems returns the table's ledger. ?view=active narrows to the live
// session; ?status= filters by kitchen status.
func (h *Handler) TableItems(w http.ResponseWriter, r *http.Request) {
	tableID := readPathString(r, "tableId")

	if status := r.URL.Query().Get("status"); status != "" {
		s := engine.Status(status)
		if !s.Valid() {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "unknown status")
			return
		}
		response.Success(w, h.Engine.ItemsByStatus(tableID, s))
		return
	}

	if r.URL.Query().Get("view") == "active" {
		response.Success(w, h.Engine.ActiveItemsForTable(tableID))
		return
	}
	response.Success(w, h.Engine.ItemsForTable(tableID))
}

// TableItemGet returns one ledger entry.
func (h *Handler) TableItemGet(w http.ResponseWriter, r *http.Request) {
	tableID := readPathString(r, "tableId")
	itemID, ok := readPathUUID(r, "itemId")
	if !ok {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "itemId must be a UUID")
		return
	}

	item, err := h.Engine.Item(tableID, itemID)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	response.Success(w, item)
}

func (h *Handler) placeMeta(r *http.Request) engine.PlaceMeta {
	meta := engine.PlaceMeta{}
	if ac, ok := middleware.GetAuthContext(r.Context()); ok {
		meta.ActorID = ac.UserID
		meta.DeviceName = ac.DeviceName
		switch ac.Role {
		case auth.RoleOwner:
			meta.OrderBy = engine.OrderByOwner
		case auth.RoleEmployee:
			meta.OrderBy = engine.OrderByEmployee
		default:
			meta.OrderBy = engine.OrderByGuest
		}
	}
	return meta
}
