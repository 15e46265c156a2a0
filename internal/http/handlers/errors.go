package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"dinehall-order-service/internal/catalog"
	"dinehall-order-service/internal/engine"
	"dinehall-order-service/pkg/response"
)

// writeEngineError maps domain errors onto the response envelope. Anything
// unrecognized is a 500 and gets logged; domain rejections do not.
func (h *Handler) writeEngineError(w http.ResponseWriter, err error) {
	var invalid *engine.InvalidTransitionError
	switch {
	case errors.As(err, &invalid):
		response.Error(w, http.StatusConflict, "INVALID_TRANSITION", invalid.Error())
	case errors.Is(err, engine.ErrEmptyCart):
		response.Error(w, http.StatusBadRequest, "EMPTY_CART", "Cart has no items")
	case errors.Is(err, engine.ErrNoBillableItems):
		response.Error(w, http.StatusBadRequest, "NO_BILLABLE_ITEMS", "Table has no billable items")
	case errors.Is(err, engine.ErrBillAlreadyOpen):
		response.Error(w, http.StatusConflict, "BILL_ALREADY_OPEN", "Table already has an open bill")
	case errors.Is(err, engine.ErrBillNotFound):
		response.Error(w, http.StatusNotFound, "BILL_NOT_FOUND", "Bill not found")
	case errors.Is(err, engine.ErrAlreadyPaid):
		response.Error(w, http.StatusConflict, "ALREADY_PAID", "Bill is already paid")
	case errors.Is(err, engine.ErrInvalidSplitCount):
		response.Error(w, http.StatusBadRequest, "INVALID_SPLIT_COUNT", "Split requires at least 2 payers")
	case errors.Is(err, engine.ErrConcurrentModification):
		response.Error(w, http.StatusConflict, "CONCURRENT_MODIFICATION", "Item was modified by someone else; refresh and retry")
	case errors.Is(err, engine.ErrItemNotFound):
		response.Error(w, http.StatusNotFound, "ITEM_NOT_FOUND", "Order item not found")
	case errors.Is(err, engine.ErrInvalidBillInput):
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, catalog.ErrNotFound):
		response.Error(w, http.StatusNotFound, "MENU_ITEM_NOT_FOUND", "Menu item not found or inactive")
	default:
		if h.Logger != nil {
			h.Logger.Error("request failed", zap.Error(err))
		}
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
