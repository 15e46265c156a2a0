package handlers

import (
	"net/http"

	"dinehall-order-service/pkg/response"
)

// FloorView returns every table's snapshot for the host stand: occupancy,
// live items, open bill and running total.
func (h *Handler) FloorView(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.Engine.Snapshots())
}

// TableGet returns one table's snapshot.
func (h *Handler) TableGet(w http.ResponseWriter, r *http.Request) {
	tableID := readPathString(r, "tableId")
	response.Success(w, h.Engine.Snapshot(tableID))
}
