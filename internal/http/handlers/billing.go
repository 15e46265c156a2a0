package handlers

import (
	"net/http"

	"dinehall-order-service/internal/engine"
	"dinehall-order-service/pkg/response"
)

type billRequest struct {
	PaymentType             string   `json:"paymentType"`
	TaxPercentage           *float64 `json:"taxPercentage"`
	ServiceChargePercentage *float64 `json:"serviceChargePercentage"`
	DiscountType            string   `json:"discountType"`
	DiscountValue           float64  `json:"discountValue"`
}

func (h *Handler) billRequest(r *http.Request, req billRequest) engine.BillRequest {
	out := engine.BillRequest{
		PaymentType:             req.PaymentType,
		TaxPercentage:           h.Config.DefaultTaxPercentage,
		ServiceChargePercentage: h.Config.DefaultServiceChargePercent,
		CreatedByID:             actorID(r),
	}
	if req.TaxPercentage != nil {
		out.TaxPercentage = *req.TaxPercentage
	}
	if req.ServiceChargePercentage != nil {
		out.ServiceChargePercentage = *req.ServiceChargePercentage
	}
	if req.DiscountType != "" {
		out.Discount = engine.Discount{
			Type:  engine.DiscountType(req.DiscountType),
			Value: req.DiscountValue,
		}
	}
	return out
}

// BillCreate opens a bill over the table's billable items.
func (h *Handler) BillCreate(w http.ResponseWriter, r *http.Request) {
	tableID := readPathString(r, "tableId")

	var req billRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	bill, err := h.Engine.CreateBill(r.Context(), tableID, h.billRequest(r, req))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"data":    bill,
	})
}

// BillList returns the table's bills, newest first.
func (h *Handler) BillList(w http.ResponseWriter, r *http.Request) {
	tableID := readPathString(r, "tableId")
	response.Success(w, h.Engine.BillsForTable(tableID))
}

// BillGet returns one bill.
func (h *Handler) BillGet(w http.ResponseWriter, r *http.Request) {
	tableID := readPathString(r, "tableId")
	billID, ok := readPathUUID(r, "billId")
	if !ok {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "billId must be a UUID")
		return
	}

	bill, err := h.Engine.Bill(tableID, billID)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	response.Success(w, bill)
}

// BillUpdateStatus records partial payments and refunds.
func (h *Handler) BillUpdateStatus(w http.ResponseWriter, r *http.Request) {
	tableID := readPathString(r, "tableId")
	billID, ok := readPathUUID(r, "billId")
	if !ok {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "billId must be a UUID")
		return
	}

	var req struct {
		PaymentStatus string   `json:"paymentStatus"`
		PaidAmount    *float64 `json:"paidAmount"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	bill, err := h.Engine.UpdateBillStatus(r.Context(), tableID, billID, engine.PaymentStatus(req.PaymentStatus), req.PaidAmount)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	response.Success(w, bill)
}

// BillComplete settles the bill in full and frees the table.
func (h *Handler) BillComplete(w http.ResponseWriter, r *http.Request) {
	tableID := readPathString(r, "tableId")
	billID, ok := readPathUUID(r, "billId")
	if !ok {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "billId must be a UUID")
		return
	}

	bill, err := h.Engine.MarkBillComplete(r.Context(), tableID, billID)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	response.Success(w, bill)
}

// BillSplit computes the even per-payer share of a bill. The result is
// advisory; nothing about the bill changes.
func (h *Handler) BillSplit(w http.ResponseWriter, r *http.Request) {
	tableID := readPathString(r, "tableId")
	billID, ok := readPathUUID(r, "billId")
	if !ok {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "billId must be a UUID")
		return
	}

	var req struct {
		PayerCount int `json:"payerCount"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	split, err := h.Engine.Split(tableID, billID, req.PayerCount)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	response.Success(w, split)
}
