package handlers

import (
	"net/http"

	"dinehall-order-service/internal/engine"
	"dinehall-order-service/pkg/response"
)

type checkoutRequest struct {
	PaymentType             string   `json:"paymentType"`
	TaxPercentage           *float64 `json:"taxPercentage"`
	ServiceChargePercentage *float64 `json:"serviceChargePercentage"`
	DiscountType            string   `json:"discountType"`
	DiscountValue           float64  `json:"discountValue"`
	PayerCount              int      `json:"payerCount"`
}

// Checkout runs the full finalization sequence in one call: bill the table,
// optionally split, settle. If anything fails mid-way the bill stays open
// and unpaid so the cashier can retry.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	tableID := readPathString(r, "tableId")

	var req checkoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.Engine.Checkout(r.Context(), tableID, engine.CheckoutRequest{
		BillRequest: h.billRequest(r, billRequest{
			PaymentType:             req.PaymentType,
			TaxPercentage:           req.TaxPercentage,
			ServiceChargePercentage: req.ServiceChargePercentage,
			DiscountType:            req.DiscountType,
			DiscountValue:           req.DiscountValue,
		}),
		PayerCount: req.PayerCount,
	})
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	response.Success(w, result)
}
