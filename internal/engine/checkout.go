package engine

import (
	"context"
	"fmt"
)

// Authorizer is the opaque payment-method boundary: it either accepts the
// bill or fails. There is no gateway integration behind it.
type Authorizer func(ctx context.Context, bill Bill) error

// CheckoutRequest drives the full finalization sequence.
type CheckoutRequest struct {
	BillRequest

	// PayerCount > 1 computes an even split before settling. Zero means no
	// split.
	PayerCount int

	// Authorize, when set, must succeed before the bill is settled. On
	// failure the bill stays open and unpaid, and the ledger is untouched.
	Authorize Authorizer
}

// CheckoutResult is the outcome of a completed checkout.
type CheckoutResult struct {
	Bill  Bill         `json:"bill"`
	Split *SplitResult `json:"split,omitempty"`
}

// Checkout orchestrates createBill -> optional split -> markComplete. Any
// failure mid-sequence leaves the bill unpaid (still open) and the ledger
// unchanged; nothing partial is ever visible as closed.
func (e *Engine) Checkout(ctx context.Context, tableID string, req CheckoutRequest) (CheckoutResult, error) {
	bill, err := e.CreateBill(ctx, tableID, req.BillRequest)
	if err != nil {
		return CheckoutResult{}, err
	}

	result := CheckoutResult{Bill: bill}
	if req.PayerCount > 0 {
		split, err := SplitBill(bill, req.PayerCount, e.exponent)
		if err != nil {
			return result, err
		}
		result.Split = &split
	}

	if req.Authorize != nil {
		if err := req.Authorize(ctx, bill); err != nil {
			return result, fmt.Errorf("payment authorization failed: %w", err)
		}
	}

	settled, err := e.MarkBillComplete(ctx, tableID, bill.ID)
	if err != nil {
		return result, err
	}
	result.Bill = settled
	return result, nil
}
