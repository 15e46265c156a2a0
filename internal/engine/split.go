package engine

import "github.com/google/uuid"

// SplitResult is the per-payer share of a bill. It is derived on demand and
// never persisted; which payer actually paid what is not tracked.
type SplitResult struct {
	PayerCount     int     `json:"payer_count"`
	AmountPerPayer float64 `json:"amount_per_payer"`
}

// SplitBill divides a bill's total evenly across payerCount payers. The
// per-payer amount is rounded up to the currency minor unit, so the house
// never under-collects; any surplus stays with the house. The bill is not
// mutated.
func SplitBill(bill Bill, payerCount int, exponent int) (SplitResult, error) {
	if payerCount < 2 {
		return SplitResult{}, ErrInvalidSplitCount
	}
	return SplitResult{
		PayerCount:     payerCount,
		AmountPerPayer: ceilToMinorUnit(bill.TotalAmount/float64(payerCount), exponent),
	}, nil
}

// Split computes the even split for one of the table's bills using the
// engine's currency precision.
func (e *Engine) Split(tableID string, billID uuid.UUID, payerCount int) (SplitResult, error) {
	bill, err := e.Bill(tableID, billID)
	if err != nil {
		return SplitResult{}, err
	}
	return SplitBill(bill, payerCount, e.exponent)
}
