package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BillRequest is the checkout view's input to CreateBill.
type BillRequest struct {
	PaymentType             string
	TaxPercentage           float64
	ServiceChargePercentage float64
	Discount                Discount
	CreatedByID             string
}

func (r BillRequest) validate() error {
	if r.TaxPercentage < 0 {
		return fmt.Errorf("%w: tax_percentage must be >= 0", ErrInvalidBillInput)
	}
	if r.ServiceChargePercentage < 0 {
		return fmt.Errorf("%w: service_charge_percentage must be >= 0", ErrInvalidBillInput)
	}
	if r.Discount.Type == "" {
		return nil
	}
	if !r.Discount.Type.Valid() {
		return fmt.Errorf("%w: unknown discount type %q", ErrInvalidBillInput, r.Discount.Type)
	}
	if r.Discount.Value < 0 {
		return fmt.Errorf("%w: discount value must be >= 0", ErrInvalidBillInput)
	}
	if r.Discount.Type == DiscountPercentage && r.Discount.Value > 100 {
		return fmt.Errorf("%w: percentage discount cannot exceed 100", ErrInvalidBillInput)
	}
	return nil
}

// CreateBill snapshots the table's non-cancelled items into a new bill and
// applies discount, tax and service charge. Creating a bill does not touch
// item statuses; items are archived only when payment is finalized.
func (e *Engine) CreateBill(ctx context.Context, tableID string, req BillRequest) (Bill, error) {
	if err := req.validate(); err != nil {
		return Bill{}, err
	}
	if req.Discount.Type == "" {
		req.Discount.Type = DiscountNone
	}

	t := e.table(tableID)
	t.mu.Lock()

	if open := t.openBill(); open != nil {
		t.mu.Unlock()
		return Bill{}, ErrBillAlreadyOpen
	}

	lines := make([]BillLine, 0, len(t.items))
	var subtotal float64
	for _, item := range t.items {
		if !item.Billable() {
			continue
		}
		lines = append(lines, BillLine{
			OrderItemID: item.ID,
			MenuItemID:  item.MenuItemID,
			Name:        item.Name,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
		subtotal += item.TotalPrice
	}
	if len(lines) == 0 {
		t.mu.Unlock()
		return Bill{}, ErrNoBillableItems
	}

	var discountAmount float64
	switch req.Discount.Type {
	case DiscountPercentage:
		discountAmount = subtotal * req.Discount.Value / 100
	case DiscountFixed:
		discountAmount = req.Discount.Value
		if discountAmount > subtotal {
			discountAmount = subtotal
		}
	}

	taxableBase := subtotal - discountAmount
	if taxableBase < 0 {
		taxableBase = 0
	}
	taxAmount := taxableBase * req.TaxPercentage / 100
	serviceChargeAmount := taxableBase * req.ServiceChargePercentage / 100
	totalAmount := roundHalfUp(taxableBase+taxAmount+serviceChargeAmount, e.exponent)
	if totalAmount < 0 {
		totalAmount = 0
	}

	now := e.now()
	t.billSeq++
	bill := &Bill{
		ID:                      e.newID(),
		BillNumber:              fmt.Sprintf("B-%s-%04d", tableID, t.billSeq),
		TableID:                 tableID,
		LineItems:               lines,
		Subtotal:                subtotal,
		TaxPercentage:           req.TaxPercentage,
		TaxAmount:               taxAmount,
		ServiceChargePercentage: req.ServiceChargePercentage,
		ServiceChargeAmount:     serviceChargeAmount,
		DiscountType:            req.Discount.Type,
		DiscountValue:           req.Discount.Value,
		DiscountAmount:          discountAmount,
		TotalAmount:             totalAmount,
		PaymentType:             req.PaymentType,
		PaymentStatus:           PaymentUnpaid,
		PaidAmount:              0,
		RemainingAmount:         totalAmount,
		CreatedByID:             req.CreatedByID,
		CreatedAt:               now,
		UpdatedAt:               now,
	}

	if err := e.store.SaveBill(ctx, *bill); err != nil {
		t.billSeq--
		t.mu.Unlock()
		return Bill{}, fmt.Errorf("persist bill: %w", err)
	}

	t.bills = append(t.bills, bill)
	result := *bill
	tableSnap := t.snapshotLocked()
	t.mu.Unlock()

	e.logger.Info("bill created",
		zap.String("tableId", tableID),
		zap.String("billNumber", result.BillNumber),
		zap.Float64("subtotal", result.Subtotal),
		zap.Float64("totalAmount", result.TotalAmount),
	)
	e.notify(TableEvent{
		Type:    EventBillCreated,
		TableID: tableID,
		Bill:    &result,
		Table:   tableSnap,
		At:      now,
	})
	return result, nil
}

// UpdateBillStatus records partial payments and refunds. paid_amount may
// never exceed total_amount; remaining_amount is recomputed from it. A paid
// bill only accepts the refund transition. Marking a bill paid here settles
// it in full and closes the table session, exactly as MarkBillComplete does;
// a bill must never read as paid while its items are still billable.
func (e *Engine) UpdateBillStatus(ctx context.Context, tableID string, billID uuid.UUID, status PaymentStatus, paidAmount *float64) (Bill, error) {
	if !status.Valid() {
		return Bill{}, fmt.Errorf("%w: unknown payment status %q", ErrInvalidBillInput, status)
	}
	if status == PaymentPaid {
		return e.settleBill(ctx, tableID, billID, paidAmount)
	}

	t := e.table(tableID)
	t.mu.Lock()

	bill := t.findBill(billID)
	if bill == nil {
		t.mu.Unlock()
		return Bill{}, ErrBillNotFound
	}

	if bill.PaymentStatus == PaymentPaid && status != PaymentRefunded {
		t.mu.Unlock()
		return Bill{}, ErrAlreadyPaid
	}
	if status == PaymentRefunded && bill.PaymentStatus != PaymentPaid {
		t.mu.Unlock()
		return Bill{}, fmt.Errorf("%w: only a paid bill can be refunded", ErrInvalidBillInput)
	}

	updated := *bill
	switch status {
	case PaymentPartial:
		amount := updated.TotalAmount
		if paidAmount != nil {
			amount = *paidAmount
		}
		if amount < 0 || amount > updated.TotalAmount {
			t.mu.Unlock()
			return Bill{}, fmt.Errorf("%w: paid_amount must be between 0 and total_amount", ErrInvalidBillInput)
		}
		updated.PaidAmount = amount
		updated.RemainingAmount = updated.TotalAmount - amount
	case PaymentRefunded:
		updated.RemainingAmount = 0
	case PaymentUnpaid:
		updated.PaidAmount = 0
		updated.RemainingAmount = updated.TotalAmount
	}
	updated.PaymentStatus = status
	updated.UpdatedAt = e.now()

	if err := e.store.UpdateBill(ctx, updated); err != nil {
		t.mu.Unlock()
		return Bill{}, fmt.Errorf("persist bill: %w", err)
	}

	*bill = updated
	result := updated
	tableSnap := t.snapshotLocked()
	t.mu.Unlock()

	e.notify(TableEvent{
		Type:    EventBillUpdated,
		TableID: tableID,
		Bill:    &result,
		Table:   tableSnap,
		At:      result.UpdatedAt,
	})
	return result, nil
}

// MarkBillComplete settles the bill in full and closes the table session:
// the session's items are archived out of the active view (they stay in the
// ledger for audit) and the table becomes available for a fresh cart.
func (e *Engine) MarkBillComplete(ctx context.Context, tableID string, billID uuid.UUID) (Bill, error) {
	return e.settleBill(ctx, tableID, billID, nil)
}

// settleBill pays the bill in full and archives the session's items. Archival
// happens in the same critical section as the payment, so settled items can
// never be snapshotted into a second bill.
func (e *Engine) settleBill(ctx context.Context, tableID string, billID uuid.UUID, paidAmount *float64) (Bill, error) {
	t := e.table(tableID)
	t.mu.Lock()

	bill := t.findBill(billID)
	if bill == nil {
		t.mu.Unlock()
		return Bill{}, ErrBillNotFound
	}
	if bill.PaymentStatus == PaymentPaid {
		t.mu.Unlock()
		return Bill{}, ErrAlreadyPaid
	}
	if paidAmount != nil && *paidAmount != bill.TotalAmount {
		t.mu.Unlock()
		return Bill{}, fmt.Errorf("%w: full settlement must pay total_amount exactly", ErrInvalidBillInput)
	}

	now := e.now()
	updated := *bill
	updated.PaymentStatus = PaymentPaid
	updated.PaidAmount = updated.TotalAmount
	updated.RemainingAmount = 0
	updated.UpdatedAt = now

	if err := e.store.UpdateBill(ctx, updated); err != nil {
		t.mu.Unlock()
		return Bill{}, fmt.Errorf("persist bill: %w", err)
	}

	*bill = updated
	for _, item := range t.items {
		if !item.Archived {
			item.Archived = true
			item.Version++
		}
	}
	result := updated
	tableSnap := t.snapshotLocked()
	t.mu.Unlock()

	e.logger.Info("bill settled",
		zap.String("tableId", tableID),
		zap.String("billNumber", result.BillNumber),
		zap.Float64("paidAmount", result.PaidAmount),
	)
	e.notify(TableEvent{
		Type:    EventBillPaid,
		TableID: tableID,
		Bill:    &result,
		Table:   tableSnap,
		At:      now,
	})
	return result, nil
}

// BillsForTable returns the table's bills, newest first, including settled
// history.
func (e *Engine) BillsForTable(tableID string) []Bill {
	t := e.table(tableID)
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Bill, 0, len(t.bills))
	for i := len(t.bills) - 1; i >= 0; i-- {
		out = append(out, *t.bills[i])
	}
	return out
}

// Bill returns one bill by id.
func (e *Engine) Bill(tableID string, billID uuid.UUID) (Bill, error) {
	t := e.table(tableID)
	t.mu.Lock()
	defer t.mu.Unlock()

	if bill := t.findBill(billID); bill != nil {
		return *bill, nil
	}
	return Bill{}, ErrBillNotFound
}

func (t *tableSession) findBill(billID uuid.UUID) *Bill {
	for _, bill := range t.bills {
		if bill.ID == billID {
			return bill
		}
	}
	return nil
}
