package engine

import (
	"context"
	"errors"
	"testing"
)

func placeScenarioA(t *testing.T, e *Engine, tableID string) {
	t.Helper()
	if _, err := e.PlaceOrder(context.Background(), tableID, stagedCart(), PlaceMeta{}); err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}
}

func TestCreateBillScenarioA(t *testing.T) {
	e := newTestEngine()
	placeScenarioA(t, e, "T1")

	bill, err := e.CreateBill(context.Background(), "T1", BillRequest{
		PaymentType:   "cash",
		TaxPercentage: 10,
	})
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}

	if bill.Subtotal != 95000 {
		t.Fatalf("subtotal = %v, want 95000", bill.Subtotal)
	}
	if bill.TaxAmount != 9500 {
		t.Fatalf("tax_amount = %v, want 9500", bill.TaxAmount)
	}
	if bill.ServiceChargeAmount != 0 {
		t.Fatalf("service_charge_amount = %v, want 0", bill.ServiceChargeAmount)
	}
	if bill.TotalAmount != 104500 {
		t.Fatalf("total_amount = %v, want 104500", bill.TotalAmount)
	}
	if bill.PaymentStatus != PaymentUnpaid || bill.PaidAmount != 0 || bill.RemainingAmount != 104500 {
		t.Fatalf("new bill settlement state = %+v", bill)
	}
	if len(bill.LineItems) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(bill.LineItems))
	}
	if bill.BillNumber == "" {
		t.Fatal("bill_number must be assigned")
	}
}

func TestCreateBillSubtotalMatchesLedger(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	items, err := e.PlaceOrder(ctx, "T1", stagedCart(), PlaceMeta{})
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}
	if _, err := e.Cancel(ctx, "T1", items[1].ID, TransitionRequest{Reason: "out of stock"}); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	var want float64
	for _, item := range e.ActiveItemsForTable("T1") {
		want += item.TotalPrice
	}

	bill, err := e.CreateBill(ctx, "T1", BillRequest{PaymentType: "cash"})
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}
	if bill.Subtotal != want {
		t.Fatalf("subtotal = %v, want ledger sum %v", bill.Subtotal, want)
	}
	for _, line := range bill.LineItems {
		if line.OrderItemID == items[1].ID {
			t.Fatal("cancelled item must not be billed")
		}
	}
}

func TestCreateBillDiscounts(t *testing.T) {
	cases := []struct {
		name         string
		discount     Discount
		tax          float64
		service      float64
		wantDiscount float64
		wantTotal    float64
	}{
		{
			name:         "percentage discount",
			discount:     Discount{Type: DiscountPercentage, Value: 10},
			wantDiscount: 9500,
			wantTotal:    85500,
		},
		{
			name:         "fixed discount",
			discount:     Discount{Type: DiscountFixed, Value: 20000},
			wantDiscount: 20000,
			wantTotal:    75000,
		},
		{
			name:         "fixed discount clamped to subtotal",
			discount:     Discount{Type: DiscountFixed, Value: 500000},
			tax:          10,
			service:      5,
			wantDiscount: 95000,
			wantTotal:    0,
		},
		{
			name:      "full percentage discount",
			discount:  Discount{Type: DiscountPercentage, Value: 100},
			tax:       10,
			wantTotal: 0,
		},
		{
			name:      "tax and service on discounted base",
			discount:  Discount{Type: DiscountFixed, Value: 15000},
			tax:       10,
			service:   5,
			wantTotal: 92000, // (95000-15000) * 1.15
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine()
			placeScenarioA(t, e, "T1")

			bill, err := e.CreateBill(context.Background(), "T1", BillRequest{
				PaymentType:             "cash",
				TaxPercentage:           tc.tax,
				ServiceChargePercentage: tc.service,
				Discount:                tc.discount,
			})
			if err != nil {
				t.Fatalf("CreateBill failed: %v", err)
			}
			if tc.wantDiscount != 0 && bill.DiscountAmount != tc.wantDiscount {
				t.Fatalf("discount_amount = %v, want %v", bill.DiscountAmount, tc.wantDiscount)
			}
			if bill.TotalAmount != tc.wantTotal {
				t.Fatalf("total_amount = %v, want %v", bill.TotalAmount, tc.wantTotal)
			}
			if bill.TotalAmount < 0 {
				t.Fatal("total_amount must never be negative")
			}
		})
	}
}

func TestCreateBillValidation(t *testing.T) {
	cases := []struct {
		name string
		req  BillRequest
	}{
		{name: "negative tax", req: BillRequest{TaxPercentage: -1}},
		{name: "negative service charge", req: BillRequest{ServiceChargePercentage: -5}},
		{name: "negative discount", req: BillRequest{Discount: Discount{Type: DiscountFixed, Value: -100}}},
		{name: "percentage over 100", req: BillRequest{Discount: Discount{Type: DiscountPercentage, Value: 120}}},
		{name: "unknown discount type", req: BillRequest{Discount: Discount{Type: "bogus", Value: 5}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine()
			placeScenarioA(t, e, "T1")
			if _, err := e.CreateBill(context.Background(), "T1", tc.req); !errors.Is(err, ErrInvalidBillInput) {
				t.Fatalf("expected ErrInvalidBillInput, got %v", err)
			}
		})
	}
}

func TestCreateBillNoBillableItems(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	if _, err := e.CreateBill(ctx, "T1", BillRequest{}); !errors.Is(err, ErrNoBillableItems) {
		t.Fatalf("empty table: expected ErrNoBillableItems, got %v", err)
	}

	cart := NewCart()
	cart.Add(water())
	items, err := e.PlaceOrder(ctx, "T1", cart, PlaceMeta{})
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}
	if _, err := e.Cancel(ctx, "T1", items[0].ID, TransitionRequest{Reason: "all cancelled"}); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if _, err := e.CreateBill(ctx, "T1", BillRequest{}); !errors.Is(err, ErrNoBillableItems) {
		t.Fatalf("all-cancelled table: expected ErrNoBillableItems, got %v", err)
	}
}

func TestCreateBillTwiceScenarioC(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	placeScenarioA(t, e, "T1")

	if _, err := e.CreateBill(ctx, "T1", BillRequest{PaymentType: "cash"}); err != nil {
		t.Fatalf("first CreateBill failed: %v", err)
	}
	if _, err := e.CreateBill(ctx, "T1", BillRequest{PaymentType: "cash"}); !errors.Is(err, ErrBillAlreadyOpen) {
		t.Fatalf("expected ErrBillAlreadyOpen, got %v", err)
	}
}

func TestCreateBillDoesNotTouchItemStatus(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	items, err := e.PlaceOrder(ctx, "T1", stagedCart(), PlaceMeta{})
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}
	if _, err := e.StartPreparing(ctx, "T1", items[0].ID, TransitionRequest{}); err != nil {
		t.Fatalf("StartPreparing failed: %v", err)
	}

	if _, err := e.CreateBill(ctx, "T1", BillRequest{PaymentType: "cash"}); err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}

	got, err := e.Item("T1", items[0].ID)
	if err != nil {
		t.Fatalf("Item lookup failed: %v", err)
	}
	if got.Status != StatusPreparing || got.Archived {
		t.Fatalf("bill creation must not mutate items, got %+v", got)
	}
}

func TestUpdateBillStatus(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	placeScenarioA(t, e, "T1")
	bill, err := e.CreateBill(ctx, "T1", BillRequest{PaymentType: "cash", TaxPercentage: 10})
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}

	paid := 50000.0
	updated, err := e.UpdateBillStatus(ctx, "T1", bill.ID, PaymentPartial, &paid)
	if err != nil {
		t.Fatalf("partial update failed: %v", err)
	}
	if updated.PaymentStatus != PaymentPartial || updated.PaidAmount != 50000 || updated.RemainingAmount != 54500 {
		t.Fatalf("partial state = %+v", updated)
	}

	over := updated.TotalAmount + 1
	if _, err := e.UpdateBillStatus(ctx, "T1", bill.ID, PaymentPaid, &over); !errors.Is(err, ErrInvalidBillInput) {
		t.Fatalf("overpayment: expected ErrInvalidBillInput, got %v", err)
	}

	updated, err = e.UpdateBillStatus(ctx, "T1", bill.ID, PaymentPaid, nil)
	if err != nil {
		t.Fatalf("paid update failed: %v", err)
	}
	if updated.PaidAmount != updated.TotalAmount || updated.RemainingAmount != 0 {
		t.Fatalf("paid state = %+v", updated)
	}

	// Paid bills are immutable except for the refund transition.
	if _, err := e.UpdateBillStatus(ctx, "T1", bill.ID, PaymentPartial, &paid); !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("paid->partial: expected ErrAlreadyPaid, got %v", err)
	}
	refunded, err := e.UpdateBillStatus(ctx, "T1", bill.ID, PaymentRefunded, nil)
	if err != nil {
		t.Fatalf("refund failed: %v", err)
	}
	if refunded.PaymentStatus != PaymentRefunded {
		t.Fatalf("refund state = %+v", refunded)
	}
}

func TestUpdateBillStatusPaidSettlesTable(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	placeScenarioA(t, e, "T1")
	bill, err := e.CreateBill(ctx, "T1", BillRequest{PaymentType: "cash", TaxPercentage: 10})
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}

	settled, err := e.UpdateBillStatus(ctx, "T1", bill.ID, PaymentPaid, nil)
	if err != nil {
		t.Fatalf("paid update failed: %v", err)
	}
	if settled.PaymentStatus != PaymentPaid || settled.PaidAmount != settled.TotalAmount || settled.RemainingAmount != 0 {
		t.Fatalf("settled state = %+v", settled)
	}

	// Paying through the status update closes the session like
	// MarkBillComplete: items leave the active view and cannot land on a
	// second bill.
	if active := e.ActiveItemsForTable("T1"); len(active) != 0 {
		t.Fatalf("settled table must have no active items, got %d", len(active))
	}
	if _, err := e.CreateBill(ctx, "T1", BillRequest{PaymentType: "cash"}); !errors.Is(err, ErrNoBillableItems) {
		t.Fatalf("rebilling settled items: expected ErrNoBillableItems, got %v", err)
	}
	snap := e.Snapshot("T1")
	if snap.Status != TableAvailable || snap.OpenBill != nil {
		t.Fatalf("settled table snapshot = %+v", snap)
	}
	if _, err := e.MarkBillComplete(ctx, "T1", bill.ID); !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("complete after paid update: expected ErrAlreadyPaid, got %v", err)
	}
}

func TestUpdateBillStatusPaidRequiresFullAmount(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	placeScenarioA(t, e, "T1")
	bill, err := e.CreateBill(ctx, "T1", BillRequest{PaymentType: "cash"})
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}

	short := bill.TotalAmount - 1
	if _, err := e.UpdateBillStatus(ctx, "T1", bill.ID, PaymentPaid, &short); !errors.Is(err, ErrInvalidBillInput) {
		t.Fatalf("underpaid settlement: expected ErrInvalidBillInput, got %v", err)
	}

	got, err := e.Bill("T1", bill.ID)
	if err != nil {
		t.Fatalf("Bill lookup failed: %v", err)
	}
	if got.PaymentStatus != PaymentUnpaid {
		t.Fatalf("rejected settlement must not change the bill, got %s", got.PaymentStatus)
	}
	if active := e.ActiveItemsForTable("T1"); len(active) == 0 {
		t.Fatal("rejected settlement must not archive the session's items")
	}
}

func TestUpdateBillStatusRefundRequiresPaid(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	placeScenarioA(t, e, "T1")
	bill, err := e.CreateBill(ctx, "T1", BillRequest{PaymentType: "cash"})
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}

	if _, err := e.UpdateBillStatus(ctx, "T1", bill.ID, PaymentRefunded, nil); !errors.Is(err, ErrInvalidBillInput) {
		t.Fatalf("unpaid refund: expected ErrInvalidBillInput, got %v", err)
	}
}

func TestMarkBillComplete(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	placeScenarioA(t, e, "T1")
	bill, err := e.CreateBill(ctx, "T1", BillRequest{PaymentType: "cash", TaxPercentage: 10})
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}

	settled, err := e.MarkBillComplete(ctx, "T1", bill.ID)
	if err != nil {
		t.Fatalf("MarkBillComplete failed: %v", err)
	}
	if settled.PaymentStatus != PaymentPaid || settled.PaidAmount != settled.TotalAmount || settled.RemainingAmount != 0 {
		t.Fatalf("settled state = %+v", settled)
	}

	if _, err := e.MarkBillComplete(ctx, "T1", bill.ID); !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("second complete: expected ErrAlreadyPaid, got %v", err)
	}

	if active := e.ActiveItemsForTable("T1"); len(active) != 0 {
		t.Fatalf("settled table must have no active items, got %d", len(active))
	}
	if ledger := e.ItemsForTable("T1"); len(ledger) != 2 {
		t.Fatalf("audit ledger must survive settlement, got %d items", len(ledger))
	}

	snap := e.Snapshot("T1")
	if snap.Status != TableAvailable || snap.OpenBill != nil {
		t.Fatalf("settled table snapshot = %+v", snap)
	}

	// The table accepts a fresh session afterwards.
	if _, err := e.PlaceOrder(ctx, "T1", stagedCart(), PlaceMeta{}); err != nil {
		t.Fatalf("new session after settlement failed: %v", err)
	}
}

func TestMarkBillCompleteUnknownBill(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	placeScenarioA(t, e, "T1")
	bill, err := e.CreateBill(ctx, "T1", BillRequest{PaymentType: "cash"})
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}

	if _, err := e.MarkBillComplete(ctx, "T2", bill.ID); !errors.Is(err, ErrBillNotFound) {
		t.Fatalf("wrong table: expected ErrBillNotFound, got %v", err)
	}
}

func TestCreateBillAbortsOnStoreFailure(t *testing.T) {
	store := &failStore{failSave: true}
	e := New(store, nil, Options{})
	placeScenarioA(t, e, "T1")

	if _, err := e.CreateBill(context.Background(), "T1", BillRequest{PaymentType: "cash"}); err == nil {
		t.Fatal("expected store failure to abort bill creation")
	}
	if bills := e.BillsForTable("T1"); len(bills) != 0 {
		t.Fatalf("failed bill must not be kept, got %d", len(bills))
	}

	// The table is still billable once the store recovers.
	store.failSave = false
	if _, err := e.CreateBill(context.Background(), "T1", BillRequest{PaymentType: "cash"}); err != nil {
		t.Fatalf("CreateBill after recovery failed: %v", err)
	}
}

func TestBillsForTableNewestFirst(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	placeScenarioA(t, e, "T1")
	first, err := e.CreateBill(ctx, "T1", BillRequest{PaymentType: "cash"})
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}
	if _, err := e.MarkBillComplete(ctx, "T1", first.ID); err != nil {
		t.Fatalf("MarkBillComplete failed: %v", err)
	}
	placeScenarioA(t, e, "T1")
	second, err := e.CreateBill(ctx, "T1", BillRequest{PaymentType: "bank"})
	if err != nil {
		t.Fatalf("second CreateBill failed: %v", err)
	}

	bills := e.BillsForTable("T1")
	if len(bills) != 2 {
		t.Fatalf("expected 2 bills, got %d", len(bills))
	}
	if bills[0].ID != second.ID || bills[1].ID != first.ID {
		t.Fatal("bills must be returned newest first")
	}
	if bills[0].BillNumber == bills[1].BillNumber {
		t.Fatal("bill numbers must be unique per table")
	}
}
