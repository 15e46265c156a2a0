package engine

import (
	"time"

	"github.com/google/uuid"
)

// BillLine is the snapshot of one order item at the instant the bill was
// created. The bill keeps its own copy so later ledger reads cannot drift
// from what was charged.
type BillLine struct {
	OrderItemID uuid.UUID `json:"order_item_id"`
	MenuItemID  uuid.UUID `json:"menu_item_id"`
	Name        string    `json:"name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	TotalPrice  float64   `json:"total_price"`
}

// Bill is the financial snapshot of a table's billable items plus charges.
// After payment_status reaches paid the bill is immutable except for the
// refund transition.
type Bill struct {
	ID         uuid.UUID `json:"id"`
	BillNumber string    `json:"bill_number"`
	TableID    string    `json:"table_id"`

	LineItems []BillLine `json:"line_items"`

	Subtotal                float64      `json:"subtotal"`
	TaxPercentage           float64      `json:"tax_percentage"`
	TaxAmount               float64      `json:"tax_amount"`
	ServiceChargePercentage float64      `json:"service_charge_percentage"`
	ServiceChargeAmount     float64      `json:"service_charge_amount"`
	DiscountType            DiscountType `json:"discount_type"`
	DiscountValue           float64      `json:"discount_value"`
	DiscountAmount          float64      `json:"discount_amount"`
	TotalAmount             float64      `json:"total_amount"`

	PaymentType     string        `json:"payment_type"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	PaidAmount      float64       `json:"paid_amount"`
	RemainingAmount float64       `json:"remaining_amount"`

	CreatedByID string    `json:"created_by_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Open reports whether the bill still blocks new bills (and new submissions)
// on its table.
func (b Bill) Open() bool {
	return b.PaymentStatus == PaymentUnpaid || b.PaymentStatus == PaymentPartial
}

// Discount is the requested bill discount.
type Discount struct {
	Type  DiscountType `json:"type"`
	Value float64      `json:"value"`
}
