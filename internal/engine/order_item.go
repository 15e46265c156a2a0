package engine

import (
	"time"

	"github.com/google/uuid"
)

// OrderBy records which kind of actor submitted an item.
type OrderBy string

const (
	OrderByOwner    OrderBy = "owner"
	OrderByEmployee OrderBy = "employee"
	OrderByGuest    OrderBy = "guest"
)

// OrderItem is the durable unit of kitchen work. It is owned by its table's
// ledger; callers only ever see copies. Cancelled items stay in the ledger as
// an audit trail, they are never deleted.
type OrderItem struct {
	ID         uuid.UUID `json:"id"`
	TableID    string    `json:"table_id"`
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Name       string    `json:"name"`
	Quantity   int       `json:"quantity"`

	// UnitPrice is captured at submit time. Catalog price changes never
	// retroactively alter a placed item.
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`

	Status              Status  `json:"status"`
	SpecialInstructions string  `json:"special_instructions,omitempty"`
	IsPriority          bool    `json:"is_priority"`
	OrderBy             OrderBy `json:"order_by"`
	DeviceName          string  `json:"device_name,omitempty"`

	OrderedByID  string `json:"ordered_by_id,omitempty"`
	PreparedByID string `json:"prepared_by_id,omitempty"`

	OrderedAt          time.Time  `json:"ordered_at"`
	PreparedAt         *time.Time `json:"prepared_at,omitempty"`
	ReadyAt            *time.Time `json:"ready_at,omitempty"`
	ServedAt           *time.Time `json:"served_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`

	// Version increments on every mutation; stale writers are rejected with
	// ErrConcurrentModification.
	Version int `json:"version"`

	// Archived items belong to a settled bill and are excluded from the
	// active view; they remain readable for audit.
	Archived bool `json:"archived,omitempty"`
}

// Billable reports whether the item counts toward a new bill.
func (i OrderItem) Billable() bool {
	return i.Status != StatusCancelled && !i.Archived
}
