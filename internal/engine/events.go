package engine

import "time"

// Event types emitted after a committed mutation.
const (
	EventOrderPlaced       = "order.placed"
	EventItemStatusChanged = "order.item.status_changed"
	EventBillCreated       = "bill.created"
	EventBillUpdated       = "bill.updated"
	EventBillPaid          = "bill.paid"
)

// TableEvent describes one committed change on a table, together with a
// consistent snapshot of the table taken at commit time. Notifiers receive it
// outside the table lock and must treat it as immutable.
type TableEvent struct {
	Type    string        `json:"type"`
	TableID string        `json:"table_id"`
	Items   []OrderItem   `json:"items,omitempty"`
	Item    *OrderItem    `json:"item,omitempty"`
	Bill    *Bill         `json:"bill,omitempty"`
	Table   TableSnapshot `json:"table"`
	At      time.Time     `json:"at"`
}

// Notifier observes committed table events. Implementations must not call
// back into the engine's mutating operations.
type Notifier interface {
	Notify(evt TableEvent)
}
