package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrEmptyCart              = errors.New("cart has no lines")
	ErrNoBillableItems        = errors.New("table has no billable items")
	ErrBillAlreadyOpen        = errors.New("an open bill already exists for this table")
	ErrBillNotFound           = errors.New("bill not found")
	ErrAlreadyPaid            = errors.New("bill is already paid")
	ErrInvalidSplitCount      = errors.New("split requires at least two payers")
	ErrConcurrentModification = errors.New("state changed since it was read")
	ErrItemNotFound           = errors.New("order item not found")
	ErrInvalidBillInput       = errors.New("invalid bill input")
)

// InvalidTransitionError reports a rejected state-machine transition with
// enough context for staff to take the right manual action, e.g. a cancel
// attempt on an item the kitchen already started.
type InvalidTransitionError struct {
	ItemID uuid.UUID
	From   Status
	Event  Event
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s order item %s: item is %s", e.Event, e.ItemID, e.From.Label())
}
