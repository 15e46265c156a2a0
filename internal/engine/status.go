package engine

// Status is the kitchen lifecycle state of an order item. Transitions are
// one-directional: pending -> preparing -> ready -> served, with
// pending -> cancelled as the only other exit.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusServed    Status = "served"
	StatusCancelled Status = "cancelled"
)

// Event is a requested transition on an order item.
type Event string

const (
	EventStartPreparing Event = "start_preparing"
	EventMarkReady      Event = "mark_ready"
	EventMarkServed     Event = "mark_served"
	EventCancel         Event = "cancel"
)

var transitions = map[Status]map[Event]Status{
	StatusPending: {
		EventStartPreparing: StatusPreparing,
		EventCancel:         StatusCancelled,
	},
	StatusPreparing: {
		EventMarkReady: StatusReady,
	},
	StatusReady: {
		EventMarkServed: StatusServed,
	},
}

// next returns the target state for event, or false when the transition is
// not allowed from the current state. Terminal states allow nothing.
func (s Status) next(event Event) (Status, bool) {
	to, ok := transitions[s][event]
	return to, ok
}

func (s Status) Terminal() bool {
	return s == StatusServed || s == StatusCancelled
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReady, StatusServed, StatusCancelled:
		return true
	}
	return false
}

// Label is the display name shown on the kitchen and POS views.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusPreparing:
		return "Preparing"
	case StatusReady:
		return "Ready"
	case StatusServed:
		return "Served"
	case StatusCancelled:
		return "Cancelled"
	}
	return string(s)
}

// PaymentStatus is the settlement state of a bill.
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPartial  PaymentStatus = "partial"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentUnpaid, PaymentPartial, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

// DiscountType selects how a bill discount is computed.
type DiscountType string

const (
	DiscountNone       DiscountType = "none"
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

func (t DiscountType) Valid() bool {
	switch t {
	case DiscountNone, DiscountPercentage, DiscountFixed:
		return true
	}
	return false
}
