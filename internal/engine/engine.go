package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Engine is the order and billing lifecycle engine. The unit of mutual
// exclusion is the table: every mutation for a table runs under that table's
// lock, so concurrent submissions cannot interleave and transition guards
// resolve races deterministically. Different tables never contend.
type Engine struct {
	store     Store
	logger    *zap.Logger
	now       func() time.Time
	newID     func() uuid.UUID
	exponent  int
	notifiers []Notifier

	mu     sync.Mutex
	tables map[string]*tableSession
	carts  map[string]*Cart
}

// tableSession wraps one table's ledger and its bills. At most one open bill
// exists per table at a time.
type tableSession struct {
	mu      sync.Mutex
	tableID string
	items   []*OrderItem
	bills   []*Bill
	billSeq int
}

type Options struct {
	// CurrencyExponent is the number of minor-unit digits used when rounding
	// bill totals and split amounts (0 for LAK, 2 for USD).
	CurrencyExponent int
}

func New(store Store, logger *zap.Logger, opts Options) *Engine {
	if store == nil {
		store = NopStore{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:    store,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.New,
		exponent: opts.CurrencyExponent,
		tables:   make(map[string]*tableSession),
		carts:    make(map[string]*Cart),
	}
}

// AddNotifier registers an observer for committed table events. Not safe to
// call concurrently with mutations; register during startup.
func (e *Engine) AddNotifier(n Notifier) {
	e.notifiers = append(e.notifiers, n)
}

// CartFor returns the staging cart for an ordering session, creating it on
// first use. Carts are never shared across sessions.
func (e *Engine) CartFor(sessionID string) *Cart {
	e.mu.Lock()
	defer e.mu.Unlock()

	cart, ok := e.carts[sessionID]
	if !ok {
		cart = NewCart()
		e.carts[sessionID] = cart
	}
	return cart
}

// DropCart discards a session's cart entirely.
func (e *Engine) DropCart(sessionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.carts, sessionID)
}

func (e *Engine) table(tableID string) *tableSession {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.tables[tableID]
	if !ok {
		t = &tableSession{tableID: tableID}
		e.tables[tableID] = t
	}
	return t
}

// PlaceMeta carries submission audit fields.
type PlaceMeta struct {
	ActorID    string
	OrderBy    OrderBy
	DeviceName string
}

// PlaceOrder converts the cart's lines into pending order items on the
// table's ledger, atomically per table: either every line becomes an item or
// none do. The cart is drained up front, so a concurrent submission of the
// same cart finds it empty; a rejected submission restores the lines.
func (e *Engine) PlaceOrder(ctx context.Context, tableID string, cart *Cart, meta PlaceMeta) ([]OrderItem, error) {
	lines := cart.take()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	if meta.OrderBy == "" {
		meta.OrderBy = OrderByGuest
	}

	t := e.table(tableID)
	t.mu.Lock()

	if open := t.openBill(); open != nil {
		t.mu.Unlock()
		cart.restore(lines)
		return nil, ErrBillAlreadyOpen
	}

	now := e.now()
	created := make([]*OrderItem, 0, len(lines))
	for _, line := range lines {
		created = append(created, &OrderItem{
			ID:                  e.newID(),
			TableID:             tableID,
			MenuItemID:          line.MenuItemID,
			Name:                line.Name,
			Quantity:            line.Quantity,
			UnitPrice:           line.UnitPrice,
			TotalPrice:          line.UnitPrice * float64(line.Quantity),
			Status:              StatusPending,
			SpecialInstructions: line.SpecialInstructions,
			IsPriority:          line.IsPriority,
			OrderBy:             meta.OrderBy,
			DeviceName:          meta.DeviceName,
			OrderedByID:         meta.ActorID,
			OrderedAt:           now,
		})
	}

	if err := e.store.AppendOrderItems(ctx, copyItems(created)); err != nil {
		t.mu.Unlock()
		cart.restore(lines)
		return nil, fmt.Errorf("persist order items: %w", err)
	}

	t.items = append(t.items, created...)
	snapshot := copyItems(created)
	tableSnap := t.snapshotLocked()
	t.mu.Unlock()

	e.notify(TableEvent{
		Type:    EventOrderPlaced,
		TableID: tableID,
		Items:   snapshot,
		Table:   tableSnap,
		At:      now,
	})
	return snapshot, nil
}

// TransitionRequest carries the actor and guards for a state-machine event.
type TransitionRequest struct {
	ActorID string
	// Reason is required context for cancellations.
	Reason string
	// ExpectedVersion, when set, rejects the transition with
	// ErrConcurrentModification if the item changed since it was read.
	ExpectedVersion *int
}

// StartPreparing moves a pending item into preparation.
func (e *Engine) StartPreparing(ctx context.Context, tableID string, itemID uuid.UUID, req TransitionRequest) (OrderItem, error) {
	return e.applyTransition(ctx, tableID, itemID, EventStartPreparing, req)
}

// MarkReady moves a preparing item to ready.
func (e *Engine) MarkReady(ctx context.Context, tableID string, itemID uuid.UUID, req TransitionRequest) (OrderItem, error) {
	return e.applyTransition(ctx, tableID, itemID, EventMarkReady, req)
}

// MarkServed moves a ready item to served.
func (e *Engine) MarkServed(ctx context.Context, tableID string, itemID uuid.UUID, req TransitionRequest) (OrderItem, error) {
	return e.applyTransition(ctx, tableID, itemID, EventMarkServed, req)
}

// Cancel cancels an item that is still pending. Once the kitchen has started
// on it, cancellation is an exception process outside this engine.
func (e *Engine) Cancel(ctx context.Context, tableID string, itemID uuid.UUID, req TransitionRequest) (OrderItem, error) {
	return e.applyTransition(ctx, tableID, itemID, EventCancel, req)
}

func (e *Engine) applyTransition(ctx context.Context, tableID string, itemID uuid.UUID, event Event, req TransitionRequest) (OrderItem, error) {
	t := e.table(tableID)
	t.mu.Lock()

	item := t.find(itemID)
	if item == nil {
		t.mu.Unlock()
		return OrderItem{}, ErrItemNotFound
	}
	if req.ExpectedVersion != nil && *req.ExpectedVersion != item.Version {
		t.mu.Unlock()
		return OrderItem{}, ErrConcurrentModification
	}

	to, ok := item.Status.next(event)
	if !ok {
		err := &InvalidTransitionError{ItemID: itemID, From: item.Status, Event: event}
		t.mu.Unlock()
		return OrderItem{}, err
	}

	now := e.now()
	updated := *item
	updated.Status = to
	updated.Version++
	switch to {
	case StatusPreparing:
		updated.PreparedAt = &now
		updated.PreparedByID = req.ActorID
	case StatusReady:
		updated.ReadyAt = &now
	case StatusServed:
		updated.ServedAt = &now
	case StatusCancelled:
		updated.CancelledAt = &now
		updated.CancellationReason = req.Reason
	}

	if err := e.store.UpdateOrderItem(ctx, updated); err != nil {
		t.mu.Unlock()
		return OrderItem{}, fmt.Errorf("persist order item: %w", err)
	}

	*item = updated
	result := updated
	tableSnap := t.snapshotLocked()
	t.mu.Unlock()

	e.logger.Info("order item transitioned",
		zap.String("tableId", tableID),
		zap.String("itemId", itemID.String()),
		zap.String("event", string(event)),
		zap.String("status", string(result.Status)),
		zap.String("actorId", req.ActorID),
	)
	e.notify(TableEvent{
		Type:    EventItemStatusChanged,
		TableID: tableID,
		Item:    &result,
		Table:   tableSnap,
		At:      now,
	})
	return result, nil
}

// ItemsForTable returns the full ledger for a table in submission order,
// including cancelled and archived items.
func (e *Engine) ItemsForTable(tableID string) []OrderItem {
	t := e.table(tableID)
	t.mu.Lock()
	defer t.mu.Unlock()
	return copyItems(t.items)
}

// ActiveItemsForTable returns the current session's live items: cancelled and
// archived (already billed) items are excluded.
func (e *Engine) ActiveItemsForTable(tableID string) []OrderItem {
	t := e.table(tableID)
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]OrderItem, 0, len(t.items))
	for _, item := range t.items {
		if item.Billable() {
			out = append(out, *item)
		}
	}
	return out
}

// ItemsByStatus filters the active session's items for the kitchen display.
func (e *Engine) ItemsByStatus(tableID string, status Status) []OrderItem {
	t := e.table(tableID)
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]OrderItem, 0, len(t.items))
	for _, item := range t.items {
		if !item.Archived && item.Status == status {
			out = append(out, *item)
		}
	}
	return out
}

// KitchenQueue returns every table's items in the given status, priority
// orders first and oldest first within the same priority. This is the
// kitchen display's work queue across the whole floor.
func (e *Engine) KitchenQueue(status Status) []OrderItem {
	e.mu.Lock()
	sessions := make([]*tableSession, 0, len(e.tables))
	for _, t := range e.tables {
		sessions = append(sessions, t)
	}
	e.mu.Unlock()

	out := make([]OrderItem, 0)
	for _, t := range sessions {
		t.mu.Lock()
		for _, item := range t.items {
			if !item.Archived && item.Status == status {
				out = append(out, *item)
			}
		}
		t.mu.Unlock()
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsPriority != out[j].IsPriority {
			return out[i].IsPriority
		}
		return out[i].OrderedAt.Before(out[j].OrderedAt)
	})
	return out
}

// Item returns one ledger entry by id.
func (e *Engine) Item(tableID string, itemID uuid.UUID) (OrderItem, error) {
	t := e.table(tableID)
	t.mu.Lock()
	defer t.mu.Unlock()

	if item := t.find(itemID); item != nil {
		return *item, nil
	}
	return OrderItem{}, ErrItemNotFound
}

// TableStatus mirrors the floor view's occupancy states.
type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableBusy      TableStatus = "busy"
)

// TableSnapshot is a consistent read of one table, safe to hand to the
// independently-refreshing POS, kitchen and checkout views.
type TableSnapshot struct {
	TableID  string      `json:"table_id"`
	Status   TableStatus `json:"status"`
	Items    []OrderItem `json:"items"`
	OpenBill *Bill       `json:"open_bill,omitempty"`
	Total    float64     `json:"total"`
}

// Snapshot returns a consistent snapshot of one table.
func (e *Engine) Snapshot(tableID string) TableSnapshot {
	t := e.table(tableID)
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// Snapshots returns a snapshot of every table the engine has seen, for the
// floor overview.
func (e *Engine) Snapshots() []TableSnapshot {
	e.mu.Lock()
	sessions := make([]*tableSession, 0, len(e.tables))
	for _, t := range e.tables {
		sessions = append(sessions, t)
	}
	e.mu.Unlock()

	out := make([]TableSnapshot, 0, len(sessions))
	for _, t := range sessions {
		t.mu.Lock()
		out = append(out, t.snapshotLocked())
		t.mu.Unlock()
	}
	return out
}

func (t *tableSession) snapshotLocked() TableSnapshot {
	snap := TableSnapshot{
		TableID: t.tableID,
		Status:  TableAvailable,
		Items:   make([]OrderItem, 0, len(t.items)),
	}
	for _, item := range t.items {
		if item.Archived {
			continue
		}
		snap.Items = append(snap.Items, *item)
		if item.Status != StatusCancelled {
			snap.Total += item.TotalPrice
		}
	}
	if open := t.openBill(); open != nil {
		bill := *open
		snap.OpenBill = &bill
	}
	if len(snap.Items) > 0 || snap.OpenBill != nil {
		snap.Status = TableBusy
	}
	return snap
}

func (t *tableSession) openBill() *Bill {
	for _, bill := range t.bills {
		if bill.Open() {
			return bill
		}
	}
	return nil
}

func (t *tableSession) find(itemID uuid.UUID) *OrderItem {
	for _, item := range t.items {
		if item.ID == itemID {
			return item
		}
	}
	return nil
}

func (e *Engine) notify(evt TableEvent) {
	for _, n := range e.notifiers {
		n.Notify(evt)
	}
}

func copyItems(items []*OrderItem) []OrderItem {
	out := make([]OrderItem, 0, len(items))
	for _, item := range items {
		out = append(out, *item)
	}
	return out
}
