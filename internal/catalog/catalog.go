package catalog

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("menu item not found")

// Snapshot is the read-only view of a menu item the engine consumes.
// Prices on placed order items are copied from the snapshot at submit time,
// so later catalog edits never touch them.
type Snapshot struct {
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Name       string    `json:"name"`
	UnitPrice  float64   `json:"unit_price"`
	IsActive   bool      `json:"is_active"`
}

type Catalog interface {
	Lookup(ctx context.Context, menuItemID uuid.UUID) (Snapshot, error)
}

// Static is an in-memory catalog, used in tests and when the service runs
// without a database.
type Static struct {
	mu    sync.RWMutex
	items map[uuid.UUID]Snapshot
}

func NewStatic(items ...Snapshot) *Static {
	s := &Static{items: make(map[uuid.UUID]Snapshot, len(items))}
	for _, item := range items {
		s.items[item.MenuItemID] = item
	}
	return s
}

func (s *Static) Lookup(_ context.Context, menuItemID uuid.UUID) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.items[menuItemID]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return snap, nil
}

func (s *Static) Put(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[snap.MenuItemID] = snap
}
