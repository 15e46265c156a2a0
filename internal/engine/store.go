package engine

import "context"

// Store is the persistence boundary. It is called inside the owning table's
// critical section, before the in-memory mutation commits: a store failure
// aborts the mutation, so persisted and in-memory state never diverge. Store
// calls for one table never block operations on another table.
type Store interface {
	AppendOrderItems(ctx context.Context, items []OrderItem) error
	UpdateOrderItem(ctx context.Context, item OrderItem) error
	SaveBill(ctx context.Context, bill Bill) error
	UpdateBill(ctx context.Context, bill Bill) error
}

// NopStore keeps everything in memory only.
type NopStore struct{}

func (NopStore) AppendOrderItems(context.Context, []OrderItem) error { return nil }
func (NopStore) UpdateOrderItem(context.Context, OrderItem) error    { return nil }
func (NopStore) SaveBill(context.Context, Bill) error                { return nil }
func (NopStore) UpdateBill(context.Context, Bill) error              { return nil }
