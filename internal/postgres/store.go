package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dinehall-order-service/internal/engine"
)

// Store writes the engine's ledger through to Postgres. The engine calls it
// before committing a mutation, so rows here always mirror accepted state.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) AppendOrderItems(ctx context.Context, items []engine.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(`
			insert into order_items (
				id, table_id, menu_item_id, name, quantity, unit_price, total_price,
				status, special_instructions, is_priority, order_by, device_name,
				ordered_by_id, ordered_at, version, archived
			) values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		`,
			item.ID, item.TableID, item.MenuItemID, item.Name, item.Quantity,
			item.UnitPrice, item.TotalPrice, string(item.Status),
			item.SpecialInstructions, item.IsPriority, string(item.OrderBy),
			item.DeviceName, item.OrderedByID, item.OrderedAt, item.Version, item.Archived,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range items {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}
	return tx.Commit(ctx)
}

func (s *Store) UpdateOrderItem(ctx context.Context, item engine.OrderItem) error {
	tag, err := s.pool.Exec(ctx, `
		update order_items set
			status = $2,
			prepared_by_id = $3,
			prepared_at = $4,
			ready_at = $5,
			served_at = $6,
			cancelled_at = $7,
			cancellation_reason = $8,
			version = $9,
			archived = $10
		where id = $1
	`,
		item.ID, string(item.Status), item.PreparedByID,
		item.PreparedAt, item.ReadyAt, item.ServedAt, item.CancelledAt,
		item.CancellationReason, item.Version, item.Archived,
	)
	if err != nil {
		return fmt.Errorf("update order item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update order item %s: no row", item.ID)
	}
	return nil
}

func (s *Store) SaveBill(ctx context.Context, bill engine.Bill) error {
	lines, err := json.Marshal(bill.LineItems)
	if err != nil {
		return fmt.Errorf("marshal bill lines: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		insert into bills (
			id, bill_number, table_id, line_items,
			subtotal, tax_percentage, tax_amount,
			service_charge_percentage, service_charge_amount,
			discount_type, discount_value, discount_amount, total_amount,
			payment_type, payment_status, paid_amount, remaining_amount,
			created_by_id, created_at, updated_at
		) values (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20
		)
	`,
		bill.ID, bill.BillNumber, bill.TableID, lines,
		bill.Subtotal, bill.TaxPercentage, bill.TaxAmount,
		bill.ServiceChargePercentage, bill.ServiceChargeAmount,
		string(bill.DiscountType), bill.DiscountValue, bill.DiscountAmount, bill.TotalAmount,
		bill.PaymentType, string(bill.PaymentStatus), bill.PaidAmount, bill.RemainingAmount,
		bill.CreatedByID, bill.CreatedAt, bill.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert bill: %w", err)
	}
	return nil
}

func (s *Store) UpdateBill(ctx context.Context, bill engine.Bill) error {
	tag, err := s.pool.Exec(ctx, `
		update bills set
			payment_status = $2,
			paid_amount = $3,
			remaining_amount = $4,
			updated_at = $5
		where id = $1
	`,
		bill.ID, string(bill.PaymentStatus), bill.PaidAmount, bill.RemainingAmount, bill.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update bill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update bill %s: no row", bill.ID)
	}
	return nil
}
