package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrations = []string{
	`create table if not exists menu_items (
		id uuid primary key,
		name text not null,
		unit_price numeric(14,4) not null,
		is_active boolean not null default true
	)`,
	`create table if not exists order_items (
		id uuid primary key,
		table_id text not null,
		menu_item_id uuid not null,
		name text not null,
		quantity integer not null,
		unit_price numeric(14,4) not null,
		total_price numeric(14,4) not null,
		status text not null,
		special_instructions text not null default '',
		is_priority boolean not null default false,
		order_by text not null,
		device_name text not null default '',
		ordered_by_id text not null default '',
		prepared_by_id text not null default '',
		ordered_at timestamptz not null,
		prepared_at timestamptz,
		ready_at timestamptz,
		served_at timestamptz,
		cancelled_at timestamptz,
		cancellation_reason text not null default '',
		version integer not null default 0,
		archived boolean not null default false
	)`,
	`create index if not exists idx_order_items_table on order_items (table_id, ordered_at)`,
	`create index if not exists idx_order_items_status on order_items (status) where not archived`,
	`create table if not exists bills (
		id uuid primary key,
		bill_number text not null,
		table_id text not null,
		line_items jsonb not null,
		subtotal numeric(14,4) not null,
		tax_percentage numeric(7,4) not null,
		tax_amount numeric(14,4) not null,
		service_charge_percentage numeric(7,4) not null,
		service_charge_amount numeric(14,4) not null,
		discount_type text not null,
		discount_value numeric(14,4) not null,
		discount_amount numeric(14,4) not null,
		total_amount numeric(14,4) not null,
		payment_type text not null default '',
		payment_status text not null,
		paid_amount numeric(14,4) not null,
		remaining_amount numeric(14,4) not null,
		created_by_id text not null default '',
		created_at timestamptz not null,
		updated_at timestamptz not null
	)`,
	`create index if not exists idx_bills_table on bills (table_id, created_at desc)`,
}

// Migrate applies the schema statements in order. Every statement is
// idempotent, so running at each boot is safe.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
