package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"dinehall-order-service/internal/catalog"
	"dinehall-order-service/internal/utils"
)

// Catalog resolves menu items from the menu_items table. Inactive items are
// treated as missing so the cart never captures a price for them.
type Catalog struct {
	pool *pgxpool.Pool
}

func NewCatalog(pool *pgxpool.Pool) *Catalog {
	return &Catalog{pool: pool}
}

func (c *Catalog) Lookup(ctx context.Context, menuItemID uuid.UUID) (catalog.Snapshot, error) {
	var (
		snap  catalog.Snapshot
		price pgtype.Numeric
	)
	err := c.pool.QueryRow(ctx, `
		select id, name, unit_price, is_active
		from menu_items
		where id = $1 and is_active
	`, menuItemID).Scan(&snap.MenuItemID, &snap.Name, &price, &snap.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.Snapshot{}, catalog.ErrNotFound
	}
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("lookup menu item: %w", err)
	}
	snap.UnitPrice = utils.NumericToFloat64(price)
	return snap, nil
}
