// Package carts stores the per-user server-side cart.
package carts

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/bhojanbox/internal/common"
	"github.com/dmitrijs2005/bhojanbox/internal/dbx"
	"github.com/dmitrijs2005/bhojanbox/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns the user's lines joined with current menu data, oldest
// first.
func (r *PostgresRepository) List(ctx context.Context, userID string) ([]models.CartLine, error) {
	query :=
		`SELECT ci.item_id, m.name, m.price, ci.quantity, m.image_url, c.name
		 FROM cart_items ci
		 JOIN menu_items m ON m.id = ci.item_id
		 JOIN menu_categories c ON c.id = m.category_id
		 WHERE ci.user_id = $1
		 ORDER BY ci.added_at, ci.item_id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	lines := []models.CartLine{}
	for rows.Next() {
		var l models.CartLine
		if err := rows.Scan(&l.ItemID, &l.Name, &l.UnitPrice, &l.Quantity, &l.ImageURL, &l.Category); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return lines, nil
}

// Add increments the line for itemID by quantity, creating it if needed,
// and returns the resulting line quantity.
func (r *PostgresRepository) Add(ctx context.Context, userID, itemID string, quantity int) (int, error) {
	query :=
		`INSERT INTO cart_items (user_id, item_id, quantity)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, item_id)
		 DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		 RETURNING quantity`

	var total int
	if err := r.db.QueryRowContext(ctx, query, userID, itemID, quantity).Scan(&total); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return total, nil
}

// SetQuantity overwrites an existing line. A missing line yields
// common.ErrNotFound.
func (r *PostgresRepository) SetQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE cart_items SET quantity = $3 WHERE user_id = $1 AND item_id = $2`,
		userID, itemID, quantity)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Remove deletes a line. Removing an absent line is not an error.
func (r *PostgresRepository) Remove(ctx context.Context, userID, itemID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND item_id = $2`, userID, itemID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Clear(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
