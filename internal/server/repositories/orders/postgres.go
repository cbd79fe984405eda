// Package orders persists placed orders and their frozen lines.
package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bhojanbox/internal/common"
	"github.com/dmitrijs2005/bhojanbox/internal/dbx"
	"github.com/dmitrijs2005/bhojanbox/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the order row and its lines. Callers run it inside a
// transaction so that a partial order is never visible.
func (r *PostgresRepository) Create(ctx context.Context, o *models.Order) error {
	query :=
		`INSERT INTO orders (id, user_id, status, subtotal, tax, delivery_fee, total,
			delivery_address, payment_method, contact_name, email, phone)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING placed_at`

	err := r.db.QueryRowContext(ctx, query,
		o.ID, o.UserID, o.Status, o.Subtotal, o.Tax, o.DeliveryFee, o.Total,
		o.DeliveryAddress, o.PaymentMethod, o.ContactName, o.Email, o.Phone).Scan(&o.PlacedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	for i, l := range o.Lines {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO order_items (order_id, line_no, item_id, name, unit_price, quantity)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			o.ID, i+1, l.ItemID, l.Name, l.UnitPrice, l.Quantity); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

const selectOrder = `SELECT id, user_id, placed_at, status, subtotal, tax, delivery_fee, total,
		delivery_address, payment_method, contact_name, email, phone
	 FROM orders`

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner) (models.Order, error) {
	var o models.Order
	err := s.Scan(&o.ID, &o.UserID, &o.PlacedAt, &o.Status, &o.Subtotal, &o.Tax, &o.DeliveryFee, &o.Total,
		&o.DeliveryAddress, &o.PaymentMethod, &o.ContactName, &o.Email, &o.Phone)
	return o, err
}

func (r *PostgresRepository) loadLines(ctx context.Context, o *models.Order) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT item_id, name, unit_price, quantity FROM order_items WHERE order_id = $1 ORDER BY line_no`, o.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	o.Lines = []models.OrderLine{}
	for rows.Next() {
		var l models.OrderLine
		if err := rows.Scan(&l.ItemID, &l.Name, &l.UnitPrice, &l.Quantity); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		o.Lines = append(o.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListByUser returns the user's orders, most recent first, with lines.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	rows, err := r.db.QueryContext(ctx, selectOrder+` WHERE user_id = $1 ORDER BY placed_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	list := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("db error: %w", err)
		}
		list = append(list, o)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	for i := range list {
		if err := r.loadLines(ctx, &list[i]); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// Get returns the order only when it belongs to userID; anything else is
// common.ErrNotFound.
func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.Order, error) {
	if uuid.Validate(id) != nil {
		return nil, common.ErrNotFound
	}

	o, err := scanOrder(r.db.QueryRowContext(ctx, selectOrder+` WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := r.loadLines(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// LockStatus reads the status of the user's order and locks the row until
// the surrounding transaction ends.
func (r *PostgresRepository) LockStatus(ctx context.Context, userID, id string) (models.OrderStatus, error) {
	if uuid.Validate(id) != nil {
		return "", common.ErrNotFound
	}

	var st models.OrderStatus
	err := r.db.QueryRowContext(ctx,
		`SELECT status FROM orders WHERE id = $1 AND user_id = $2 FOR UPDATE`, id, userID).Scan(&st)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return st, nil
}

func (r *PostgresRepository) SetStatus(ctx context.Context, id string, status models.OrderStatus) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, status); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
