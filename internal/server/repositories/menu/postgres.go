package menu

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

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

const selectItems = `SELECT m.id, m.name, m.description, m.price, m.image_url, m.image_key,
		m.category_id, c.name, m.is_vegetarian, m.is_vegan, m.is_gluten_free, m.rating
	 FROM menu_items m
	 JOIN menu_categories c ON m.category_id = c.id`

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (models.MenuItem, error) {
	var it models.MenuItem
	err := s.Scan(&it.ID, &it.Name, &it.Description, &it.Price, &it.ImageURL, &it.ImageKey,
		&it.CategoryID, &it.Category, &it.IsVegetarian, &it.IsVegan, &it.IsGlutenFree, &it.Rating)
	return it, err
}

func (r *PostgresRepository) queryItems(ctx context.Context, query string, args ...any) ([]models.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	items := []models.MenuItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return items, nil
}

// ListItems returns the whole menu ordered by category display order, then
// item name.
func (r *PostgresRepository) ListItems(ctx context.Context) ([]models.MenuItem, error) {
	return r.queryItems(ctx, selectItems+` ORDER BY c.display_order, m.name`)
}

func (r *PostgresRepository) GetItem(ctx context.Context, id string) (*models.MenuItem, error) {
	it, err := scanItem(r.db.QueryRowContext(ctx, selectItems+` WHERE m.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &it, nil
}

// Search matches query case-insensitively against item names and
// descriptions. LIKE wildcards in query are taken literally.
func (r *PostgresRepository) Search(ctx context.Context, query string) ([]models.MenuItem, error) {
	pattern := "%" + escapeLike(query) + "%"
	return r.queryItems(ctx,
		selectItems+` WHERE m.name ILIKE $1 OR m.description ILIKE $1 ORDER BY c.display_order, m.name`,
		pattern)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, display_order FROM menu_categories ORDER BY display_order, name`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	cats := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.DisplayOrder); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return cats, nil
}
