// Package cache keeps read-mostly menu data in Redis.
package cache

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/bhojanbox/internal/server/models"
)

// MenuCache stores the menu listing and the category list.
type MenuCache interface {
	Items(ctx context.Context) ([]models.MenuItem, error)
	SetItems(ctx context.Context, items []models.MenuItem) error
	Categories(ctx context.Context) ([]models.Category, error)
	SetCategories(ctx context.Context, cats []models.Category) error
	Invalidate(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")
