package menu

import (
	"context"

	"github.com/dmitrijs2005/bhojanbox/internal/server/models"
)

type Repository interface {
	ListItems(ctx context.Context) ([]models.MenuItem, error)
	GetItem(ctx context.Context, id string) (*models.MenuItem, error)
	Search(ctx context.Context, query string) ([]models.MenuItem, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}
