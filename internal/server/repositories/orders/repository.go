package orders

import (
	"context"

	"github.com/dmitrijs2005/bhojanbox/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, order *models.Order) error
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	Get(ctx context.Context, userID, id string) (*models.Order, error)
	LockStatus(ctx context.Context, userID, id string) (models.OrderStatus, error)
	SetStatus(ctx context.Context, id string, status models.OrderStatus) error
}
