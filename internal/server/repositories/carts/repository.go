package carts

import (
	"context"

	"github.com/dmitrijs2005/bhojanbox/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, userID string) ([]models.CartLine, error)
	Add(ctx context.Context, userID, itemID string, quantity int) (int, error)
	SetQuantity(ctx context.Context, userID, itemID string, quantity int) error
	Remove(ctx context.Context, userID, itemID string) error
	Clear(ctx context.Context, userID string) error
}
