package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/bhojanbox/internal/common"
	"github.com/dmitrijs2005/bhojanbox/internal/server/models"
	"github.com/dmitrijs2005/bhojanbox/internal/server/repositories/repomanager"
)

// CartService keeps each user's server-side cart.
type CartService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCartService(db *sql.DB, m repomanager.RepositoryManager) *CartService {
	return &CartService{db: db, repomanager: m}
}

func (s *CartService) Get(ctx context.Context, userID string) (models.Cart, error) {
	lines, err := s.repomanager.Carts(s.db).List(ctx, userID)
	if err != nil {
		return models.Cart{}, err
	}
	return models.NewCart(lines), nil
}

// Add puts quantity more of itemID into the cart. The item must exist on the
// menu; the response echoes the item and the quantity added.
func (s *CartService) Add(ctx context.Context, userID, itemID string, quantity int) (*models.CartAddition, error) {
	if itemID == "" {
		return nil, fmt.Errorf("%w: itemId is required", common.ErrValidation)
	}
	if quantity < common.MinAddQuantity || quantity > common.MaxAddQuantity {
		return nil, fmt.Errorf("%w: quantity must be between %d and %d", common.ErrValidation, common.MinAddQuantity, common.MaxAddQuantity)
	}

	item, err := s.repomanager.Menu(s.db).GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repomanager.Carts(s.db).Add(ctx, userID, itemID, quantity); err != nil {
		return nil, err
	}

	return &models.CartAddition{
		Item: models.CartLine{
			ItemID:    item.ID,
			Name:      item.Name,
			UnitPrice: item.Price,
			Quantity:  quantity,
			ImageURL:  item.ImageURL,
			Category:  item.Category,
		},
		Quantity: quantity,
	}, nil
}

// Update sets the quantity of a line already in the cart.
func (s *CartService) Update(ctx context.Context, userID, itemID string, quantity int) (*models.CartQuantity, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", common.ErrValidation)
	}
	if err := s.repomanager.Carts(s.db).SetQuantity(ctx, userID, itemID, quantity); err != nil {
		return nil, err
	}
	return &models.CartQuantity{ItemID: itemID, Quantity: quantity}, nil
}

func (s *CartService) Remove(ctx context.Context, userID, itemID string) error {
	return s.repomanager.Carts(s.db).Remove(ctx, userID, itemID)
}

func (s *CartService) Clear(ctx context.Context, userID string) error {
	return s.repomanager.Carts(s.db).Clear(ctx, userID)
}
