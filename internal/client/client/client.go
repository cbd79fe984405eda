package client

import (
	"context"

	"github.com/dmitrijs2005/bhojanbox/internal/client/models"
)

type Client interface {
	Ping(ctx context.Context) error

	Register(ctx context.Context, req models.RegisterRequest) (models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error)
	Me(ctx context.Context) (models.User, error)
	UpdateMe(ctx context.Context, upd models.ProfileUpdate) (models.User, error)

	ListMenuItems(ctx context.Context) ([]models.MenuItem, error)
	GetMenuItem(ctx context.Context, id string) (models.MenuItem, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	SearchMenu(ctx context.Context, query string) ([]models.MenuItem, error)

	GetCart(ctx context.Context) (models.CartSnapshot, error)
	AddToCart(ctx context.Context, itemID string, quantity int) (models.CartAddition, error)
	UpdateCartItem(ctx context.Context, itemID string, quantity int) (models.CartQuantity, error)
	RemoveCartItem(ctx context.Context, itemID string) error
	ClearCart(ctx context.Context) error

	CreateOrder(ctx context.Context, draft models.OrderDraft) (models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	GetOrder(ctx context.Context, id string) (models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error)
}
