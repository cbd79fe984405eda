package stores

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/bhojanbox/internal/client/models"
	"github.com/shopspring/decimal"
)

var catalog = map[string]models.CartLineItem{
	"p1": {ItemID: "p1", Name: "Paneer Butter Masala", UnitPrice: decimal.RequireFromString("199.99")},
	"p2": {ItemID: "p2", Name: "Garlic Naan", UnitPrice: decimal.RequireFromString("45.50")},
	"p3": {ItemID: "p3", Name: "Mango Lassi", UnitPrice: decimal.RequireFromString("0.10")},
}

// fakeAPI implements CartAPI, OrderAPI and AuthAPI. Unset hooks fall back
// to a well-behaved server.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	getCart      func(ctx context.Context) (models.CartSnapshot, error)
	addToCart    func(ctx context.Context, id string, q int) (models.CartAddition, error)
	updateItem   func(ctx context.Context, id string, q int) (models.CartQuantity, error)
	removeItem   func(ctx context.Context, id string) error
	createOrder  func(ctx context.Context, d models.OrderDraft) (models.Order, error)
	listOrders   func(ctx context.Context) ([]models.Order, error)
	getOrder     func(ctx context.Context, id string) (models.Order, error)
	updateStatus func(ctx context.Context, id string, st models.OrderStatus) (models.Order, error)
	register     func(ctx context.Context, r models.RegisterRequest) (models.User, error)
	login        func(ctx context.Context, r models.LoginRequest) (models.AuthResponse, error)
	me           func(ctx context.Context) (models.User, error)
	updateMe     func(ctx context.Context, u models.ProfileUpdate) (models.User, error)
}

func (f *fakeAPI) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) GetCart(ctx context.Context) (models.CartSnapshot, error) {
	f.record("GetCart")
	if f.getCart != nil {
		return f.getCart(ctx)
	}
	return models.CartSnapshot{}, nil
}

func (f *fakeAPI) AddToCart(ctx context.Context, id string, q int) (models.CartAddition, error) {
	f.record("AddToCart")
	if f.addToCart != nil {
		return f.addToCart(ctx, id, q)
	}
	item := catalog[id]
	item.Quantity = q
	return models.CartAddition{Item: item, Quantity: q}, nil
}

func (f *fakeAPI) UpdateCartItem(ctx context.Context, id string, q int) (models.CartQuantity, error) {
	f.record("UpdateCartItem")
	if f.updateItem != nil {
		return f.updateItem(ctx, id, q)
	}
	return models.CartQuantity{ItemID: id, Quantity: q}, nil
}

func (f *fakeAPI) RemoveCartItem(ctx context.Context, id string) error {
	f.record("RemoveCartItem")
	if f.removeItem != nil {
		return f.removeItem(ctx, id)
	}
	return nil
}

func (f *fakeAPI) CreateOrder(ctx context.Context, d models.OrderDraft) (models.Order, error) {
	f.record("CreateOrder")
	if f.createOrder != nil {
		return f.createOrder(ctx, d)
	}
	total := decimal.Zero
	for _, l := range d.Lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return models.Order{
		ID:              "o-new",
		Lines:           d.Lines,
		Total:           total,
		Status:          models.StatusPending,
		DeliveryAddress: d.DeliveryAddress,
		PaymentMethod:   d.PaymentMethod,
		ContactName:     d.Name,
		Email:           d.Email,
		Phone:           d.Phone,
	}, nil
}

func (f *fakeAPI) ListOrders(ctx context.Context) ([]models.Order, error) {
	f.record("ListOrders")
	if f.listOrders != nil {
		return f.listOrders(ctx)
	}
	return nil, nil
}

func (f *fakeAPI) GetOrder(ctx context.Context, id string) (models.Order, error) {
	f.record("GetOrder")
	if f.getOrder != nil {
		return f.getOrder(ctx, id)
	}
	return models.Order{ID: id, Status: models.StatusPending}, nil
}

func (f *fakeAPI) UpdateOrderStatus(ctx context.Context, id string, st models.OrderStatus) (models.Order, error) {
	f.record("UpdateOrderStatus")
	if f.updateStatus != nil {
		return f.updateStatus(ctx, id, st)
	}
	return models.Order{ID: id, Status: st}, nil
}

func (f *fakeAPI) Register(ctx context.Context, r models.RegisterRequest) (models.User, error) {
	f.record("Register")
	if f.register != nil {
		return f.register(ctx, r)
	}
	return models.User{ID: "u1", Name: r.Name, Email: r.Email}, nil
}

func (f *fakeAPI) Login(ctx context.Context, r models.LoginRequest) (models.AuthResponse, error) {
	f.record("Login")
	if f.login != nil {
		return f.login(ctx, r)
	}
	return models.AuthResponse{Token: "jwt-" + r.Email, User: models.User{ID: "u1", Name: "Asha", Email: r.Email}}, nil
}

func (f *fakeAPI) Me(ctx context.Context) (models.User, error) {
	f.record("Me")
	if f.me != nil {
		return f.me(ctx)
	}
	return models.User{ID: "u1", Name: "Asha", Email: "asha@example.com"}, nil
}

func (f *fakeAPI) UpdateMe(ctx context.Context, u models.ProfileUpdate) (models.User, error) {
	f.record("UpdateMe")
	if f.updateMe != nil {
		return f.updateMe(ctx, u)
	}
	return models.User{ID: "u1", Name: u.Name, Email: "asha@example.com", Phone: u.Phone}, nil
}

func countCalls(calls []string, name string) int {
	n := 0
	for _, c := range calls {
		if c == name {
			n++
		}
	}
	return n
}
