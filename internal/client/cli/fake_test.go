package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/dmitrijs2005/bhojanbox/internal/client/client"
	"github.com/dmitrijs2005/bhojanbox/internal/client/config"
	"github.com/dmitrijs2005/bhojanbox/internal/client/credentials"
	"github.com/dmitrijs2005/bhojanbox/internal/client/models"
	"github.com/dmitrijs2005/bhojanbox/internal/client/stores"
	"github.com/dmitrijs2005/bhojanbox/internal/logging"
	"github.com/shopspring/decimal"
)

// fakeServer is an in-memory stand-in for the REST backend.
type fakeServer struct {
	mu      sync.Mutex
	menu    []models.MenuItem
	cart    []models.CartLineItem
	orders  []models.Order
	pingErr error
	drafts  []models.OrderDraft
}

var _ client.Client = (*fakeServer)(nil)

func newFakeServer() *fakeServer {
	return &fakeServer{menu: []models.MenuItem{
		{ID: "p1", Name: "Paneer Butter Masala", Category: "Main Course", Price: decimal.RequireFromString("199.99"), IsVegetarian: true, Rating: 4.5},
		{ID: "n1", Name: "Garlic Naan", Category: "Breads", Price: decimal.RequireFromString("45.50"), IsVegetarian: true, Rating: 4.2},
	}}
}

func (f *fakeServer) item(id string) (models.MenuItem, bool) {
	for _, m := range f.menu {
		if m.ID == id {
			return m, true
		}
	}
	return models.MenuItem{}, false
}

func notFound(what string) error { return &client.APIError{Status: 404, Message: what + " not found"} }

func (f *fakeServer) Ping(context.Context) error { return f.pingErr }

func (f *fakeServer) Register(_ context.Context, r models.RegisterRequest) (models.User, error) {
	return models.User{ID: "u1", Name: r.Name, Email: r.Email, Phone: r.Phone}, nil
}

func (f *fakeServer) Login(_ context.Context, r models.LoginRequest) (models.AuthResponse, error) {
	if r.Password != "secret1" {
		return models.AuthResponse{}, &client.APIError{Status: 401, Message: "invalid email/password"}
	}
	return models.AuthResponse{Token: "jwt", User: models.User{ID: "u1", Name: "Asha", Email: r.Email}}, nil
}

func (f *fakeServer) Me(context.Context) (models.User, error) {
	return models.User{ID: "u1", Name: "Asha", Email: "asha@example.com", Phone: "999"}, nil
}

func (f *fakeServer) UpdateMe(_ context.Context, u models.ProfileUpdate) (models.User, error) {
	return models.User{ID: "u1", Name: u.Name, Email: "asha@example.com", Phone: u.Phone}, nil
}

func (f *fakeServer) ListMenuItems(context.Context) ([]models.MenuItem, error) { return f.menu, nil }

func (f *fakeServer) GetMenuItem(_ context.Context, id string) (models.MenuItem, error) {
	if m, ok := f.item(id); ok {
		return m, nil
	}
	return models.MenuItem{}, notFound("menu item")
}

func (f *fakeServer) ListCategories(context.Context) ([]models.Category, error) {
	return []models.Category{{ID: "c1", Name: "Main Course"}, {ID: "c2", Name: "Breads", Description: "Fresh from the tandoor"}}, nil
}

func (f *fakeServer) SearchMenu(_ context.Context, q string) ([]models.MenuItem, error) {
	var out []models.MenuItem
	for _, m := range f.menu {
		if bytes.Contains(bytes.ToLower([]byte(m.Name)), bytes.ToLower([]byte(q))) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeServer) GetCart(context.Context) (models.CartSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return models.CartSnapshot{Items: append([]models.CartLineItem(nil), f.cart...)}, nil
}

func (f *fakeServer) AddToCart(_ context.Context, id string, q int) (models.CartAddition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.item(id)
	if !ok {
		return models.CartAddition{}, notFound("menu item")
	}
	line := models.CartLineItem{ItemID: m.ID, Name: m.Name, UnitPrice: m.Price, Category: m.Category}
	for i := range f.cart {
		if f.cart[i].ItemID == id {
			f.cart[i].Quantity += q
			line.Quantity = f.cart[i].Quantity
			return models.CartAddition{Item: line, Quantity: q}, nil
		}
	}
	line.Quantity = q
	f.cart = append(f.cart, line)
	return models.CartAddition{Item: line, Quantity: q}, nil
}

func (f *fakeServer) UpdateCartItem(_ context.Context, id string, q int) (models.CartQuantity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.cart {
		if f.cart[i].ItemID == id {
			f.cart[i].Quantity = q
			return models.CartQuantity{ItemID: id, Quantity: q}, nil
		}
	}
	return models.CartQuantity{}, notFound("cart item")
}

func (f *fakeServer) RemoveCartItem(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.cart {
		if f.cart[i].ItemID == id {
			f.cart = append(f.cart[:i], f.cart[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeServer) ClearCart(context.Context) error {
	f.mu.Lock()
	f.cart = nil
	f.mu.Unlock()
	return nil
}

func (f *fakeServer) CreateOrder(_ context.Context, d models.OrderDraft) (models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drafts = append(f.drafts, d)
	o := models.Order{
		ID:              fmt.Sprintf("o%d", len(f.orders)+1),
		Lines:           d.Lines,
		Total:           decimal.RequireFromString("709.97"),
		Status:          models.StatusPending,
		DeliveryAddress: d.DeliveryAddress,
		PaymentMethod:   d.PaymentMethod,
		ContactName:     d.Name,
		Email:           d.Email,
		Phone:           d.Phone,
	}
	f.orders = append([]models.Order{o}, f.orders...)
	f.cart = nil
	return o, nil
}

func (f *fakeServer) ListOrders(context.Context) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Order(nil), f.orders...), nil
}

func (f *fakeServer) GetOrder(_ context.Context, id string) (models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return models.Order{}, notFound("order")
}

func (f *fakeServer) UpdateOrderStatus(_ context.Context, id string, st models.OrderStatus) (models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.orders {
		if f.orders[i].ID == id {
			if f.orders[i].Status.Terminal() {
				return models.Order{}, &client.APIError{Status: 422, Message: "illegal order status transition"}
			}
			f.orders[i].Status = st
			return f.orders[i], nil
		}
	}
	return models.Order{}, notFound("order")
}

type testApp struct {
	*App
	server *fakeServer
	holder *credentials.MemoryHolder
	out    *bytes.Buffer
}

func newTestApp(t *testing.T, input string) *testApp {
	t.Helper()
	srv := newFakeServer()
	holder := credentials.NewMemoryHolder()
	var out bytes.Buffer

	cart := stores.NewCartStore(srv)
	app := &App{
		config: &config.Config{},
		auth:   stores.NewAuthStore(srv, holder),
		cart:   cart,
		orders: stores.NewOrderStore(srv),
		menu:   srv,
		logger: logging.NewTextLogger(io.Discard, slog.LevelInfo),
		reader: rdr(input),
		out:    &out,
	}
	return &testApp{App: app, server: srv, holder: holder, out: &out}
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}

func (ta *testApp) login(t *testing.T) {
	t.Helper()
	stubPassword(t, "secret1")
	ta.reader = rdr("asha@example.com\n")
	if err := ta.Login(context.Background()); err != nil {
		t.Fatalf("login: %v", err)
	}
}
