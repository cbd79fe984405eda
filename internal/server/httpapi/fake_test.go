package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/bhojanbox/internal/common"
	"github.com/dmitrijs2005/bhojanbox/internal/logging"
	"github.com/dmitrijs2005/bhojanbox/internal/server/auth"
	"github.com/dmitrijs2005/bhojanbox/internal/server/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fakeUsers struct{ err error }

func (f *fakeUsers) Register(_ context.Context, in models.RegisterRequest) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(in.Password) < 6 {
		return nil, fmt.Errorf("%w: password too short", common.ErrValidation)
	}
	return &models.User{ID: "u1", Name: in.Name, Email: in.Email, Salt: []byte("s"), PasswordHash: []byte("h")}, nil
}

func (f *fakeUsers) Login(_ context.Context, in models.LoginRequest) (*models.AuthResponse, error) {
	if in.Password != "secret1" {
		return nil, common.ErrInvalidCredentials
	}
	return &models.AuthResponse{Token: "tok", User: &models.User{ID: "u1", Email: in.Email}}, nil
}

func (f *fakeUsers) Me(_ context.Context, userID string) (*models.User, error) {
	return &models.User{ID: userID, Name: "Asha"}, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, userID string, in models.ProfileUpdate) (*models.User, error) {
	return &models.User{ID: userID, Name: in.Name, Phone: in.Phone}, nil
}

type fakeMenu struct {
	err       error
	lastQuery string
}

var paneer = models.MenuItem{ID: "paneer-tikka", Name: "Paneer Tikka", Price: decimal.RequireFromString("199.99"), Category: "Starters"}

func (f *fakeMenu) List(context.Context) ([]models.MenuItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.MenuItem{paneer}, nil
}

func (f *fakeMenu) Categories(context.Context) ([]models.Category, error) {
	return []models.Category{{ID: "starter", Name: "Starters", DisplayOrder: 1}}, nil
}

func (f *fakeMenu) Search(_ context.Context, q string) ([]models.MenuItem, error) {
	f.lastQuery = q
	return []models.MenuItem{}, nil
}

func (f *fakeMenu) Get(_ context.Context, id string) (*models.MenuItem, error) {
	if id != paneer.ID {
		return nil, common.ErrNotFound
	}
	it := paneer
	return &it, nil
}

type fakeCarts struct {
	userID  string
	removed string
	cleared bool
}

func (f *fakeCarts) Get(_ context.Context, userID string) (models.Cart, error) {
	f.userID = userID
	return models.NewCart(nil), nil
}

func (f *fakeCarts) Add(_ context.Context, userID, itemID string, q int) (*models.CartAddition, error) {
	f.userID = userID
	if q < 1 || q > 10 {
		return nil, fmt.Errorf("%w: quantity", common.ErrValidation)
	}
	return &models.CartAddition{Item: models.CartLine{ItemID: itemID, Quantity: q}, Quantity: q}, nil
}

func (f *fakeCarts) Update(_ context.Context, _ string, itemID string, q int) (*models.CartQuantity, error) {
	if itemID != paneer.ID {
		return nil, common.ErrNotFound
	}
	return &models.CartQuantity{ItemID: itemID, Quantity: q}, nil
}

func (f *fakeCarts) Remove(_ context.Context, _ string, itemID string) error {
	f.removed = itemID
	return nil
}

func (f *fakeCarts) Clear(context.Context, string) error {
	f.cleared = true
	return nil
}

type fakeOrders struct {
	order *models.Order
	err   error
}

func (f *fakeOrders) Create(_ context.Context, userID string, d models.OrderDraft) (*models.Order, error) {
	if len(d.Lines) == 0 {
		return nil, fmt.Errorf("%w: order has no items", common.ErrValidation)
	}
	f.order = &models.Order{
		ID:     "3f1c9a52-8a7e-4d7b-9c43-0d7f7b0c1a11",
		UserID: userID,
		Status: models.StatusPending,
		Total:  decimal.RequireFromString("709.97"),
	}
	return f.order, nil
}

func (f *fakeOrders) List(context.Context, string) ([]models.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.order == nil {
		return []models.Order{}, nil
	}
	return []models.Order{*f.order}, nil
}

func (f *fakeOrders) Get(_ context.Context, _ string, id string) (*models.Order, error) {
	if f.order == nil || f.order.ID != id {
		return nil, common.ErrNotFound
	}
	return f.order, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, _ string, id string, status models.OrderStatus) (*models.Order, error) {
	o, err := f.Get(context.Background(), "", id)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransition(status) {
		return nil, fmt.Errorf("%w: %s -> %s", common.ErrIllegalTransition, o.Status, status)
	}
	o.Status = status
	return o, nil
}

type testEnv struct {
	srv    *httptest.Server
	users  *fakeUsers
	menu   *fakeMenu
	carts  *fakeCarts
	orders *fakeOrders
	token  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{users: &fakeUsers{}, menu: &fakeMenu{}, carts: &fakeCarts{}, orders: &fakeOrders{}}
	s := NewServer(":0", logging.Nop(), Services{
		Users: env.users, Menu: env.menu, Carts: env.carts, Orders: env.orders,
	}, testSecret, time.Second)
	env.srv = httptest.NewServer(s.Handler())
	t.Cleanup(env.srv.Close)

	tok, err := auth.GenerateToken("u1", []byte(testSecret), time.Hour)
	require.NoError(t, err)
	env.token = tok
	return env
}

// do sends a request; authorized requests carry a valid bearer token.
func (e *testEnv) do(t *testing.T, method, path, body string, authorized bool) (*http.Response, string) {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, rdr)
	require.NoError(t, err)
	if authorized {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+e.token)
	}
	resp, err := e.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}
