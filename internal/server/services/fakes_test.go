package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/bhojanbox/internal/common"
	"github.com/dmitrijs2005/bhojanbox/internal/dbx"
	"github.com/dmitrijs2005/bhojanbox/internal/server/models"
	"github.com/dmitrijs2005/bhojanbox/internal/server/repositories/carts"
	"github.com/dmitrijs2005/bhojanbox/internal/server/repositories/menu"
	"github.com/dmitrijs2005/bhojanbox/internal/server/repositories/orders"
	"github.com/dmitrijs2005/bhojanbox/internal/server/repositories/users"
	"github.com/shopspring/decimal"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// --- users ---

type fakeUsersRepo struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
	err     error
	created *models.User
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byEmail: map[string]*models.User{}, byID: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, common.ErrAlreadyExists
	}
	u.ID = "u-" + u.Email
	f.byEmail[u.Email] = u
	f.byID[u.ID] = u
	f.created = u
	return u, nil
}

func (f *fakeUsersRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) GetUserByID(_ context.Context, id string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) UpdateProfile(_ context.Context, id, name, phone string) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	u.Name, u.Phone = name, phone
	return u, nil
}

// --- menu ---

type fakeMenuRepo struct {
	items      map[string]models.MenuItem
	list       []models.MenuItem
	categories []models.Category
	err        error

	listCalls   int
	catCalls    int
	searchQuery string
}

func newFakeMenuRepo(items ...models.MenuItem) *fakeMenuRepo {
	f := &fakeMenuRepo{items: map[string]models.MenuItem{}, list: items}
	for _, it := range items {
		f.items[it.ID] = it
	}
	return f
}

func (f *fakeMenuRepo) ListItems(ctx context.Context) ([]models.MenuItem, error) {
	f.listCalls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.list, nil
}

func (f *fakeMenuRepo) GetItem(_ context.Context, id string) (*models.MenuItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	it, ok := f.items[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &it, nil
}

func (f *fakeMenuRepo) Search(_ context.Context, q string) ([]models.MenuItem, error) {
	f.searchQuery = q
	if f.err != nil {
		return nil, f.err
	}
	return f.list[:1], nil
}

func (f *fakeMenuRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	f.catCalls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.categories, nil
}

// --- carts ---

type fakeCartsRepo struct {
	lines   []models.CartLine
	qty     map[string]int
	err     error
	cleared bool
}

func newFakeCartsRepo() *fakeCartsRepo {
	return &fakeCartsRepo{qty: map[string]int{}}
}

func (f *fakeCartsRepo) List(context.Context, string) ([]models.CartLine, error) {
	return f.lines, f.err
}

func (f *fakeCartsRepo) Add(_ context.Context, _, itemID string, quantity int) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.qty[itemID] += quantity
	return f.qty[itemID], nil
}

func (f *fakeCartsRepo) SetQuantity(_ context.Context, _, itemID string, quantity int) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.qty[itemID]; !ok {
		return common.ErrNotFound
	}
	f.qty[itemID] = quantity
	return nil
}

func (f *fakeCartsRepo) Remove(_ context.Context, _, itemID string) error {
	delete(f.qty, itemID)
	return f.err
}

func (f *fakeCartsRepo) Clear(context.Context, string) error {
	if f.err != nil {
		return f.err
	}
	f.cleared = true
	f.qty = map[string]int{}
	return nil
}

// --- orders ---

type fakeOrdersRepo struct {
	orders    map[string]*models.Order
	createErr error
	listOut   []models.Order
}

func newFakeOrdersRepo() *fakeOrdersRepo {
	return &fakeOrdersRepo{orders: map[string]*models.Order{}}
}

func (f *fakeOrdersRepo) Create(_ context.Context, o *models.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *o
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeOrdersRepo) ListByUser(context.Context, string) ([]models.Order, error) {
	return f.listOut, nil
}

func (f *fakeOrdersRepo) Get(_ context.Context, userID, id string) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok || o.UserID != userID {
		return nil, common.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrdersRepo) LockStatus(ctx context.Context, userID, id string) (models.OrderStatus, error) {
	o, err := f.Get(ctx, userID, id)
	if err != nil {
		return "", err
	}
	return o.Status, nil
}

func (f *fakeOrdersRepo) SetStatus(_ context.Context, id string, status models.OrderStatus) error {
	f.orders[id].Status = status
	return nil
}

// --- manager ---

type fakeRepoManager struct {
	u *fakeUsersRepo
	m *fakeMenuRepo
	c *fakeCartsRepo
	o *fakeOrdersRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return m.u }
func (m *fakeRepoManager) Menu(dbx.DBTX) menu.Repository                { return m.m }
func (m *fakeRepoManager) Carts(dbx.DBTX) carts.Repository              { return m.c }
func (m *fakeRepoManager) Orders(dbx.DBTX) orders.Repository            { return m.o }
