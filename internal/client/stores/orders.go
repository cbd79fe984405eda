package stores

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/bhojanbox/internal/client/models"
	"github.com/dmitrijs2005/bhojanbox/internal/logging"
)

// OrderAPI is the part of the resource client the order store needs.
type OrderAPI interface {
	CreateOrder(ctx context.Context, draft models.OrderDraft) (models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	GetOrder(ctx context.Context, id string) (models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error)
}

// CartSource is what checkout reads from and resets afterwards.
type CartSource interface {
	State() models.CartState
	ClearCart()
}

// OrderStore records submitted orders and the current order. Orders only
// come from server responses.
type OrderStore struct {
	api    OrderAPI
	logger logging.Logger

	mu       sync.Mutex
	state    models.OrderState
	inflight int

	subs subscribers[models.OrderState]
}

func NewOrderStore(api OrderAPI, opts ...Option) *OrderStore {
	o := buildOptions(opts)
	return &OrderStore{
		api:    api,
		logger: o.logger.With("module", "order-store"),
	}
}

func (s *OrderStore) State() models.OrderState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *OrderStore) Subscribe(fn func(models.OrderState)) func() {
	return s.subs.add(fn)
}

func (s *OrderStore) apply(fn func(st *models.OrderState)) {
	s.subs.commit(func() models.OrderState {
		s.mu.Lock()
		defer s.mu.Unlock()
		fn(&s.state)
		return s.state.Clone()
	}, models.OrderState.Clone)
}

func (s *OrderStore) begin() {
	s.apply(func(st *models.OrderState) {
		s.inflight++
		st.Loading = true
	})
}

// finish ends a request started with begin and applies fn only on success.
func (s *OrderStore) finish(ctx context.Context, op string, err error, fn func(st *models.OrderState)) {
	if err != nil {
		s.logger.Debug(ctx, "order action failed", "op", op, "error", err)
	}
	s.apply(func(st *models.OrderState) {
		s.inflight--
		st.Loading = s.inflight > 0
		if err != nil {
			st.LastError = errorMessage(err)
			return
		}
		fn(st)
		st.LastError = ""
	})
}

// PlaceOrder submits draft. On success the new order becomes Orders[0] and
// the current order.
func (s *OrderStore) PlaceOrder(ctx context.Context, draft models.OrderDraft) (models.Order, error) {
	if err := draft.Validate(); err != nil {
		return models.Order{}, err
	}

	s.begin()
	order, err := s.api.CreateOrder(ctx, draft)
	s.finish(ctx, "place", err, func(st *models.OrderState) {
		cur := order.Clone()
		st.Orders = append([]models.Order{order.Clone()}, st.Orders...)
		st.CurrentOrder = &cur
	})
	if err != nil {
		return models.Order{}, fmt.Errorf("place order: %w", err)
	}
	return order.Clone(), nil
}

// Checkout places an order for the current cart contents and clears the
// cart locally once the order is accepted.
func (s *OrderStore) Checkout(ctx context.Context, cart CartSource, contact models.Contact, address string, method models.PaymentMethod) (models.Order, error) {
	draft := models.DraftFromCart(cart.State(), contact, address, method)
	order, err := s.PlaceOrder(ctx, draft)
	if err != nil {
		return models.Order{}, err
	}
	cart.ClearCart()
	return order, nil
}

// ListOrders replaces Orders with the server's list, keeping its order.
func (s *OrderStore) ListOrders(ctx context.Context) error {
	s.begin()
	orders, err := s.api.ListOrders(ctx)
	s.finish(ctx, "list", err, func(st *models.OrderState) {
		st.Orders = make([]models.Order, len(orders))
		for i, o := range orders {
			st.Orders[i] = o.Clone()
		}
	})
	if err != nil {
		return fmt.Errorf("list orders: %w", err)
	}
	return nil
}

// GetOrder makes the server's record of id the current order.
func (s *OrderStore) GetOrder(ctx context.Context, id string) (models.Order, error) {
	s.begin()
	order, err := s.api.GetOrder(ctx, id)
	s.finish(ctx, "get", err, func(st *models.OrderState) {
		cur := order.Clone()
		st.CurrentOrder = &cur
		replaceOrder(st.Orders, order)
	})
	if err != nil {
		return models.Order{}, fmt.Errorf("get order %s: %w", id, err)
	}
	return order.Clone(), nil
}

// UpdateStatus asks the server to move order id to status and records the
// server's answer. Legality of the transition is decided by the server.
func (s *OrderStore) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error) {
	s.begin()
	order, err := s.api.UpdateOrderStatus(ctx, id, status)
	s.finish(ctx, "status", err, func(st *models.OrderState) {
		replaceOrder(st.Orders, order)
		if st.CurrentOrder != nil && st.CurrentOrder.ID == order.ID {
			cur := order.Clone()
			st.CurrentOrder = &cur
		}
	})
	if err != nil {
		return models.Order{}, fmt.Errorf("update order %s: %w", id, err)
	}
	return order.Clone(), nil
}

func (s *OrderStore) ClearCurrentOrder() {
	s.apply(func(st *models.OrderState) {
		st.CurrentOrder = nil
	})
}

func replaceOrder(orders []models.Order, o models.Order) {
	for i := range orders {
		if orders[i].ID == o.ID {
			orders[i] = o.Clone()
			return
		}
	}
}
