package stores

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/bhojanbox/internal/client/models"
	"github.com/dmitrijs2005/bhojanbox/internal/common"
	"github.com/dmitrijs2005/bhojanbox/internal/logging"
)

// CartAPI is the part of the resource client the cart store needs.
type CartAPI interface {
	GetCart(ctx context.Context) (models.CartSnapshot, error)
	AddToCart(ctx context.Context, itemID string, quantity int) (models.CartAddition, error)
	UpdateCartItem(ctx context.Context, itemID string, quantity int) (models.CartQuantity, error)
	RemoveCartItem(ctx context.Context, itemID string) error
}

// CartStore is the single client-side source of cart contents and totals.
type CartStore struct {
	api    CartAPI
	logger logging.Logger

	mu       sync.Mutex
	state    models.CartState
	inflight int

	subs subscribers[models.CartState]
}

func NewCartStore(api CartAPI, opts ...Option) *CartStore {
	o := buildOptions(opts)
	return &CartStore{
		api:    api,
		logger: o.logger.With("module", "cart-store"),
	}
}

// State returns a deep copy of the current cart.
func (s *CartStore) State() models.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers fn to receive the cart after every transition.
// The returned function unregisters it.
func (s *CartStore) Subscribe(fn func(models.CartState)) func() {
	return s.subs.add(fn)
}

// apply runs fn under the store lock, re-derives totals and notifies
// subscribers.
func (s *CartStore) apply(fn func(st *models.CartState)) {
	s.subs.commit(func() models.CartState {
		s.mu.Lock()
		defer s.mu.Unlock()
		fn(&s.state)
		s.state.Recalculate()
		return s.state.Clone()
	}, models.CartState.Clone)
}

func (s *CartStore) fail(ctx context.Context, op string, err error) {
	s.logger.Debug(ctx, "cart action failed", "op", op, "error", err)
	msg := errorMessage(err)
	s.apply(func(st *models.CartState) { st.LastError = msg })
}

// FetchCart replaces the lines with the server snapshot. When fetches
// overlap, the one completing last wins.
func (s *CartStore) FetchCart(ctx context.Context) error {
	s.apply(func(st *models.CartState) {
		s.inflight++
		st.Loading = true
	})

	snap, err := s.api.GetCart(ctx)

	s.apply(func(st *models.CartState) {
		s.inflight--
		st.Loading = s.inflight > 0
		if err != nil {
			st.LastError = errorMessage(err)
			return
		}
		st.Lines = normalizeLines(snap.Items)
		st.LastError = ""
	})

	if err != nil {
		s.logger.Debug(ctx, "cart action failed", "op", "fetch", "error", err)
		return fmt.Errorf("fetch cart: %w", err)
	}
	return nil
}

// AddItem adds quantity units of itemID. The server answers with the
// canonical item and the quantity actually added, which is merged into an
// existing line or appended as a new one.
func (s *CartStore) AddItem(ctx context.Context, itemID string, quantity int) error {
	if itemID == "" {
		return fmt.Errorf("%w: item id is required", common.ErrValidation)
	}
	if quantity < common.MinAddQuantity || quantity > common.MaxAddQuantity {
		return fmt.Errorf("%w: quantity must be between %d and %d",
			common.ErrValidation, common.MinAddQuantity, common.MaxAddQuantity)
	}

	added, err := s.api.AddToCart(ctx, itemID, quantity)
	if err != nil {
		s.fail(ctx, "add", err)
		return fmt.Errorf("add item %s: %w", itemID, err)
	}

	delta := added.Quantity
	if delta < 1 {
		delta = quantity
	}
	item := added.Item
	if item.ItemID == "" {
		item.ItemID = itemID
	}

	s.apply(func(st *models.CartState) {
		if i, ok := st.Index(item.ItemID); ok {
			st.Lines[i].Quantity += delta
		} else {
			item.Quantity = delta
			st.Lines = append(st.Lines, item)
		}
		st.LastError = ""
	})
	return nil
}

// UpdateQuantity sets the quantity of a line already in the cart. Lowering
// a line to zero goes through RemoveItem instead.
func (s *CartStore) UpdateQuantity(ctx context.Context, itemID string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1, use remove instead", common.ErrValidation)
	}

	s.mu.Lock()
	_, ok := s.state.Index(itemID)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: item %s is not in the cart", common.ErrNotFound, itemID)
	}

	confirmed, err := s.api.UpdateCartItem(ctx, itemID, quantity)
	if err != nil {
		s.fail(ctx, "update", err)
		return fmt.Errorf("update item %s: %w", itemID, err)
	}

	s.apply(func(st *models.CartState) {
		st.LastError = ""
		i, ok := st.Index(itemID)
		if !ok {
			return
		}
		if confirmed.Quantity < 1 {
			st.Lines = append(st.Lines[:i], st.Lines[i+1:]...)
			return
		}
		st.Lines[i].Quantity = confirmed.Quantity
	})
	return nil
}

// RemoveItem deletes a line. The request is always sent; an item that is
// absent locally or on the server is not an error.
func (s *CartStore) RemoveItem(ctx context.Context, itemID string) error {
	err := s.api.RemoveCartItem(ctx, itemID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		s.fail(ctx, "remove", err)
		return fmt.Errorf("remove item %s: %w", itemID, err)
	}

	s.apply(func(st *models.CartState) {
		if i, ok := st.Index(itemID); ok {
			st.Lines = append(st.Lines[:i], st.Lines[i+1:]...)
		}
		st.LastError = ""
	})
	return nil
}

// ClearCart empties the local cart without contacting the server.
func (s *CartStore) ClearCart() {
	s.apply(func(st *models.CartState) {
		st.Lines = nil
		st.LastError = ""
	})
}

// normalizeLines copies server lines, merging repeated item ids and
// dropping lines without a positive quantity.
func normalizeLines(in []models.CartLineItem) []models.CartLineItem {
	out := make([]models.CartLineItem, 0, len(in))
	pos := make(map[string]int, len(in))
	for _, l := range in {
		if l.Quantity < 1 {
			continue
		}
		if i, ok := pos[l.ItemID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		pos[l.ItemID] = len(out)
		out = append(out, l)
	}
	return out
}
