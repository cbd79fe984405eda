package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bhojanbox/internal/common"
	"github.com/dmitrijs2005/bhojanbox/internal/dbx"
	"github.com/dmitrijs2005/bhojanbox/internal/logging"
	"github.com/dmitrijs2005/bhojanbox/internal/pricing"
	"github.com/dmitrijs2005/bhojanbox/internal/server/models"
	"github.com/dmitrijs2005/bhojanbox/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var newOrderID = uuid.NewString

// OrderService places orders and moves them through their lifecycle.
type OrderService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewOrderService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *OrderService {
	return &OrderService{db: db, repomanager: m, logger: logger.With("module", "orders")}
}

func validateDraft(d models.OrderDraft) error {
	if len(d.Lines) == 0 {
		return fmt.Errorf("%w: order has no items", common.ErrValidation)
	}
	for _, l := range d.Lines {
		if l.ItemID == "" || l.Quantity < 1 {
			return fmt.Errorf("%w: invalid line %q", common.ErrValidation, l.ItemID)
		}
	}
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"name", d.Name},
		{"email", d.Email},
		{"phone", d.Phone},
		{"deliveryAddress", d.DeliveryAddress},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", common.ErrValidation, strings.Join(missing, ", "))
	}
	if !d.PaymentMethod.Valid() {
		return fmt.Errorf("%w: unknown payment method %q", common.ErrValidation, d.PaymentMethod)
	}
	return nil
}

// Create prices the draft from the current menu, stores the order and
// empties the caller's cart, all in one transaction. Client-side prices are
// never trusted.
func (s *OrderService) Create(ctx context.Context, userID string, draft models.OrderDraft) (*models.Order, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:              newOrderID(),
		UserID:          userID,
		Status:          models.StatusPending,
		DeliveryAddress: strings.TrimSpace(draft.DeliveryAddress),
		PaymentMethod:   draft.PaymentMethod,
		ContactName:     strings.TrimSpace(draft.Name),
		Email:           strings.TrimSpace(draft.Email),
		Phone:           strings.TrimSpace(draft.Phone),
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		menu := s.repomanager.Menu(tx)

		subtotal := decimal.Zero
		order.Lines = make([]models.OrderLine, 0, len(draft.Lines))
		for _, l := range draft.Lines {
			item, err := menu.GetItem(ctx, l.ItemID)
			if err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return fmt.Errorf("%w: unknown item %q", common.ErrValidation, l.ItemID)
				}
				return err
			}
			order.Lines = append(order.Lines, models.OrderLine{
				ItemID:    item.ID,
				Name:      item.Name,
				UnitPrice: item.Price,
				Quantity:  l.Quantity,
			})
			subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}

		sum := pricing.Summarize(subtotal)
		order.Subtotal = sum.Subtotal
		order.Tax = sum.Tax
		order.DeliveryFee = sum.DeliveryFee
		order.Total = sum.Total

		if err := s.repomanager.Orders(tx).Create(ctx, order); err != nil {
			return err
		}
		return s.repomanager.Carts(tx).Clear(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "order placed", "order_id", order.ID, "total", order.Total.StringFixed(2))
	return order, nil
}

func (s *OrderService) List(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := s.repomanager.Orders(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, userID, id string) (*models.Order, error) {
	return s.repomanager.Orders(s.db).Get(ctx, userID, id)
}

// UpdateStatus applies a status change requested by the order's owner.
// Customers may only cancel; every other step belongs to the kitchen.
func (s *OrderService) UpdateStatus(ctx context.Context, userID, id string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", common.ErrValidation, status)
	}
	if status != models.StatusCancelled {
		return nil, fmt.Errorf("%w: customers may only cancel an order, not set %q", common.ErrValidation, status)
	}
	return s.transition(ctx, userID, id, status)
}

// transition moves the order to status when the lifecycle allows it and
// returns the updated order. The current status is read under a row lock.
func (s *OrderService) transition(ctx context.Context, userID, id string, status models.OrderStatus) (*models.Order, error) {
	var updated *models.Order
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Orders(tx)

		current, err := repo.LockStatus(ctx, userID, id)
		if err != nil {
			return err
		}
		if !current.CanTransition(status) {
			return fmt.Errorf("%w: %s -> %s", common.ErrIllegalTransition, current, status)
		}
		if err := repo.SetStatus(ctx, id, status); err != nil {
			return err
		}
		updated, err = repo.Get(ctx, userID, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "order status changed", "order_id", id, "status", string(status))
	return updated, nil
}
