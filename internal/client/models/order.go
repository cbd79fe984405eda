package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/bhojanbox/internal/common"
	"github.com/shopspring/decimal"
)

// OrderStatus is pushed by the server. The client only displays it.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusOnTheWay  OrderStatus = "on-the-way"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

var statusLabels = map[OrderStatus]string{
	StatusPending:   "Pending",
	StatusPreparing: "Preparing",
	StatusOnTheWay:  "On the way",
	StatusDelivered: "Delivered",
	StatusCancelled: "Cancelled",
}

// Known reports whether s is one of the documented statuses.
func (s OrderStatus) Known() bool {
	_, ok := statusLabels[s]
	return ok
}

// Terminal reports whether no further status change can arrive.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Label is the display text. Unknown statuses render as the raw string.
func (s OrderStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// PaymentMethod selects how the order is paid.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
	PaymentUPI  PaymentMethod = "upi"
)

// PaymentMethods lists every accepted selector in display order.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentCard, PaymentUPI}

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentUPI:
		return true
	}
	return false
}

// Selectable reports whether the front end offers p. Card and UPI are
// accepted by the stores but not offered yet.
func (p PaymentMethod) Selectable() bool {
	return p == PaymentCash
}

func (p PaymentMethod) Label() string {
	switch p {
	case PaymentCash:
		return "Cash on Delivery"
	case PaymentCard:
		return "Credit/Debit Card"
	case PaymentUPI:
		return "UPI"
	}
	return string(p)
}

// OrderLine is a snapshot of a cart line taken at checkout.
type OrderLine struct {
	ItemID    string          `json:"itemId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// Order is created once by the server at checkout.
type Order struct {
	ID              string          `json:"id"`
	PlacedAt        time.Time       `json:"placedAt"`
	Lines           []OrderLine     `json:"items"`
	Total           decimal.Decimal `json:"total"`
	Status          OrderStatus     `json:"status"`
	DeliveryAddress string          `json:"deliveryAddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	ContactName     string          `json:"name"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
}

// Clone returns a copy of o whose Lines share no memory with o.
func (o Order) Clone() Order {
	out := o
	if o.Lines != nil {
		out.Lines = make([]OrderLine, len(o.Lines))
		copy(out.Lines, o.Lines)
	}
	return out
}

// Contact holds the checkout contact fields.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// OrderDraft is what the client submits to place an order.
type OrderDraft struct {
	Contact
	DeliveryAddress string        `json:"deliveryAddress"`
	PaymentMethod   PaymentMethod `json:"paymentMethod"`
	Lines           []OrderLine   `json:"items"`
}

// Validate checks the draft before any request is made. The returned error
// wraps common.ErrValidation.
func (d OrderDraft) Validate() error {
	if len(d.Lines) == 0 {
		return fmt.Errorf("%w: cart is empty", common.ErrValidation)
	}
	for _, l := range d.Lines {
		if l.ItemID == "" || l.Quantity < 1 {
			return fmt.Errorf("%w: invalid line %q", common.ErrValidation, l.ItemID)
		}
	}
	var missing []string
	if strings.TrimSpace(d.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(d.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(d.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(d.DeliveryAddress) == "" {
		missing = append(missing, "delivery address")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", common.ErrValidation, strings.Join(missing, ", "))
	}
	if !d.PaymentMethod.Valid() {
		return fmt.Errorf("%w: unknown payment method %q", common.ErrValidation, d.PaymentMethod)
	}
	return nil
}

// DraftFromCart copies the cart lines into a new draft. Later changes to the
// cart do not reach the draft.
func DraftFromCart(cart CartState, contact Contact, address string, method PaymentMethod) OrderDraft {
	lines := make([]OrderLine, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		lines = append(lines, OrderLine{
			ItemID:    l.ItemID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
		})
	}
	return OrderDraft{
		Contact:         contact,
		DeliveryAddress: address,
		PaymentMethod:   method,
		Lines:           lines,
	}
}

// OrderStatusUpdate is the body of PATCH /orders/{id}/status.
type OrderStatusUpdate struct {
	Status OrderStatus `json:"status"`
}

// OrderState is the client view of the caller's orders. Orders is kept in
// server order, most recent first.
type OrderState struct {
	Orders       []Order
	CurrentOrder *Order
	Loading      bool
	LastError    string
}

// Clone returns a copy that shares no memory with s.
func (s OrderState) Clone() OrderState {
	out := s
	if s.Orders != nil {
		out.Orders = make([]Order, len(s.Orders))
		for i, o := range s.Orders {
			out.Orders[i] = o.Clone()
		}
	}
	if s.CurrentOrder != nil {
		c := s.CurrentOrder.Clone()
		out.CurrentOrder = &c
	}
	return out
}
