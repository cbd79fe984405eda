package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusOnTheWay  OrderStatus = "on-the-way"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusOnTheWay, StatusCancelled},
	StatusOnTheWay:  {StatusDelivered},
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusOnTheWay, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order in status s may move to next.
// Delivered and cancelled orders never change.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, n := range transitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
	PaymentUPI  PaymentMethod = "upi"
)

func (p PaymentMethod) Valid() bool {
	return p == PaymentCash || p == PaymentCard || p == PaymentUPI
}

// OrderLine is a priced line frozen at checkout.
type OrderLine struct {
	ItemID    string          `json:"itemId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// Order is a placed order. Total is the grand total including tax and the
// delivery fee.
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"-"`
	PlacedAt        time.Time       `json:"placedAt"`
	Lines           []OrderLine     `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Tax             decimal.Decimal `json:"tax"`
	DeliveryFee     decimal.Decimal `json:"deliveryFee"`
	Total           decimal.Decimal `json:"total"`
	Status          OrderStatus     `json:"status"`
	DeliveryAddress string          `json:"deliveryAddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	ContactName     string          `json:"name"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
}

// OrderDraftLine is a requested line. Prices sent by the client are
// ignored; the server prices every line from the menu.
type OrderDraftLine struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// OrderDraft is the body of POST /api/orders.
type OrderDraft struct {
	Name            string           `json:"name"`
	Email           string           `json:"email"`
	Phone           string           `json:"phone"`
	DeliveryAddress string           `json:"deliveryAddress"`
	PaymentMethod   PaymentMethod    `json:"paymentMethod"`
	Lines           []OrderDraftLine `json:"items"`
}
