package models

import "github.com/shopspring/decimal"

// CartLine is one menu item in a user's server-side cart, joined with the
// current menu data.
type CartLine struct {
	ItemID    string          `json:"itemId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"imageUrl,omitempty"`
	Category  string          `json:"category,omitempty"`
}

// Cart is the body of GET /api/cart.
type Cart struct {
	Items     []CartLine      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

// NewCart computes the derived totals for lines.
func NewCart(lines []CartLine) Cart {
	c := Cart{Items: lines, Total: decimal.Zero}
	if c.Items == nil {
		c.Items = []CartLine{}
	}
	for _, l := range lines {
		c.Total = c.Total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
		c.ItemCount += l.Quantity
	}
	return c
}

// CartAddition is the body returned by POST /api/cart: the item and the
// quantity that was added.
type CartAddition struct {
	Item     CartLine `json:"item"`
	Quantity int      `json:"quantity"`
}

// CartQuantity is the confirmed quantity of one line.
type CartQuantity struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}
