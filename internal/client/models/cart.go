// Package models defines client-side data models used by the BhojanBox
// stores and the resource client.
package models

import "github.com/shopspring/decimal"

// CartLineItem is one distinct menu item in the cart. Quantity never drops
// below 1 while the line exists; removal deletes the line instead.
type CartLineItem struct {
	ItemID    string          `json:"itemId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"imageUrl,omitempty"`
	Category  string          `json:"category,omitempty"`
}

// Subtotal is UnitPrice × Quantity.
func (l CartLineItem) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartState is the client view of the cart. Total and ItemCount are derived
// from Lines and are recomputed after every transition.
type CartState struct {
	Lines     []CartLineItem
	Total     decimal.Decimal
	ItemCount int
	Loading   bool
	LastError string
}

// Totals computes Σ UnitPrice×Quantity and Σ Quantity over lines.
func Totals(lines []CartLineItem) (decimal.Decimal, int) {
	total := decimal.Zero
	count := 0
	for _, l := range lines {
		total = total.Add(l.Subtotal())
		count += l.Quantity
	}
	return total, count
}

// Recalculate refreshes the derived fields from Lines.
func (s *CartState) Recalculate() {
	s.Total, s.ItemCount = Totals(s.Lines)
}

// Index returns the position of itemID in Lines.
func (s *CartState) Index(itemID string) (int, bool) {
	for i := range s.Lines {
		if s.Lines[i].ItemID == itemID {
			return i, true
		}
	}
	return -1, false
}

// Clone returns a copy that shares no memory with s.
func (s CartState) Clone() CartState {
	out := s
	if s.Lines != nil {
		out.Lines = make([]CartLineItem, len(s.Lines))
		copy(out.Lines, s.Lines)
	}
	return out
}

// CartSnapshot is the server's view of the cart returned by GET /cart.
// The stores ignore Total and ItemCount and recompute them from Items.
type CartSnapshot struct {
	Items     []CartLineItem  `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

// CartAddition is the canonical result of adding an item: the item data
// and the quantity that was added (a delta, not the new line quantity).
type CartAddition struct {
	Item     CartLineItem `json:"item"`
	Quantity int          `json:"quantity"`
}

// CartQuantity is the server-confirmed quantity of one line.
type CartQuantity struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}
