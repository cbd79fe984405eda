// Package pricing derives the checkout breakdown shared by the CLI summary
// and the order totals computed by the server.
package pricing

import "github.com/shopspring/decimal"

var (
	// TaxRate applied on top of the subtotal.
	TaxRate = decimal.RequireFromString("0.10")
	// DeliveryFee is charged once per non-empty order.
	DeliveryFee = decimal.NewFromInt(50)
)

// Summary is the checkout breakdown. The cart store's Total is the pre-tax
// Subtotal; tax and fee exist only here.
type Summary struct {
	Subtotal    decimal.Decimal
	Tax         decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
}

// Summarize derives tax, delivery fee and grand total from a subtotal.
// An empty cart pays no delivery fee.
func Summarize(subtotal decimal.Decimal) Summary {
	tax := subtotal.Mul(TaxRate).Round(2)
	fee := decimal.Zero
	if subtotal.IsPositive() {
		fee = DeliveryFee
	}
	return Summary{
		Subtotal:    subtotal,
		Tax:         tax,
		DeliveryFee: fee,
		Total:       subtotal.Add(tax).Add(fee),
	}
}
