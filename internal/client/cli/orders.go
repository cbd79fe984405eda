package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bhojanbox/internal/client/models"
	"github.com/dmitrijs2005/bhojanbox/internal/common"
	"github.com/dmitrijs2005/bhojanbox/internal/pricing"
)

// Checkout collects contact, address and payment details, places the order
// for the current cart and shows the result.
func (a *App) Checkout(ctx context.Context) error {
	cart := a.cart.State()
	if len(cart.Lines) == 0 {
		return fmt.Errorf("%w: your cart is empty", common.ErrValidation)
	}
	renderCart(a.out, cart)

	var contact models.Contact
	if sess := a.auth.State().Session; sess != nil {
		contact.Name, contact.Email = sess.DisplayName, sess.Email
	}

	var err error
	if contact.Name, err = getTextWithDefault(a.reader, "Contact name", contact.Name, a.out); err != nil {
		return err
	}
	if contact.Email, err = getTextWithDefault(a.reader, "Email", contact.Email, a.out); err != nil {
		return err
	}
	if contact.Phone, err = getSimpleText(a.reader, "Phone", a.out); err != nil {
		return err
	}
	address, err := getMultiline(a.reader, "Delivery address", a.out)
	if err != nil {
		return err
	}
	method, err := a.choosePayment()
	if err != nil {
		return err
	}

	summary := pricing.Summarize(cart.Total)
	answer, err := getSimpleText(a.reader, fmt.Sprintf("Place order for %s? (y/n)", money(summary.Total)), a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		fmt.Fprintln(a.out, "Checkout cancelled")
		return nil
	}

	order, err := a.orders.Checkout(ctx, a.cart, contact, address, method)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Order placed!")
	renderOrder(a.out, order)
	return nil
}

func (a *App) choosePayment() (models.PaymentMethod, error) {
	for _, p := range models.PaymentMethods {
		suffix := ""
		if !p.Selectable() {
			suffix = " (coming soon)"
		}
		fmt.Fprintf(a.out, "  %-5s %s%s\n", p, p.Label(), suffix)
	}
	answer, err := getTextWithDefault(a.reader, "Payment method", string(models.PaymentCash), a.out)
	if err != nil {
		return "", err
	}
	method := models.PaymentMethod(strings.ToLower(answer))
	if !method.Valid() {
		return "", fmt.Errorf("%w: unknown payment method %q", common.ErrValidation, answer)
	}
	if !method.Selectable() {
		return "", fmt.Errorf("%w: %s is not available yet", common.ErrValidation, method.Label())
	}
	return method, nil
}

func (a *App) Orders(ctx context.Context) error {
	if err := a.orders.ListOrders(ctx); err != nil {
		return err
	}
	renderOrders(a.out, a.orders.State().Orders)
	return nil
}

func (a *App) Order(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("order <order-id>")
	}
	order, err := a.orders.GetOrder(ctx, args[0])
	if err != nil {
		return err
	}
	renderOrder(a.out, order)
	return nil
}

// Cancel asks the server to cancel an order that is not yet delivered.
func (a *App) Cancel(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("cancel <order-id>")
	}
	order, err := a.orders.UpdateStatus(ctx, args[0], models.StatusCancelled)
	if err != nil {
		return err
	}
	renderOrder(a.out, order)
	return nil
}
