package cli

import (
	"context"
	"fmt"
	"strconv"
)

// Cart refreshes the cart from the server and shows it with the checkout
// summary. A failed refresh still shows the last known cart.
func (a *App) Cart(ctx context.Context) error {
	err := a.cart.FetchCart(ctx)
	renderCart(a.out, a.cart.State())
	return err
}

// Add handles "add <id> [qty]"; qty defaults to 1.
func (a *App) Add(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usage("add <item-id> [quantity]")
	}
	qty := 1
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return usage("add <item-id> [quantity]")
		}
		qty = n
	}
	if err := a.cart.AddItem(ctx, args[0], qty); err != nil {
		return err
	}
	st := a.cart.State()
	fmt.Fprintf(a.out, "Added. Cart: %d item(s), %s\n", st.ItemCount, money(st.Total))
	return nil
}

func (a *App) Update(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("update <item-id> <quantity>")
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return usage("update <item-id> <quantity>")
	}
	if err := a.cart.UpdateQuantity(ctx, args[0], qty); err != nil {
		return err
	}
	renderCart(a.out, a.cart.State())
	return nil
}

func (a *App) Remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("remove <item-id>")
	}
	if err := a.cart.RemoveItem(ctx, args[0]); err != nil {
		return err
	}
	renderCart(a.out, a.cart.State())
	return nil
}
