package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/bhojanbox/internal/client/models"
	"github.com/dmitrijs2005/bhojanbox/internal/common"
)

// getSimpleText, getTextWithDefault, getMultiline and getPassword are
// indirections used to facilitate testing.
var (
	getSimpleText      = GetSimpleText
	getTextWithDefault = GetTextWithDefault
	getMultiline       = GetMultiline
	getPassword        = GetPassword
)

// Register prompts for name, email, phone and password, creates the account
// and logs into it.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	phone, err := getSimpleText(a.reader, "Enter phone (optional)", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.auth.Register(ctx, models.RegisterRequest{
		Name:     name,
		Email:    email,
		Phone:    phone,
		Password: string(password),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", sess.DisplayName)
	return a.cart.FetchCart(ctx)
}

// Login prompts for credentials, starts a session and loads the server cart.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.auth.Login(ctx, email, string(password))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", sess.DisplayName)
	return a.cart.FetchCart(ctx)
}

// Logout ends the session and forgets the local cart and current order.
func (a *App) Logout(ctx context.Context) error {
	err := a.auth.Logout(ctx)
	a.cart.ClearCart()
	a.orders.ClearCurrentOrder()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) Profile(ctx context.Context) error {
	u, err := a.auth.Profile(ctx)
	if err != nil {
		return err
	}
	renderProfile(a.out, u)
	return nil
}

// EditProfile prompts for a new name and phone, keeping the current values
// on empty input.
func (a *App) EditProfile(ctx context.Context) error {
	u, err := a.auth.Profile(ctx)
	if err != nil {
		return err
	}
	name, err := getTextWithDefault(a.reader, "Name", u.Name, a.out)
	if err != nil {
		return err
	}
	phone, err := getTextWithDefault(a.reader, "Phone", u.Phone, a.out)
	if err != nil {
		return err
	}

	u, err = a.auth.UpdateProfile(ctx, models.ProfileUpdate{Name: name, Phone: phone})
	if err != nil {
		return err
	}
	renderProfile(a.out, u)
	return nil
}
