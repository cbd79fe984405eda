package cli

import (
	"context"
	"strings"
)

func (a *App) Menu(ctx context.Context) error {
	items, err := a.menu.ListMenuItems(ctx)
	if err != nil {
		return err
	}
	renderMenu(a.out, items)
	return nil
}

func (a *App) Categories(ctx context.Context) error {
	cats, err := a.menu.ListCategories(ctx)
	if err != nil {
		return err
	}
	renderCategories(a.out, cats)
	return nil
}

func (a *App) Search(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("search <query>")
	}
	items, err := a.menu.SearchMenu(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	renderMenu(a.out, items)
	return nil
}

func (a *App) Item(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("item <id>")
	}
	item, err := a.menu.GetMenuItem(ctx, args[0])
	if err != nil {
		return err
	}
	renderMenuItem(a.out, item)
	return nil
}
