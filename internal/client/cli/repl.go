package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/bhojanbox/internal/common"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	Menu(ctx context.Context) error
	Categories(ctx context.Context) error
	Search(ctx context.Context, args []string) error
	Item(ctx context.Context, args []string) error
	Cart(ctx context.Context) error
	Add(ctx context.Context, args []string) error
	Update(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	Checkout(ctx context.Context) error
	Orders(ctx context.Context) error
	Order(ctx context.Context, args []string) error
	Cancel(ctx context.Context, args []string) error
}

// errUsage is returned by handlers called with the wrong arguments.
var errUsage = errors.New("usage")

func usage(format string) error {
	return fmt.Errorf("%w: %s", errUsage, format)
}

const (
	helpGuest    = "Available commands: register, login, menu, categories, search <q>, item <id>, exit"
	helpLoggedIn = "Available commands: menu, categories, search <q>, item <id>, cart, add <id> [qty], " +
		"update <id> <qty>, remove <id>, checkout, orders, order <id>, cancel <id>, profile, editprofile, logout, exit"
)

// guarded lists the commands that need a session.
var guarded = map[string]bool{
	"cart": true, "add": true, "update": true, "remove": true,
	"checkout": true, "orders": true, "order": true, "cancel": true,
	"profile": true, "editprofile": true, "logout": true,
}

// runREPL starts a read–eval–print loop for the BhojanBox CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Handler errors are reported to the user and
// the loop goes on. The loop exits on EOF or when the user types "exit" or
// "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("bb %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		if guarded[cmd] && !a.isLoggedIn() {
			printlnFn("Please login first")
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpGuest)
			}
			continue

		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		report(dispatch(ctx, a, cmd, args))

		if err != nil {
			return
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "logout":
		return a.Logout(ctx)
	case "profile":
		return a.Profile(ctx)
	case "editprofile":
		return a.EditProfile(ctx)
	case "menu":
		return a.Menu(ctx)
	case "categories":
		return a.Categories(ctx)
	case "search":
		return a.Search(ctx, args)
	case "item":
		return a.Item(ctx, args)
	case "cart":
		return a.Cart(ctx)
	case "add":
		return a.Add(ctx, args)
	case "update":
		return a.Update(ctx, args)
	case "remove":
		return a.Remove(ctx, args)
	case "checkout":
		return a.Checkout(ctx)
	case "orders":
		return a.Orders(ctx)
	case "order":
		return a.Order(ctx, args)
	case "cancel":
		return a.Cancel(ctx, args)
	}
	printlnFn("Unknown command:", cmd)
	return nil
}

// report prints a handler error in user terms.
func report(err error) {
	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		printlnFn(strings.Replace(err.Error(), "usage: ", "Usage: ", 1))
	case errors.Is(err, common.ErrUnauthorized):
		printlnFn("Not authorized:", err)
	case errors.Is(err, common.ErrServer):
		printlnFn("Server problem, try again later:", err)
	default:
		printlnFn("Error:", err)
	}
}
