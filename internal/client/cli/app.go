package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/bhojanbox/internal/client/client"
	"github.com/dmitrijs2005/bhojanbox/internal/client/config"
	"github.com/dmitrijs2005/bhojanbox/internal/client/credentials"
	"github.com/dmitrijs2005/bhojanbox/internal/client/models"
	"github.com/dmitrijs2005/bhojanbox/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/bhojanbox/internal/client/stores"
	"github.com/dmitrijs2005/bhojanbox/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type authStore interface {
	Authenticated() bool
	State() models.AuthState
	Login(ctx context.Context, email, password string) (models.Session, error)
	Register(ctx context.Context, req models.RegisterRequest) (models.Session, error)
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (bool, error)
	Profile(ctx context.Context) (models.User, error)
	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (models.User, error)
}

type cartStore interface {
	stores.CartSource
	FetchCart(ctx context.Context) error
	AddItem(ctx context.Context, itemID string, quantity int) error
	UpdateQuantity(ctx context.Context, itemID string, quantity int) error
	RemoveItem(ctx context.Context, itemID string) error
}

type orderStore interface {
	State() models.OrderState
	Checkout(ctx context.Context, cart stores.CartSource, contact models.Contact, address string, method models.PaymentMethod) (models.Order, error)
	ListOrders(ctx context.Context) error
	GetOrder(ctx context.Context, id string) (models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error)
	ClearCurrentOrder()
}

type menuAPI interface {
	Ping(ctx context.Context) error
	ListMenuItems(ctx context.Context) ([]models.MenuItem, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	SearchMenu(ctx context.Context, query string) ([]models.MenuItem, error)
	GetMenuItem(ctx context.Context, id string) (models.MenuItem, error)
}

type App struct {
	config *config.Config
	auth   authStore
	cart   cartStore
	orders orderStore
	menu   menuAPI
	logger logging.Logger
	reader *bufio.Reader
	out    io.Writer
	db     *sql.DB

	modeMu sync.RWMutex
	mode   Mode
}

// NewApp opens the local database and builds the client, the credential
// holder and the stores.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelWarn
	}
	logger := logging.NewTextLogger(os.Stderr, level)

	db, err := client.InitDatabase(ctx, c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	holder, err := credentials.NewPersistentHolder(ctx, metadata.NewSQLiteRepository(db))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	var auth *stores.AuthStore
	api := client.NewHTTPClient(c.ServerURL, holder,
		client.WithTimeout(c.RequestTimeout),
		client.WithRetry(c.RetryAttempts, c.RetryBaseDelay),
		client.WithBreaker(c.BreakerFailureThreshold, c.BreakerOpenTimeout),
		client.WithLogger(logger.With("module", "api-client")),
		client.WithUnauthorizedHandler(func(ctx context.Context) {
			if auth != nil {
				auth.HandleUnauthorized(ctx)
			}
		}),
	)

	auth = stores.NewAuthStore(api, holder, stores.WithLogger(logger))
	cart := stores.NewCartStore(api, stores.WithLogger(logger))
	orders := stores.NewOrderStore(api, stores.WithLogger(logger))

	auth.Subscribe(func(st models.AuthState) {
		if !st.Authenticated() {
			cart.ClearCart()
		}
	})

	return &App{
		config: c,
		auth:   auth,
		cart:   cart,
		orders: orders,
		menu:   api,
		logger: logger,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		db:     db,
	}, nil
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.logger.Info(context.Background(), "connection mode changed", "mode", mode)
	}
}

func (a *App) Mode() Mode {
	a.modeMu.RLock()
	defer a.modeMu.RUnlock()
	return a.mode
}

// Run resumes a saved session if possible and blocks in the REPL until the
// user exits or the input ends.
func (a *App) Run(ctx context.Context) {
	if a.db != nil {
		defer a.db.Close()
	}

	fmt.Fprintln(a.out, "Welcome to BhojanBox (type 'help' for commands)")

	if err := a.menu.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
	} else {
		a.setMode(ModeOnline)
	}

	if ok, err := a.auth.Restore(ctx); err != nil {
		a.logger.Warn(ctx, "could not resume session", "error", err)
	} else if ok {
		fmt.Fprintf(a.out, "Welcome back, %s!\n", a.auth.State().Session.DisplayName)
		_ = a.cart.FetchCart(ctx)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.auth.Authenticated()
}

func (a *App) getStatus() string {
	s := ""
	if st := a.auth.State(); st.Session != nil {
		s = fmt.Sprintf("%s, cart %d ", st.Session.Email, a.cart.State().ItemCount)
	}
	if m := a.Mode(); m != "" {
		s += string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// StartOnlineStatusWatcher pings the backend every interval and switches
// Mode accordingly until ctx is cancelled.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.menu.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
