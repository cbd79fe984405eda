// Package httpapi exposes the BhojanBox services as a JSON REST API under
// /api, routed with gorilla/mux.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/bhojanbox/internal/logging"
	"github.com/dmitrijs2005/bhojanbox/internal/server/models"
	"github.com/gorilla/mux"
)

type UserService interface {
	Register(ctx context.Context, in models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, in models.LoginRequest) (*models.AuthResponse, error)
	Me(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, in models.ProfileUpdate) (*models.User, error)
}

type MenuService interface {
	List(ctx context.Context) ([]models.MenuItem, error)
	Categories(ctx context.Context) ([]models.Category, error)
	Search(ctx context.Context, query string) ([]models.MenuItem, error)
	Get(ctx context.Context, id string) (*models.MenuItem, error)
}

type CartService interface {
	Get(ctx context.Context, userID string) (models.Cart, error)
	Add(ctx context.Context, userID, itemID string, quantity int) (*models.CartAddition, error)
	Update(ctx context.Context, userID, itemID string, quantity int) (*models.CartQuantity, error)
	Remove(ctx context.Context, userID, itemID string) error
	Clear(ctx context.Context, userID string) error
}

type OrderService interface {
	Create(ctx context.Context, userID string, draft models.OrderDraft) (*models.Order, error)
	List(ctx context.Context, userID string) ([]models.Order, error)
	Get(ctx context.Context, userID, id string) (*models.Order, error)
	UpdateStatus(ctx context.Context, userID, id string, status models.OrderStatus) (*models.Order, error)
}

// Services groups the business logic the API delegates to.
type Services struct {
	Users  UserService
	Menu   MenuService
	Carts  CartService
	Orders OrderService
}

type Server struct {
	address         string
	services        Services
	logger          logging.Logger
	jwtSecret       []byte
	shutdownTimeout time.Duration
}

func NewServer(address string, l logging.Logger, s Services, secretKey string, shutdownTimeout time.Duration) *Server {
	return &Server{
		address:         address,
		services:        s,
		logger:          l.With("module", "http_server"),
		jwtSecret:       []byte(secretKey),
		shutdownTimeout: shutdownTimeout,
	}
}

// Handler builds the router and wraps it in the request-id, logging and
// recover chain, so unmatched routes get the same treatment. Fixed menu
// paths are registered before /menu/{id} so they are not taken for item ids.
func (s *Server) Handler() http.Handler {
	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	notAllowed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	})

	r := mux.NewRouter()
	r.NotFoundHandler = notFound
	r.MethodNotAllowedHandler = notAllowed

	api := r.PathPrefix("/api").Subrouter()
	api.MethodNotAllowedHandler = notAllowed

	api.HandleFunc("/health", s.health).Methods(http.MethodGet)

	api.HandleFunc("/auth/register", s.register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.login).Methods(http.MethodPost)

	api.HandleFunc("/menu", s.listMenu).Methods(http.MethodGet)
	api.HandleFunc("/menu/categories", s.listCategories).Methods(http.MethodGet)
	api.HandleFunc("/menu/search", s.searchMenu).Methods(http.MethodGet)
	api.HandleFunc("/menu/{id}", s.getMenuItem).Methods(http.MethodGet)

	// Private routes stay on the api router itself: a pathless subrouter
	// would reset mux's method mismatch and turn 405s into 404s.
	private := func(path string, h http.HandlerFunc, method string) {
		api.Handle(path, s.authMiddleware(h)).Methods(method)
	}

	private("/auth/me", s.me, http.MethodGet)
	private("/auth/me", s.updateMe, http.MethodPut)

	private("/cart", s.getCart, http.MethodGet)
	private("/cart", s.addToCart, http.MethodPost)
	private("/cart", s.clearCart, http.MethodDelete)
	private("/cart/{id}", s.updateCartItem, http.MethodPut)
	private("/cart/{id}", s.removeCartItem, http.MethodDelete)

	private("/orders", s.createOrder, http.MethodPost)
	private("/orders", s.listOrders, http.MethodGet)
	private("/orders/{id}", s.getOrder, http.MethodGet)
	private("/orders/{id}/status", s.updateOrderStatus, http.MethodPatch)

	return s.recoverMiddleware(requestIDMiddleware(s.loggingMiddleware(r)))
}

var netListen = net.Listen

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := netListen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}
