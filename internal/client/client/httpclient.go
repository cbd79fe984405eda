package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/bhojanbox/internal/client/credentials"
	"github.com/dmitrijs2005/bhojanbox/internal/client/models"
	"github.com/dmitrijs2005/bhojanbox/internal/common"
	"github.com/dmitrijs2005/bhojanbox/internal/logging"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"github.com/sony/gobreaker/v2"
)

const maxResponseSize = 4 << 20

// HTTPClient talks to the BhojanBox REST backend.
type HTTPClient struct {
	baseURL        string
	http           *http.Client
	tokens         credentials.Provider
	breaker        *gobreaker.CircuitBreaker[[]byte]
	retryAttempts  uint64
	retryBase      time.Duration
	onUnauthorized func(ctx context.Context)
	logger         logging.Logger

	breakerThreshold uint32
	breakerTimeout   time.Duration
}

type Option func(*HTTPClient)

// WithTimeout limits every single request, retries not included.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithRetry retries idempotent reads failing with common.ErrServer up to
// attempts extra times. Zero disables retries.
func WithRetry(attempts int, base time.Duration) Option {
	return func(c *HTTPClient) {
		if attempts < 0 {
			attempts = 0
		}
		c.retryAttempts = uint64(attempts)
		c.retryBase = base
	}
}

// WithBreaker opens the circuit after threshold consecutive server failures
// and keeps it open for openTimeout.
func WithBreaker(threshold int, openTimeout time.Duration) Option {
	return func(c *HTTPClient) {
		if threshold > 0 {
			c.breakerThreshold = uint32(threshold)
		}
		c.breakerTimeout = openTimeout
	}
}

// WithUnauthorizedHandler registers fn to run when an authenticated request
// is rejected with 401 or 403.
func WithUnauthorizedHandler(fn func(ctx context.Context)) Option {
	return func(c *HTTPClient) { c.onUnauthorized = fn }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

func NewHTTPClient(baseURL string, tokens credentials.Provider, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:          strings.TrimRight(baseURL, "/"),
		http:             &http.Client{Timeout: 10 * time.Second},
		tokens:           tokens,
		retryAttempts:    2,
		retryBase:        200 * time.Millisecond,
		breakerThreshold: 5,
		breakerTimeout:   30 * time.Second,
		logger:           logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "bhojanbox-api",
		MaxRequests: 1,
		Timeout:     c.breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= c.breakerThreshold
		},
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			return !errors.Is(err, common.ErrServer)
		},
	})
	return c
}

type request struct {
	method     string
	path       string
	in         any
	out        any
	auth       bool
	idempotent bool
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (c *HTTPClient) call(ctx context.Context, r request) error {
	if !r.idempotent || c.retryAttempts == 0 {
		return c.roundTrip(ctx, r)
	}

	b := retry.WithMaxRetries(c.retryAttempts, retry.NewExponential(c.retryBase))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := c.roundTrip(ctx, r)
		if errors.Is(err, common.ErrServer) && !errors.Is(err, gobreaker.ErrOpenState) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (c *HTTPClient) roundTrip(ctx context.Context, r request) error {
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.send(ctx, r)
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", common.ErrServer, err)
	}
	if err != nil {
		c.logger.Debug(ctx, "request failed", "method", r.method, "path", r.path, "error", err)
		if r.auth && c.onUnauthorized != nil && errors.Is(err, common.ErrUnauthorized) {
			c.onUnauthorized(ctx)
		}
		return err
	}

	if r.out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, r.out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %w", common.ErrServer, r.method, r.path, err)
	}
	return nil
}

func (c *HTTPClient) send(ctx context.Context, r request) ([]byte, error) {
	var payload io.Reader
	if r.in != nil {
		data, err := json.Marshal(r.in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, payload)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.auth && c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrServer, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", common.ErrServer, err)
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{Status: resp.StatusCode}
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil && eb.Error != "" {
			apiErr.Message = eb.Error
		} else {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return nil, apiErr
	}
	return data, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.call(ctx, request{method: http.MethodGet, path: "/api/health", out: &out, idempotent: true}); err != nil {
		return err
	}
	if out.Status != "OK" {
		return fmt.Errorf("%w: health status %q", common.ErrServer, out.Status)
	}
	return nil
}

func (c *HTTPClient) Register(ctx context.Context, in models.RegisterRequest) (models.User, error) {
	var out models.User
	err := c.call(ctx, request{method: http.MethodPost, path: "/api/auth/register", in: in, out: &out})
	return out, err
}

func (c *HTTPClient) Login(ctx context.Context, in models.LoginRequest) (models.AuthResponse, error) {
	var out models.AuthResponse
	err := c.call(ctx, request{method: http.MethodPost, path: "/api/auth/login", in: in, out: &out})
	return out, err
}

func (c *HTTPClient) Me(ctx context.Context) (models.User, error) {
	var out models.User
	err := c.call(ctx, request{method: http.MethodGet, path: "/api/auth/me", out: &out, auth: true, idempotent: true})
	return out, err
}

func (c *HTTPClient) UpdateMe(ctx context.Context, in models.ProfileUpdate) (models.User, error) {
	var out models.User
	err := c.call(ctx, request{method: http.MethodPut, path: "/api/auth/me", in: in, out: &out, auth: true})
	return out, err
}

func (c *HTTPClient) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	var out []models.MenuItem
	err := c.call(ctx, request{method: http.MethodGet, path: "/api/menu", out: &out, idempotent: true})
	return out, err
}

func (c *HTTPClient) GetMenuItem(ctx context.Context, id string) (models.MenuItem, error) {
	var out models.MenuItem
	err := c.call(ctx, request{method: http.MethodGet, path: "/api/menu/" + url.PathEscape(id), out: &out, idempotent: true})
	return out, err
}

func (c *HTTPClient) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := c.call(ctx, request{method: http.MethodGet, path: "/api/menu/categories", out: &out, idempotent: true})
	return out, err
}

func (c *HTTPClient) SearchMenu(ctx context.Context, query string) ([]models.MenuItem, error) {
	var out []models.MenuItem
	path := "/api/menu/search?q=" + url.QueryEscape(query)
	err := c.call(ctx, request{method: http.MethodGet, path: path, out: &out, idempotent: true})
	return out, err
}

func (c *HTTPClient) GetCart(ctx context.Context) (models.CartSnapshot, error) {
	var out models.CartSnapshot
	err := c.call(ctx, request{method: http.MethodGet, path: "/api/cart", out: &out, auth: true, idempotent: true})
	return out, err
}

func (c *HTTPClient) AddToCart(ctx context.Context, itemID string, quantity int) (models.CartAddition, error) {
	var out models.CartAddition
	in := models.CartQuantity{ItemID: itemID, Quantity: quantity}
	err := c.call(ctx, request{method: http.MethodPost, path: "/api/cart", in: in, out: &out, auth: true})
	return out, err
}

func (c *HTTPClient) UpdateCartItem(ctx context.Context, itemID string, quantity int) (models.CartQuantity, error) {
	var out models.CartQuantity
	in := struct {
		Quantity int `json:"quantity"`
	}{quantity}
	err := c.call(ctx, request{method: http.MethodPut, path: "/api/cart/" + url.PathEscape(itemID), in: in, out: &out, auth: true})
	return out, err
}

func (c *HTTPClient) RemoveCartItem(ctx context.Context, itemID string) error {
	return c.call(ctx, request{method: http.MethodDelete, path: "/api/cart/" + url.PathEscape(itemID), auth: true, idempotent: true})
}

func (c *HTTPClient) ClearCart(ctx context.Context) error {
	return c.call(ctx, request{method: http.MethodDelete, path: "/api/cart", auth: true, idempotent: true})
}

func (c *HTTPClient) CreateOrder(ctx context.Context, draft models.OrderDraft) (models.Order, error) {
	var out models.Order
	err := c.call(ctx, request{method: http.MethodPost, path: "/api/orders", in: draft, out: &out, auth: true})
	return out, err
}

func (c *HTTPClient) ListOrders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	err := c.call(ctx, request{method: http.MethodGet, path: "/api/orders", out: &out, auth: true, idempotent: true})
	return out, err
}

func (c *HTTPClient) GetOrder(ctx context.Context, id string) (models.Order, error) {
	var out models.Order
	err := c.call(ctx, request{method: http.MethodGet, path: "/api/orders/" + url.PathEscape(id), out: &out, auth: true, idempotent: true})
	return out, err
}

func (c *HTTPClient) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error) {
	var out models.Order
	in := models.OrderStatusUpdate{Status: status}
	path := "/api/orders/" + url.PathEscape(id) + "/status"
	err := c.call(ctx, request{method: http.MethodPatch, path: path, in: in, out: &out, auth: true})
	return out, err
}
