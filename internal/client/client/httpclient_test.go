package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/bhojanbox/internal/client/credentials"
	"github.com/dmitrijs2005/bhojanbox/internal/client/models"
	"github.com/dmitrijs2005/bhojanbox/internal/common"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) (*HTTPClient, *credentials.MemoryHolder) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	holder := credentials.NewMemoryHolder()
	opts = append([]Option{WithRetry(0, 0)}, opts...)
	return NewHTTPClient(srv.URL, holder, opts...), holder
}

func TestAPIError_Is(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, common.ErrValidation},
		{http.StatusUnprocessableEntity, common.ErrValidation},
		{http.StatusNotFound, common.ErrNotFound},
		{http.StatusUnauthorized, common.ErrUnauthorized},
		{http.StatusForbidden, common.ErrUnauthorized},
		{http.StatusInternalServerError, common.ErrServer},
		{http.StatusBadGateway, common.ErrServer},
	}
	all := []error{common.ErrValidation, common.ErrNotFound, common.ErrUnauthorized, common.ErrServer}
	for _, tt := range tests {
		err := error(&APIError{Status: tt.status})
		for _, s := range all {
			assert.Equal(t, s == tt.want, errors.Is(err, s), "status %d vs %v", tt.status, s)
		}
	}
	assert.Contains(t, (&APIError{Status: 404, Message: "menu item not found"}).Error(), "menu item not found")
}

func TestBearerToken_SentOnlyWhenPresent(t *testing.T) {
	var got []string
	c, holder := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get(common.AuthorizationHeaderName))
		assert.NotEmpty(t, r.Header.Get(common.RequestIDHeaderName))
		writeJSON(w, http.StatusOK, models.User{ID: "u1"})
	})
	ctx := context.Background()

	_, err := c.Me(ctx)
	require.NoError(t, err)

	require.NoError(t, holder.SetToken(ctx, "tok"))
	_, err = c.Me(ctx)
	require.NoError(t, err)

	require.Equal(t, []string{"", "Bearer tok"}, got)
}

func TestLogin_DoesNotSendToken(t *testing.T) {
	c, holder := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get(common.AuthorizationHeaderName))
		var in models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "a@b.c", in.Email)
		writeJSON(w, http.StatusOK, models.AuthResponse{Token: "jwt", User: models.User{ID: "u1", Email: in.Email}})
	})
	require.NoError(t, holder.SetToken(context.Background(), "stale"))

	resp, err := c.Login(context.Background(), models.LoginRequest{Email: "a@b.c", Password: "secret"})
	require.NoError(t, err)
	require.Equal(t, "jwt", resp.Token)
	require.Equal(t, "u1", resp.User.ID)
}

func TestErrorBody_IsParsed(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "cart item not found", "code": "not_found"})
	})

	_, err := c.UpdateCartItem(context.Background(), "p1", 2)
	require.ErrorIs(t, err, common.ErrNotFound)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.Status)
	require.Equal(t, "cart item not found", apiErr.Message)
}

func TestAddToCart_DecodesAddition(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/cart", r.URL.Path)
		var in models.CartQuantity
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		writeJSON(w, http.StatusOK, models.CartAddition{
			Item:     models.CartLineItem{ItemID: in.ItemID, Name: "Paneer Tikka", UnitPrice: decimal.RequireFromString("199.99"), Quantity: in.Quantity},
			Quantity: in.Quantity,
		})
	})

	got, err := c.AddToCart(context.Background(), "p1", 3)
	require.NoError(t, err)

	want := models.CartAddition{
		Item:     models.CartLineItem{ItemID: "p1", Name: "Paneer Tikka", UnitPrice: decimal.RequireFromString("199.99"), Quantity: 3},
		Quantity: 3,
	}
	if diff := cmp.Diff(want, got, cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })); diff != "" {
		t.Fatalf("addition mismatch (-want +got):\n%s", diff)
	}
}

func TestPaths(t *testing.T) {
	var seen []string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.RequestURI())
		switch r.Method {
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			writeJSON(w, http.StatusOK, map[string]any{})
		}
	})
	ctx := context.Background()

	_, _ = c.SearchMenu(ctx, "dal makhani")
	_, _ = c.GetMenuItem(ctx, "a/b")
	require.NoError(t, c.RemoveCartItem(ctx, "p1"))
	require.NoError(t, c.ClearCart(ctx))
	_, _ = c.GetOrder(ctx, "o1")
	_, _ = c.UpdateOrderStatus(ctx, "o1", models.StatusPreparing)

	require.Equal(t, []string{
		"GET /api/menu/search?q=dal+makhani",
		"GET /api/menu/a%2Fb",
		"DELETE /api/cart/p1",
		"DELETE /api/cart",
		"GET /api/orders/o1",
		"PATCH /api/orders/o1/status",
	}, seen)
}

func TestRetry_IdempotentReads(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "busy"})
			return
		}
		writeJSON(w, http.StatusOK, []models.MenuItem{{ID: "m1"}})
	}, WithRetry(2, time.Millisecond))

	items, err := c.ListMenuItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.EqualValues(t, 3, calls.Load())
}

func TestRetry_ExhaustedReturnsServerError(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}, WithRetry(1, time.Millisecond))

	_, err := c.GetCart(context.Background())
	require.ErrorIs(t, err, common.ErrServer)
	require.EqualValues(t, 2, calls.Load())
}

func TestRetry_NotForWrites(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}, WithRetry(3, time.Millisecond))

	_, err := c.CreateOrder(context.Background(), models.OrderDraft{})
	require.ErrorIs(t, err, common.ErrServer)
	require.EqualValues(t, 1, calls.Load())
}

func TestRetry_NotForClientErrors(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}, WithRetry(3, time.Millisecond))

	_, err := c.GetOrder(context.Background(), "missing")
	require.ErrorIs(t, err, common.ErrNotFound)
	require.EqualValues(t, 1, calls.Load())
}

func TestBreaker_OpensAfterServerFailures(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, WithBreaker(2, time.Minute))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := c.ListCategories(ctx)
		require.ErrorIs(t, err, common.ErrServer)
	}

	_, err := c.ListCategories(ctx)
	require.ErrorIs(t, err, common.ErrServer)
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	require.EqualValues(t, 2, calls.Load())
}

func TestBreaker_IgnoresClientErrors(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "bad"})
	}, WithBreaker(1, time.Minute))

	for i := 0; i < 3; i++ {
		_, err := c.AddToCart(context.Background(), "p1", 11)
		require.ErrorIs(t, err, common.ErrValidation)
	}
	require.EqualValues(t, 3, calls.Load())
}

func TestUnauthorizedHandler(t *testing.T) {
	var fired atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}, WithUnauthorizedHandler(func(context.Context) { fired.Add(1) }))
	ctx := context.Background()

	_, err := c.ListOrders(ctx)
	require.ErrorIs(t, err, common.ErrUnauthorized)
	require.EqualValues(t, 1, fired.Load())

	_, err = c.Login(ctx, models.LoginRequest{Email: "x", Password: "y"})
	require.ErrorIs(t, err, common.ErrUnauthorized)
	require.EqualValues(t, 1, fired.Load(), "public endpoints do not trigger the handler")
}

func TestTransportFailure_IsServerError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewHTTPClient(url, credentials.NewMemoryHolder(), WithRetry(0, 0))
	err := c.Ping(context.Background())
	require.ErrorIs(t, err, common.ErrServer)
}

func TestPing(t *testing.T) {
	status := "OK"
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/health", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]string{"status": status})
	})

	require.NoError(t, c.Ping(context.Background()))

	status = "DEGRADED"
	require.ErrorIs(t, c.Ping(context.Background()), common.ErrServer)
}

func TestDecodeError_IsServerError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{not json"))
	})

	_, err := c.ListOrders(context.Background())
	require.ErrorIs(t, err, common.ErrServer)
}
