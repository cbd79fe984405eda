// Package credentials holds the bearer token used by the resource client.
//
// The resource client only reads the token through Provider. Writing is
// reserved for the auth store, which receives the full Holder.
package credentials

import (
	"context"
	"sync"
)

// Provider supplies the current bearer token, if any.
type Provider interface {
	Token() (string, bool)
}

// Holder is a Provider whose token can be replaced or removed.
type Holder interface {
	Provider
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// MemoryHolder keeps the token in process memory only.
type MemoryHolder struct {
	mu    sync.RWMutex
	token string
}

func NewMemoryHolder() *MemoryHolder {
	return &MemoryHolder{}
}

func (h *MemoryHolder) Token() (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token, h.token != ""
}

func (h *MemoryHolder) SetToken(_ context.Context, token string) error {
	h.mu.Lock()
	h.token = token
	h.mu.Unlock()
	return nil
}

func (h *MemoryHolder) ClearToken(_ context.Context) error {
	h.mu.Lock()
	h.token = ""
	h.mu.Unlock()
	return nil
}
