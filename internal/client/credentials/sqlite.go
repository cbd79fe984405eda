package credentials

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/bhojanbox/internal/client/repositories/metadata"
)

const tokenKey = "token"

// PersistentHolder caches the token in memory and mirrors every change to a
// metadata repository so a restarted client can resume the session.
type PersistentHolder struct {
	repo  metadata.Repository
	mu    sync.RWMutex
	token string
}

// NewPersistentHolder loads a previously stored token from repo.
func NewPersistentHolder(ctx context.Context, repo metadata.Repository) (*PersistentHolder, error) {
	token, _, err := repo.Get(ctx, tokenKey)
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	return &PersistentHolder{repo: repo, token: token}, nil
}

func (h *PersistentHolder) Token() (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token, h.token != ""
}

func (h *PersistentHolder) SetToken(ctx context.Context, token string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.repo.Set(ctx, tokenKey, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	h.token = token
	return nil
}

// ClearToken forgets the token in memory even if the repository fails.
func (h *PersistentHolder) ClearToken(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = ""
	if err := h.repo.Delete(ctx, tokenKey); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}
