package stores

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/bhojanbox/internal/client/credentials"
	"github.com/dmitrijs2005/bhojanbox/internal/client/models"
	"github.com/dmitrijs2005/bhojanbox/internal/common"
	"github.com/dmitrijs2005/bhojanbox/internal/logging"
)

const minPasswordLength = 6

// AuthAPI is the part of the resource client the auth store needs.
type AuthAPI interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error)
	Me(ctx context.Context) (models.User, error)
	UpdateMe(ctx context.Context, upd models.ProfileUpdate) (models.User, error)
}

// AuthStore owns the session and is the only writer of the credential
// holder. Other stores reach the token through the resource client.
type AuthStore struct {
	api    AuthAPI
	holder credentials.Holder
	logger logging.Logger

	mu    sync.Mutex
	state models.AuthState

	subs subscribers[models.AuthState]
}

func NewAuthStore(api AuthAPI, holder credentials.Holder, opts ...Option) *AuthStore {
	o := buildOptions(opts)
	return &AuthStore{
		api:    api,
		holder: holder,
		logger: o.logger.With("module", "auth-store"),
	}
}

func (s *AuthStore) State() models.AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *AuthStore) Subscribe(fn func(models.AuthState)) func() {
	return s.subs.add(fn)
}

// Authenticated reports whether a session exists.
func (s *AuthStore) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Session != nil
}

func (s *AuthStore) apply(fn func(st *models.AuthState)) {
	s.subs.commit(func() models.AuthState {
		s.mu.Lock()
		defer s.mu.Unlock()
		fn(&s.state)
		return s.state.Clone()
	}, models.AuthState.Clone)
}

func (s *AuthStore) fail(ctx context.Context, op string, err error) {
	s.logger.Debug(ctx, "auth action failed", "op", op, "error", err)
	msg := errorMessage(err)
	s.apply(func(st *models.AuthState) { st.LastError = msg })
}

func sessionFor(u models.User, token string) *models.Session {
	return &models.Session{UserID: u.ID, DisplayName: u.Name, Email: u.Email, Token: token}
}

// Login authenticates and starts a session.
func (s *AuthStore) Login(ctx context.Context, email, password string) (models.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return models.Session{}, fmt.Errorf("%w: email and password are required", common.ErrValidation)
	}

	resp, err := s.api.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		s.fail(ctx, "login", err)
		return models.Session{}, fmt.Errorf("login: %w", err)
	}
	if err := s.holder.SetToken(ctx, resp.Token); err != nil {
		s.fail(ctx, "login", err)
		return models.Session{}, fmt.Errorf("login: %w", err)
	}

	sess := sessionFor(resp.User, resp.Token)
	s.apply(func(st *models.AuthState) {
		st.Session = sess
		st.LastError = ""
	})
	return *sess, nil
}

// Register creates an account and then logs into it.
func (s *AuthStore) Register(ctx context.Context, req models.RegisterRequest) (models.Session, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	switch {
	case req.Name == "" || req.Email == "":
		return models.Session{}, fmt.Errorf("%w: name and email are required", common.ErrValidation)
	case len(req.Password) < minPasswordLength:
		return models.Session{}, fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, minPasswordLength)
	}

	if _, err := s.api.Register(ctx, req); err != nil {
		s.fail(ctx, "register", err)
		return models.Session{}, fmt.Errorf("register: %w", err)
	}
	return s.Login(ctx, req.Email, req.Password)
}

// Logout ends the session. The session is dropped even when the token
// cannot be removed from storage.
func (s *AuthStore) Logout(ctx context.Context) error {
	err := s.holder.ClearToken(ctx)
	s.apply(func(st *models.AuthState) {
		st.Session = nil
		st.LastError = ""
	})
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Restore resumes a session from a previously stored token. A token the
// server rejects is discarded and Restore reports false without error.
func (s *AuthStore) Restore(ctx context.Context) (bool, error) {
	token, ok := s.holder.Token()
	if !ok {
		return false, nil
	}

	user, err := s.api.Me(ctx)
	if errors.Is(err, common.ErrUnauthorized) {
		s.HandleUnauthorized(ctx)
		return false, nil
	}
	if err != nil {
		s.fail(ctx, "restore", err)
		return false, fmt.Errorf("restore session: %w", err)
	}

	s.apply(func(st *models.AuthState) {
		st.Session = sessionFor(user, token)
		st.LastError = ""
	})
	return true, nil
}

// Profile fetches the signed-in user's profile.
func (s *AuthStore) Profile(ctx context.Context) (models.User, error) {
	if !s.Authenticated() {
		return models.User{}, fmt.Errorf("%w: not logged in", common.ErrUnauthorized)
	}
	user, err := s.api.Me(ctx)
	if err != nil {
		s.fail(ctx, "profile", err)
		return models.User{}, fmt.Errorf("profile: %w", err)
	}
	s.refreshSession(user)
	return user, nil
}

// UpdateProfile changes the signed-in user's name and phone.
func (s *AuthStore) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (models.User, error) {
	if !s.Authenticated() {
		return models.User{}, fmt.Errorf("%w: not logged in", common.ErrUnauthorized)
	}
	if strings.TrimSpace(upd.Name) == "" {
		return models.User{}, fmt.Errorf("%w: name is required", common.ErrValidation)
	}
	user, err := s.api.UpdateMe(ctx, upd)
	if err != nil {
		s.fail(ctx, "update profile", err)
		return models.User{}, fmt.Errorf("update profile: %w", err)
	}
	s.refreshSession(user)
	return user, nil
}

func (s *AuthStore) refreshSession(u models.User) {
	s.apply(func(st *models.AuthState) {
		if st.Session != nil {
			st.Session.DisplayName = u.Name
			st.Session.Email = u.Email
		}
		st.LastError = ""
	})
}

// HandleUnauthorized drops the session after the server rejected the token.
// It is meant to be installed as the resource client's unauthorized handler.
func (s *AuthStore) HandleUnauthorized(ctx context.Context) {
	if err := s.holder.ClearToken(ctx); err != nil {
		s.logger.Warn(ctx, "failed to clear rejected token", "error", err)
	}
	s.apply(func(st *models.AuthState) {
		st.Session = nil
		st.LastError = "session expired, please log in again"
	})
}
