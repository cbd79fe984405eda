// Package services contains server-side business logic. Each service takes
// the *sql.DB pool and a RepositoryManager and binds repositories per call,
// either to the pool or to the transaction opened by dbx.WithTx.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/bhojanbox/internal/common"
	"github.com/dmitrijs2005/bhojanbox/internal/cryptox"
	"github.com/dmitrijs2005/bhojanbox/internal/server/auth"
	"github.com/dmitrijs2005/bhojanbox/internal/server/config"
	"github.com/dmitrijs2005/bhojanbox/internal/server/models"
	"github.com/dmitrijs2005/bhojanbox/internal/server/repositories/repomanager"
)

const MinPasswordLength = 6

// UserService handles accounts: registration, password login with JWT
// issuing, and the caller's profile.
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account. A taken email yields common.ErrAlreadyExists.
func (s *UserService) Register(ctx context.Context, in models.RegisterRequest) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)

	if name == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrValidation)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, fmt.Errorf("%w: invalid email", common.ErrValidation)
	}
	if len(in.Password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, MinPasswordLength)
	}

	salt, hash := cryptox.HashPassword([]byte(in.Password))
	user := &models.User{
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		Salt:         salt,
		PasswordHash: hash,
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login checks the password and returns a fresh access token. Unknown emails
// and wrong passwords both yield common.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, in models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !cryptox.VerifyPassword([]byte(in.Password), user.Salt, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *UserService) Me(ctx context.Context, userID string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetUserByID(ctx, userID)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in models.ProfileUpdate) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrValidation)
	}
	return s.repomanager.Users(s.db).UpdateProfile(ctx, userID, name, strings.TrimSpace(in.Phone))
}
