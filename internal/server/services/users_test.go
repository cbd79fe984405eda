package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/bhojanbox/internal/common"
	"github.com/dmitrijs2005/bhojanbox/internal/server/auth"
	"github.com/dmitrijs2005/bhojanbox/internal/server/config"
	"github.com/dmitrijs2005/bhojanbox/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) (*UserService, *fakeUsersRepo) {
	t.Helper()
	db, _ := newSQLMockDB(t)
	repo := newFakeUsersRepo()
	cfg := &config.Config{SecretKey: "k", TokenValidityDuration: time.Hour}
	return NewUserService(db, &fakeRepoManager{u: repo}, cfg), repo
}

func TestRegister_Success(t *testing.T) {
	s, repo := newUserService(t)

	u, err := s.Register(context.Background(), models.RegisterRequest{
		Name: "  Asha ", Email: " Asha@Example.com", Password: "secret1", Phone: "98765",
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha", u.Name)
	assert.Equal(t, "asha@example.com", u.Email)
	assert.Equal(t, "98765", u.Phone)
	assert.NotEmpty(t, repo.created.Salt)
	assert.NotEmpty(t, repo.created.PasswordHash)
	assert.NotEqual(t, []byte("secret1"), repo.created.PasswordHash)
}

func TestRegister_Validation(t *testing.T) {
	s, _ := newUserService(t)

	cases := map[string]models.RegisterRequest{
		"no name":        {Email: "a@b.com", Password: "secret1"},
		"bad email":      {Name: "A", Email: "not-an-email", Password: "secret1"},
		"display email":  {Name: "A", Email: "A <a@b.com>", Password: "secret1"},
		"short password": {Name: "A", Email: "a@b.com", Password: "12345"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := s.Register(context.Background(), in)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	s, _ := newUserService(t)
	in := models.RegisterRequest{Name: "A", Email: "a@b.com", Password: "secret1"}

	_, err := s.Register(context.Background(), in)
	require.NoError(t, err)

	_, err = s.Register(context.Background(), in)
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestRegister_RepoError(t *testing.T) {
	s, repo := newUserService(t)
	repo.err = errors.New("db down")

	_, err := s.Register(context.Background(), models.RegisterRequest{Name: "A", Email: "a@b.com", Password: "secret1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error creating user")
}

func TestLogin(t *testing.T) {
	s, _ := newUserService(t)
	ctx := context.Background()

	u, err := s.Register(ctx, models.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "secret1"})
	require.NoError(t, err)

	res, err := s.Login(ctx, models.LoginRequest{Email: "ASHA@example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)

	uid, err := auth.GetUserIDFromToken(res.Token, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, u.ID, uid)
}

func TestLogin_BadCredentials(t *testing.T) {
	s, _ := newUserService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, models.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = s.Login(ctx, models.LoginRequest{Email: "asha@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = s.Login(ctx, models.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestLogin_RepoError(t *testing.T) {
	s, repo := newUserService(t)
	repo.err = errors.New("db down")

	_, err := s.Login(context.Background(), models.LoginRequest{Email: "a@b.com", Password: "secret1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestMeAndUpdateProfile(t *testing.T) {
	s, _ := newUserService(t)
	ctx := context.Background()

	u, err := s.Register(ctx, models.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "secret1"})
	require.NoError(t, err)

	me, err := s.Me(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha", me.Name)

	_, err = s.UpdateProfile(ctx, u.ID, models.ProfileUpdate{Name: " "})
	assert.ErrorIs(t, err, common.ErrValidation)

	upd, err := s.UpdateProfile(ctx, u.ID, models.ProfileUpdate{Name: "Asha R", Phone: " 999 "})
	require.NoError(t, err)
	assert.Equal(t, "Asha R", upd.Name)
	assert.Equal(t, "999", upd.Phone)

	_, err = s.Me(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
