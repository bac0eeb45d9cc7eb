package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbenali/autostock/internal/auth"
	"github.com/sbenali/autostock/internal/state"
)

func newFixture(t *testing.T) (*auth.Service, *state.Store) {
	t.Helper()

	store := state.New(state.NewSnapshot(), nil)
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)

	return auth.NewService(state.NewUserStore(store), tokens), store
}

func seedUser(t *testing.T, svc *auth.Service, username, password string, active bool) *auth.User {
	t.Helper()

	u, err := svc.CreateUser(context.Background(), auth.CreateUserParams{
		Username:    username,
		Password:    password,
		Role:        auth.RoleUser,
		Permissions: []string{"sales"},
		Active:      active,
	})
	require.NoError(t, err)

	return u
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success returns the user and a token and stamps last login", func(t *testing.T) {
		svc, store := newFixture(t)
		seedUser(t, svc, "sabrina", "s3cret", true)

		u, token, err := svc.Login(ctx, "sabrina", "s3cret")
		require.NoError(t, err)

		assert.NotEmpty(t, token)
		require.NotNil(t, u.LastLogin)

		stored := store.Current().Users[0]
		require.NotNil(t, stored.LastLogin)
		assert.Equal(t, *u.LastLogin, *stored.LastLogin)
	})

	t.Run("wrong password leaves the record untouched", func(t *testing.T) {
		svc, store := newFixture(t)
		seedUser(t, svc, "sabrina", "s3cret", true)

		_, _, err := svc.Login(ctx, "sabrina", "wrong")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		assert.Nil(t, store.Current().Users[0].LastLogin)
	})

	t.Run("unknown username and deactivated account fail identically", func(t *testing.T) {
		svc, _ := newFixture(t)
		seedUser(t, svc, "dormant", "s3cret", false)

		_, _, errUnknown := svc.Login(ctx, "ghost", "s3cret")
		_, _, errInactive := svc.Login(ctx, "dormant", "s3cret")

		assert.ErrorIs(t, errUnknown, auth.ErrInvalidCredentials)
		assert.ErrorIs(t, errInactive, auth.ErrInvalidCredentials)
	})

	t.Run("username lookup is case-insensitive", func(t *testing.T) {
		svc, _ := newFixture(t)
		seedUser(t, svc, "sabrina", "s3cret", true)

		_, _, err := svc.Login(ctx, "SABRINA", "s3cret")
		assert.NoError(t, err)
	})
}

func TestService_VerifyPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture(t)
	u := seedUser(t, svc, "sabrina", "s3cret", true)

	assert.NoError(t, svc.VerifyPassword(ctx, u.ID, "s3cret"))
	assert.ErrorIs(t, svc.VerifyPassword(ctx, u.ID, "wrong"), auth.ErrInvalidCredentials)
	assert.ErrorIs(t, svc.VerifyPassword(ctx, "ghost", "s3cret"), auth.ErrInvalidCredentials)
}

func TestService_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a hash, never the password", func(t *testing.T) {
		svc, store := newFixture(t)
		seedUser(t, svc, "sabrina", "s3cret", true)

		stored := store.Current().Users[0]
		assert.NotEqual(t, "s3cret", stored.PasswordHash)
		assert.NotEmpty(t, stored.PasswordHash)
	})

	t.Run("duplicate usernames are rejected", func(t *testing.T) {
		svc, _ := newFixture(t)
		seedUser(t, svc, "sabrina", "s3cret", true)

		_, err := svc.CreateUser(ctx, auth.CreateUserParams{Username: "Sabrina", Password: "x", Active: true})
		assert.ErrorIs(t, err, auth.ErrDuplicateUsername)
	})

	t.Run("username and password are required", func(t *testing.T) {
		svc, _ := newFixture(t)

		_, err := svc.CreateUser(ctx, auth.CreateUserParams{Password: "x"})
		assert.ErrorIs(t, err, auth.ErrMissingField)

		_, err = svc.CreateUser(ctx, auth.CreateUserParams{Username: "x"})
		assert.ErrorIs(t, err, auth.ErrMissingField)
	})
}

func TestService_UpdateUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture(t)
	u := seedUser(t, svc, "sabrina", "s3cret", true)

	_, err := svc.UpdateUser(ctx, u.ID, auth.UpdateUserParams{
		Password: ptr("n3w-pass"),
		Active:   ptr(false),
	})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "sabrina", "n3w-pass")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials, "deactivated account cannot log in")

	_, err = svc.UpdateUser(ctx, u.ID, auth.UpdateUserParams{Active: ptr(true)})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "sabrina", "n3w-pass")
	assert.NoError(t, err)
}

func TestUser_Can(t *testing.T) {
	tests := []struct {
		name       string
		user       auth.User
		permission string
		want       bool
	}{
		{"admin passes everything", auth.User{Role: auth.RoleAdmin}, "settings", true},
		{"all sentinel passes everything", auth.User{Role: auth.RoleUser, Permissions: []string{"all"}}, "settings", true},
		{"literal member", auth.User{Role: auth.RoleUser, Permissions: []string{"sales", "products"}}, "sales", true},
		{"non-member", auth.User{Role: auth.RoleUser, Permissions: []string{"sales"}}, "treasury", false},
		{"empty set", auth.User{Role: auth.RoleUser}, "sales", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.Can(tt.permission))
		})
	}
}

func ptr[T any](v T) *T { return &v }
