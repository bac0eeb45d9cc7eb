package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbenali/autostock/internal/auth"
	appHttp "github.com/sbenali/autostock/internal/http"
	"github.com/sbenali/autostock/internal/state"
)

func newAuthFixture(t *testing.T) (*auth.Service, string, string) {
	t.Helper()

	ctx := context.Background()

	store := state.New(state.NewSnapshot(), nil)
	svc := auth.NewService(state.NewUserStore(store), auth.NewTokenIssuer("test-secret", time.Hour))

	_, err := svc.CreateUser(ctx, auth.CreateUserParams{
		Username:    "seller",
		Password:    "s3cret",
		Role:        auth.RoleUser,
		Permissions: []string{"sales"},
		Active:      true,
	})
	require.NoError(t, err)

	_, sellerToken, err := svc.Login(ctx, "seller", "s3cret")
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, auth.CreateUserParams{
		Username: "boss",
		Password: "s3cret",
		Role:     auth.RoleAdmin,
		Active:   true,
	})
	require.NoError(t, err)

	_, adminToken, err := svc.Login(ctx, "boss", "s3cret")
	require.NoError(t, err)

	return svc, sellerToken, adminToken
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticator(t *testing.T) {
	svc, token, _ := newAuthFixture(t)
	handler := appHttp.Authenticator(svc)(okHandler())

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequirePermission(t *testing.T) {
	svc, sellerToken, adminToken := newAuthFixture(t)

	request := func(t *testing.T, handler http.Handler, token string) int {
		t.Helper()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		return rec.Code
	}

	t.Run("held permission passes", func(t *testing.T) {
		handler := appHttp.Authenticator(svc)(appHttp.RequirePermission("sales")(okHandler()))
		assert.Equal(t, http.StatusOK, request(t, handler, sellerToken))
	})

	t.Run("missing permission is forbidden", func(t *testing.T) {
		handler := appHttp.Authenticator(svc)(appHttp.RequirePermission("treasury")(okHandler()))
		assert.Equal(t, http.StatusForbidden, request(t, handler, sellerToken))
	})

	t.Run("admin passes any permission", func(t *testing.T) {
		handler := appHttp.Authenticator(svc)(appHttp.RequirePermission("treasury")(okHandler()))
		assert.Equal(t, http.StatusOK, request(t, handler, adminToken))
	})

	t.Run("admin gate rejects plain users", func(t *testing.T) {
		handler := appHttp.Authenticator(svc)(appHttp.RequireAdmin(okHandler()))
		assert.Equal(t, http.StatusForbidden, request(t, handler, sellerToken))
		assert.Equal(t, http.StatusOK, request(t, handler, adminToken))
	})
}
