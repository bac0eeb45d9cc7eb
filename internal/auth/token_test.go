package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbenali/autostock/internal/auth"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)

	u := &auth.User{
		ID:          "u1",
		Username:    "sabrina",
		Role:        auth.RoleUser,
		Permissions: []string{"sales", "products"},
	}

	token, err := issuer.Mint(u)
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "sabrina", claims.Username)
	assert.Equal(t, auth.RoleUser, claims.Role)
	assert.True(t, claims.Can("sales"))
	assert.False(t, claims.Can("treasury"))
}

func TestTokenIssuer_Verify(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)

	t.Run("rejects tokens signed with another secret", func(t *testing.T) {
		other := auth.NewTokenIssuer("other-secret", time.Hour)

		token, err := other.Mint(&auth.User{ID: "u1", Username: "sabrina"})
		require.NoError(t, err)

		_, err = issuer.Verify(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := issuer.Verify("not-a-token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects expired tokens", func(t *testing.T) {
		short := auth.NewTokenIssuer("test-secret", -time.Minute)

		token, err := short.Mint(&auth.User{ID: "u1", Username: "sabrina"})
		require.NoError(t, err)

		_, err = issuer.Verify(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}
