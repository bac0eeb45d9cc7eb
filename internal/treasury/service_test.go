package treasury_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbenali/autostock/internal/state"
	"github.com/sbenali/autostock/internal/treasury"
)

func newFixture(t *testing.T, accounts ...treasury.Account) (*treasury.Service, *state.Store) {
	t.Helper()

	snap := state.NewSnapshot()
	snap.Accounts = accounts

	store := state.New(snap, nil)

	return treasury.NewService(state.NewTreasuryStore(store)), store
}

func balance(t *testing.T, store *state.Store, id string) int64 {
	t.Helper()

	for _, a := range store.Current().Accounts {
		if a.ID == id {
			return a.Balance
		}
	}

	t.Fatalf("account %s not in snapshot", id)

	return 0
}

func TestService_CreateAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("trims the name and defaults the type", func(t *testing.T) {
		svc, _ := newFixture(t)

		a, err := svc.CreateAccount(ctx, treasury.AccountParams{Name: "  Caisse  ", Balance: 10000})
		require.NoError(t, err)

		assert.Equal(t, "Caisse", a.Name)
		assert.Equal(t, treasury.AccountOther, a.Type)
		assert.Equal(t, int64(10000), a.Balance)
	})

	t.Run("rejects blank names and unknown types", func(t *testing.T) {
		svc, _ := newFixture(t)

		_, err := svc.CreateAccount(ctx, treasury.AccountParams{Name: "   "})
		assert.ErrorIs(t, err, treasury.ErrMissingName)

		_, err = svc.CreateAccount(ctx, treasury.AccountParams{Name: "X", Type: treasury.AccountType("crypto")})
		assert.ErrorIs(t, err, treasury.ErrBadType)
	})
}

func TestService_Transfer(t *testing.T) {
	ctx := context.Background()

	caisse := treasury.Account{ID: "a1", Name: "Caisse", Balance: 50000, Type: treasury.AccountCash}
	banque := treasury.Account{ID: "a2", Name: "Banque", Balance: 20000, Type: treasury.AccountBank}

	t.Run("debits the source and credits the destination", func(t *testing.T) {
		svc, store := newFixture(t, caisse, banque)

		tr, err := svc.Transfer(ctx, treasury.TransferParams{
			FromAccountID: "a1",
			ToAccountID:   "a2",
			Amount:        30000,
			Description:   "dépôt",
		})
		require.NoError(t, err)
		require.NotNil(t, tr)

		assert.Equal(t, int64(20000), balance(t, store, "a1"))
		assert.Equal(t, int64(50000), balance(t, store, "a2"))

		transfers := store.Current().Transfers
		require.Len(t, transfers, 1)
		assert.Equal(t, "a1", transfers[0].FromAccountID)
		assert.Equal(t, int64(30000), transfers[0].Amount)
	})

	t.Run("overdrafts are allowed", func(t *testing.T) {
		svc, store := newFixture(t, caisse, banque)

		_, err := svc.Transfer(ctx, treasury.TransferParams{
			FromAccountID: "a1",
			ToAccountID:   "a2",
			Amount:        80000,
		})
		require.NoError(t, err)

		assert.Equal(t, int64(-30000), balance(t, store, "a1"))
		assert.Equal(t, int64(100000), balance(t, store, "a2"))
	})

	t.Run("same-account transfer is a complete no-op", func(t *testing.T) {
		svc, store := newFixture(t, caisse)

		tr, err := svc.Transfer(ctx, treasury.TransferParams{
			FromAccountID: "a1",
			ToAccountID:   "a1",
			Amount:        10000,
		})
		require.NoError(t, err)

		assert.Nil(t, tr)
		assert.Equal(t, int64(50000), balance(t, store, "a1"))
		assert.Empty(t, store.Current().Transfers)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		svc, _ := newFixture(t, caisse, banque)

		_, err := svc.Transfer(ctx, treasury.TransferParams{
			FromAccountID: "a1",
			ToAccountID:   "a2",
			Amount:        0,
		})
		assert.ErrorIs(t, err, treasury.ErrBadAmount)
	})

	t.Run("both accounts must exist", func(t *testing.T) {
		svc, store := newFixture(t, caisse)

		_, err := svc.Transfer(ctx, treasury.TransferParams{
			FromAccountID: "a1",
			ToAccountID:   "ghost",
			Amount:        1000,
		})
		assert.ErrorIs(t, err, treasury.ErrNotFound)
		assert.Equal(t, int64(50000), balance(t, store, "a1"), "failed transfer leaves balances intact")
	})
}

func TestService_UpdateAccount(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture(t, treasury.Account{ID: "a1", Name: "Caisse", Type: treasury.AccountCash})

	a, err := svc.UpdateAccount(ctx, "a1", treasury.AccountUpdate{
		Name: ptr("Caisse principale"),
		Type: ptr(treasury.AccountBank),
	})
	require.NoError(t, err)
	assert.Equal(t, "Caisse principale", a.Name)
	assert.Equal(t, treasury.AccountBank, a.Type)

	_, err = svc.UpdateAccount(ctx, "nope", treasury.AccountUpdate{})
	assert.ErrorIs(t, err, treasury.ErrNotFound)
}

func ptr[T any](v T) *T { return &v }
