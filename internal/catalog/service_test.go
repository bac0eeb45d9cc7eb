package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbenali/autostock/internal/catalog"
	"github.com/sbenali/autostock/internal/inventory"
	"github.com/sbenali/autostock/internal/sale"
	"github.com/sbenali/autostock/internal/state"
)

func newFixture(t *testing.T) (*catalog.Service, *state.Store) {
	t.Helper()

	store := state.New(state.NewSnapshot(), nil)

	return catalog.NewService(state.NewCatalogStore(store)), store
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("computes derived pricing on create", func(t *testing.T) {
		svc, _ := newFixture(t)

		p, err := svc.Create(ctx, catalog.CreateParams{
			Reference:       "FLT-001",
			Designation:     "Oil filter",
			VATRate:         19,
			PurchasePriceHT: 45000,
			RetailPriceHT:   78000,
			Quantity:        12,
		})
		require.NoError(t, err)

		assert.NotEmpty(t, p.ID)
		assert.Equal(t, int64(53550), p.PurchasePriceTTC)
		assert.Equal(t, int64(92820), p.RetailPriceTTC)
		assert.Equal(t, int64(12*45000), p.StockValue)
		assert.Equal(t, catalog.UnitPiece, p.Unit, "unit defaults to piece")
	})

	t.Run("rejects duplicate references case-insensitively", func(t *testing.T) {
		svc, _ := newFixture(t)

		_, err := svc.Create(ctx, catalog.CreateParams{Reference: "FLT-001", Designation: "Oil filter"})
		require.NoError(t, err)

		_, err = svc.Create(ctx, catalog.CreateParams{Reference: "flt-001", Designation: "Another filter"})
		assert.ErrorIs(t, err, catalog.ErrDuplicateReference)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		svc, _ := newFixture(t)

		_, err := svc.Create(ctx, catalog.CreateParams{Designation: "No reference"})
		assert.ErrorIs(t, err, catalog.ErrMissingField)

		_, err = svc.Create(ctx, catalog.CreateParams{Reference: "X", Designation: "   "})
		assert.ErrorIs(t, err, catalog.ErrMissingField)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("recomputes derived fields after a price edit", func(t *testing.T) {
		svc, _ := newFixture(t)

		p, err := svc.Create(ctx, catalog.CreateParams{
			Reference:       "FLT-001",
			Designation:     "Oil filter",
			VATRate:         19,
			PurchasePriceHT: 45000,
			Quantity:        10,
		})
		require.NoError(t, err)

		updated, err := svc.Update(ctx, p.ID, catalog.UpdateParams{
			PurchasePriceHT: ptr(int64(50000)),
		})
		require.NoError(t, err)

		assert.Equal(t, int64(59500), updated.PurchasePriceTTC)
		assert.Equal(t, int64(10*50000), updated.StockValue)
	})

	t.Run("keeping your own reference is not a conflict", func(t *testing.T) {
		svc, _ := newFixture(t)

		p, err := svc.Create(ctx, catalog.CreateParams{Reference: "FLT-001", Designation: "Oil filter"})
		require.NoError(t, err)

		_, err = svc.Update(ctx, p.ID, catalog.UpdateParams{Reference: ptr("FLT-001")})
		assert.NoError(t, err)
	})

	t.Run("taking another product's reference is", func(t *testing.T) {
		svc, _ := newFixture(t)

		_, err := svc.Create(ctx, catalog.CreateParams{Reference: "FLT-001", Designation: "Oil filter"})
		require.NoError(t, err)

		p2, err := svc.Create(ctx, catalog.CreateParams{Reference: "FLT-002", Designation: "Air filter"})
		require.NoError(t, err)

		_, err = svc.Update(ctx, p2.ID, catalog.UpdateParams{Reference: ptr("FLT-001")})
		assert.ErrorIs(t, err, catalog.ErrDuplicateReference)
	})

	t.Run("missing product", func(t *testing.T) {
		svc, _ := newFixture(t)

		_, err := svc.Update(ctx, "nope", catalog.UpdateParams{})
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, store := newFixture(t)

	p, err := svc.Create(ctx, catalog.CreateParams{Reference: "FLT-001", Designation: "Oil filter"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, p.ID))
	assert.Empty(t, store.Current().Products)

	assert.ErrorIs(t, svc.Delete(ctx, p.ID), catalog.ErrNotFound)
}

func TestService_ReplaceAll(t *testing.T) {
	ctx := context.Background()
	svc, store := newFixture(t)

	p, err := svc.Create(ctx, catalog.CreateParams{
		Reference:   "FLT-001",
		Designation: "Oil filter",
		Quantity:    10,
	})
	require.NoError(t, err)

	// Seed history that references the outgoing catalog.
	_, err = sale.NewService(state.NewSaleStore(store)).Create(ctx, sale.CreateParams{
		PaymentMethod: sale.PaymentCash,
		Items:         []sale.Item{{ProductID: p.ID, Quantity: 2, UnitPrice: 900}},
	})
	require.NoError(t, err)

	_, err = inventory.NewService(state.NewInventoryStore(store)).Record(ctx, inventory.RecordParams{
		ProductID: p.ID,
		Direction: inventory.DirectionEntry,
		Quantity:  1,
	})
	require.NoError(t, err)

	replaced, err := svc.ReplaceAll(ctx, []catalog.CreateParams{
		{Reference: "NEW-1", Designation: "Spark plug", Quantity: 4},
		{Reference: "NEW-2", Designation: "Wiper blade", Quantity: 6},
	})
	require.NoError(t, err)
	require.Len(t, replaced, 2)

	snap := store.Current()
	assert.Len(t, snap.Products, 2)
	assert.Empty(t, snap.Sales, "a catalog swap drops the sales that referenced it")
	assert.Empty(t, snap.Movements, "and the movement ledger with them")
}

func ptr[T any](v T) *T { return &v }
