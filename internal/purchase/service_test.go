package purchase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbenali/autostock/internal/catalog"
	"github.com/sbenali/autostock/internal/inventory"
	"github.com/sbenali/autostock/internal/purchase"
	"github.com/sbenali/autostock/internal/state"
)

func newFixture(t *testing.T, products ...catalog.Product) (*purchase.Service, *state.Store) {
	t.Helper()

	snap := state.NewSnapshot()
	snap.Products = products

	store := state.New(snap, nil)

	return purchase.NewService(state.NewPurchaseStore(store)), store
}

func product(id string, quantity int, priceHT int64) catalog.Product {
	return catalog.Product{
		ID:              id,
		Reference:       "REF-" + id,
		Designation:     "Part " + id,
		Quantity:        quantity,
		PurchasePriceHT: priceHT,
		StockValue:      int64(quantity) * priceHT,
	}
}

func findProduct(t *testing.T, store *state.Store, id string) catalog.Product {
	t.Helper()

	for _, p := range store.Current().Products {
		if p.ID == id {
			return p
		}
	}

	t.Fatalf("product %s not in snapshot", id)

	return catalog.Product{}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("pending order leaves stock and ledger untouched", func(t *testing.T) {
		svc, store := newFixture(t, product("p1", 10, 500))

		p, err := svc.Create(ctx, purchase.CreateParams{
			SupplierID: "s1",
			Items:      []purchase.Item{{ProductID: "p1", Quantity: 5, UnitPriceHT: 500}},
		})
		require.NoError(t, err)

		assert.Equal(t, purchase.StatusPending, p.Status)
		assert.Equal(t, 10, findProduct(t, store, "p1").Quantity)
		assert.Empty(t, store.Current().Movements)
	})

	t.Run("received order books stock in with one movement per line", func(t *testing.T) {
		svc, store := newFixture(t, product("p1", 10, 500), product("p2", 0, 200))

		p, err := svc.Create(ctx, purchase.CreateParams{
			Status: purchase.StatusReceived,
			Items: []purchase.Item{
				{ProductID: "p1", Quantity: 5, UnitPriceHT: 500},
				{ProductID: "p2", Quantity: 3, UnitPriceHT: 200},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, 15, findProduct(t, store, "p1").Quantity)
		assert.Equal(t, int64(15*500), findProduct(t, store, "p1").StockValue)
		assert.Equal(t, 3, findProduct(t, store, "p2").Quantity)

		movements := store.Current().Movements
		require.Len(t, movements, 2)

		for _, m := range movements {
			assert.Equal(t, inventory.DirectionEntry, m.Direction)
			assert.Equal(t, "PO-"+p.ID, m.DocumentRef)
		}
	})

	t.Run("total defaults to the item sum and outstanding to total minus paid", func(t *testing.T) {
		svc, _ := newFixture(t, product("p1", 0, 500))

		p, err := svc.Create(ctx, purchase.CreateParams{
			Items:      []purchase.Item{{ProductID: "p1", Quantity: 4, UnitPriceHT: 250}},
			AmountPaid: 300,
		})
		require.NoError(t, err)

		assert.Equal(t, int64(1000), p.TotalHT)
		assert.Equal(t, int64(700), p.Outstanding)
	})

	t.Run("empty item list is rejected", func(t *testing.T) {
		svc, _ := newFixture(t)

		_, err := svc.Create(ctx, purchase.CreateParams{})
		assert.ErrorIs(t, err, purchase.ErrNoItems)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		svc, _ := newFixture(t, product("p1", 0, 500))

		_, err := svc.Create(ctx, purchase.CreateParams{
			Status: purchase.Status("shipped"),
			Items:  []purchase.Item{{ProductID: "p1", Quantity: 1}},
		})
		assert.ErrorIs(t, err, purchase.ErrInvalidStatus)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("transition into received books stock in", func(t *testing.T) {
		svc, store := newFixture(t, product("p1", 10, 500))

		p, err := svc.Create(ctx, purchase.CreateParams{
			Items: []purchase.Item{{ProductID: "p1", Quantity: 5, UnitPriceHT: 500}},
		})
		require.NoError(t, err)

		updated, err := svc.Update(ctx, p.ID, purchase.UpdateParams{
			Status: ptr(purchase.StatusReceived),
		})
		require.NoError(t, err)

		assert.Equal(t, purchase.StatusReceived, updated.Status)
		assert.Equal(t, 15, findProduct(t, store, "p1").Quantity)

		movements := store.Current().Movements
		require.Len(t, movements, 1)
		assert.Equal(t, "PO-"+p.ID, movements[0].DocumentRef)
	})

	t.Run("transition out of received books a compensating exit", func(t *testing.T) {
		svc, store := newFixture(t, product("p1", 10, 500))

		p, err := svc.Create(ctx, purchase.CreateParams{
			Status: purchase.StatusReceived,
			Items:  []purchase.Item{{ProductID: "p1", Quantity: 5, UnitPriceHT: 500}},
		})
		require.NoError(t, err)

		_, err = svc.Update(ctx, p.ID, purchase.UpdateParams{
			Status: ptr(purchase.StatusPending),
		})
		require.NoError(t, err)

		assert.Equal(t, 10, findProduct(t, store, "p1").Quantity)

		movements := store.Current().Movements
		require.Len(t, movements, 2, "the receipt entry stays; the reversal appends")
		assert.Equal(t, inventory.DirectionExit, movements[1].Direction)
		assert.Equal(t, "REV-PO-"+p.ID, movements[1].DocumentRef)
	})

	t.Run("reversal uses the pre-edit item list", func(t *testing.T) {
		svc, store := newFixture(t, product("p1", 0, 500))

		p, err := svc.Create(ctx, purchase.CreateParams{
			Status: purchase.StatusReceived,
			Items:  []purchase.Item{{ProductID: "p1", Quantity: 5, UnitPriceHT: 500}},
		})
		require.NoError(t, err)

		// Shrink the items and leave received in the same edit: the
		// reversal must still release the original five.
		_, err = svc.Update(ctx, p.ID, purchase.UpdateParams{
			Items:  ptr([]purchase.Item{{ProductID: "p1", Quantity: 2, UnitPriceHT: 500}}),
			Status: ptr(purchase.StatusPending),
		})
		require.NoError(t, err)

		assert.Equal(t, 0, findProduct(t, store, "p1").Quantity)
	})

	t.Run("reversal floors stock at zero", func(t *testing.T) {
		svc, store := newFixture(t, product("p1", 0, 500))

		p, err := svc.Create(ctx, purchase.CreateParams{
			Status: purchase.StatusReceived,
			Items:  []purchase.Item{{ProductID: "p1", Quantity: 5, UnitPriceHT: 500}},
		})
		require.NoError(t, err)

		// An adjustment drops the count below the received quantity, so
		// the reversal would go negative without the floor.
		_, err = inventory.NewService(state.NewInventoryStore(store)).Adjust(ctx, "p1", 2, "recount")
		require.NoError(t, err)

		_, err = svc.Update(ctx, p.ID, purchase.UpdateParams{Status: ptr(purchase.StatusPending)})
		require.NoError(t, err)

		assert.Equal(t, 0, findProduct(t, store, "p1").Quantity)
		assert.Equal(t, int64(0), findProduct(t, store, "p1").StockValue)
	})

	t.Run("field edit without status change never touches stock", func(t *testing.T) {
		svc, store := newFixture(t, product("p1", 10, 500))

		p, err := svc.Create(ctx, purchase.CreateParams{
			Status: purchase.StatusReceived,
			Items:  []purchase.Item{{ProductID: "p1", Quantity: 5, UnitPriceHT: 500}},
		})
		require.NoError(t, err)

		updated, err := svc.Update(ctx, p.ID, purchase.UpdateParams{AmountPaid: ptr(int64(1000))})
		require.NoError(t, err)

		assert.Equal(t, p.TotalHT-1000, updated.Outstanding)
		assert.Equal(t, 15, findProduct(t, store, "p1").Quantity)
		assert.Len(t, store.Current().Movements, 1)
	})

	t.Run("missing purchase", func(t *testing.T) {
		svc, _ := newFixture(t)

		_, err := svc.Update(ctx, "nope", purchase.UpdateParams{})
		assert.ErrorIs(t, err, purchase.ErrNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deleting a received order reverses its stock effect", func(t *testing.T) {
		svc, store := newFixture(t, product("p1", 10, 500))

		p, err := svc.Create(ctx, purchase.CreateParams{
			Status: purchase.StatusReceived,
			Items:  []purchase.Item{{ProductID: "p1", Quantity: 5, UnitPriceHT: 500}},
		})
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, p.ID))

		assert.Equal(t, 10, findProduct(t, store, "p1").Quantity)
		assert.Empty(t, store.Current().Purchases)

		movements := store.Current().Movements
		require.Len(t, movements, 2)
		assert.Equal(t, "DEL-PO-"+p.ID, movements[1].DocumentRef)
	})

	t.Run("deleting a pending order leaves stock alone", func(t *testing.T) {
		svc, store := newFixture(t, product("p1", 10, 500))

		p, err := svc.Create(ctx, purchase.CreateParams{
			Items: []purchase.Item{{ProductID: "p1", Quantity: 5, UnitPriceHT: 500}},
		})
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, p.ID))

		assert.Equal(t, 10, findProduct(t, store, "p1").Quantity)
		assert.Empty(t, store.Current().Movements)
	})

	t.Run("missing purchase", func(t *testing.T) {
		svc, _ := newFixture(t)

		assert.ErrorIs(t, svc.Delete(ctx, "nope"), purchase.ErrNotFound)
	})
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture(t, product("p1", 0, 500))

	created, err := svc.Create(ctx, purchase.CreateParams{
		Date:  time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		Items: []purchase.Item{{ProductID: "p1", Quantity: 1, UnitPriceHT: 500}},
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Date, got.Date)

	_, err = svc.Get(ctx, "nope")
	assert.ErrorIs(t, err, purchase.ErrNotFound)
}

func ptr[T any](v T) *T { return &v }
