package state

import (
	"context"
	"slices"

	"github.com/sbenali/autostock/internal/purchase"
)

// PurchaseStore adapts the aggregate store to purchase.Repository.
type PurchaseStore struct {
	s *Store
}

func NewPurchaseStore(s *Store) *PurchaseStore {
	return &PurchaseStore{s: s}
}

func (ps *PurchaseStore) GetPurchase(_ context.Context, id string) (*purchase.Purchase, error) {
	var found *purchase.Purchase

	ps.s.view(func(snap *Snapshot) {
		for _, p := range snap.Purchases {
			if p.ID == id {
				p.Items = slices.Clone(p.Items)
				found = &p

				return
			}
		}
	})

	if found == nil {
		return nil, purchase.ErrNotFound
	}

	return found, nil
}

func (ps *PurchaseStore) ListPurchases(_ context.Context) ([]*purchase.Purchase, error) {
	var purchases []*purchase.Purchase

	ps.s.view(func(snap *Snapshot) {
		purchases = make([]*purchase.Purchase, len(snap.Purchases))
		for i, p := range snap.Purchases {
			p.Items = slices.Clone(p.Items)
			purchases[i] = &p
		}
	})

	return purchases, nil
}

func (ps *PurchaseStore) Begin(ctx context.Context) (purchase.Tx, error) {
	return ps.s.begin(ctx), nil
}
