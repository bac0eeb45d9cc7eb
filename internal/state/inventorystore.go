package state

import (
	"context"

	"github.com/sbenali/autostock/internal/inventory"
)

// InventoryStore adapts the aggregate store to inventory.Repository.
type InventoryStore struct {
	s *Store
}

func NewInventoryStore(s *Store) *InventoryStore {
	return &InventoryStore{s: s}
}

func (is *InventoryStore) ListMovements(_ context.Context, filter inventory.ListFilter) ([]*inventory.Movement, error) {
	var movements []*inventory.Movement

	is.s.view(func(snap *Snapshot) {
		for _, m := range snap.Movements {
			m := m
			if filter.ProductID != nil && m.ProductID != *filter.ProductID {
				continue
			}

			if filter.Direction != nil && m.Direction != *filter.Direction {
				continue
			}

			movements = append(movements, &m)
		}
	})

	return movements, nil
}

func (is *InventoryStore) AppendMovement(ctx context.Context, m *inventory.Movement) error {
	tx := is.s.begin(ctx)
	defer tx.Rollback()

	tx.AppendMovement(*m)

	return tx.Commit()
}

func (is *InventoryStore) Begin(ctx context.Context) (inventory.Tx, error) {
	return is.s.begin(ctx), nil
}
