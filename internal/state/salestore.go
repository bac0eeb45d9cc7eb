package state

import (
	"context"
	"slices"

	"github.com/sbenali/autostock/internal/sale"
)

// SaleStore adapts the aggregate store to sale.Repository.
type SaleStore struct {
	s *Store
}

func NewSaleStore(s *Store) *SaleStore {
	return &SaleStore{s: s}
}

func (ss *SaleStore) GetSale(_ context.Context, id string) (*sale.Sale, error) {
	var found *sale.Sale

	ss.s.view(func(snap *Snapshot) {
		for _, sl := range snap.Sales {
			if sl.ID == id {
				sl.Items = slices.Clone(sl.Items)
				found = &sl

				return
			}
		}
	})

	if found == nil {
		return nil, sale.ErrNotFound
	}

	return found, nil
}

func (ss *SaleStore) ListSales(_ context.Context) ([]*sale.Sale, error) {
	var sales []*sale.Sale

	ss.s.view(func(snap *Snapshot) {
		sales = make([]*sale.Sale, len(snap.Sales))
		for i, sl := range snap.Sales {
			sl.Items = slices.Clone(sl.Items)
			sales[i] = &sl
		}
	})

	return sales, nil
}

func (ss *SaleStore) Begin(ctx context.Context) (sale.Tx, error) {
	return ss.s.begin(ctx), nil
}
