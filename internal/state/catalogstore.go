package state

import (
	"context"
	"strings"

	"github.com/sbenali/autostock/internal/catalog"
)

// CatalogStore adapts the aggregate store to catalog.Repository.
type CatalogStore struct {
	s *Store
}

func NewCatalogStore(s *Store) *CatalogStore {
	return &CatalogStore{s: s}
}

func (cs *CatalogStore) GetProduct(_ context.Context, id string) (*catalog.Product, error) {
	var found *catalog.Product

	cs.s.view(func(snap *Snapshot) {
		for _, p := range snap.Products {
			if p.ID == id {
				found = &p
				return
			}
		}
	})

	if found == nil {
		return nil, catalog.ErrNotFound
	}

	return found, nil
}

// FindProductByReference matches references case-insensitively with
// surrounding whitespace ignored, the same rule the duplicate check uses.
func (cs *CatalogStore) FindProductByReference(_ context.Context, reference string) (*catalog.Product, error) {
	want := strings.TrimSpace(reference)

	var found *catalog.Product

	cs.s.view(func(snap *Snapshot) {
		for _, p := range snap.Products {
			if strings.EqualFold(strings.TrimSpace(p.Reference), want) {
				found = &p
				return
			}
		}
	})

	if found == nil {
		return nil, catalog.ErrNotFound
	}

	return found, nil
}

func (cs *CatalogStore) ListProducts(_ context.Context) ([]*catalog.Product, error) {
	var products []*catalog.Product

	cs.s.view(func(snap *Snapshot) {
		products = make([]*catalog.Product, len(snap.Products))
		for i, p := range snap.Products {
			products[i] = &p
		}
	})

	return products, nil
}

func (cs *CatalogStore) CreateProduct(ctx context.Context, p *catalog.Product) error {
	tx := cs.s.begin(ctx)
	defer tx.Rollback()

	tx.CreateProduct(*p)

	return tx.Commit()
}

func (cs *CatalogStore) UpdateProduct(ctx context.Context, p *catalog.Product) error {
	tx := cs.s.begin(ctx)
	defer tx.Rollback()

	if _, ok := tx.Product(p.ID); !ok {
		return catalog.ErrNotFound
	}

	tx.UpdateProduct(*p)

	return tx.Commit()
}

func (cs *CatalogStore) DeleteProduct(ctx context.Context, id string) error {
	tx := cs.s.begin(ctx)
	defer tx.Rollback()

	if !tx.DeleteProduct(id) {
		return catalog.ErrNotFound
	}

	return tx.Commit()
}

func (cs *CatalogStore) ReplaceCatalog(ctx context.Context, products []*catalog.Product) error {
	values := make([]catalog.Product, len(products))
	for i, p := range products {
		values[i] = *p
	}

	tx := cs.s.begin(ctx)
	defer tx.Rollback()

	tx.ReplaceCatalog(values)

	return tx.Commit()
}
