package state

import (
	"context"

	"github.com/sbenali/autostock/internal/directory"
)

// DirectoryStore adapts the aggregate store to directory.Repository.
type DirectoryStore struct {
	s *Store
}

func NewDirectoryStore(s *Store) *DirectoryStore {
	return &DirectoryStore{s: s}
}

func (ds *DirectoryStore) GetClient(_ context.Context, id string) (*directory.Client, error) {
	var found *directory.Client

	ds.s.view(func(snap *Snapshot) {
		for _, c := range snap.Clients {
			if c.ID == id {
				found = &c
				return
			}
		}
	})

	if found == nil {
		return nil, directory.ErrClientNotFound
	}

	return found, nil
}

func (ds *DirectoryStore) ListClients(_ context.Context) ([]*directory.Client, error) {
	var clients []*directory.Client

	ds.s.view(func(snap *Snapshot) {
		clients = make([]*directory.Client, len(snap.Clients))
		for i, c := range snap.Clients {
			clients[i] = &c
		}
	})

	return clients, nil
}

func (ds *DirectoryStore) CreateClient(ctx context.Context, c *directory.Client) error {
	tx := ds.s.begin(ctx)
	defer tx.Rollback()

	tx.CreateClient(c)

	return tx.Commit()
}

func (ds *DirectoryStore) UpdateClient(ctx context.Context, c *directory.Client) error {
	tx := ds.s.begin(ctx)
	defer tx.Rollback()

	tx.UpdateClient(c)

	return tx.Commit()
}

func (ds *DirectoryStore) DeleteClient(ctx context.Context, id string) error {
	tx := ds.s.begin(ctx)
	defer tx.Rollback()

	if !tx.DeleteClient(id) {
		return directory.ErrClientNotFound
	}

	return tx.Commit()
}

func (ds *DirectoryStore) GetSupplier(_ context.Context, id string) (*directory.Supplier, error) {
	var found *directory.Supplier

	ds.s.view(func(snap *Snapshot) {
		for _, sup := range snap.Suppliers {
			if sup.ID == id {
				found = &sup
				return
			}
		}
	})

	if found == nil {
		return nil, directory.ErrSupplierNotFound
	}

	return found, nil
}

func (ds *DirectoryStore) ListSuppliers(_ context.Context) ([]*directory.Supplier, error) {
	var suppliers []*directory.Supplier

	ds.s.view(func(snap *Snapshot) {
		suppliers = make([]*directory.Supplier, len(snap.Suppliers))
		for i, sup := range snap.Suppliers {
			suppliers[i] = &sup
		}
	})

	return suppliers, nil
}

func (ds *DirectoryStore) CreateSupplier(ctx context.Context, sup *directory.Supplier) error {
	tx := ds.s.begin(ctx)
	defer tx.Rollback()

	tx.CreateSupplier(sup)

	return tx.Commit()
}

func (ds *DirectoryStore) UpdateSupplier(ctx context.Context, sup *directory.Supplier) error {
	tx := ds.s.begin(ctx)
	defer tx.Rollback()

	tx.UpdateSupplier(sup)

	return tx.Commit()
}

func (ds *DirectoryStore) DeleteSupplier(ctx context.Context, id string) error {
	tx := ds.s.begin(ctx)
	defer tx.Rollback()

	if !tx.DeleteSupplier(id) {
		return directory.ErrSupplierNotFound
	}

	return tx.Commit()
}
