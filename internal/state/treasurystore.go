package state

import (
	"context"

	"github.com/sbenali/autostock/internal/treasury"
)

// TreasuryStore adapts the aggregate store to treasury.Repository.
type TreasuryStore struct {
	s *Store
}

func NewTreasuryStore(s *Store) *TreasuryStore {
	return &TreasuryStore{s: s}
}

func (ts *TreasuryStore) GetAccount(_ context.Context, id string) (*treasury.Account, error) {
	var found *treasury.Account

	ts.s.view(func(snap *Snapshot) {
		for _, a := range snap.Accounts {
			if a.ID == id {
				found = &a
				return
			}
		}
	})

	if found == nil {
		return nil, treasury.ErrNotFound
	}

	return found, nil
}

func (ts *TreasuryStore) ListAccounts(_ context.Context) ([]*treasury.Account, error) {
	var accounts []*treasury.Account

	ts.s.view(func(snap *Snapshot) {
		accounts = make([]*treasury.Account, len(snap.Accounts))
		for i, a := range snap.Accounts {
			accounts[i] = &a
		}
	})

	return accounts, nil
}

func (ts *TreasuryStore) CreateAccount(ctx context.Context, a *treasury.Account) error {
	tx := ts.s.begin(ctx)
	defer tx.Rollback()

	tx.staged.Accounts = append(tx.staged.Accounts, *a)

	return tx.Commit()
}

func (ts *TreasuryStore) UpdateAccount(ctx context.Context, a *treasury.Account) error {
	tx := ts.s.begin(ctx)
	defer tx.Rollback()

	if _, ok := tx.Account(a.ID); !ok {
		return treasury.ErrNotFound
	}

	tx.mutateAccount(a.ID, func(dst *treasury.Account) { *dst = *a })

	return tx.Commit()
}

func (ts *TreasuryStore) DeleteAccount(ctx context.Context, id string) error {
	tx := ts.s.begin(ctx)
	defer tx.Rollback()

	if _, ok := tx.Account(id); !ok {
		return treasury.ErrNotFound
	}

	tx.deleteAccount(id)

	return tx.Commit()
}

func (ts *TreasuryStore) ListTransfers(_ context.Context) ([]*treasury.Transfer, error) {
	var transfers []*treasury.Transfer

	ts.s.view(func(snap *Snapshot) {
		transfers = make([]*treasury.Transfer, len(snap.Transfers))
		for i, tr := range snap.Transfers {
			transfers[i] = &tr
		}
	})

	return transfers, nil
}

func (ts *TreasuryStore) Begin(ctx context.Context) (treasury.Tx, error) {
	return ts.s.begin(ctx), nil
}
