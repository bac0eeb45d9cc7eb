package state

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/sbenali/autostock/internal/auth"
	"github.com/sbenali/autostock/internal/catalog"
	"github.com/sbenali/autostock/internal/directory"
	"github.com/sbenali/autostock/internal/inventory"
	"github.com/sbenali/autostock/internal/purchase"
	"github.com/sbenali/autostock/internal/sale"
	"github.com/sbenali/autostock/internal/treasury"
)

// ErrTxDone is returned when a transaction is committed twice.
var ErrTxDone = errors.New("transaction already finished")

// tx is a staged copy of the snapshot plus the store lock. One tx value
// backs every domain's Tx interface; each workflow only sees the slice of
// methods its interface names.
type tx struct {
	store  *Store
	ctx    context.Context
	staged *Snapshot
	done   bool
}

func (t *tx) Commit() error {
	if t.done {
		return ErrTxDone
	}

	t.done = true
	t.staged.ExportedAt = t.store.now()
	t.store.snap = t.staged
	t.store.afterCommit(t.ctx)
	t.store.mu.Unlock()

	return nil
}

func (t *tx) Rollback() error {
	if t.done {
		return nil
	}

	t.done = true
	t.store.mu.Unlock()

	return nil
}

// --- products ---

func (t *tx) Product(id string) (*catalog.Product, bool) {
	for _, p := range t.staged.Products {
		if p.ID == id {
			return &p, true
		}
	}

	return nil, false
}

func (t *tx) CreateProduct(p catalog.Product) {
	t.staged.Products = append(t.staged.Products, p)
}

func (t *tx) UpdateProduct(p catalog.Product) {
	for i := range t.staged.Products {
		if t.staged.Products[i].ID == p.ID {
			t.staged.Products[i] = p
			return
		}
	}
}

func (t *tx) DeleteProduct(id string) bool {
	return t.deleteWhere(func(s *Snapshot) {
		s.Products = slices.DeleteFunc(s.Products, func(p catalog.Product) bool { return p.ID == id })
	}, func(s *Snapshot) int { return len(s.Products) })
}

// ReplaceCatalog swaps the product collection and clears movements and
// sales: the imported counts are the new baseline, so the old ledger and
// ticket history no longer reconcile against anything.
func (t *tx) ReplaceCatalog(products []catalog.Product) {
	t.staged.Products = products
	t.staged.Movements = nil
	t.staged.Sales = nil
}

// ReceiveStock books quantity in and refreshes the product's stock value.
// Unknown ids are ignored: dangling item references mutate nothing.
func (t *tx) ReceiveStock(productID string, quantity int) {
	t.mutateProduct(productID, func(p *catalog.Product) {
		p.Quantity += quantity
		p.StockValue = int64(p.Quantity) * p.PurchasePriceHT
	})
}

// ReleaseStock books quantity out, flooring at zero, and refreshes the
// stock value from the floored count.
func (t *tx) ReleaseStock(productID string, quantity int) {
	t.mutateProduct(productID, func(p *catalog.Product) {
		p.Quantity = max(0, p.Quantity-quantity)
		p.StockValue = int64(p.Quantity) * p.PurchasePriceHT
	})
}

// DeductStock removes sold quantity, flooring at zero. The sale path has
// never maintained stock value; that stays with purchases and adjustments.
func (t *tx) DeductStock(productID string, quantity int) {
	t.mutateProduct(productID, func(p *catalog.Product) {
		p.Quantity = max(0, p.Quantity-quantity)
	})
}

// RestoreStock puts sold quantity back.
func (t *tx) RestoreStock(productID string, quantity int) {
	t.mutateProduct(productID, func(p *catalog.Product) {
		p.Quantity += quantity
	})
}

// SetStock pins a product to a counted quantity and refreshes its stock
// value. Inventory adjustments use it.
func (t *tx) SetStock(productID string, quantity int) {
	t.mutateProduct(productID, func(p *catalog.Product) {
		p.Quantity = quantity
		p.StockValue = int64(p.Quantity) * p.PurchasePriceHT
	})
}

func (t *tx) mutateProduct(id string, fn func(p *catalog.Product)) {
	for i := range t.staged.Products {
		if t.staged.Products[i].ID == id {
			fn(&t.staged.Products[i])
			return
		}
	}
}

// --- purchases ---

func (t *tx) Purchase(id string) (*purchase.Purchase, bool) {
	for _, p := range t.staged.Purchases {
		if p.ID == id {
			p.Items = slices.Clone(p.Items)
			return &p, true
		}
	}

	return nil, false
}

func (t *tx) CreatePurchase(p *purchase.Purchase) {
	cp := *p
	cp.Items = slices.Clone(p.Items)
	t.staged.Purchases = append(t.staged.Purchases, cp)
}

func (t *tx) UpdatePurchase(p *purchase.Purchase) {
	for i := range t.staged.Purchases {
		if t.staged.Purchases[i].ID == p.ID {
			cp := *p
			cp.Items = slices.Clone(p.Items)
			t.staged.Purchases[i] = cp

			return
		}
	}
}

func (t *tx) DeletePurchase(id string) {
	t.staged.Purchases = slices.DeleteFunc(t.staged.Purchases, func(p purchase.Purchase) bool { return p.ID == id })
}

// --- sales ---

func (t *tx) Sale(id string) (*sale.Sale, bool) {
	for _, s := range t.staged.Sales {
		if s.ID == id {
			s.Items = slices.Clone(s.Items)
			return &s, true
		}
	}

	return nil, false
}

func (t *tx) CreateSale(s *sale.Sale) {
	cp := *s
	cp.Items = slices.Clone(s.Items)
	t.staged.Sales = append(t.staged.Sales, cp)
}

func (t *tx) UpdateSale(s *sale.Sale) {
	for i := range t.staged.Sales {
		if t.staged.Sales[i].ID == s.ID {
			cp := *s
			cp.Items = slices.Clone(s.Items)
			t.staged.Sales[i] = cp

			return
		}
	}
}

func (t *tx) DeleteSale(id string) {
	t.staged.Sales = slices.DeleteFunc(t.staged.Sales, func(s sale.Sale) bool { return s.ID == id })
}

// --- movements ---

func (t *tx) AppendMovement(m inventory.Movement) {
	t.staged.Movements = append(t.staged.Movements, m)
}

func (t *tx) DeleteMovementsByRef(ref string) {
	t.staged.Movements = slices.DeleteFunc(t.staged.Movements, func(m inventory.Movement) bool {
		return m.DocumentRef == ref
	})
}

// --- treasury ---

func (t *tx) Account(id string) (*treasury.Account, bool) {
	for _, a := range t.staged.Accounts {
		if a.ID == id {
			return &a, true
		}
	}

	return nil, false
}

func (t *tx) DebitAccount(id string, amount int64) {
	t.mutateAccount(id, func(a *treasury.Account) { a.Balance -= amount })
}

func (t *tx) CreditAccount(id string, amount int64) {
	t.mutateAccount(id, func(a *treasury.Account) { a.Balance += amount })
}

func (t *tx) AppendTransfer(tr treasury.Transfer) {
	t.staged.Transfers = append(t.staged.Transfers, tr)
}

func (t *tx) deleteAccount(id string) {
	t.staged.Accounts = slices.DeleteFunc(t.staged.Accounts, func(a treasury.Account) bool { return a.ID == id })
}

func (t *tx) mutateAccount(id string, fn func(a *treasury.Account)) {
	for i := range t.staged.Accounts {
		if t.staged.Accounts[i].ID == id {
			fn(&t.staged.Accounts[i])
			return
		}
	}
}

// --- users ---

func (t *tx) findUser(match func(u *auth.User) bool) (*auth.User, bool) {
	for _, u := range t.staged.Users {
		if match(&u) {
			u.Permissions = slices.Clone(u.Permissions)
			return &u, true
		}
	}

	return nil, false
}

func (t *tx) User(id string) (*auth.User, bool) {
	return t.findUser(func(u *auth.User) bool { return u.ID == id })
}

func (t *tx) UserByUsername(username string) (*auth.User, bool) {
	return t.findUser(func(u *auth.User) bool {
		return strings.EqualFold(u.Username, username)
	})
}

func (t *tx) CreateUser(u *auth.User) {
	cp := *u
	cp.Permissions = slices.Clone(u.Permissions)
	t.staged.Users = append(t.staged.Users, cp)
}

func (t *tx) UpdateUser(u *auth.User) {
	for i := range t.staged.Users {
		if t.staged.Users[i].ID == u.ID {
			cp := *u
			cp.Permissions = slices.Clone(u.Permissions)
			t.staged.Users[i] = cp

			return
		}
	}
}

func (t *tx) DeleteUser(id string) {
	t.staged.Users = slices.DeleteFunc(t.staged.Users, func(u auth.User) bool { return u.ID == id })
}

func (t *tx) StampLastLogin(id string, at time.Time) {
	for i := range t.staged.Users {
		if t.staged.Users[i].ID == id {
			t.staged.Users[i].LastLogin = &at
			return
		}
	}
}

// deleteWhere runs del and reports whether it removed anything.
func (t *tx) deleteWhere(del func(s *Snapshot), count func(s *Snapshot) int) bool {
	before := count(t.staged)
	del(t.staged)

	return count(t.staged) < before
}

// --- directory ---

func (t *tx) CreateClient(c *directory.Client) {
	t.staged.Clients = append(t.staged.Clients, *c)
}

func (t *tx) UpdateClient(c *directory.Client) {
	for i := range t.staged.Clients {
		if t.staged.Clients[i].ID == c.ID {
			t.staged.Clients[i] = *c
			return
		}
	}
}

func (t *tx) DeleteClient(id string) bool {
	return t.deleteWhere(func(s *Snapshot) {
		s.Clients = slices.DeleteFunc(s.Clients, func(c directory.Client) bool { return c.ID == id })
	}, func(s *Snapshot) int { return len(s.Clients) })
}

func (t *tx) CreateSupplier(sup *directory.Supplier) {
	t.staged.Suppliers = append(t.staged.Suppliers, *sup)
}

func (t *tx) UpdateSupplier(sup *directory.Supplier) {
	for i := range t.staged.Suppliers {
		if t.staged.Suppliers[i].ID == sup.ID {
			t.staged.Suppliers[i] = *sup
			return
		}
	}
}

func (t *tx) DeleteSupplier(id string) bool {
	return t.deleteWhere(func(s *Snapshot) {
		s.Suppliers = slices.DeleteFunc(s.Suppliers, func(sup directory.Supplier) bool { return sup.ID == id })
	}, func(s *Snapshot) int { return len(s.Suppliers) })
}
