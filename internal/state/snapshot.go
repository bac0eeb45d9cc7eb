package state

import (
	"slices"
	"time"

	"github.com/sbenali/autostock/internal/auth"
	"github.com/sbenali/autostock/internal/catalog"
	"github.com/sbenali/autostock/internal/directory"
	"github.com/sbenali/autostock/internal/inventory"
	"github.com/sbenali/autostock/internal/purchase"
	"github.com/sbenali/autostock/internal/sale"
	"github.com/sbenali/autostock/internal/treasury"
)

// Snapshot is the whole application state as one document. It is owned
// exclusively by the Store, persisted wholesale after every mutation and
// shipped as-is to backup sinks. All cross-entity references are opaque
// string ids; nothing holds a direct pointer across collections.
type Snapshot struct {
	Products  []catalog.Product    `json:"products"`
	Clients   []directory.Client   `json:"clients"`
	Suppliers []directory.Supplier `json:"suppliers"`
	Purchases []purchase.Purchase  `json:"purchases"`
	Sales     []sale.Sale          `json:"sales"`
	Movements []inventory.Movement `json:"movements"`
	Accounts  []treasury.Account   `json:"accounts"`
	Transfers []treasury.Transfer  `json:"transfers"`
	Users     []auth.User          `json:"users"`

	ExportedAt time.Time `json:"exported_at"`
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// Clone deep-copies the snapshot so a staged transaction can mutate freely
// without aliasing the published state.
func (s *Snapshot) Clone() *Snapshot {
	c := *s

	c.Products = slices.Clone(s.Products)
	c.Clients = slices.Clone(s.Clients)
	c.Suppliers = slices.Clone(s.Suppliers)
	c.Movements = slices.Clone(s.Movements)
	c.Accounts = slices.Clone(s.Accounts)
	c.Transfers = slices.Clone(s.Transfers)

	c.Purchases = make([]purchase.Purchase, len(s.Purchases))
	for i, p := range s.Purchases {
		p.Items = slices.Clone(p.Items)
		c.Purchases[i] = p
	}

	c.Sales = make([]sale.Sale, len(s.Sales))
	for i, sl := range s.Sales {
		sl.Items = slices.Clone(sl.Items)
		c.Sales[i] = sl
	}

	c.Users = make([]auth.User, len(s.Users))
	for i, u := range s.Users {
		u.Permissions = slices.Clone(u.Permissions)
		c.Users[i] = u
	}

	return &c
}
