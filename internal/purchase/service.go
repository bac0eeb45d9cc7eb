package purchase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sbenali/autostock/internal/inventory"
)

var (
	ErrNotFound      = errors.New("purchase not found")
	ErrInvalidStatus = errors.New("invalid purchase status")
	ErrNoItems       = errors.New("purchase needs at least one item")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=purchase
type Repository interface {
	GetPurchase(ctx context.Context, id string) (*Purchase, error)
	ListPurchases(ctx context.Context) ([]*Purchase, error)
	Begin(ctx context.Context) (Tx, error)
}

// Tx is one atomic unit of work over the aggregate state: the purchase
// record, the product stock counts and the movement ledger all change in
// the same snapshot swap or not at all.
type Tx interface {
	Purchase(id string) (*Purchase, bool)
	CreatePurchase(p *Purchase)
	UpdatePurchase(p *Purchase)
	DeletePurchase(id string)

	// ReceiveStock adds quantity to a product and recomputes its stock
	// value. Unknown product ids are ignored, matching the tolerance for
	// dangling references elsewhere.
	ReceiveStock(productID string, quantity int)

	// ReleaseStock removes quantity from a product, flooring at zero, and
	// recomputes its stock value from the floored count.
	ReleaseStock(productID string, quantity int)

	AppendMovement(m inventory.Movement)

	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type CreateParams struct {
	Date       time.Time
	SupplierID string
	Items      []Item
	TotalHT    int64
	AmountPaid int64
	Status     Status
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Purchase, error) {
	if len(params.Items) == 0 {
		return nil, ErrNoItems
	}

	status := params.Status
	if status == "" {
		status = StatusPending
	}

	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	date := params.Date
	if date.IsZero() {
		date = s.now()
	}

	total := params.TotalHT
	if total == 0 {
		total = itemsTotal(params.Items)
	}

	p := &Purchase{
		ID:          uuid.NewString(),
		Date:        date,
		SupplierID:  params.SupplierID,
		Items:       params.Items,
		TotalHT:     total,
		AmountPaid:  params.AmountPaid,
		Outstanding: total - params.AmountPaid,
		Status:      status,
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning purchase create: %w", err)
	}
	defer tx.Rollback()

	tx.CreatePurchase(p)

	if p.Status == StatusReceived {
		s.bookReceipt(tx, p.Items, p.Date, fmt.Sprintf("Order %s received", p.ID), "PO-"+p.ID)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing purchase create: %w", err)
	}

	return p, nil
}

type UpdateParams struct {
	Date       *time.Time
	SupplierID *string
	Items      *[]Item
	TotalHT    *int64
	AmountPaid *int64
	Status     *Status
}

// Update edits a purchase order. A status transition into received books
// stock in using the order's existing item list; a transition out of
// received reverses it with compensating exit movements. Field edits that
// leave the status alone never touch stock or the ledger.
func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*Purchase, error) {
	if params.Status != nil && !params.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, *params.Status)
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning purchase update: %w", err)
	}
	defer tx.Rollback()

	existing, ok := tx.Purchase(id)
	if !ok {
		return nil, ErrNotFound
	}

	updated := *existing
	updated.Items = append([]Item(nil), existing.Items...)

	if params.Date != nil {
		updated.Date = *params.Date
	}

	if params.SupplierID != nil {
		updated.SupplierID = *params.SupplierID
	}

	if params.Items != nil {
		updated.Items = *params.Items
	}

	if params.TotalHT != nil {
		updated.TotalHT = *params.TotalHT
	}

	if params.AmountPaid != nil {
		updated.AmountPaid = *params.AmountPaid
	}

	if params.Status != nil {
		updated.Status = *params.Status
	}

	updated.Outstanding = updated.TotalHT - updated.AmountPaid

	// Stock effects are driven by the status transition alone and always
	// use the item list as it was before the edit.
	switch {
	case existing.Status != StatusReceived && updated.Status == StatusReceived:
		s.bookReceipt(tx, existing.Items, updated.Date, fmt.Sprintf("Order %s received (updated)", id), "PO-"+id)

	case existing.Status == StatusReceived && updated.Status != StatusReceived:
		s.bookReversal(tx, existing.Items, fmt.Sprintf("Receipt of order %s cancelled", id), "REV-PO-"+id)
	}

	tx.UpdatePurchase(&updated)

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing purchase update: %w", err)
	}

	return &updated, nil
}

// Delete removes a purchase order. Orders deleted while received have their
// stock effect reversed first, tagged as a deletion reversal.
func (s *Service) Delete(ctx context.Context, id string) error {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning purchase delete: %w", err)
	}
	defer tx.Rollback()

	existing, ok := tx.Purchase(id)
	if !ok {
		return ErrNotFound
	}

	if existing.Status == StatusReceived {
		s.bookReversal(tx, existing.Items, fmt.Sprintf("Order %s deleted", id), "DEL-PO-"+id)
	}

	tx.DeletePurchase(id)

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing purchase delete: %w", err)
	}

	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*Purchase, error) {
	return s.repo.GetPurchase(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Purchase, error) {
	return s.repo.ListPurchases(ctx)
}

func (s *Service) bookReceipt(tx Tx, items []Item, date time.Time, comment, docRef string) {
	for _, item := range items {
		tx.ReceiveStock(item.ProductID, item.Quantity)
		tx.AppendMovement(inventory.Movement{
			ID:          uuid.NewString(),
			ProductID:   item.ProductID,
			Direction:   inventory.DirectionEntry,
			Quantity:    item.Quantity,
			Date:        date,
			Comment:     comment,
			DocumentRef: docRef,
		})
	}
}

func (s *Service) bookReversal(tx Tx, items []Item, comment, docRef string) {
	for _, item := range items {
		tx.ReleaseStock(item.ProductID, item.Quantity)
		tx.AppendMovement(inventory.Movement{
			ID:          uuid.NewString(),
			ProductID:   item.ProductID,
			Direction:   inventory.DirectionExit,
			Quantity:    item.Quantity,
			Date:        s.now(),
			Comment:     comment,
			DocumentRef: docRef,
		})
	}
}

func itemsTotal(items []Item) int64 {
	var total int64
	for _, item := range items {
		total += int64(item.Quantity) * item.UnitPriceHT
	}

	return total
}
