package sale

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sbenali/autostock/internal/inventory"
)

var (
	ErrNotFound       = errors.New("sale not found")
	ErrNoItems        = errors.New("sale needs at least one item")
	ErrInvalidPayment = errors.New("invalid payment method")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=sale
type Repository interface {
	GetSale(ctx context.Context, id string) (*Sale, error)
	ListSales(ctx context.Context) ([]*Sale, error)
	Begin(ctx context.Context) (Tx, error)
}

// Tx is one atomic unit of work over the aggregate state: the sale record,
// product stock and the movement ledger change in one snapshot swap.
type Tx interface {
	Sale(id string) (*Sale, bool)
	CreateSale(s *Sale)
	UpdateSale(s *Sale)
	DeleteSale(id string)

	// DeductStock removes quantity from a product, flooring at zero. An
	// oversell clamps the count instead of failing; the difference is not
	// tracked. Stock value is left alone on the sale path.
	DeductStock(productID string, quantity int)

	// RestoreStock adds quantity back to a product.
	RestoreStock(productID string, quantity int)

	AppendMovement(m inventory.Movement)

	// DeleteMovementsByRef drops every ledger entry whose document
	// reference equals ref. Only sale edits use this; purchases always
	// compensate instead.
	DeleteMovementsByRef(ref string)

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
	Date          time.Time
	ClientID      string
	Items         []Item
	Total         int64
	PaymentMethod PaymentMethod
}

// Create records a ticket, deducts stock for every line (clamping at zero)
// and appends one exit movement per line tagged with the sale id.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Sale, error) {
	if len(params.Items) == 0 {
		return nil, ErrNoItems
	}

	if !params.PaymentMethod.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPayment, params.PaymentMethod)
	}

	date := params.Date
	if date.IsZero() {
		date = s.now()
	}

	total := params.Total
	if total == 0 {
		total = itemsTotal(params.Items)
	}

	sl := &Sale{
		ID:            uuid.NewString(),
		Date:          date,
		ClientID:      params.ClientID,
		Items:         params.Items,
		Total:         total,
		PaymentMethod: params.PaymentMethod,
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning sale create: %w", err)
	}
	defer tx.Rollback()

	tx.CreateSale(sl)

	for _, item := range sl.Items {
		tx.DeductStock(item.ProductID, item.Quantity)
		tx.AppendMovement(inventory.Movement{
			ID:          uuid.NewString(),
			ProductID:   item.ProductID,
			Direction:   inventory.DirectionExit,
			Quantity:    item.Quantity,
			Date:        sl.Date,
			Comment:     fmt.Sprintf("Sale %s", sl.ID),
			DocumentRef: sl.ID,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing sale create: %w", err)
	}

	return sl, nil
}

// Delete removes a ticket, restores the sold quantities and appends
// compensating entry movements.
func (s *Service) Delete(ctx context.Context, id string) error {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning sale delete: %w", err)
	}
	defer tx.Rollback()

	existing, ok := tx.Sale(id)
	if !ok {
		return ErrNotFound
	}

	for _, item := range existing.Items {
		tx.RestoreStock(item.ProductID, item.Quantity)
		tx.AppendMovement(inventory.Movement{
			ID:          uuid.NewString(),
			ProductID:   item.ProductID,
			Direction:   inventory.DirectionEntry,
			Quantity:    item.Quantity,
			Date:        s.now(),
			Comment:     fmt.Sprintf("Sale %s deleted, stock restored", id),
			DocumentRef: "DEL-" + id,
		})
	}

	tx.DeleteSale(id)

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing sale delete: %w", err)
	}

	return nil
}

type UpdateParams struct {
	Date          *time.Time
	ClientID      *string
	Items         *[]Item
	Total         *int64
	PaymentMethod *PaymentMethod
}

// Update edits a ticket. Stock is restored for every original line first;
// when a new item list is given the new quantities are deducted (clamping
// at zero) afterwards, so the net stock effect equals delete-then-recreate.
// Ledger handling differs from purchases on purpose: movements tagged with
// the sale id are dropped and reissued rather than compensated, so the
// ledger shows only the latest version of the ticket.
func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*Sale, error) {
	if params.PaymentMethod != nil && !params.PaymentMethod.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPayment, *params.PaymentMethod)
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning sale update: %w", err)
	}
	defer tx.Rollback()

	existing, ok := tx.Sale(id)
	if !ok {
		return nil, ErrNotFound
	}

	updated := *existing
	updated.Items = append([]Item(nil), existing.Items...)

	if params.Date != nil {
		updated.Date = *params.Date
	}

	if params.ClientID != nil {
		updated.ClientID = *params.ClientID
	}

	if params.Items != nil {
		updated.Items = *params.Items
	}

	if params.Total != nil {
		updated.Total = *params.Total
	}

	if params.PaymentMethod != nil {
		updated.PaymentMethod = *params.PaymentMethod
	}

	for _, item := range existing.Items {
		tx.RestoreStock(item.ProductID, item.Quantity)
	}

	if params.Items != nil {
		for _, item := range updated.Items {
			tx.DeductStock(item.ProductID, item.Quantity)
		}
	}

	tx.DeleteMovementsByRef(id)

	if params.Items != nil {
		for _, item := range updated.Items {
			tx.AppendMovement(inventory.Movement{
				ID:          uuid.NewString(),
				ProductID:   item.ProductID,
				Direction:   inventory.DirectionExit,
				Quantity:    item.Quantity,
				Date:        updated.Date,
				Comment:     fmt.Sprintf("Sale %s updated", id),
				DocumentRef: id,
			})
		}
	}

	tx.UpdateSale(&updated)

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing sale update: %w", err)
	}

	return &updated, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Sale, error) {
	return s.repo.GetSale(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Sale, error) {
	return s.repo.ListSales(ctx)
}

func itemsTotal(items []Item) int64 {
	var total int64
	for _, item := range items {
		total += int64(item.Quantity) * item.UnitPrice
	}

	return total
}
