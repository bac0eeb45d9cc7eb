package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sbenali/autostock/internal/catalog"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNoDifference    = errors.New("counted quantity equals current stock")
	ErrBadQuantity     = errors.New("quantity must be positive")
)

// ListFilter narrows the ledger by product and/or direction.
type ListFilter struct {
	ProductID *string
	Direction *Direction
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=inventory
type Repository interface {
	ListMovements(ctx context.Context, filter ListFilter) ([]*Movement, error)
	AppendMovement(ctx context.Context, m *Movement) error
	Begin(ctx context.Context) (Tx, error)
}

// Tx stages an adjustment so the stock write and its ledger entry land in
// the same snapshot swap.
type Tx interface {
	Product(id string) (*catalog.Product, bool)
	SetStock(productID string, quantity int)
	AppendMovement(m Movement)
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

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Movement, error) {
	return s.repo.ListMovements(ctx, filter)
}

type RecordParams struct {
	ProductID   string
	Direction   Direction
	Quantity    int
	Date        time.Time
	Comment     string
	DocumentRef string
}

// Record appends a free-standing ledger entry. It does not touch product
// stock; use Adjust when the count itself has to change.
func (s *Service) Record(ctx context.Context, params RecordParams) (*Movement, error) {
	if params.Quantity <= 0 {
		return nil, ErrBadQuantity
	}

	date := params.Date
	if date.IsZero() {
		date = s.now()
	}

	m := &Movement{
		ID:          uuid.NewString(),
		ProductID:   params.ProductID,
		Direction:   params.Direction,
		Quantity:    params.Quantity,
		Date:        date,
		Comment:     params.Comment,
		DocumentRef: params.DocumentRef,
	}

	if err := s.repo.AppendMovement(ctx, m); err != nil {
		return nil, fmt.Errorf("appending movement: %w", err)
	}

	return m, nil
}

// Adjust sets a product's stock to a counted quantity and appends one
// movement for the difference. A count equal to the current stock is
// rejected so the ledger never records zero-quantity movements.
func (s *Service) Adjust(ctx context.Context, productID string, counted int, reason string) (*Movement, error) {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning adjustment: %w", err)
	}
	defer tx.Rollback()

	p, ok := tx.Product(productID)
	if !ok {
		return nil, ErrProductNotFound
	}

	diff := counted - p.Quantity
	if diff == 0 {
		return nil, ErrNoDifference
	}

	direction := DirectionEntry
	if diff < 0 {
		direction = DirectionExit
		diff = -diff
	}

	m := Movement{
		ID:          uuid.NewString(),
		ProductID:   productID,
		Direction:   direction,
		Quantity:    diff,
		Date:        s.now(),
		Comment:     fmt.Sprintf("Inventory adjustment: %s", reason),
		DocumentRef: "INV-" + shortRef(),
	}

	tx.SetStock(productID, counted)
	tx.AppendMovement(m)

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing adjustment: %w", err)
	}

	return &m, nil
}

// shortRef is the document reference suffix used for adjustment movements.
func shortRef() string {
	return uuid.NewString()[:8]
}
