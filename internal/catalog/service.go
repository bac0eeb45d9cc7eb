package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("product not found")
	ErrDuplicateReference = errors.New("product reference already exists")
	ErrMissingField       = errors.New("missing required field")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=catalog
type Repository interface {
	GetProduct(ctx context.Context, id string) (*Product, error)
	FindProductByReference(ctx context.Context, reference string) (*Product, error)
	ListProducts(ctx context.Context) ([]*Product, error)
	CreateProduct(ctx context.Context, p *Product) error
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id string) error

	// ReplaceCatalog swaps the whole product collection and clears
	// movements and sales in the same transaction.
	ReplaceCatalog(ctx context.Context, products []*Product) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Reference        string
	Designation      string
	Family           string
	SubFamily        string
	VATRate          float64
	PurchasePriceHT  int64
	RetailPriceHT    int64
	WholesalePriceHT int64
	Quantity         int
	MinStock         int
	Unit             Unit
	Location         string
	Perishable       bool
	ExpiryDate       *time.Time
	SupplierID       string
	Barcode          string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Product, error) {
	if strings.TrimSpace(params.Reference) == "" {
		return nil, fmt.Errorf("%w: reference", ErrMissingField)
	}

	if strings.TrimSpace(params.Designation) == "" {
		return nil, fmt.Errorf("%w: designation", ErrMissingField)
	}

	existing, err := s.repo.FindProductByReference(ctx, params.Reference)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("checking reference: %w", err)
	}

	if existing != nil {
		return nil, ErrDuplicateReference
	}

	p := fromCreateParams(params)
	p.ID = uuid.NewString()

	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}

	return p, nil
}

type UpdateParams struct {
	Reference        *string
	Designation      *string
	Family           *string
	SubFamily        *string
	VATRate          *float64
	PurchasePriceHT  *int64
	RetailPriceHT    *int64
	WholesalePriceHT *int64
	Quantity         *int
	MinStock         *int
	Unit             *Unit
	Location         *string
	Perishable       *bool
	ExpiryDate       *time.Time
	SupplierID       *string
	Barcode          *string
}

func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*Product, error) {
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Reference != nil {
		other, err := s.repo.FindProductByReference(ctx, *params.Reference)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("checking reference: %w", err)
		}

		if other != nil && other.ID != id {
			return nil, ErrDuplicateReference
		}

		p.Reference = *params.Reference
	}

	if params.Designation != nil {
		p.Designation = *params.Designation
	}

	if params.Family != nil {
		p.Family = *params.Family
	}

	if params.SubFamily != nil {
		p.SubFamily = *params.SubFamily
	}

	if params.VATRate != nil {
		p.VATRate = *params.VATRate
	}

	if params.PurchasePriceHT != nil {
		p.PurchasePriceHT = *params.PurchasePriceHT
	}

	if params.RetailPriceHT != nil {
		p.RetailPriceHT = *params.RetailPriceHT
	}

	if params.WholesalePriceHT != nil {
		p.WholesalePriceHT = *params.WholesalePriceHT
	}

	if params.Quantity != nil {
		p.Quantity = *params.Quantity
	}

	if params.MinStock != nil {
		p.MinStock = *params.MinStock
	}

	if params.Unit != nil {
		p.Unit = *params.Unit
	}

	if params.Location != nil {
		p.Location = *params.Location
	}

	if params.Perishable != nil {
		p.Perishable = *params.Perishable
	}

	if params.ExpiryDate != nil {
		p.ExpiryDate = params.ExpiryDate
	}

	if params.SupplierID != nil {
		p.SupplierID = *params.SupplierID
	}

	if params.Barcode != nil {
		p.Barcode = *params.Barcode
	}

	ComputeDerived(p)

	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("updating product: %w", err)
	}

	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteProduct(ctx, id)
}

// ReplaceAll replaces the entire catalog with the given entries. Movements
// and sales are cleared as part of the swap; callers are expected to gate
// this behind an explicit confirmation.
func (s *Service) ReplaceAll(ctx context.Context, params []CreateParams) ([]*Product, error) {
	products := make([]*Product, len(params))

	for i, cp := range params {
		p := fromCreateParams(cp)
		p.ID = uuid.NewString()
		products[i] = p
	}

	if err := s.repo.ReplaceCatalog(ctx, products); err != nil {
		return nil, fmt.Errorf("replacing catalog: %w", err)
	}

	return products, nil
}

func fromCreateParams(params CreateParams) *Product {
	unit := params.Unit
	if unit == "" {
		unit = UnitPiece
	}

	p := &Product{
		Reference:        strings.TrimSpace(params.Reference),
		Designation:      strings.TrimSpace(params.Designation),
		Family:           params.Family,
		SubFamily:        params.SubFamily,
		VATRate:          params.VATRate,
		PurchasePriceHT:  params.PurchasePriceHT,
		RetailPriceHT:    params.RetailPriceHT,
		WholesalePriceHT: params.WholesalePriceHT,
		Quantity:         params.Quantity,
		MinStock:         params.MinStock,
		Unit:             unit,
		Location:         params.Location,
		Perishable:       params.Perishable,
		ExpiryDate:       params.ExpiryDate,
		SupplierID:       params.SupplierID,
		Barcode:          params.Barcode,
	}

	ComputeDerived(p)

	return p
}

// ComputeDerived refreshes the TTC prices, margin and stock value from the
// HT prices, VAT rate and quantity.
func ComputeDerived(p *Product) {
	p.PurchasePriceTTC = WithVAT(p.PurchasePriceHT, p.VATRate)
	p.RetailPriceTTC = WithVAT(p.RetailPriceHT, p.VATRate)
	p.WholesalePriceTTC = WithVAT(p.WholesalePriceHT, p.VATRate)
	p.StockValue = int64(p.Quantity) * p.PurchasePriceHT

	if p.PurchasePriceHT > 0 {
		p.MarginPct = float64(p.RetailPriceHT-p.PurchasePriceHT) / float64(p.PurchasePriceHT) * 100
	} else {
		p.MarginPct = 0
	}
}

// WithVAT converts a pre-tax amount in centimes to its tax-inclusive value.
func WithVAT(amountHT int64, rate float64) int64 {
	return int64(math.Round(float64(amountHT) * (1 + rate/100)))
}
