package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrClientNotFound   = errors.New("client not found")
	ErrSupplierNotFound = errors.New("supplier not found")
	ErrMissingName      = errors.New("name is required")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=directory
type Repository interface {
	GetClient(ctx context.Context, id string) (*Client, error)
	ListClients(ctx context.Context) ([]*Client, error)
	CreateClient(ctx context.Context, c *Client) error
	UpdateClient(ctx context.Context, c *Client) error
	DeleteClient(ctx context.Context, id string) error

	GetSupplier(ctx context.Context, id string) (*Supplier, error)
	ListSuppliers(ctx context.Context) ([]*Supplier, error)
	CreateSupplier(ctx context.Context, s *Supplier) error
	UpdateSupplier(ctx context.Context, s *Supplier) error
	DeleteSupplier(ctx context.Context, id string) error
}

// Service covers the client and supplier collections. Deleting either kind
// of entity never cascades: sales and purchases keep their references and
// resolve them lazily at display time.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type ContactParams struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

type ContactUpdate struct {
	Name    *string
	Address *string
	Phone   *string
	Email   *string
}

func (s *Service) CreateClient(ctx context.Context, params ContactParams) (*Client, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, ErrMissingName
	}

	c := &Client{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(params.Name),
		Address:   params.Address,
		Phone:     params.Phone,
		Email:     params.Email,
		CreatedAt: s.now(),
	}

	if err := s.repo.CreateClient(ctx, c); err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	return c, nil
}

func (s *Service) UpdateClient(ctx context.Context, id string, params ContactUpdate) (*Client, error) {
	c, err := s.repo.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}

	applyContactUpdate(params, &c.Name, &c.Address, &c.Phone, &c.Email)

	if err := s.repo.UpdateClient(ctx, c); err != nil {
		return nil, fmt.Errorf("updating client: %w", err)
	}

	return c, nil
}

func (s *Service) GetClient(ctx context.Context, id string) (*Client, error) {
	return s.repo.GetClient(ctx, id)
}

func (s *Service) ListClients(ctx context.Context) ([]*Client, error) {
	return s.repo.ListClients(ctx)
}

func (s *Service) DeleteClient(ctx context.Context, id string) error {
	return s.repo.DeleteClient(ctx, id)
}

func (s *Service) CreateSupplier(ctx context.Context, params ContactParams) (*Supplier, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, ErrMissingName
	}

	sup := &Supplier{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(params.Name),
		Address:   params.Address,
		Phone:     params.Phone,
		Email:     params.Email,
		CreatedAt: s.now(),
	}

	if err := s.repo.CreateSupplier(ctx, sup); err != nil {
		return nil, fmt.Errorf("creating supplier: %w", err)
	}

	return sup, nil
}

func (s *Service) UpdateSupplier(ctx context.Context, id string, params ContactUpdate) (*Supplier, error) {
	sup, err := s.repo.GetSupplier(ctx, id)
	if err != nil {
		return nil, err
	}

	applyContactUpdate(params, &sup.Name, &sup.Address, &sup.Phone, &sup.Email)

	if err := s.repo.UpdateSupplier(ctx, sup); err != nil {
		return nil, fmt.Errorf("updating supplier: %w", err)
	}

	return sup, nil
}

func (s *Service) GetSupplier(ctx context.Context, id string) (*Supplier, error) {
	return s.repo.GetSupplier(ctx, id)
}

func (s *Service) ListSuppliers(ctx context.Context) ([]*Supplier, error) {
	return s.repo.ListSuppliers(ctx)
}

func (s *Service) DeleteSupplier(ctx context.Context, id string) error {
	return s.repo.DeleteSupplier(ctx, id)
}

func applyContactUpdate(params ContactUpdate, name, address, phone, email *string) {
	if params.Name != nil && strings.TrimSpace(*params.Name) != "" {
		*name = strings.TrimSpace(*params.Name)
	}

	if params.Address != nil {
		*address = *params.Address
	}

	if params.Phone != nil {
		*phone = *params.Phone
	}

	if params.Email != nil {
		*email = *params.Email
	}
}
