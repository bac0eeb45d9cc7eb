package treasury

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("account not found")
	ErrMissingName = errors.New("account name is required")
	ErrBadAmount   = errors.New("transfer amount must be positive")
	ErrBadType     = errors.New("invalid account type")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=treasury
type Repository interface {
	GetAccount(ctx context.Context, id string) (*Account, error)
	ListAccounts(ctx context.Context) ([]*Account, error)
	CreateAccount(ctx context.Context, a *Account) error
	UpdateAccount(ctx context.Context, a *Account) error
	DeleteAccount(ctx context.Context, id string) error
	ListTransfers(ctx context.Context) ([]*Transfer, error)
	Begin(ctx context.Context) (Tx, error)
}

// Tx debits, credits and records a transfer in one snapshot swap.
type Tx interface {
	Account(id string) (*Account, bool)
	DebitAccount(id string, amount int64)
	CreditAccount(id string, amount int64)
	AppendTransfer(t Transfer)
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

type AccountParams struct {
	Name        string
	Balance     int64
	Type        AccountType
	Description string
}

func (s *Service) CreateAccount(ctx context.Context, params AccountParams) (*Account, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, ErrMissingName
	}

	typ := params.Type
	if typ == "" {
		typ = AccountOther
	}

	if !typ.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrBadType, typ)
	}

	a := &Account{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(params.Name),
		Balance:     params.Balance,
		Type:        typ,
		Description: params.Description,
	}

	if err := s.repo.CreateAccount(ctx, a); err != nil {
		return nil, fmt.Errorf("creating account: %w", err)
	}

	return a, nil
}

type AccountUpdate struct {
	Name        *string
	Type        *AccountType
	Description *string
}

func (s *Service) UpdateAccount(ctx context.Context, id string, params AccountUpdate) (*Account, error) {
	a, err := s.repo.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil && strings.TrimSpace(*params.Name) != "" {
		a.Name = strings.TrimSpace(*params.Name)
	}

	if params.Type != nil {
		if !params.Type.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrBadType, *params.Type)
		}

		a.Type = *params.Type
	}

	if params.Description != nil {
		a.Description = *params.Description
	}

	if err := s.repo.UpdateAccount(ctx, a); err != nil {
		return nil, fmt.Errorf("updating account: %w", err)
	}

	return a, nil
}

func (s *Service) GetAccount(ctx context.Context, id string) (*Account, error) {
	return s.repo.GetAccount(ctx, id)
}

func (s *Service) ListAccounts(ctx context.Context) ([]*Account, error) {
	return s.repo.ListAccounts(ctx)
}

func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	return s.repo.DeleteAccount(ctx, id)
}

func (s *Service) ListTransfers(ctx context.Context) ([]*Transfer, error) {
	return s.repo.ListTransfers(ctx)
}

type TransferParams struct {
	Date          time.Time
	FromAccountID string
	ToAccountID   string
	Amount        int64
	Description   string
}

// Transfer debits the source and credits the destination atomically and
// appends the transfer to history. A transfer onto the same account is a
// complete no-op: no record, no balance change, nil result. Overdrafts are
// allowed; balances are signed.
func (s *Service) Transfer(ctx context.Context, params TransferParams) (*Transfer, error) {
	if params.FromAccountID == params.ToAccountID {
		return nil, nil
	}

	if params.Amount <= 0 {
		return nil, ErrBadAmount
	}

	date := params.Date
	if date.IsZero() {
		date = s.now()
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transfer: %w", err)
	}
	defer tx.Rollback()

	if _, ok := tx.Account(params.FromAccountID); !ok {
		return nil, fmt.Errorf("source: %w", ErrNotFound)
	}

	if _, ok := tx.Account(params.ToAccountID); !ok {
		return nil, fmt.Errorf("destination: %w", ErrNotFound)
	}

	t := Transfer{
		ID:            uuid.NewString(),
		Date:          date,
		FromAccountID: params.FromAccountID,
		ToAccountID:   params.ToAccountID,
		Amount:        params.Amount,
		Description:   params.Description,
	}

	tx.DebitAccount(t.FromAccountID, t.Amount)
	tx.CreditAccount(t.ToAccountID, t.Amount)
	tx.AppendTransfer(t)

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transfer: %w", err)
	}

	return &t, nil
}
