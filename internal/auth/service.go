package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned for every login failure. Wrong
	// password, unknown username and deactivated account are deliberately
	// indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrMissingField      = errors.New("missing required field")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=auth
type Repository interface {
	FindUserByUsername(ctx context.Context, username string) (*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	CreateUser(ctx context.Context, u *User) error
	UpdateUser(ctx context.Context, u *User) error
	DeleteUser(ctx context.Context, id string) error
	StampLastLogin(ctx context.Context, id string, at time.Time) error
}

type Service struct {
	repo   Repository
	tokens *TokenIssuer
	now    func() time.Time
}

func NewService(repo Repository, tokens *TokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens, now: time.Now}
}

// Login authenticates a username/password pair against active users. On
// success the user's last-login timestamp is stamped and a signed token is
// returned. A failed attempt leaves the user record untouched.
func (s *Service) Login(ctx context.Context, username, password string) (*User, string, error) {
	u, err := s.repo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}

		return nil, "", fmt.Errorf("looking up user: %w", err)
	}

	if !u.Active {
		return nil, "", ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	at := s.now()
	if err := s.repo.StampLastLogin(ctx, u.ID, at); err != nil {
		return nil, "", fmt.Errorf("stamping last login: %w", err)
	}

	u.LastLogin = &at

	token, err := s.tokens.Mint(u)
	if err != nil {
		return nil, "", fmt.Errorf("minting token: %w", err)
	}

	return u, token, nil
}

// VerifyPassword re-checks the current user's password. Destructive
// operations use it as their confirmation gate.
func (s *Service) VerifyPassword(ctx context.Context, userID, password string) error {
	u, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return ErrInvalidCredentials
	}

	return nil
}

func (s *Service) VerifyToken(token string) (*Claims, error) {
	return s.tokens.Verify(token)
}

type CreateUserParams struct {
	Username    string
	Password    string
	Role        Role
	Permissions []string
	Active      bool
}

func (s *Service) CreateUser(ctx context.Context, params CreateUserParams) (*User, error) {
	username := strings.TrimSpace(params.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username", ErrMissingField)
	}

	if params.Password == "" {
		return nil, fmt.Errorf("%w: password", ErrMissingField)
	}

	role := params.Role
	if role == "" {
		role = RoleUser
	}

	if !role.Valid() {
		return nil, fmt.Errorf("invalid role %q", role)
	}

	existing, err := s.repo.FindUserByUsername(ctx, username)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("checking username: %w", err)
	}

	if existing != nil {
		return nil, ErrDuplicateUsername
	}

	hash, err := HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		Permissions:  params.Permissions,
		Active:       params.Active,
		CreatedAt:    s.now(),
	}

	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return u, nil
}

type UpdateUserParams struct {
	Password    *string
	Role        *Role
	Permissions *[]string
	Active      *bool
}

func (s *Service) UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*User, error) {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Password != nil && *params.Password != "" {
		hash, err := HashPassword(*params.Password)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}

		u.PasswordHash = hash
	}

	if params.Role != nil {
		if !params.Role.Valid() {
			return nil, fmt.Errorf("invalid role %q", *params.Role)
		}

		u.Role = *params.Role
	}

	if params.Permissions != nil {
		u.Permissions = *params.Permissions
	}

	if params.Active != nil {
		u.Active = *params.Active
	}

	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}

	return u, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.repo.DeleteUser(ctx, id)
}

// HashPassword produces a bcrypt hash at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}
