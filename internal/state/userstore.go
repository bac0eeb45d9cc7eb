package state

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/sbenali/autostock/internal/auth"
)

// UserStore adapts the aggregate store to auth.Repository.
type UserStore struct {
	s *Store
}

func NewUserStore(s *Store) *UserStore {
	return &UserStore{s: s}
}

func (us *UserStore) FindUserByUsername(_ context.Context, username string) (*auth.User, error) {
	var found *auth.User

	us.s.view(func(snap *Snapshot) {
		for _, u := range snap.Users {
			if strings.EqualFold(u.Username, username) {
				u.Permissions = slices.Clone(u.Permissions)
				found = &u

				return
			}
		}
	})

	if found == nil {
		return nil, auth.ErrUserNotFound
	}

	return found, nil
}

func (us *UserStore) GetUser(_ context.Context, id string) (*auth.User, error) {
	var found *auth.User

	us.s.view(func(snap *Snapshot) {
		for _, u := range snap.Users {
			if u.ID == id {
				u.Permissions = slices.Clone(u.Permissions)
				found = &u

				return
			}
		}
	})

	if found == nil {
		return nil, auth.ErrUserNotFound
	}

	return found, nil
}

func (us *UserStore) ListUsers(_ context.Context) ([]*auth.User, error) {
	var users []*auth.User

	us.s.view(func(snap *Snapshot) {
		users = make([]*auth.User, len(snap.Users))
		for i, u := range snap.Users {
			u.Permissions = slices.Clone(u.Permissions)
			users[i] = &u
		}
	})

	return users, nil
}

func (us *UserStore) CreateUser(ctx context.Context, u *auth.User) error {
	tx := us.s.begin(ctx)
	defer tx.Rollback()

	tx.CreateUser(u)

	return tx.Commit()
}

func (us *UserStore) UpdateUser(ctx context.Context, u *auth.User) error {
	tx := us.s.begin(ctx)
	defer tx.Rollback()

	if _, ok := tx.User(u.ID); !ok {
		return auth.ErrUserNotFound
	}

	tx.UpdateUser(u)

	return tx.Commit()
}

func (us *UserStore) DeleteUser(ctx context.Context, id string) error {
	tx := us.s.begin(ctx)
	defer tx.Rollback()

	if _, ok := tx.User(id); !ok {
		return auth.ErrUserNotFound
	}

	tx.DeleteUser(id)

	return tx.Commit()
}

func (us *UserStore) StampLastLogin(ctx context.Context, id string, at time.Time) error {
	tx := us.s.begin(ctx)
	defer tx.Rollback()

	if _, ok := tx.User(id); !ok {
		return auth.ErrUserNotFound
	}

	tx.StampLastLogin(id, at)

	return tx.Commit()
}
