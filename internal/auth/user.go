package auth

import (
	"slices"
	"time"
)

// Role is the coarse access level of a user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// PermissionAll is the sentinel permission granting everything.
const PermissionAll = "all"

// User is an application account. PasswordHash is a bcrypt hash and never
// leaves the process boundary.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"password_hash"`
	Role         Role       `json:"role"`
	Permissions  []string   `json:"permissions"`
	Active       bool       `json:"active"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// Can reports whether the user holds the given permission. Admins and
// holders of the "all" sentinel pass every check; otherwise the permission
// must be a literal member of the set.
func (u *User) Can(permission string) bool {
	if u.Role == RoleAdmin || slices.Contains(u.Permissions, PermissionAll) {
		return true
	}

	return slices.Contains(u.Permissions, permission)
}
