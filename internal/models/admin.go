package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/agri-gov-api/internal/rbac"
)

// AdminAccount represents an administrator stored in the admin_accounts
// table. Accounts are deactivated, never deleted, so audit entries always
// resolve to a real actor.
type AdminAccount struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	Role         rbac.Role  `db:"role" json:"role"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Permissions derives the account's capability set from the registry.
func (a *AdminAccount) Permissions() []rbac.Permission {
	return rbac.Permissions(a.Role)
}

// AdminClaims is the JWT payload supplied by the identity edge.
type AdminClaims struct {
	AdminID string    `json:"admin_id"`
	Role    rbac.Role `json:"role"`
	jwt.RegisteredClaims
}

// AdminFilter captures filtering criteria for listing accounts.
type AdminFilter struct {
	Role   *rbac.Role
	Active *bool
	Limit  int
	Offset int
}
