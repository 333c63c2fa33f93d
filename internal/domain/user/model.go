package user

import (
	"time"

	"github.com/tenantcore/tenantcore/internal/types"
)

// User represents a member account owned by a tenant
type User struct {
	ID        int64          `db:"id" json:"id"`
	TenantID  int64          `db:"tenant_id" json:"tenant_id"`
	Email     string         `db:"email" json:"email"`
	Name      string         `db:"name" json:"name"`
	Role      types.UserRole `db:"role" json:"role"`
	IsActive  bool           `db:"is_active" json:"is_active"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == types.UserRoleAdmin
}
