package user

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	ListByTenant(ctx context.Context, tenantID int64) ([]*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id int64) error

	// BulkSetActiveByTenant flips the active flag on every user owned by the
	// tenant and returns the number of affected rows. When exemptAdmins is
	// true, admin-role accounts are left untouched.
	BulkSetActiveByTenant(ctx context.Context, tenantID int64, active bool, exemptAdmins bool) (int64, error)
}
