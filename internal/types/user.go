package types

import (
	ierr "github.com/tenantcore/tenantcore/internal/errors"
	"github.com/samber/lo"
)

// UserRole represents the role of a user within a tenant.
// Admin users are exempt from reactivation when a tenant cascade re-enables
// accounts, so that manually disabled admins stay disabled.
type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleMember UserRole = "member"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) Validate() error {
	allowed := []UserRole{
		UserRoleAdmin,
		UserRoleMember,
	}
	if !lo.Contains(allowed, r) {
		return ierr.NewError("invalid user role").
			WithHint("Please provide a valid user role").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
