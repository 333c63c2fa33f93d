package types

import (
	ierr "github.com/tenantcore/tenantcore/internal/errors"
	"github.com/samber/lo"
)

// TenantStatus represents the lifecycle state of a tenant organization
type TenantStatus string

const (
	// TenantStatusPending indicates the tenant was provisioned but not yet activated
	TenantStatusPending TenantStatus = "pending"
	// TenantStatusActive indicates the tenant is live and billable
	TenantStatusActive TenantStatus = "active"
	// TenantStatusSuspended indicates the tenant and its users/API keys are disabled
	TenantStatusSuspended TenantStatus = "suspended"
)

func (s TenantStatus) String() string {
	return string(s)
}

func (s TenantStatus) Validate() error {
	allowed := []TenantStatus{
		TenantStatusPending,
		TenantStatusActive,
		TenantStatusSuspended,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid tenant status").
			WithHint("Please provide a valid tenant status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PaymentStatus represents the tenant's standing against its invoices
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusOverdue PaymentStatus = "overdue"
)

func (s PaymentStatus) String() string {
	return string(s)
}

func (s PaymentStatus) Validate() error {
	allowed := []PaymentStatus{
		PaymentStatusPending,
		PaymentStatusPaid,
		PaymentStatusOverdue,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid payment status").
			WithHint("Please provide a valid payment status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// SubscriptionTier is the named plan tier a tenant subscribes to.
// Tiers are labels from the admin surface; the billed amount is the
// tenant's monthly fee, not a tier lookup.
type SubscriptionTier string

const (
	SubscriptionTierFree       SubscriptionTier = "free"
	SubscriptionTierStarter    SubscriptionTier = "starter"
	SubscriptionTierPro        SubscriptionTier = "pro"
	SubscriptionTierEnterprise SubscriptionTier = "enterprise"
)

func (t SubscriptionTier) String() string {
	return string(t)
}

func (t SubscriptionTier) Validate() error {
	allowed := []SubscriptionTier{
		SubscriptionTierFree,
		SubscriptionTierStarter,
		SubscriptionTierPro,
		SubscriptionTierEnterprise,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid subscription tier").
			WithHint("Please provide a valid subscription tier").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
