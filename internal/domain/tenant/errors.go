package tenant

import (
	ierr "github.com/tenantcore/tenantcore/internal/errors"
)

func NewTenantNotFoundError(id int64) error {
	return ierr.NewError("tenant not found").
		WithHintf("tenant not found for id: %d", id).
		WithReportableDetails(map[string]any{
			"tenant_id": id,
		}).
		Mark(ierr.ErrNotFound)
}

func NewOverduePaymentError(id int64) error {
	return ierr.NewError("tenant has overdue payments").
		WithHint("Tenant cannot be activated while its payment status is overdue").
		WithReportableDetails(map[string]any{
			"tenant_id": id,
		}).
		Mark(ierr.ErrConflict)
}
