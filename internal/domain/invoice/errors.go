package invoice

import (
	ierr "github.com/tenantcore/tenantcore/internal/errors"
	"github.com/tenantcore/tenantcore/internal/types"
)

func NewValidationError(field string, message string) error {
	return ierr.NewError("invoice validation failed").
		WithHintf("%s: %s", field, message).
		WithReportableDetails(map[string]any{
			"field": field,
		}).
		Mark(ierr.ErrValidation)
}

func NewInvoiceNotFoundError(id int64) error {
	return ierr.NewError("invoice not found").
		WithHintf("invoice not found for id: %d", id).
		WithReportableDetails(map[string]any{
			"invoice_id": id,
		}).
		Mark(ierr.ErrNotFound)
}

func NewInvalidTransitionError(from, to types.InvoiceStatus) error {
	return ierr.NewError("invalid invoice status transition").
		WithHintf("Invoice cannot transition from %s to %s", from, to).
		WithReportableDetails(map[string]any{
			"from": from,
			"to":   to,
		}).
		Mark(ierr.ErrConflict)
}

func NewPaidInvoiceDeletionError(id int64) error {
	return ierr.NewError("paid invoice cannot be deleted").
		WithHint("Paid invoices are immutable and may never be removed").
		WithReportableDetails(map[string]any{
			"invoice_id": id,
		}).
		Mark(ierr.ErrConflict)
}

func NewPaidInvoiceUpdateError(id int64) error {
	return ierr.NewError("paid invoice cannot be updated").
		WithHint("Paid invoices are immutable").
		WithReportableDetails(map[string]any{
			"invoice_id": id,
		}).
		Mark(ierr.ErrConflict)
}
