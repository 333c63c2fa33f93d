package types

import (
	"time"

	ierr "github.com/tenantcore/tenantcore/internal/errors"
	"github.com/samber/lo"
)

// InvoiceStatus represents the current state of an invoice in its lifecycle
type InvoiceStatus string

const (
	// InvoiceStatusDraft is the state every invoice is created in
	InvoiceStatusDraft InvoiceStatus = "draft"
	// InvoiceStatusSent indicates the invoice was issued to the tenant
	InvoiceStatusSent InvoiceStatus = "sent"
	// InvoiceStatusPaid is terminal: paid invoices can never transition again or be deleted
	InvoiceStatusPaid InvoiceStatus = "paid"
	// InvoiceStatusOverdue indicates the due date passed without payment
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

func (s InvoiceStatus) String() string {
	return string(s)
}

func (s InvoiceStatus) Validate() error {
	allowed := []InvoiceStatus{
		InvoiceStatusDraft,
		InvoiceStatusSent,
		InvoiceStatusPaid,
		InvoiceStatusOverdue,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid invoice status").
			WithHint("Please provide a valid invoice status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// invoiceTransitions is the allowed status transition table. Paid is
// terminal; the overdue transitions are driven by an external due-date
// check, payment may be recorded directly from draft.
var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusDraft:   {InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue},
	InvoiceStatusSent:    {InvoiceStatusPaid, InvoiceStatusOverdue},
	InvoiceStatusOverdue: {InvoiceStatusPaid},
	InvoiceStatusPaid:    {},
}

// CanTransition reports whether an invoice may move from one status to another.
// Paid to paid is allowed as an idempotent no-op so re-affirming a payment
// does not fail; callers must not re-apply paid side effects for it.
func (s InvoiceStatus) CanTransition(target InvoiceStatus) bool {
	if s == InvoiceStatusPaid && target == InvoiceStatusPaid {
		return true
	}
	return lo.Contains(invoiceTransitions[s], target)
}

// IsDeletable reports whether an invoice in this status may be deleted.
func (s InvoiceStatus) IsDeletable() bool {
	return s != InvoiceStatusPaid
}

// InvoiceType categorizes the purpose and nature of the invoice
type InvoiceType string

const (
	// InvoiceTypeSubscription indicates invoice is for recurring subscription charges
	InvoiceTypeSubscription InvoiceType = "subscription"
	// InvoiceTypeUsage indicates invoice is for consumption-based charges
	InvoiceTypeUsage InvoiceType = "usage"
	// InvoiceTypeOther indicates one-off or manually raised charges
	InvoiceTypeOther InvoiceType = "other"
)

func (t InvoiceType) String() string {
	return string(t)
}

func (t InvoiceType) Validate() error {
	allowed := []InvoiceType{
		InvoiceTypeSubscription,
		InvoiceTypeUsage,
		InvoiceTypeOther,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid invoice type").
			WithHint("Please provide a valid invoice type").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// BillingPeriodKey returns the calendar-month billing period token for a
// point in time, e.g. "202503". The same token namespaces invoice numbers
// and scopes the one-invoice-per-period idempotency check.
func BillingPeriodKey(t time.Time) string {
	return t.UTC().Format("200601")
}
