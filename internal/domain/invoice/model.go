package invoice

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tenantcore/tenantcore/internal/types"
)

// roundingTolerance is the permitted drift between caller-supplied amounts
// and their recomputed values, covering 2dp currency rounding.
var roundingTolerance = decimal.NewFromFloat(0.01)

// Invoice represents the invoice domain model. Amounts satisfy
// NetAmount + TaxAmount == TotalAmount within the rounding tolerance,
// validated at creation and never recomputed implicitly.
type Invoice struct {
	ID            int64               `db:"id" json:"id"`
	TenantID      int64               `db:"tenant_id" json:"tenant_id"`
	InvoiceNumber string              `db:"invoice_number" json:"invoice_number"`
	InvoiceDate   time.Time           `db:"invoice_date" json:"invoice_date"`
	DueDate       *time.Time          `db:"due_date" json:"due_date,omitempty"`
	Currency      string              `db:"currency" json:"currency"`
	TaxRate       decimal.Decimal     `db:"tax_rate" json:"tax_rate"`
	TotalAmount   decimal.Decimal     `db:"total_amount" json:"total_amount"`
	TaxAmount     decimal.Decimal     `db:"tax_amount" json:"tax_amount"`
	NetAmount     decimal.Decimal     `db:"net_amount" json:"net_amount"`
	InvoiceStatus types.InvoiceStatus `db:"invoice_status" json:"invoice_status"`
	InvoiceType   types.InvoiceType   `db:"invoice_type" json:"invoice_type"`
	PlanID        *int64              `db:"plan_id" json:"plan_id,omitempty"`
	PeriodKey     string              `db:"period_key" json:"period_key"`
	PeriodLabel   string              `db:"period_label" json:"period_label,omitempty"`
	PaidAt        *time.Time          `db:"paid_at" json:"paid_at,omitempty"`
	Status        types.Status        `db:"status" json:"status"`
	CreatedAt     time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time           `db:"updated_at" json:"updated_at"`

	LineItems []*LineItem `json:"line_items,omitempty"`
}

// Validate checks the invoice's amount arithmetic and line items.
func (i *Invoice) Validate() error {
	if i.TotalAmount.IsNegative() {
		return NewValidationError("total_amount", "must be non negative")
	}

	if i.TaxAmount.IsNegative() {
		return NewValidationError("tax_amount", "must be non negative")
	}

	if i.NetAmount.IsNegative() {
		return NewValidationError("net_amount", "must be non negative")
	}

	if i.TaxRate.IsNegative() {
		return NewValidationError("tax_rate", "must be non negative")
	}

	diff := i.NetAmount.Add(i.TaxAmount).Sub(i.TotalAmount).Abs()
	if diff.GreaterThan(roundingTolerance) {
		return NewValidationError("total_amount", "must equal net_amount + tax_amount")
	}

	if err := i.InvoiceType.Validate(); err != nil {
		return err
	}

	if i.InvoiceStatus != "" {
		if err := i.InvoiceStatus.Validate(); err != nil {
			return err
		}
	}

	for _, item := range i.LineItems {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// IsPaid reports whether the invoice is in the terminal paid status
func (i *Invoice) IsPaid() bool {
	return i.InvoiceStatus == types.InvoiceStatusPaid
}
