package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is a single charge line owned by exactly one invoice.
// TotalPrice = Quantity * UnitPrice, computed at creation time from the
// caller-supplied inputs and never recomputed implicitly.
type LineItem struct {
	ID           int64           `db:"id" json:"id"`
	InvoiceID    int64           `db:"invoice_id" json:"invoice_id"`
	Description  string          `db:"description" json:"description"`
	Quantity     decimal.Decimal `db:"quantity" json:"quantity"`
	Unit         string          `db:"unit" json:"unit,omitempty"`
	UnitPrice    decimal.Decimal `db:"unit_price" json:"unit_price"`
	TotalPrice   decimal.Decimal `db:"total_price" json:"total_price"`
	TaxRate      decimal.Decimal `db:"tax_rate" json:"tax_rate"`
	TaxAmount    decimal.Decimal `db:"tax_amount" json:"tax_amount"`
	NetAmount    decimal.Decimal `db:"net_amount" json:"net_amount"`
	ResourceType *string         `db:"resource_type" json:"resource_type,omitempty"`
	PeriodStart  *time.Time      `db:"period_start" json:"period_start,omitempty"`
	PeriodEnd    *time.Time      `db:"period_end" json:"period_end,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// Validate checks the line item's amount arithmetic.
func (li *LineItem) Validate() error {
	if li.Quantity.IsNegative() {
		return NewValidationError("quantity", "must be non negative")
	}

	if li.UnitPrice.IsNegative() {
		return NewValidationError("unit_price", "must be non negative")
	}

	expected := li.Quantity.Mul(li.UnitPrice)
	if expected.Sub(li.TotalPrice).Abs().GreaterThan(roundingTolerance) {
		return NewValidationError("total_price", "must equal quantity * unit_price")
	}

	if li.PeriodStart != nil && li.PeriodEnd != nil && li.PeriodEnd.Before(*li.PeriodStart) {
		return NewValidationError("period_end", "must be after period_start")
	}

	return nil
}
