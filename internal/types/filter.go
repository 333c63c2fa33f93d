package types

import (
	"time"

	ierr "github.com/tenantcore/tenantcore/internal/errors"
)

const (
	FilterDefaultLimit = 50
	FilterMaxLimit     = 1000
)

// InvoiceFilter captures the query criteria for listing invoices
type InvoiceFilter struct {
	TenantID      *int64         `json:"tenant_id,omitempty" form:"tenant_id"`
	InvoiceStatus *InvoiceStatus `json:"invoice_status,omitempty" form:"invoice_status"`
	InvoiceType   *InvoiceType   `json:"invoice_type,omitempty" form:"invoice_type"`
	PeriodKey     *string        `json:"period_key,omitempty" form:"period_key"`
	StartDate     *time.Time     `json:"start_date,omitempty" form:"start_date" time_format:"2006-01-02"`
	EndDate       *time.Time     `json:"end_date,omitempty" form:"end_date" time_format:"2006-01-02"`
	Limit         int            `json:"limit,omitempty" form:"limit"`
	Offset        int            `json:"offset,omitempty" form:"offset"`
}

func (f *InvoiceFilter) Validate() error {
	if f.Limit < 0 || f.Limit > FilterMaxLimit {
		return ierr.NewError("invalid limit").
			WithHintf("limit must be between 0 and %d", FilterMaxLimit).
			Mark(ierr.ErrValidation)
	}
	if f.Offset < 0 {
		return ierr.NewError("invalid offset").
			WithHint("offset must be non negative").
			Mark(ierr.ErrValidation)
	}
	if f.InvoiceStatus != nil {
		if err := f.InvoiceStatus.Validate(); err != nil {
			return err
		}
	}
	if f.InvoiceType != nil {
		if err := f.InvoiceType.Validate(); err != nil {
			return err
		}
	}
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return ierr.NewError("invalid date range").
			WithHint("end_date must not be before start_date").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// GetLimit returns the effective page size for the filter
func (f *InvoiceFilter) GetLimit() int {
	if f == nil || f.Limit == 0 {
		return FilterDefaultLimit
	}
	return f.Limit
}

// StatsFilter scopes billing statistics aggregation
type StatsFilter struct {
	TenantID  *int64     `json:"tenant_id,omitempty" form:"tenant_id"`
	StartDate *time.Time `json:"start_date,omitempty" form:"start_date" time_format:"2006-01-02"`
	EndDate   *time.Time `json:"end_date,omitempty" form:"end_date" time_format:"2006-01-02"`
}

func (f *StatsFilter) Validate() error {
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return ierr.NewError("invalid date range").
			WithHint("end_date must not be before start_date").
			Mark(ierr.ErrValidation)
	}
	return nil
}
