package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tenantcore/tenantcore/internal/domain/tenant"
	"github.com/tenantcore/tenantcore/internal/types"
)

// BillingRunItemError records a single tenant's failure within a billing run
type BillingRunItemError struct {
	TenantID int64  `json:"tenant_id"`
	Error    string `json:"error"`
}

// BillingRunResponse is the aggregate outcome of one billing run
type BillingRunResponse struct {
	Attempted int                    `json:"attempted"`
	Created   int                    `json:"created"`
	Failed    int                    `json:"failed"`
	PeriodKey string                 `json:"period_key"`
	Errors    []*BillingRunItemError `json:"errors,omitempty"`
}

// DueTenantResponse is a billing-preview summary of a due tenant
type DueTenantResponse struct {
	ID                  int64                  `json:"id"`
	Name                string                 `json:"name"`
	FacilityCode        string                 `json:"facility_code"`
	Tier                types.SubscriptionTier `json:"tier"`
	MonthlyFee          decimal.Decimal        `json:"monthly_fee"`
	Currency            string                 `json:"currency"`
	SubscriptionEndDate *time.Time             `json:"subscription_end_date,omitempty"`
}

// NewDueTenantResponse converts a due tenant into its billing-preview summary
func NewDueTenantResponse(t *tenant.Tenant) *DueTenantResponse {
	return &DueTenantResponse{
		ID:                  t.ID,
		Name:                t.Name,
		FacilityCode:        t.FacilityCode,
		Tier:                t.Tier,
		MonthlyFee:          t.MonthlyFee,
		Currency:            t.Currency,
		SubscriptionEndDate: t.SubscriptionEndDate,
	}
}

// StatusBreakdownItem is the invoice count and amount for one status
type StatusBreakdownItem struct {
	Status types.InvoiceStatus `json:"status"`
	Count  int                 `json:"count"`
	Amount decimal.Decimal     `json:"amount"`
}

// TypeBreakdownItem is the invoice count and amount for one invoice type
type TypeBreakdownItem struct {
	Type   types.InvoiceType `json:"type"`
	Count  int               `json:"count"`
	Amount decimal.Decimal   `json:"amount"`
}

// MonthlyBreakdownItem is the invoice count and amount for one calendar month
type MonthlyBreakdownItem struct {
	Month  string          `json:"month"`
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// BillingStatisticsResponse is the read-only rollup over the invoice store
type BillingStatisticsResponse struct {
	TotalInvoices    int                     `json:"total_invoices"`
	TotalAmount      decimal.Decimal         `json:"total_amount"`
	PaidCount        int                     `json:"paid_count"`
	OverdueCount     int                     `json:"overdue_count"`
	PaidRatePercent  float64                 `json:"paid_rate_percent"`
	StatusBreakdown  []*StatusBreakdownItem  `json:"status_breakdown"`
	TypeBreakdown    []*TypeBreakdownItem    `json:"type_breakdown"`
	MonthlyBreakdown []*MonthlyBreakdownItem `json:"monthly_breakdown"`
}
