package tenant

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tenantcore/tenantcore/internal/types"
)

// DefaultInvoicePrefix is used when a tenant's company name is empty
const DefaultInvoicePrefix = "INV"

// Tenant represents a billed customer organization, the unit of isolation
// for users, invoices and API keys.
type Tenant struct {
	ID                  int64                  `db:"id" json:"id"`
	Name                string                 `db:"name" json:"name"`
	FacilityCode        string                 `db:"facility_code" json:"facility_code"`
	Domain              string                 `db:"domain" json:"domain"`
	Tier                types.SubscriptionTier `db:"tier" json:"tier"`
	MonthlyFee          decimal.Decimal        `db:"monthly_fee" json:"monthly_fee"`
	Currency            string                 `db:"currency" json:"currency"`
	Status              types.TenantStatus     `db:"status" json:"status"`
	PaymentStatus       types.PaymentStatus    `db:"payment_status" json:"payment_status"`
	SubscriptionEndDate *time.Time             `db:"subscription_end_date" json:"subscription_end_date,omitempty"`
	SuspensionReason    *string                `db:"suspension_reason" json:"suspension_reason,omitempty"`
	SuspendedAt         *time.Time             `db:"suspended_at" json:"suspended_at,omitempty"`
	CreatedAt           time.Time              `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time              `db:"updated_at" json:"updated_at"`
}

// InvoicePrefix derives the invoice number prefix from the company name:
// the first three characters uppercased, shorter names yield a shorter
// prefix, an empty name falls back to DefaultInvoicePrefix. No character
// sanitization is applied; number uniqueness is carried by the sequence
// scope and the invoice number constraint, not the prefix.
func (t *Tenant) InvoicePrefix() string {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return DefaultInvoicePrefix
	}

	runes := []rune(name)
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return strings.ToUpper(string(runes))
}

// IsBillable reports whether the tenant is eligible for billing-run selection
func (t *Tenant) IsBillable() bool {
	return t.Status == types.TenantStatusActive
}

// SubscriptionLapsed reports whether the subscription window has lapsed at
// the given time. A nil end date means the tenant is billed every cycle.
func (t *Tenant) SubscriptionLapsed(at time.Time) bool {
	return t.SubscriptionEndDate == nil || !t.SubscriptionEndDate.After(at)
}
