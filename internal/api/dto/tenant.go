package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tenantcore/tenantcore/internal/domain/tenant"
	ierr "github.com/tenantcore/tenantcore/internal/errors"
	"github.com/tenantcore/tenantcore/internal/types"
)

type CreateTenantRequest struct {
	Name                string                 `json:"name" binding:"required"`
	FacilityCode        string                 `json:"facility_code" binding:"required"`
	Domain              string                 `json:"domain" binding:"required"`
	Tier                types.SubscriptionTier `json:"tier" binding:"required"`
	MonthlyFee          decimal.Decimal        `json:"monthly_fee"`
	Currency            string                 `json:"currency" binding:"required"`
	SubscriptionEndDate *time.Time             `json:"subscription_end_date,omitempty"`
}

func (r *CreateTenantRequest) Validate() error {
	if err := r.Tier.Validate(); err != nil {
		return err
	}
	if r.MonthlyFee.IsNegative() {
		return ierr.NewError("invalid monthly fee").
			WithHint("monthly_fee must be non negative").
			Mark(ierr.ErrValidation)
	}
	if len(r.Currency) != 3 {
		return ierr.NewError("invalid currency").
			WithHint("currency must be a 3-letter ISO code").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ToTenant builds the domain tenant; new tenants start pending with
// payment status pending.
func (r *CreateTenantRequest) ToTenant() *tenant.Tenant {
	return &tenant.Tenant{
		Name:                r.Name,
		FacilityCode:        r.FacilityCode,
		Domain:              r.Domain,
		Tier:                r.Tier,
		MonthlyFee:          r.MonthlyFee,
		Currency:            r.Currency,
		Status:              types.TenantStatusPending,
		PaymentStatus:       types.PaymentStatusPending,
		SubscriptionEndDate: r.SubscriptionEndDate,
	}
}

type UpdateTenantRequest struct {
	Name                *string                 `json:"name,omitempty"`
	Tier                *types.SubscriptionTier `json:"tier,omitempty"`
	MonthlyFee          *decimal.Decimal        `json:"monthly_fee,omitempty"`
	Currency            *string                 `json:"currency,omitempty"`
	PaymentStatus       *types.PaymentStatus    `json:"payment_status,omitempty"`
	SubscriptionEndDate *time.Time              `json:"subscription_end_date,omitempty"`
}

func (r *UpdateTenantRequest) Validate() error {
	if r.Tier != nil {
		if err := r.Tier.Validate(); err != nil {
			return err
		}
	}
	if r.PaymentStatus != nil {
		if err := r.PaymentStatus.Validate(); err != nil {
			return err
		}
	}
	if r.MonthlyFee != nil && r.MonthlyFee.IsNegative() {
		return ierr.NewError("invalid monthly fee").
			WithHint("monthly_fee must be non negative").
			Mark(ierr.ErrValidation)
	}
	if r.Currency != nil && len(*r.Currency) != 3 {
		return ierr.NewError("invalid currency").
			WithHint("currency must be a 3-letter ISO code").
			Mark(ierr.ErrValidation)
	}
	return nil
}

type SuspendTenantRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CascadeResponse reports the outcome of a tenant suspend/activate cascade
type CascadeResponse struct {
	TenantID        int64              `json:"tenant_id"`
	Status          types.TenantStatus `json:"status"`
	AffectedUsers   int64              `json:"affected_users"`
	AffectedAPIKeys int64              `json:"affected_api_keys"`
}

type TenantResponse struct {
	ID                  int64                  `json:"id"`
	Name                string                 `json:"name"`
	FacilityCode        string                 `json:"facility_code"`
	Domain              string                 `json:"domain"`
	Tier                types.SubscriptionTier `json:"tier"`
	MonthlyFee          decimal.Decimal        `json:"monthly_fee"`
	Currency            string                 `json:"currency"`
	Status              types.TenantStatus     `json:"status"`
	PaymentStatus       types.PaymentStatus    `json:"payment_status"`
	SubscriptionEndDate *time.Time             `json:"subscription_end_date,omitempty"`
	SuspensionReason    *string                `json:"suspension_reason,omitempty"`
	SuspendedAt         *time.Time             `json:"suspended_at,omitempty"`
	CreatedAt           string                 `json:"created_at"`
	UpdatedAt           string                 `json:"updated_at"`
}

// NewTenantResponse converts a Tenant domain object into a TenantResponse DTO.
func NewTenantResponse(t *tenant.Tenant) *TenantResponse {
	return &TenantResponse{
		ID:                  t.ID,
		Name:                t.Name,
		FacilityCode:        t.FacilityCode,
		Domain:              t.Domain,
		Tier:                t.Tier,
		MonthlyFee:          t.MonthlyFee,
		Currency:            t.Currency,
		Status:              t.Status,
		PaymentStatus:       t.PaymentStatus,
		SubscriptionEndDate: t.SubscriptionEndDate,
		SuspensionReason:    t.SuspensionReason,
		SuspendedAt:         t.SuspendedAt,
		CreatedAt:           t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           t.UpdatedAt.Format(time.RFC3339),
	}
}
