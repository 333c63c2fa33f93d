package dto

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/tenantcore/tenantcore/internal/domain/invoice"
	ierr "github.com/tenantcore/tenantcore/internal/errors"
	"github.com/tenantcore/tenantcore/internal/types"
)

type CreateInvoiceLineItemRequest struct {
	Description  string          `json:"description" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
	Unit         string          `json:"unit,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price" binding:"required"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	ResourceType *string         `json:"resource_type,omitempty"`
	PeriodStart  *time.Time      `json:"period_start,omitempty"`
	PeriodEnd    *time.Time      `json:"period_end,omitempty"`
}

// ToLineItem computes the derived amounts from the caller-supplied
// quantity, unit price and tax rate: total = quantity * unit_price, net
// equals total, tax = net * tax_rate / 100. They are fixed at creation and
// never recomputed.
func (r *CreateInvoiceLineItemRequest) ToLineItem() *invoice.LineItem {
	total := r.Quantity.Mul(r.UnitPrice)
	tax := total.Mul(r.TaxRate).Div(decimal.NewFromInt(100))

	return &invoice.LineItem{
		Description:  r.Description,
		Quantity:     r.Quantity,
		Unit:         r.Unit,
		UnitPrice:    r.UnitPrice,
		TotalPrice:   total,
		TaxRate:      r.TaxRate,
		TaxAmount:    tax,
		NetAmount:    total,
		ResourceType: r.ResourceType,
		PeriodStart:  r.PeriodStart,
		PeriodEnd:    r.PeriodEnd,
	}
}

type CreateInvoiceRequest struct {
	TenantID    int64                           `json:"tenant_id" binding:"required"`
	InvoiceDate *time.Time                      `json:"invoice_date,omitempty"`
	DueDate     *time.Time                      `json:"due_date,omitempty"`
	Currency    string                          `json:"currency" binding:"required"`
	TaxRate     decimal.Decimal                 `json:"tax_rate"`
	TotalAmount decimal.Decimal                 `json:"total_amount"`
	TaxAmount   decimal.Decimal                 `json:"tax_amount"`
	NetAmount   decimal.Decimal                 `json:"net_amount"`
	InvoiceType types.InvoiceType               `json:"invoice_type" binding:"required"`
	PlanID      *int64                          `json:"plan_id,omitempty"`
	PeriodLabel string                          `json:"period_label,omitempty"`
	LineItems   []*CreateInvoiceLineItemRequest `json:"line_items"`
}

func (r *CreateInvoiceRequest) Validate() error {
	if err := r.InvoiceType.Validate(); err != nil {
		return err
	}
	if len(r.Currency) != 3 {
		return ierr.NewError("invalid currency").
			WithHint("currency must be a 3-letter ISO code").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ToInvoice builds the domain invoice in draft status. The invoice number
// and period key are assigned by the service.
func (r *CreateInvoiceRequest) ToInvoice(at time.Time) *invoice.Invoice {
	invoiceDate := at
	if r.InvoiceDate != nil {
		invoiceDate = *r.InvoiceDate
	}

	return &invoice.Invoice{
		TenantID:      r.TenantID,
		InvoiceDate:   invoiceDate,
		DueDate:       r.DueDate,
		Currency:      r.Currency,
		TaxRate:       r.TaxRate,
		TotalAmount:   r.TotalAmount,
		TaxAmount:     r.TaxAmount,
		NetAmount:     r.NetAmount,
		InvoiceStatus: types.InvoiceStatusDraft,
		InvoiceType:   r.InvoiceType,
		PlanID:        r.PlanID,
		PeriodLabel:   r.PeriodLabel,
		Status:        types.StatusPublished,
		LineItems: lo.Map(r.LineItems, func(item *CreateInvoiceLineItemRequest, _ int) *invoice.LineItem {
			return item.ToLineItem()
		}),
	}
}

// UpdateInvoiceRequest carries the administrative fields that may change
// after creation. Amounts and line items are fixed at creation.
type UpdateInvoiceRequest struct {
	DueDate     *time.Time `json:"due_date,omitempty"`
	PeriodLabel *string    `json:"period_label,omitempty"`
}

type TransitionInvoiceRequest struct {
	TargetStatus types.InvoiceStatus `json:"target_status" binding:"required"`
}

func (r *TransitionInvoiceRequest) Validate() error {
	return r.TargetStatus.Validate()
}

type InvoiceLineItemResponse struct {
	ID           int64           `json:"id"`
	Description  string          `json:"description"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	NetAmount    decimal.Decimal `json:"net_amount"`
	ResourceType *string         `json:"resource_type,omitempty"`
	PeriodStart  *time.Time      `json:"period_start,omitempty"`
	PeriodEnd    *time.Time      `json:"period_end,omitempty"`
}

type InvoiceResponse struct {
	ID            int64                      `json:"id"`
	TenantID      int64                      `json:"tenant_id"`
	InvoiceNumber string                     `json:"invoice_number"`
	InvoiceDate   time.Time                  `json:"invoice_date"`
	DueDate       *time.Time                 `json:"due_date,omitempty"`
	Currency      string                     `json:"currency"`
	TaxRate       decimal.Decimal            `json:"tax_rate"`
	TotalAmount   decimal.Decimal            `json:"total_amount"`
	TaxAmount     decimal.Decimal            `json:"tax_amount"`
	NetAmount     decimal.Decimal            `json:"net_amount"`
	InvoiceStatus types.InvoiceStatus        `json:"invoice_status"`
	InvoiceType   types.InvoiceType          `json:"invoice_type"`
	PlanID        *int64                     `json:"plan_id,omitempty"`
	PeriodKey     string                     `json:"period_key"`
	PeriodLabel   string                     `json:"period_label,omitempty"`
	PaidAt        *time.Time                 `json:"paid_at,omitempty"`
	CreatedAt     string                     `json:"created_at"`
	UpdatedAt     string                     `json:"updated_at"`
	LineItems     []*InvoiceLineItemResponse `json:"line_items,omitempty"`
}

// NewInvoiceResponse converts an Invoice domain object into a response DTO
func NewInvoiceResponse(inv *invoice.Invoice) *InvoiceResponse {
	return &InvoiceResponse{
		ID:            inv.ID,
		TenantID:      inv.TenantID,
		InvoiceNumber: inv.InvoiceNumber,
		InvoiceDate:   inv.InvoiceDate,
		DueDate:       inv.DueDate,
		Currency:      inv.Currency,
		TaxRate:       inv.TaxRate,
		TotalAmount:   inv.TotalAmount,
		TaxAmount:     inv.TaxAmount,
		NetAmount:     inv.NetAmount,
		InvoiceStatus: inv.InvoiceStatus,
		InvoiceType:   inv.InvoiceType,
		PlanID:        inv.PlanID,
		PeriodKey:     inv.PeriodKey,
		PeriodLabel:   inv.PeriodLabel,
		PaidAt:        inv.PaidAt,
		CreatedAt:     inv.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     inv.UpdatedAt.Format(time.RFC3339),
		LineItems: lo.Map(inv.LineItems, func(item *invoice.LineItem, _ int) *InvoiceLineItemResponse {
			return &InvoiceLineItemResponse{
				ID:           item.ID,
				Description:  item.Description,
				Quantity:     item.Quantity,
				Unit:         item.Unit,
				UnitPrice:    item.UnitPrice,
				TotalPrice:   item.TotalPrice,
				TaxRate:      item.TaxRate,
				TaxAmount:    item.TaxAmount,
				NetAmount:    item.NetAmount,
				ResourceType: item.ResourceType,
				PeriodStart:  item.PeriodStart,
				PeriodEnd:    item.PeriodEnd,
			}
		}),
	}
}

type ListInvoicesResponse struct {
	Items []*InvoiceResponse `json:"items"`
	Total int                `json:"total"`
}
