package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tenantcore/tenantcore/internal/api/dto"
	"github.com/tenantcore/tenantcore/internal/domain/invoice"
	"github.com/tenantcore/tenantcore/internal/types"
)

type InvoiceService interface {
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id int64) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error)

	// UpdateInvoice changes administrative fields; paid invoices are immutable
	UpdateInvoice(ctx context.Context, id int64, req dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error)

	// TransitionInvoice applies a status transition; disallowed transitions
	// are rejected with a conflict error. Paid to paid is an idempotent no-op.
	TransitionInvoice(ctx context.Context, id int64, target types.InvoiceStatus) (*dto.InvoiceResponse, error)

	// DeleteInvoice soft-deletes an invoice; paid invoices may never be deleted
	DeleteInvoice(ctx context.Context, id int64) error

	// AllocateInvoiceNumber issues the next invoice number in the tenant's
	// per-month monotonic sequence
	AllocateInvoiceNumber(ctx context.Context, tenantID int64, at time.Time) (string, error)
}

type invoiceService struct {
	ServiceParams
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{
		ServiceParams: params,
	}
}

// AllocateInvoiceNumber derives the tenant prefix, scopes the sequence to
// the (tenant, prefix, year-month) triple and formats the next number as
// {prefix}-{yearMonth}-{sequence:04d}. The repository advances the counter
// atomically, so concurrent allocations for the same scope never collide.
func (s *invoiceService) AllocateInvoiceNumber(ctx context.Context, tenantID int64, at time.Time) (string, error) {
	t, err := s.TenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return "", err
	}

	prefix := t.InvoicePrefix()
	yearMonth := types.BillingPeriodKey(at)

	seq, err := s.InvoiceRepo.NextSequence(ctx, tenantID, prefix, yearMonth)
	if err != nil {
		return "", err
	}

	return formatInvoiceNumber(prefix, yearMonth, seq), nil
}

// formatInvoiceNumber renders {prefix}-{yearMonth}-{sequence:04d}
func formatInvoiceNumber(prefix string, yearMonth string, seq int64) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, yearMonth, seq)
}

func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Tenant must exist before a number is allocated for it
	if _, err := s.TenantRepo.GetByID(ctx, req.TenantID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	inv := req.ToInvoice(now)
	inv.PeriodKey = types.BillingPeriodKey(inv.InvoiceDate)

	if err := inv.Validate(); err != nil {
		return nil, err
	}

	number, err := s.AllocateInvoiceNumber(ctx, req.TenantID, inv.InvoiceDate)
	if err != nil {
		return nil, err
	}
	inv.InvoiceNumber = number

	if err := s.InvoiceRepo.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.Logger.Infow("created invoice",
		"invoice_id", inv.ID,
		"tenant_id", inv.TenantID,
		"invoice_number", inv.InvoiceNumber,
		"total_amount", inv.TotalAmount)

	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id int64) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error) {
	if filter == nil {
		filter = &types.InvoiceFilter{}
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.InvoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		items = append(items, dto.NewInvoiceResponse(inv))
	}

	return &dto.ListInvoicesResponse{
		Items: items,
		Total: total,
	}, nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, id int64, req dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if inv.IsPaid() {
		return nil, invoice.NewPaidInvoiceUpdateError(id)
	}

	if req.DueDate != nil {
		inv.DueDate = req.DueDate
	}
	if req.PeriodLabel != nil {
		inv.PeriodLabel = *req.PeriodLabel
	}

	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) TransitionInvoice(ctx context.Context, id int64, target types.InvoiceStatus) (*dto.InvoiceResponse, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.InvoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Re-affirming payment must not re-apply paid side effects
	if inv.IsPaid() && target == types.InvoiceStatusPaid {
		return dto.NewInvoiceResponse(inv), nil
	}

	if !inv.InvoiceStatus.CanTransition(target) {
		return nil, invoice.NewInvalidTransitionError(inv.InvoiceStatus, target)
	}

	from := inv.InvoiceStatus
	inv.InvoiceStatus = target
	if target == types.InvoiceStatusPaid {
		now := time.Now().UTC()
		inv.PaidAt = &now
	}

	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	s.Logger.Infow("transitioned invoice",
		"invoice_id", inv.ID,
		"from", from,
		"to", target)

	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, id int64) error {
	inv, err := s.InvoiceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !inv.InvoiceStatus.IsDeletable() {
		return invoice.NewPaidInvoiceDeletionError(id)
	}

	if err := s.InvoiceRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.Logger.Infow("deleted invoice",
		"invoice_id", id,
		"invoice_number", inv.InvoiceNumber)

	return nil
}
