package service

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/pool"
	"github.com/tenantcore/tenantcore/internal/api/dto"
	"github.com/tenantcore/tenantcore/internal/domain/invoice"
	"github.com/tenantcore/tenantcore/internal/domain/tenant"
	ierr "github.com/tenantcore/tenantcore/internal/errors"
	"github.com/tenantcore/tenantcore/internal/types"
)

// runState is the billing scheduler's run-level state
type runState int

const (
	runStateIdle runState = iota
	runStateRunning
)

type BillingService interface {
	// SelectDueTenants returns the tenants owed a new invoice at the given
	// time. Read-only and side-effect-free, safe to call repeatedly.
	SelectDueTenants(ctx context.Context, at time.Time) ([]*tenant.Tenant, error)

	// ListDueTenants is the read-only preview of the next billing run
	ListDueTenants(ctx context.Context) ([]*dto.DueTenantResponse, error)

	// TriggerBillingRun executes one billing tick. Only one run may be
	// active at a time; concurrent triggers are rejected, not queued.
	TriggerBillingRun(ctx context.Context) (*dto.BillingRunResponse, error)
}

type billingService struct {
	ServiceParams

	// run-level mutual exclusion: state lives in one synchronized place
	mu    sync.Mutex
	state runState
}

func NewBillingService(params ServiceParams) BillingService {
	return &billingService{
		ServiceParams: params,
		state:         runStateIdle,
	}
}

func (s *billingService) SelectDueTenants(ctx context.Context, at time.Time) ([]*tenant.Tenant, error) {
	active, err := s.TenantRepo.ListByStatus(ctx, types.TenantStatusActive)
	if err != nil {
		return nil, err
	}

	periodKey := types.BillingPeriodKey(at)

	due := make([]*tenant.Tenant, 0, len(active))
	for _, t := range active {
		if t.SubscriptionLapsed(at) {
			due = append(due, t)
			continue
		}

		exists, err := s.InvoiceRepo.ExistsForPeriod(ctx, t.ID, periodKey)
		if err != nil {
			return nil, err
		}
		if !exists {
			due = append(due, t)
		}
	}

	return due, nil
}

func (s *billingService) ListDueTenants(ctx context.Context) ([]*dto.DueTenantResponse, error) {
	due, err := s.SelectDueTenants(ctx, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.DueTenantResponse, 0, len(due))
	for _, t := range due {
		responses = append(responses, dto.NewDueTenantResponse(t))
	}

	return responses, nil
}

func (s *billingService) TriggerBillingRun(ctx context.Context) (*dto.BillingRunResponse, error) {
	if err := s.beginRun(); err != nil {
		return nil, err
	}
	defer s.endRun()

	at := time.Now().UTC()
	periodKey := types.BillingPeriodKey(at)

	s.Logger.Infow("starting billing run", "period_key", periodKey)

	due, err := s.SelectDueTenants(ctx, at)
	if err != nil {
		return nil, err
	}

	response := &dto.BillingRunResponse{
		Attempted: len(due),
		PeriodKey: periodKey,
	}

	var resultMu sync.Mutex
	workers := s.Config.Billing.Workers
	if workers <= 0 {
		workers = 1
	}

	p := pool.New().WithMaxGoroutines(workers)
	for _, t := range due {
		// cooperative cancellation, checked once per tenant; a tenant's
		// invoice creation is never interrupted mid-transaction
		if ctx.Err() != nil {
			s.Logger.Warnw("billing run cancelled", "period_key", periodKey)
			break
		}

		t := t
		p.Go(func() {
			created, err := s.createPeriodInvoice(ctx, t, at, periodKey)

			resultMu.Lock()
			defer resultMu.Unlock()

			if err != nil {
				// one tenant's failure never aborts the rest of the run
				response.Failed++
				response.Errors = append(response.Errors, &dto.BillingRunItemError{
					TenantID: t.ID,
					Error:    err.Error(),
				})
				s.Logger.Errorw("billing failed for tenant",
					"tenant_id", t.ID,
					"period_key", periodKey,
					"error", err)
				return
			}
			if created {
				response.Created++
			}
		})
	}
	p.Wait()

	s.Logger.Infow("completed billing run",
		"period_key", periodKey,
		"attempted", response.Attempted,
		"created", response.Created,
		"failed", response.Failed)

	return response, nil
}

// beginRun transitions the scheduler from idle to running, rejecting the
// caller if a run is already active.
func (s *billingService) beginRun() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == runStateRunning {
		return ierr.NewError("billing run already active").
			WithHint("A billing run is already in progress").
			Mark(ierr.ErrConflict)
	}

	s.state = runStateRunning
	return nil
}

func (s *billingService) endRun() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = runStateIdle
}

// createPeriodInvoice creates the subscription invoice for one due tenant.
// It re-checks for an existing current-period invoice immediately before
// allocating a number, closing the race left open by the side-effect-free
// selection: re-running the scheduler for the same period creates at most
// one invoice per tenant. Returns false when the invoice already existed.
func (s *billingService) createPeriodInvoice(ctx context.Context, t *tenant.Tenant, at time.Time, periodKey string) (bool, error) {
	exists, err := s.InvoiceRepo.ExistsForPeriod(ctx, t.ID, periodKey)
	if err != nil {
		return false, err
	}
	if exists {
		s.Logger.Debugw("tenant already invoiced for period",
			"tenant_id", t.ID,
			"period_key", periodKey)
		return false, nil
	}

	prefix := t.InvoicePrefix()
	seq, err := s.InvoiceRepo.NextSequence(ctx, t.ID, prefix, periodKey)
	if err != nil {
		return false, err
	}
	number := formatInvoiceNumber(prefix, periodKey, seq)

	taxRate := decimal.NewFromFloat(s.Config.Billing.DefaultTaxRatePercent)
	net := t.MonthlyFee
	tax := net.Mul(taxRate).Div(decimal.NewFromInt(100))
	total := net.Add(tax)

	dueDate := at.AddDate(0, 0, s.Config.Billing.DueDateOffsetDays)
	periodStart := time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, time.UTC)
	periodEnd := periodStart.AddDate(0, 1, 0).Add(-time.Second)

	inv := &invoice.Invoice{
		TenantID:      t.ID,
		InvoiceNumber: number,
		InvoiceDate:   at,
		DueDate:       &dueDate,
		Currency:      t.Currency,
		TaxRate:       taxRate,
		TotalAmount:   total,
		TaxAmount:     tax,
		NetAmount:     net,
		InvoiceStatus: types.InvoiceStatusDraft,
		InvoiceType:   types.InvoiceTypeSubscription,
		PeriodKey:     periodKey,
		PeriodLabel:   at.Format("January 2006"),
		Status:        types.StatusPublished,
		LineItems: []*invoice.LineItem{
			{
				Description: "Subscription fee - " + t.Tier.String(),
				Quantity:    decimal.NewFromInt(1),
				Unit:        "month",
				UnitPrice:   t.MonthlyFee,
				TotalPrice:  t.MonthlyFee,
				TaxRate:     taxRate,
				TaxAmount:   tax,
				NetAmount:   t.MonthlyFee,
				PeriodStart: &periodStart,
				PeriodEnd:   &periodEnd,
			},
		},
	}

	if err := inv.Validate(); err != nil {
		return false, err
	}

	if err := s.InvoiceRepo.Create(ctx, inv); err != nil {
		return false, err
	}

	s.Logger.Infow("created subscription invoice",
		"tenant_id", t.ID,
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"total_amount", inv.TotalAmount)

	return true, nil
}
