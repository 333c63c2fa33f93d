package service

import (
	"context"
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/tenantcore/tenantcore/internal/api/dto"
	"github.com/tenantcore/tenantcore/internal/domain/invoice"
	"github.com/tenantcore/tenantcore/internal/types"
)

// monthlyBreakdownCap bounds the monthly rollup to the most recent months
const monthlyBreakdownCap = 12

type BillingStatsService interface {
	// GetBillingStatistics aggregates invoice counts and amounts for the
	// given scope. Read-only; an empty invoice set yields a zero paid rate.
	GetBillingStatistics(ctx context.Context, filter *types.StatsFilter) (*dto.BillingStatisticsResponse, error)
}

type billingStatsService struct {
	ServiceParams
}

func NewBillingStatsService(params ServiceParams) BillingStatsService {
	return &billingStatsService{
		ServiceParams: params,
	}
}

func (s *billingStatsService) GetBillingStatistics(ctx context.Context, filter *types.StatsFilter) (*dto.BillingStatisticsResponse, error) {
	if filter == nil {
		filter = &types.StatsFilter{}
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	invoices, err := s.InvoiceRepo.List(ctx, &types.InvoiceFilter{
		TenantID:  filter.TenantID,
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
		Limit:     types.FilterMaxLimit,
	})
	if err != nil {
		return nil, err
	}

	response := &dto.BillingStatisticsResponse{
		TotalInvoices:    len(invoices),
		TotalAmount:      decimal.Zero,
		StatusBreakdown:  make([]*dto.StatusBreakdownItem, 0),
		TypeBreakdown:    make([]*dto.TypeBreakdownItem, 0),
		MonthlyBreakdown: make([]*dto.MonthlyBreakdownItem, 0),
	}

	for _, inv := range invoices {
		response.TotalAmount = response.TotalAmount.Add(inv.TotalAmount)
		switch inv.InvoiceStatus {
		case types.InvoiceStatusPaid:
			response.PaidCount++
		case types.InvoiceStatusOverdue:
			response.OverdueCount++
		}
	}

	// guard against division by zero: an empty set has a zero paid rate
	if response.TotalInvoices > 0 {
		rate := decimal.NewFromInt(int64(response.PaidCount)).
			Div(decimal.NewFromInt(int64(response.TotalInvoices))).
			Mul(decimal.NewFromInt(100))
		response.PaidRatePercent, _ = rate.Round(2).Float64()
	}

	byStatus := lo.GroupBy(invoices, func(inv *invoice.Invoice) types.InvoiceStatus {
		return inv.InvoiceStatus
	})
	for status, group := range byStatus {
		response.StatusBreakdown = append(response.StatusBreakdown, &dto.StatusBreakdownItem{
			Status: status,
			Count:  len(group),
			Amount: sumAmounts(group),
		})
	}
	sort.Slice(response.StatusBreakdown, func(i, j int) bool {
		return response.StatusBreakdown[i].Status < response.StatusBreakdown[j].Status
	})

	byType := lo.GroupBy(invoices, func(inv *invoice.Invoice) types.InvoiceType {
		return inv.InvoiceType
	})
	for invoiceType, group := range byType {
		response.TypeBreakdown = append(response.TypeBreakdown, &dto.TypeBreakdownItem{
			Type:   invoiceType,
			Count:  len(group),
			Amount: sumAmounts(group),
		})
	}
	sort.Slice(response.TypeBreakdown, func(i, j int) bool {
		return response.TypeBreakdown[i].Type < response.TypeBreakdown[j].Type
	})

	byMonth := lo.GroupBy(invoices, func(inv *invoice.Invoice) string {
		return types.BillingPeriodKey(inv.InvoiceDate)
	})
	for month, group := range byMonth {
		response.MonthlyBreakdown = append(response.MonthlyBreakdown, &dto.MonthlyBreakdownItem{
			Month:  month,
			Count:  len(group),
			Amount: sumAmounts(group),
		})
	}
	// most recent months first, capped
	sort.Slice(response.MonthlyBreakdown, func(i, j int) bool {
		return response.MonthlyBreakdown[i].Month > response.MonthlyBreakdown[j].Month
	})
	if len(response.MonthlyBreakdown) > monthlyBreakdownCap {
		response.MonthlyBreakdown = response.MonthlyBreakdown[:monthlyBreakdownCap]
	}

	return response, nil
}

func sumAmounts(invoices []*invoice.Invoice) decimal.Decimal {
	sum := decimal.Zero
	for _, inv := range invoices {
		sum = sum.Add(inv.TotalAmount)
	}
	return sum
}
