package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/tenantcore/tenantcore/internal/domain/invoice"
	"github.com/tenantcore/tenantcore/internal/testutil"
	"github.com/tenantcore/tenantcore/internal/types"
)

type BillingStatsServiceSuite struct {
	testutil.BaseServiceTestSuite
	service     BillingStatsService
	invoiceRepo *testutil.InMemoryInvoiceStore
}

func TestBillingStatsService(t *testing.T) {
	suite.Run(t, new(BillingStatsServiceSuite))
}

func (s *BillingStatsServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	s.invoiceRepo = s.GetStores().InvoiceRepo.(*testutil.InMemoryInvoiceStore)

	s.service = NewBillingStatsService(ServiceParams{
		Logger:      s.GetLogger(),
		Config:      s.GetConfig(),
		DB:          s.GetDB(),
		TenantRepo:  s.GetStores().TenantRepo,
		UserRepo:    s.GetStores().UserRepo,
		APIKeyRepo:  s.GetStores().APIKeyRepo,
		InvoiceRepo: s.invoiceRepo,
	})
}

func (s *BillingStatsServiceSuite) addInvoice(tenantID int64, status types.InvoiceStatus, invoiceType types.InvoiceType, total int64, date time.Time) {
	amount := decimal.NewFromInt(total)
	inv := &invoice.Invoice{
		TenantID:      tenantID,
		InvoiceNumber: "X",
		InvoiceDate:   date,
		Currency:      "USD",
		TotalAmount:   amount,
		NetAmount:     amount,
		InvoiceStatus: status,
		InvoiceType:   invoiceType,
		PeriodKey:     types.BillingPeriodKey(date),
		Status:        types.StatusPublished,
	}
	s.NoError(s.invoiceRepo.Create(s.GetContext(), inv))
}

func (s *BillingStatsServiceSuite) TestEmptySetYieldsZeroPaidRate() {
	resp, err := s.service.GetBillingStatistics(s.GetContext(), &types.StatsFilter{})
	s.NoError(err)
	s.Equal(0, resp.TotalInvoices)
	s.Equal(float64(0), resp.PaidRatePercent)
	s.True(resp.TotalAmount.IsZero())
	s.Empty(resp.StatusBreakdown)
	s.Empty(resp.MonthlyBreakdown)
}

func (s *BillingStatsServiceSuite) TestAggregation() {
	march := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	april := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	s.addInvoice(1, types.InvoiceStatusPaid, types.InvoiceTypeSubscription, 100, march)
	s.addInvoice(1, types.InvoiceStatusPaid, types.InvoiceTypeUsage, 50, april)
	s.addInvoice(2, types.InvoiceStatusOverdue, types.InvoiceTypeSubscription, 200, march)
	s.addInvoice(2, types.InvoiceStatusDraft, types.InvoiceTypeSubscription, 25, april)

	resp, err := s.service.GetBillingStatistics(s.GetContext(), &types.StatsFilter{})
	s.NoError(err)

	s.Equal(4, resp.TotalInvoices)
	s.True(resp.TotalAmount.Equal(decimal.NewFromInt(375)))
	s.Equal(2, resp.PaidCount)
	s.Equal(1, resp.OverdueCount)
	s.Equal(float64(50), resp.PaidRatePercent)

	s.Len(resp.StatusBreakdown, 3)
	s.Len(resp.TypeBreakdown, 2)

	// monthly rollup, most recent first
	s.Len(resp.MonthlyBreakdown, 2)
	s.Equal("202504", resp.MonthlyBreakdown[0].Month)
	s.True(resp.MonthlyBreakdown[0].Amount.Equal(decimal.NewFromInt(75)))
	s.Equal("202503", resp.MonthlyBreakdown[1].Month)
	s.True(resp.MonthlyBreakdown[1].Amount.Equal(decimal.NewFromInt(300)))
}

func (s *BillingStatsServiceSuite) TestTenantScoping() {
	march := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	s.addInvoice(1, types.InvoiceStatusPaid, types.InvoiceTypeSubscription, 100, march)
	s.addInvoice(2, types.InvoiceStatusOverdue, types.InvoiceTypeSubscription, 200, march)

	tenantID := int64(1)
	resp, err := s.service.GetBillingStatistics(s.GetContext(), &types.StatsFilter{TenantID: &tenantID})
	s.NoError(err)
	s.Equal(1, resp.TotalInvoices)
	s.True(resp.TotalAmount.Equal(decimal.NewFromInt(100)))
	s.Equal(float64(100), resp.PaidRatePercent)
}

func (s *BillingStatsServiceSuite) TestDateRangeScoping() {
	march := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	april := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)

	s.addInvoice(1, types.InvoiceStatusPaid, types.InvoiceTypeSubscription, 100, march)
	s.addInvoice(1, types.InvoiceStatusPaid, types.InvoiceTypeSubscription, 50, april)

	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	resp, err := s.service.GetBillingStatistics(s.GetContext(), &types.StatsFilter{StartDate: &start})
	s.NoError(err)
	s.Equal(1, resp.TotalInvoices)
	s.True(resp.TotalAmount.Equal(decimal.NewFromInt(50)))

	badEnd := start.AddDate(0, -2, 0)
	_, err = s.service.GetBillingStatistics(s.GetContext(), &types.StatsFilter{StartDate: &start, EndDate: &badEnd})
	s.Error(err)
}
