package service

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/tenantcore/tenantcore/internal/api/dto"
	"github.com/tenantcore/tenantcore/internal/domain/tenant"
	ierr "github.com/tenantcore/tenantcore/internal/errors"
	"github.com/tenantcore/tenantcore/internal/testutil"
	"github.com/tenantcore/tenantcore/internal/types"
)

type InvoiceServiceSuite struct {
	testutil.BaseServiceTestSuite
	service     InvoiceService
	tenantRepo  *testutil.InMemoryTenantStore
	invoiceRepo *testutil.InMemoryInvoiceStore
	testTenant  *tenant.Tenant
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceSuite))
}

func (s *InvoiceServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	s.tenantRepo = s.GetStores().TenantRepo.(*testutil.InMemoryTenantStore)
	s.invoiceRepo = s.GetStores().InvoiceRepo.(*testutil.InMemoryInvoiceStore)

	s.service = NewInvoiceService(ServiceParams{
		Logger:      s.GetLogger(),
		Config:      s.GetConfig(),
		DB:          s.GetDB(),
		TenantRepo:  s.tenantRepo,
		UserRepo:    s.GetStores().UserRepo,
		APIKeyRepo:  s.GetStores().APIKeyRepo,
		InvoiceRepo: s.invoiceRepo,
	})

	s.testTenant = &tenant.Tenant{
		Name:          "Acme Corp",
		FacilityCode:  "ACME-01",
		Domain:        "acme.example.com",
		Tier:          types.SubscriptionTierPro,
		MonthlyFee:    decimal.NewFromInt(100),
		Currency:      "USD",
		Status:        types.TenantStatusActive,
		PaymentStatus: types.PaymentStatusPaid,
	}
	s.NoError(s.tenantRepo.Create(s.GetContext(), s.testTenant))
}

func (s *InvoiceServiceSuite) TestAllocateInvoiceNumber() {
	at := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	first, err := s.service.AllocateInvoiceNumber(s.GetContext(), s.testTenant.ID, at)
	s.NoError(err)
	s.Equal("ACM-202503-0001", first)

	second, err := s.service.AllocateInvoiceNumber(s.GetContext(), s.testTenant.ID, at)
	s.NoError(err)
	s.Equal("ACM-202503-0002", second)

	// a new month starts a fresh sequence
	april, err := s.service.AllocateInvoiceNumber(s.GetContext(), s.testTenant.ID, at.AddDate(0, 1, 0))
	s.NoError(err)
	s.Equal("ACM-202504-0001", april)
}

func (s *InvoiceServiceSuite) TestAllocateInvoiceNumberShortAndEmptyNames() {
	at := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	short := &tenant.Tenant{Name: "Io", FacilityCode: "IO-01", Domain: "io.example.com", Tier: types.SubscriptionTierFree, Currency: "USD", Status: types.TenantStatusActive}
	s.NoError(s.tenantRepo.Create(s.GetContext(), short))

	number, err := s.service.AllocateInvoiceNumber(s.GetContext(), short.ID, at)
	s.NoError(err)
	s.Equal("IO-202503-0001", number)

	unnamed := &tenant.Tenant{Name: "   ", FacilityCode: "UN-01", Domain: "un.example.com", Tier: types.SubscriptionTierFree, Currency: "USD", Status: types.TenantStatusActive}
	s.NoError(s.tenantRepo.Create(s.GetContext(), unnamed))

	number, err = s.service.AllocateInvoiceNumber(s.GetContext(), unnamed.ID, at)
	s.NoError(err)
	s.Equal("INV-202503-0001", number)
}

func (s *InvoiceServiceSuite) TestAllocateInvoiceNumberUnknownTenant() {
	_, err := s.service.AllocateInvoiceNumber(s.GetContext(), 9999, time.Now().UTC())
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestAllocateInvoiceNumberConcurrent() {
	at := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	const allocations = 50
	var wg sync.WaitGroup
	numbers := make(chan string, allocations)

	for i := 0; i < allocations; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			number, err := s.service.AllocateInvoiceNumber(s.GetContext(), s.testTenant.ID, at)
			s.NoError(err)
			numbers <- number
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[string]bool, allocations)
	for number := range numbers {
		s.False(seen[number], "duplicate invoice number %s", number)
		seen[number] = true
	}
	s.Len(seen, allocations)
}

func (s *InvoiceServiceSuite) validCreateRequest() dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		TenantID:    s.testTenant.ID,
		Currency:    "USD",
		TaxRate:     decimal.NewFromInt(10),
		TotalAmount: decimal.NewFromInt(110),
		TaxAmount:   decimal.NewFromInt(10),
		NetAmount:   decimal.NewFromInt(100),
		InvoiceType: types.InvoiceTypeSubscription,
		LineItems: []*dto.CreateInvoiceLineItemRequest{
			{
				Description: "Subscription fee",
				Quantity:    decimal.NewFromInt(1),
				UnitPrice:   decimal.NewFromInt(100),
				TaxRate:     decimal.NewFromInt(10),
			},
		},
	}
}

func (s *InvoiceServiceSuite) TestCreateInvoice() {
	resp, err := s.service.CreateInvoice(s.GetContext(), s.validCreateRequest())
	s.NoError(err)
	s.NotNil(resp)
	s.Equal(types.InvoiceStatusDraft, resp.InvoiceStatus)
	s.NotEmpty(resp.InvoiceNumber)
	s.Equal(types.BillingPeriodKey(resp.InvoiceDate), resp.PeriodKey)
	s.Len(resp.LineItems, 1)
	s.True(resp.LineItems[0].TotalPrice.Equal(decimal.NewFromInt(100)))
	s.True(resp.LineItems[0].TaxAmount.Equal(decimal.NewFromInt(10)))
}

func (s *InvoiceServiceSuite) TestCreateInvoiceValidation() {
	s.Run("unknown_tenant", func() {
		req := s.validCreateRequest()
		req.TenantID = 9999
		_, err := s.service.CreateInvoice(s.GetContext(), req)
		s.Error(err)
		s.True(ierr.IsNotFound(err))
	})

	s.Run("bad_currency", func() {
		req := s.validCreateRequest()
		req.Currency = "DOLLARS"
		_, err := s.service.CreateInvoice(s.GetContext(), req)
		s.Error(err)
		s.True(ierr.IsValidation(err))
	})

	s.Run("amounts_do_not_add_up", func() {
		req := s.validCreateRequest()
		req.TotalAmount = decimal.NewFromInt(500)
		_, err := s.service.CreateInvoice(s.GetContext(), req)
		s.Error(err)
		s.True(ierr.IsValidation(err))
	})
}

func (s *InvoiceServiceSuite) TestTransitionInvoice() {
	resp, err := s.service.CreateInvoice(s.GetContext(), s.validCreateRequest())
	s.NoError(err)

	testCases := []struct {
		name          string
		target        types.InvoiceStatus
		expectedError bool
	}{
		{name: "draft_to_sent", target: types.InvoiceStatusSent},
		{name: "sent_to_overdue", target: types.InvoiceStatusOverdue},
		{name: "overdue_to_draft_rejected", target: types.InvoiceStatusDraft, expectedError: true},
		{name: "overdue_to_paid", target: types.InvoiceStatusPaid},
		{name: "paid_to_sent_rejected", target: types.InvoiceStatusSent, expectedError: true},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			got, err := s.service.TransitionInvoice(s.GetContext(), resp.ID, tc.target)
			if tc.expectedError {
				s.Error(err)
				s.True(ierr.IsConflict(err))
			} else {
				s.NoError(err)
				s.Equal(tc.target, got.InvoiceStatus)
			}
		})
	}
}

func (s *InvoiceServiceSuite) TestTransitionPaidToPaidIsIdempotent() {
	resp, err := s.service.CreateInvoice(s.GetContext(), s.validCreateRequest())
	s.NoError(err)

	paid, err := s.service.TransitionInvoice(s.GetContext(), resp.ID, types.InvoiceStatusPaid)
	s.NoError(err)
	s.NotNil(paid.PaidAt)
	firstPaidAt := *paid.PaidAt

	again, err := s.service.TransitionInvoice(s.GetContext(), resp.ID, types.InvoiceStatusPaid)
	s.NoError(err)
	s.NotNil(again.PaidAt)
	s.True(firstPaidAt.Equal(*again.PaidAt), "paid timestamp must not be reapplied")
}

func (s *InvoiceServiceSuite) TestUpdateInvoice() {
	resp, err := s.service.CreateInvoice(s.GetContext(), s.validCreateRequest())
	s.NoError(err)

	dueDate := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	label := "March 2025"
	updated, err := s.service.UpdateInvoice(s.GetContext(), resp.ID, dto.UpdateInvoiceRequest{
		DueDate:     &dueDate,
		PeriodLabel: &label,
	})
	s.NoError(err)
	s.NotNil(updated.DueDate)
	s.True(dueDate.Equal(*updated.DueDate))
	s.Equal(label, updated.PeriodLabel)

	// paid invoices are immutable
	_, err = s.service.TransitionInvoice(s.GetContext(), resp.ID, types.InvoiceStatusPaid)
	s.NoError(err)

	_, err = s.service.UpdateInvoice(s.GetContext(), resp.ID, dto.UpdateInvoiceRequest{PeriodLabel: &label})
	s.Error(err)
	s.True(ierr.IsConflict(err))
}

func (s *InvoiceServiceSuite) TestDeleteInvoice() {
	resp, err := s.service.CreateInvoice(s.GetContext(), s.validCreateRequest())
	s.NoError(err)

	s.NoError(s.service.DeleteInvoice(s.GetContext(), resp.ID))

	_, err = s.service.GetInvoice(s.GetContext(), resp.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestDeletePaidInvoiceRejected() {
	resp, err := s.service.CreateInvoice(s.GetContext(), s.validCreateRequest())
	s.NoError(err)

	_, err = s.service.TransitionInvoice(s.GetContext(), resp.ID, types.InvoiceStatusPaid)
	s.NoError(err)

	err = s.service.DeleteInvoice(s.GetContext(), resp.ID)
	s.Error(err)
	s.True(ierr.IsConflict(err))

	// the paid invoice is still there
	got, err := s.service.GetInvoice(s.GetContext(), resp.ID)
	s.NoError(err)
	s.Equal(types.InvoiceStatusPaid, got.InvoiceStatus)
}

func (s *InvoiceServiceSuite) TestListInvoices() {
	for i := 0; i < 3; i++ {
		req := s.validCreateRequest()
		invoiceDate := time.Date(2025, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC)
		req.InvoiceDate = &invoiceDate
		_, err := s.service.CreateInvoice(s.GetContext(), req)
		s.NoError(err)
	}

	resp, err := s.service.ListInvoices(s.GetContext(), &types.InvoiceFilter{TenantID: &s.testTenant.ID})
	s.NoError(err)
	s.Equal(3, resp.Total)
	s.Len(resp.Items, 3)

	// newest first
	for i := 1; i < len(resp.Items); i++ {
		s.False(resp.Items[i].InvoiceDate.After(resp.Items[i-1].InvoiceDate))
	}

	periodKey := "202502"
	filtered, err := s.service.ListInvoices(s.GetContext(), &types.InvoiceFilter{PeriodKey: &periodKey})
	s.NoError(err)
	s.Equal(1, filtered.Total)
	s.Equal(periodKey, filtered.Items[0].PeriodKey)
}

func (s *InvoiceServiceSuite) TestInvoiceNumberFormat() {
	for i := 1; i <= 3; i++ {
		number, err := s.service.AllocateInvoiceNumber(s.GetContext(), s.testTenant.ID, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
		s.NoError(err)
		s.Equal(fmt.Sprintf("ACM-202503-%04d", i), number)
	}
}
