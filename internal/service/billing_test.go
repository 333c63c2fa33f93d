package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/tenantcore/tenantcore/internal/domain/tenant"
	ierr "github.com/tenantcore/tenantcore/internal/errors"
	"github.com/tenantcore/tenantcore/internal/testutil"
	"github.com/tenantcore/tenantcore/internal/types"
)

type BillingServiceSuite struct {
	testutil.BaseServiceTestSuite
	service     BillingService
	tenantRepo  *testutil.InMemoryTenantStore
	invoiceRepo *testutil.InMemoryInvoiceStore
}

func TestBillingService(t *testing.T) {
	suite.Run(t, new(BillingServiceSuite))
}

func (s *BillingServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	s.tenantRepo = s.GetStores().TenantRepo.(*testutil.InMemoryTenantStore)
	s.invoiceRepo = s.GetStores().InvoiceRepo.(*testutil.InMemoryInvoiceStore)

	s.service = NewBillingService(s.serviceParams())
}

func (s *BillingServiceSuite) serviceParams() ServiceParams {
	return ServiceParams{
		Logger:      s.GetLogger(),
		Config:      s.GetConfig(),
		DB:          s.GetDB(),
		TenantRepo:  s.tenantRepo,
		UserRepo:    s.GetStores().UserRepo,
		APIKeyRepo:  s.GetStores().APIKeyRepo,
		InvoiceRepo: s.invoiceRepo,
	}
}

func (s *BillingServiceSuite) createBillableTenant(name, code string, fee int64) *tenant.Tenant {
	t := &tenant.Tenant{
		Name:          name,
		FacilityCode:  code,
		Domain:        code + ".example.com",
		Tier:          types.SubscriptionTierPro,
		MonthlyFee:    decimal.NewFromInt(fee),
		Currency:      "USD",
		Status:        types.TenantStatusActive,
		PaymentStatus: types.PaymentStatusPaid,
	}
	s.NoError(s.tenantRepo.Create(s.GetContext(), t))
	return t
}

func (s *BillingServiceSuite) TestSelectDueTenants() {
	active := s.createBillableTenant("Acme Corp", "acme", 100)
	s.createBillableTenant("Beta LLC", "beta", 50)

	suspended := &tenant.Tenant{
		Name: "Gone Inc", FacilityCode: "gone", Domain: "gone.example.com",
		Tier: types.SubscriptionTierFree, Currency: "USD",
		Status: types.TenantStatusSuspended,
	}
	s.NoError(s.tenantRepo.Create(s.GetContext(), suspended))

	at := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	due, err := s.service.SelectDueTenants(s.GetContext(), at)
	s.NoError(err)
	s.Len(due, 2)

	// selection is read-only: calling it again yields the same result
	again, err := s.service.SelectDueTenants(s.GetContext(), at)
	s.NoError(err)
	s.Len(again, 2)

	// a tenant already invoiced for the period drops out
	run, err := s.service.TriggerBillingRun(s.GetContext())
	s.NoError(err)
	s.Equal(2, run.Created)

	end := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	active.SubscriptionEndDate = &end
	s.NoError(s.tenantRepo.Update(s.GetContext(), active))

	due, err = s.service.SelectDueTenants(s.GetContext(), time.Now().UTC())
	s.NoError(err)
	for _, t := range due {
		s.NotEqual(active.ID, t.ID)
	}
}

func (s *BillingServiceSuite) TestTriggerBillingRunCreatesInvoices() {
	t1 := s.createBillableTenant("Acme Corp", "acme", 100)
	t2 := s.createBillableTenant("Beta LLC", "beta", 50)

	resp, err := s.service.TriggerBillingRun(s.GetContext())
	s.NoError(err)
	s.Equal(2, resp.Attempted)
	s.Equal(2, resp.Created)
	s.Equal(0, resp.Failed)
	s.Equal(types.BillingPeriodKey(time.Now().UTC()), resp.PeriodKey)

	for _, tn := range []*tenant.Tenant{t1, t2} {
		invoices, err := s.invoiceRepo.List(s.GetContext(), &types.InvoiceFilter{TenantID: &tn.ID})
		s.NoError(err)
		s.Len(invoices, 1)

		inv := invoices[0]
		s.Equal(types.InvoiceStatusDraft, inv.InvoiceStatus)
		s.Equal(types.InvoiceTypeSubscription, inv.InvoiceType)
		s.Equal(resp.PeriodKey, inv.PeriodKey)
		s.True(inv.NetAmount.Equal(tn.MonthlyFee))
		s.True(inv.TotalAmount.Equal(tn.MonthlyFee), "zero default tax rate")
		s.NotNil(inv.DueDate)
		s.Len(inv.LineItems, 1)
	}
}

func (s *BillingServiceSuite) TestTriggerBillingRunIsIdempotent() {
	s.createBillableTenant("Acme Corp", "acme", 100)

	first, err := s.service.TriggerBillingRun(s.GetContext())
	s.NoError(err)
	s.Equal(1, first.Created)

	// re-running for the same period creates nothing new
	second, err := s.service.TriggerBillingRun(s.GetContext())
	s.NoError(err)
	s.Equal(0, second.Created)
	s.Equal(0, second.Failed)

	count, err := s.invoiceRepo.Count(s.GetContext(), &types.InvoiceFilter{})
	s.NoError(err)
	s.Equal(1, count)
}

func (s *BillingServiceSuite) TestTriggerBillingRunIsolatesFailures() {
	s.createBillableTenant("Acme Corp", "acme", 100)

	// a negative fee fails invoice validation for this tenant only
	bad := s.createBillableTenant("Bad Data", "bad", 0)
	bad.MonthlyFee = decimal.NewFromInt(-10)
	s.NoError(s.tenantRepo.Update(s.GetContext(), bad))

	resp, err := s.service.TriggerBillingRun(s.GetContext())
	s.NoError(err)
	s.Equal(2, resp.Attempted)
	s.Equal(1, resp.Created)
	s.Equal(1, resp.Failed)
	s.Len(resp.Errors, 1)
	s.Equal(bad.ID, resp.Errors[0].TenantID)

	count, err := s.invoiceRepo.Count(s.GetContext(), &types.InvoiceFilter{})
	s.NoError(err)
	s.Equal(1, count)
}

func (s *BillingServiceSuite) TestConcurrentRunRejected() {
	s.createBillableTenant("Acme Corp", "acme", 100)

	svc := s.service.(*billingService)
	s.NoError(svc.beginRun())

	resp, err := svc.TriggerBillingRun(s.GetContext())
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsConflict(err))

	// once the active run ends, triggering works again
	svc.endRun()
	resp, err = svc.TriggerBillingRun(s.GetContext())
	s.NoError(err)
	s.Equal(1, resp.Created)
}

func (s *BillingServiceSuite) TestListDueTenants() {
	t := s.createBillableTenant("Acme Corp", "acme", 100)

	due, err := s.service.ListDueTenants(s.GetContext())
	s.NoError(err)
	s.Len(due, 1)
	s.Equal(t.ID, due[0].ID)
	s.Equal(t.FacilityCode, due[0].FacilityCode)
	s.True(due[0].MonthlyFee.Equal(t.MonthlyFee))
}
