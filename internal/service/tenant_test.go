package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/tenantcore/tenantcore/internal/api/dto"
	"github.com/tenantcore/tenantcore/internal/domain/apikey"
	"github.com/tenantcore/tenantcore/internal/domain/tenant"
	"github.com/tenantcore/tenantcore/internal/domain/user"
	ierr "github.com/tenantcore/tenantcore/internal/errors"
	"github.com/tenantcore/tenantcore/internal/testutil"
	"github.com/tenantcore/tenantcore/internal/types"
)

type TenantServiceSuite struct {
	testutil.BaseServiceTestSuite
	service    TenantService
	tenantRepo *testutil.InMemoryTenantStore
	userRepo   *testutil.InMemoryUserStore
	apiKeyRepo *testutil.InMemoryAPIKeyStore
}

func TestTenantService(t *testing.T) {
	suite.Run(t, new(TenantServiceSuite))
}

func (s *TenantServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	s.tenantRepo = s.GetStores().TenantRepo.(*testutil.InMemoryTenantStore)
	s.userRepo = s.GetStores().UserRepo.(*testutil.InMemoryUserStore)
	s.apiKeyRepo = s.GetStores().APIKeyRepo.(*testutil.InMemoryAPIKeyStore)

	s.service = NewTenantService(ServiceParams{
		Logger:      s.GetLogger(),
		Config:      s.GetConfig(),
		DB:          s.GetDB(),
		TenantRepo:  s.tenantRepo,
		UserRepo:    s.userRepo,
		APIKeyRepo:  s.apiKeyRepo,
		InvoiceRepo: s.GetStores().InvoiceRepo,
	})
}

func (s *TenantServiceSuite) createTestTenant(status types.TenantStatus, paymentStatus types.PaymentStatus) *tenant.Tenant {
	t := &tenant.Tenant{
		Name:          "Acme Corp",
		FacilityCode:  "ACME-01",
		Domain:        "acme.example.com",
		Tier:          types.SubscriptionTierPro,
		MonthlyFee:    decimal.NewFromInt(100),
		Currency:      "USD",
		Status:        status,
		PaymentStatus: paymentStatus,
	}
	s.NoError(s.tenantRepo.Create(s.GetContext(), t))
	return t
}

func (s *TenantServiceSuite) TestCreateTenant() {
	testCases := []struct {
		name          string
		request       dto.CreateTenantRequest
		expectedError bool
	}{
		{
			name: "valid_tenant",
			request: dto.CreateTenantRequest{
				Name:         "New Tenant",
				FacilityCode: "NT-01",
				Domain:       "nt.example.com",
				Tier:         types.SubscriptionTierStarter,
				MonthlyFee:   decimal.NewFromInt(50),
				Currency:     "USD",
			},
		},
		{
			name: "invalid_tier",
			request: dto.CreateTenantRequest{
				Name:         "Bad Tier",
				FacilityCode: "BT-01",
				Domain:       "bt.example.com",
				Tier:         "platinum",
				Currency:     "USD",
			},
			expectedError: true,
		},
		{
			name: "negative_monthly_fee",
			request: dto.CreateTenantRequest{
				Name:         "Negative Fee",
				FacilityCode: "NF-01",
				Domain:       "nf.example.com",
				Tier:         types.SubscriptionTierFree,
				MonthlyFee:   decimal.NewFromInt(-1),
				Currency:     "USD",
			},
			expectedError: true,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			resp, err := s.service.CreateTenant(s.GetContext(), tc.request)
			if tc.expectedError {
				s.Error(err)
				s.Nil(resp)
			} else {
				s.NoError(err)
				s.NotNil(resp)
				s.Equal(tc.request.Name, resp.Name)
				s.Equal(types.TenantStatusPending, resp.Status)
				s.Equal(types.PaymentStatusPending, resp.PaymentStatus)
			}
		})
	}
}

func (s *TenantServiceSuite) TestGetTenantByID() {
	created := s.createTestTenant(types.TenantStatusActive, types.PaymentStatusPaid)

	resp, err := s.service.GetTenantByID(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal(created.Name, resp.Name)

	_, err = s.service.GetTenantByID(s.GetContext(), 9999)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *TenantServiceSuite) TestSuspendTenantCascades() {
	t := s.createTestTenant(types.TenantStatusActive, types.PaymentStatusPaid)

	admin := &user.User{TenantID: t.ID, Email: "admin@acme.example.com", Name: "Admin", Role: types.UserRoleAdmin, IsActive: true}
	member := &user.User{TenantID: t.ID, Email: "member@acme.example.com", Name: "Member", Role: types.UserRoleMember, IsActive: true}
	s.NoError(s.userRepo.Create(s.GetContext(), admin))
	s.NoError(s.userRepo.Create(s.GetContext(), member))

	key := &apikey.APIKey{TenantID: t.ID, Name: "primary", KeyHash: "hash", IsActive: true}
	s.NoError(s.apiKeyRepo.Create(s.GetContext(), key))

	resp, err := s.service.SuspendTenant(s.GetContext(), t.ID, "non payment")
	s.NoError(err)
	s.Equal(types.TenantStatusSuspended, resp.Status)
	s.Equal(int64(2), resp.AffectedUsers)
	s.Equal(int64(1), resp.AffectedAPIKeys)

	// suspension cascades to every user, admins included
	users, err := s.userRepo.ListByTenant(s.GetContext(), t.ID)
	s.NoError(err)
	for _, u := range users {
		s.False(u.IsActive)
	}

	keys, err := s.apiKeyRepo.ListByTenant(s.GetContext(), t.ID)
	s.NoError(err)
	for _, k := range keys {
		s.False(k.IsActive)
	}

	suspended, err := s.tenantRepo.GetByID(s.GetContext(), t.ID)
	s.NoError(err)
	s.NotNil(suspended.SuspensionReason)
	s.Equal("non payment", *suspended.SuspensionReason)
	s.NotNil(suspended.SuspendedAt)
}

func (s *TenantServiceSuite) TestActivateTenantExemptsAdmins() {
	t := s.createTestTenant(types.TenantStatusSuspended, types.PaymentStatusPaid)

	admin := &user.User{TenantID: t.ID, Email: "admin@acme.example.com", Name: "Admin", Role: types.UserRoleAdmin, IsActive: false}
	member := &user.User{TenantID: t.ID, Email: "member@acme.example.com", Name: "Member", Role: types.UserRoleMember, IsActive: false}
	s.NoError(s.userRepo.Create(s.GetContext(), admin))
	s.NoError(s.userRepo.Create(s.GetContext(), member))

	key := &apikey.APIKey{TenantID: t.ID, Name: "primary", KeyHash: "hash", IsActive: false}
	s.NoError(s.apiKeyRepo.Create(s.GetContext(), key))

	resp, err := s.service.ActivateTenant(s.GetContext(), t.ID)
	s.NoError(err)
	s.Equal(types.TenantStatusActive, resp.Status)
	s.Equal(int64(1), resp.AffectedUsers)
	s.Equal(int64(1), resp.AffectedAPIKeys)

	// the admin stays as it was, only the member is reactivated
	gotAdmin, err := s.userRepo.GetByID(s.GetContext(), admin.ID)
	s.NoError(err)
	s.False(gotAdmin.IsActive)

	gotMember, err := s.userRepo.GetByID(s.GetContext(), member.ID)
	s.NoError(err)
	s.True(gotMember.IsActive)

	activated, err := s.tenantRepo.GetByID(s.GetContext(), t.ID)
	s.NoError(err)
	s.Nil(activated.SuspensionReason)
	s.Nil(activated.SuspendedAt)
}

func (s *TenantServiceSuite) TestActivateTenantRefusedWhenOverdue() {
	t := s.createTestTenant(types.TenantStatusSuspended, types.PaymentStatusOverdue)

	member := &user.User{TenantID: t.ID, Email: "member@acme.example.com", Name: "Member", Role: types.UserRoleMember, IsActive: false}
	s.NoError(s.userRepo.Create(s.GetContext(), member))

	resp, err := s.service.ActivateTenant(s.GetContext(), t.ID)
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsConflict(err))

	// nothing was mutated
	got, err := s.tenantRepo.GetByID(s.GetContext(), t.ID)
	s.NoError(err)
	s.Equal(types.TenantStatusSuspended, got.Status)

	gotMember, err := s.userRepo.GetByID(s.GetContext(), member.ID)
	s.NoError(err)
	s.False(gotMember.IsActive)
}

func (s *TenantServiceSuite) TestUpdateTenant() {
	t := s.createTestTenant(types.TenantStatusActive, types.PaymentStatusPaid)

	newName := "Acme Holdings"
	newStatus := types.PaymentStatusOverdue
	resp, err := s.service.UpdateTenant(s.GetContext(), t.ID, dto.UpdateTenantRequest{
		Name:          &newName,
		PaymentStatus: &newStatus,
	})
	s.NoError(err)
	s.Equal(newName, resp.Name)
	s.Equal(newStatus, resp.PaymentStatus)
}
