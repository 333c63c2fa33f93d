package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/tenantcore/tenantcore/internal/api/dto"
	"github.com/tenantcore/tenantcore/internal/domain/apikey"
	"github.com/tenantcore/tenantcore/internal/domain/tenant"
	ierr "github.com/tenantcore/tenantcore/internal/errors"
	"github.com/tenantcore/tenantcore/internal/testutil"
	"github.com/tenantcore/tenantcore/internal/types"
)

type APIKeyServiceSuite struct {
	testutil.BaseServiceTestSuite
	service    APIKeyService
	tenantRepo *testutil.InMemoryTenantStore
	apiKeyRepo *testutil.InMemoryAPIKeyStore
	testTenant *tenant.Tenant
}

func TestAPIKeyService(t *testing.T) {
	suite.Run(t, new(APIKeyServiceSuite))
}

func (s *APIKeyServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	s.tenantRepo = s.GetStores().TenantRepo.(*testutil.InMemoryTenantStore)
	s.apiKeyRepo = s.GetStores().APIKeyRepo.(*testutil.InMemoryAPIKeyStore)

	s.service = NewAPIKeyService(ServiceParams{
		Logger:      s.GetLogger(),
		Config:      s.GetConfig(),
		DB:          s.GetDB(),
		TenantRepo:  s.tenantRepo,
		UserRepo:    s.GetStores().UserRepo,
		APIKeyRepo:  s.apiKeyRepo,
		InvoiceRepo: s.GetStores().InvoiceRepo,
	})

	s.testTenant = &tenant.Tenant{
		Name:         "Acme Corp",
		FacilityCode: "ACME-01",
		Domain:       "acme.example.com",
		Tier:         types.SubscriptionTierPro,
		Currency:     "USD",
		Status:       types.TenantStatusActive,
	}
	s.NoError(s.tenantRepo.Create(s.GetContext(), s.testTenant))
}

func (s *APIKeyServiceSuite) TestCreateAPIKeyReturnsPlaintextOnce() {
	resp, err := s.service.CreateAPIKey(s.GetContext(), s.testTenant.ID, dto.CreateAPIKeyRequest{Name: "ci"})
	s.NoError(err)
	s.NotEmpty(resp.Key)
	s.True(strings.HasPrefix(resp.Key, "tc_"))
	s.True(resp.IsActive)

	// only the hash is stored
	stored, err := s.apiKeyRepo.GetByID(s.GetContext(), resp.ID)
	s.NoError(err)
	s.NotEqual(resp.Key, stored.KeyHash)
	s.Equal(apikey.HashKey(resp.Key), stored.KeyHash)

	// listing never exposes key material
	listed, err := s.service.ListAPIKeysByTenant(s.GetContext(), s.testTenant.ID)
	s.NoError(err)
	s.Len(listed, 1)
	s.Empty(listed[0].Key)
}

func (s *APIKeyServiceSuite) TestCreateAPIKeyUnknownTenant() {
	_, err := s.service.CreateAPIKey(s.GetContext(), 9999, dto.CreateAPIKeyRequest{Name: "ci"})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *APIKeyServiceSuite) TestDeleteAPIKey() {
	resp, err := s.service.CreateAPIKey(s.GetContext(), s.testTenant.ID, dto.CreateAPIKeyRequest{Name: "ci"})
	s.NoError(err)

	s.NoError(s.service.DeleteAPIKey(s.GetContext(), resp.ID))

	err = s.service.DeleteAPIKey(s.GetContext(), resp.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
