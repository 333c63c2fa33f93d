package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/tenantcore/tenantcore/internal/config"
	"github.com/tenantcore/tenantcore/internal/domain/apikey"
	"github.com/tenantcore/tenantcore/internal/domain/invoice"
	"github.com/tenantcore/tenantcore/internal/domain/tenant"
	"github.com/tenantcore/tenantcore/internal/domain/user"
	"github.com/tenantcore/tenantcore/internal/logger"
	"github.com/tenantcore/tenantcore/internal/postgres"
	"github.com/tenantcore/tenantcore/internal/types"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	TenantRepo  tenant.Repository
	UserRepo    user.Repository
	APIKeyRepo  apikey.Repository
	InvoiceRepo invoice.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	db     postgres.IClient
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	var err error
	s.logger, err = logger.NewLogger()
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}

	s.config = &config.Configuration{
		Deployment: config.DeploymentConfig{Mode: types.ModeLocal},
		Logging:    config.LoggingConfig{Level: types.LogLevelInfo},
		Billing: config.BillingConfig{
			Workers:               4,
			DueDateOffsetDays:     14,
			DefaultTaxRatePercent: 0,
		},
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.ClearStores()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		TenantRepo:  NewInMemoryTenantStore(),
		UserRepo:    NewInMemoryUserStore(),
		APIKeyRepo:  NewInMemoryAPIKeyStore(),
		InvoiceRepo: NewInMemoryInvoiceStore(),
	}
	s.db = NewMockPostgresClient(s.logger)
}

// ClearStores resets every in-memory store
func (s *BaseServiceTestSuite) ClearStores() {
	s.stores.TenantRepo.(*InMemoryTenantStore).Clear()
	s.stores.UserRepo.(*InMemoryUserStore).Clear()
	s.stores.APIKeyRepo.(*InMemoryAPIKeyStore).Clear()
	s.stores.InvoiceRepo.(*InMemoryInvoiceStore).Clear()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetStores returns the test stores
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetDB returns the mock database client
func (s *BaseServiceTestSuite) GetDB() postgres.IClient {
	return s.db
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}
