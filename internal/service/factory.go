package service

import (
	"github.com/tenantcore/tenantcore/internal/config"
	"github.com/tenantcore/tenantcore/internal/domain/apikey"
	"github.com/tenantcore/tenantcore/internal/domain/invoice"
	"github.com/tenantcore/tenantcore/internal/domain/tenant"
	"github.com/tenantcore/tenantcore/internal/domain/user"
	"github.com/tenantcore/tenantcore/internal/logger"
	"github.com/tenantcore/tenantcore/internal/postgres"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient

	// Repositories
	TenantRepo  tenant.Repository
	UserRepo    user.Repository
	APIKeyRepo  apikey.Repository
	InvoiceRepo invoice.Repository
}

// NewServiceParams bundles the common service dependencies
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	tenantRepo tenant.Repository,
	userRepo user.Repository,
	apiKeyRepo apikey.Repository,
	invoiceRepo invoice.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:      logger,
		Config:      config,
		DB:          db,
		TenantRepo:  tenantRepo,
		UserRepo:    userRepo,
		APIKeyRepo:  apiKeyRepo,
		InvoiceRepo: invoiceRepo,
	}
}
