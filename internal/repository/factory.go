package repository

import (
	"github.com/tenantcore/tenantcore/internal/domain/apikey"
	"github.com/tenantcore/tenantcore/internal/domain/invoice"
	"github.com/tenantcore/tenantcore/internal/domain/tenant"
	"github.com/tenantcore/tenantcore/internal/domain/user"
	"github.com/tenantcore/tenantcore/internal/logger"
	"github.com/tenantcore/tenantcore/internal/postgres"
	postgresRepo "github.com/tenantcore/tenantcore/internal/repository/postgres"
)

func NewTenantRepository(client postgres.IClient, logger *logger.Logger) tenant.Repository {
	return postgresRepo.NewTenantRepository(client, logger)
}

func NewUserRepository(client postgres.IClient, logger *logger.Logger) user.Repository {
	return postgresRepo.NewUserRepository(client, logger)
}

func NewAPIKeyRepository(client postgres.IClient, logger *logger.Logger) apikey.Repository {
	return postgresRepo.NewAPIKeyRepository(client, logger)
}

func NewInvoiceRepository(client postgres.IClient, logger *logger.Logger) invoice.Repository {
	return postgresRepo.NewInvoiceRepository(client, logger)
}
