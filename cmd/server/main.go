package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/tenantcore/tenantcore/internal/api"
	"github.com/tenantcore/tenantcore/internal/api/cron"
	v1 "github.com/tenantcore/tenantcore/internal/api/v1"
	"github.com/tenantcore/tenantcore/internal/config"
	"github.com/tenantcore/tenantcore/internal/logger"
	"github.com/tenantcore/tenantcore/internal/postgres"
	"github.com/tenantcore/tenantcore/internal/repository"
	"github.com/tenantcore/tenantcore/internal/scheduler"
	"github.com/tenantcore/tenantcore/internal/service"
)

// @title TenantCore API
// @version 1.0
// @description Multi-tenant administration and billing service
// @BasePath /v1
// @schemes http https

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Postgres
			postgres.NewDB,
			postgres.NewClient,

			// Repositories
			repository.NewTenantRepository,
			repository.NewUserRepository,
			repository.NewAPIKeyRepository,
			repository.NewInvoiceRepository,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewTenantService,
			service.NewUserService,
			service.NewAPIKeyService,
			service.NewInvoiceService,
			service.NewBillingService,
			service.NewBillingStatsService,
		),
	)

	// API surface and background scheduler
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
			scheduler.NewBillingScheduler,
		),
		fx.Invoke(startServer),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHandlers(
	logger *logger.Logger,
	tenantService service.TenantService,
	userService service.UserService,
	apiKeyService service.APIKeyService,
	invoiceService service.InvoiceService,
	billingService service.BillingService,
	billingStatsService service.BillingStatsService,
) api.Handlers {
	return api.Handlers{
		Tenant:      v1.NewTenantHandler(tenantService, logger),
		User:        v1.NewUserHandler(userService, logger),
		APIKey:      v1.NewAPIKeyHandler(apiKeyService, logger),
		Invoice:     v1.NewInvoiceHandler(invoiceService, logger),
		Billing:     v1.NewBillingHandler(billingService, billingStatsService, logger),
		CronBilling: cron.NewBillingHandler(billingService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	billingScheduler *scheduler.BillingScheduler,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infof("Starting API server on %s", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return billingScheduler.Start()
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			billingScheduler.Stop()
			return nil
		},
	})
}
