package api

import (
	"github.com/gin-gonic/gin"
	"github.com/tenantcore/tenantcore/internal/api/cron"
	v1 "github.com/tenantcore/tenantcore/internal/api/v1"
	"github.com/tenantcore/tenantcore/internal/config"
	"github.com/tenantcore/tenantcore/internal/logger"
	"github.com/tenantcore/tenantcore/internal/rest/middleware"
	"github.com/tenantcore/tenantcore/internal/types"
)

type Handlers struct {
	Tenant      *v1.TenantHandler
	User        *v1.UserHandler
	APIKey      *v1.APIKeyHandler
	Invoice     *v1.InvoiceHandler
	Billing     *v1.BillingHandler
	CronBilling *cron.BillingHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, log *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode == types.ModeProd {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.ErrorHandler(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	cronGroup := router.Group("/cron")
	registerCronRoutes(cronGroup, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	tenants := router.Group("/tenants")
	{
		tenants.POST("", handlers.Tenant.CreateTenant)
		tenants.GET("", handlers.Tenant.GetAllTenants)
		tenants.GET("/:id", handlers.Tenant.GetTenantByID)
		tenants.PUT("/:id", handlers.Tenant.UpdateTenant)
		tenants.DELETE("/:id", handlers.Tenant.DeleteTenant)
		tenants.POST("/:id/suspend", handlers.Tenant.SuspendTenant)
		tenants.POST("/:id/activate", handlers.Tenant.ActivateTenant)

		tenants.POST("/:id/users", handlers.User.CreateUser)
		tenants.GET("/:id/users", handlers.User.ListUsersByTenant)

		tenants.POST("/:id/apikeys", handlers.APIKey.CreateAPIKey)
		tenants.GET("/:id/apikeys", handlers.APIKey.ListAPIKeysByTenant)
	}

	users := router.Group("/users")
	{
		users.GET("/:id", handlers.User.GetUserByID)
		users.PUT("/:id", handlers.User.UpdateUser)
		users.DELETE("/:id", handlers.User.DeleteUser)
	}

	apiKeys := router.Group("/apikeys")
	{
		apiKeys.DELETE("/:id", handlers.APIKey.DeleteAPIKey)
	}

	invoices := router.Group("/invoices")
	{
		invoices.POST("", handlers.Invoice.CreateInvoice)
		invoices.GET("", handlers.Invoice.ListInvoices)
		invoices.GET("/:id", handlers.Invoice.GetInvoice)
		invoices.PUT("/:id", handlers.Invoice.UpdateInvoice)
		invoices.POST("/:id/transition", handlers.Invoice.TransitionInvoice)
		invoices.DELETE("/:id", handlers.Invoice.DeleteInvoice)
	}

	billing := router.Group("/billing")
	{
		billing.POST("/run", handlers.Billing.TriggerBillingRun)
		billing.GET("/due", handlers.Billing.ListDueTenants)
		billing.GET("/statistics", handlers.Billing.GetBillingStatistics)
	}
}

func registerCronRoutes(router *gin.RouterGroup, handlers Handlers) {
	billing := router.Group("/billing")
	{
		billing.POST("/run", handlers.CronBilling.RunBilling)
	}
}
