package cron

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tenantcore/tenantcore/internal/logger"
	"github.com/tenantcore/tenantcore/internal/service"
)

// BillingHandler handles billing related cron jobs
type BillingHandler struct {
	billingService service.BillingService
	log            *logger.Logger
}

func NewBillingHandler(billingService service.BillingService, log *logger.Logger) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
		log:            log,
	}
}

// RunBilling executes one scheduled billing tick over all due tenants
func (h *BillingHandler) RunBilling(c *gin.Context) {
	h.log.Infow("starting billing cron job", "time", time.Now().UTC().Format(time.RFC3339))

	resp, err := h.billingService.TriggerBillingRun(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.log.Infow("completed billing cron job",
		"attempted", resp.Attempted,
		"created", resp.Created,
		"failed", resp.Failed)

	c.JSON(http.StatusOK, resp)
}
