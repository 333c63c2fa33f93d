package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	ierr "github.com/tenantcore/tenantcore/internal/errors"
	"github.com/tenantcore/tenantcore/internal/logger"
	"github.com/tenantcore/tenantcore/internal/service"
	"github.com/tenantcore/tenantcore/internal/types"
)

type BillingHandler struct {
	billing service.BillingService
	stats   service.BillingStatsService
	log     *logger.Logger
}

func NewBillingHandler(billing service.BillingService, stats service.BillingStatsService, log *logger.Logger) *BillingHandler {
	return &BillingHandler{billing: billing, stats: stats, log: log}
}

// @Summary Trigger a billing run
// @Description Execute one billing tick: invoice every due tenant for the current period
// @Tags Billing
// @Produce json
// @Success 200 {object} dto.BillingRunResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /billing/run [post]
func (h *BillingHandler) TriggerBillingRun(c *gin.Context) {
	resp, err := h.billing.TriggerBillingRun(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List due tenants
// @Description Preview the tenants that the next billing run would invoice
// @Tags Billing
// @Produce json
// @Success 200 {array} dto.DueTenantResponse
// @Router /billing/due [get]
func (h *BillingHandler) ListDueTenants(c *gin.Context) {
	resp, err := h.billing.ListDueTenants(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Billing statistics
// @Description Aggregate invoice counts and amounts, optionally scoped by tenant and date range
// @Tags Billing
// @Produce json
// @Param filter query types.StatsFilter false "Filter"
// @Success 200 {object} dto.BillingStatisticsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /billing/statistics [get]
func (h *BillingHandler) GetBillingStatistics(c *gin.Context) {
	var filter types.StatsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		_ = c.Error(ierr.WithError(err).
			WithHint("Invalid query parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.stats.GetBillingStatistics(c.Request.Context(), &filter)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
