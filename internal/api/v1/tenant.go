package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tenantcore/tenantcore/internal/api/dto"
	ierr "github.com/tenantcore/tenantcore/internal/errors"
	"github.com/tenantcore/tenantcore/internal/logger"
	"github.com/tenantcore/tenantcore/internal/service"
)

type TenantHandler struct {
	service service.TenantService
	log     *logger.Logger
}

func NewTenantHandler(service service.TenantService, log *logger.Logger) *TenantHandler {
	return &TenantHandler{service: service, log: log}
}

// parseIDParam parses a numeric path parameter
func parseIDParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHintf("Invalid %s parameter", name).
			Mark(ierr.ErrValidation)
	}
	return id, nil
}

// @Summary Create a new tenant
// @Description Create a new tenant
// @Tags Tenant
// @Accept json
// @Produce json
// @Param request body dto.CreateTenantRequest true "Create tenant request"
// @Success 201 {object} dto.TenantResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /tenants [post]
func (h *TenantHandler) CreateTenant(c *gin.Context) {
	var req dto.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(ierr.WithError(err).
			WithHint("Invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateTenant(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get tenant by ID
// @Description Get tenant by ID
// @Tags Tenant
// @Produce json
// @Param id path int true "Tenant ID"
// @Success 200 {object} dto.TenantResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /tenants/{id} [get]
func (h *TenantHandler) GetTenantByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp, err := h.service.GetTenantByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List tenants
// @Description List all tenants
// @Tags Tenant
// @Produce json
// @Success 200 {array} dto.TenantResponse
// @Router /tenants [get]
func (h *TenantHandler) GetAllTenants(c *gin.Context) {
	resp, err := h.service.GetAllTenants(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Update tenant
// @Description Update tenant attributes
// @Tags Tenant
// @Accept json
// @Produce json
// @Param id path int true "Tenant ID"
// @Param request body dto.UpdateTenantRequest true "Update tenant request"
// @Success 200 {object} dto.TenantResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /tenants/{id} [put]
func (h *TenantHandler) UpdateTenant(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req dto.UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(ierr.WithError(err).
			WithHint("Invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateTenant(c.Request.Context(), id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Delete tenant
// @Description Delete a tenant and its dependents
// @Tags Tenant
// @Param id path int true "Tenant ID"
// @Success 204
// @Failure 404 {object} ierr.ErrorResponse
// @Router /tenants/{id} [delete]
func (h *TenantHandler) DeleteTenant(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.service.DeleteTenant(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Suspend tenant
// @Description Suspend a tenant and deactivate its users and API keys
// @Tags Tenant
// @Accept json
// @Produce json
// @Param id path int true "Tenant ID"
// @Param request body dto.SuspendTenantRequest true "Suspension reason"
// @Success 200 {object} dto.CascadeResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /tenants/{id}/suspend [post]
func (h *TenantHandler) SuspendTenant(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req dto.SuspendTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(ierr.WithError(err).
			WithHint("Invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.SuspendTenant(c.Request.Context(), id, req.Reason)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Activate tenant
// @Description Activate a tenant and reactivate its API keys and non-admin users
// @Tags Tenant
// @Produce json
// @Param id path int true "Tenant ID"
// @Success 200 {object} dto.CascadeResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /tenants/{id}/activate [post]
func (h *TenantHandler) ActivateTenant(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp, err := h.service.ActivateTenant(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
