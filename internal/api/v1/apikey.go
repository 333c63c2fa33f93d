package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tenantcore/tenantcore/internal/api/dto"
	ierr "github.com/tenantcore/tenantcore/internal/errors"
	"github.com/tenantcore/tenantcore/internal/logger"
	"github.com/tenantcore/tenantcore/internal/service"
)

type APIKeyHandler struct {
	service service.APIKeyService
	log     *logger.Logger
}

func NewAPIKeyHandler(service service.APIKeyService, log *logger.Logger) *APIKeyHandler {
	return &APIKeyHandler{service: service, log: log}
}

// @Summary Create an API key
// @Description Create an API key for a tenant; the plaintext key is returned exactly once
// @Tags APIKeys
// @Accept json
// @Produce json
// @Param id path int true "Tenant ID"
// @Param request body dto.CreateAPIKeyRequest true "Create API key request"
// @Success 201 {object} dto.APIKeyResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /tenants/{id}/apikeys [post]
func (h *APIKeyHandler) CreateAPIKey(c *gin.Context) {
	tenantID, err := parseIDParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req dto.CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(ierr.WithError(err).
			WithHint("Invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateAPIKey(c.Request.Context(), tenantID, req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary List API keys for a tenant
// @Tags APIKeys
// @Produce json
// @Param id path int true "Tenant ID"
// @Success 200 {array} dto.APIKeyResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /tenants/{id}/apikeys [get]
func (h *APIKeyHandler) ListAPIKeysByTenant(c *gin.Context) {
	tenantID, err := parseIDParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp, err := h.service.ListAPIKeysByTenant(c.Request.Context(), tenantID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Delete API key
// @Tags APIKeys
// @Param id path int true "API key ID"
// @Success 204
// @Failure 404 {object} ierr.ErrorResponse
// @Router /apikeys/{id} [delete]
func (h *APIKeyHandler) DeleteAPIKey(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.service.DeleteAPIKey(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
