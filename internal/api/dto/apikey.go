package dto

import (
	"time"

	"github.com/tenantcore/tenantcore/internal/domain/apikey"
)

type CreateAPIKeyRequest struct {
	Name string `json:"name" binding:"required"`
}

type APIKeyResponse struct {
	ID         int64      `json:"id"`
	TenantID   int64      `json:"tenant_id"`
	Name       string     `json:"name"`
	IsActive   bool       `json:"is_active"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	CreatedAt  string     `json:"created_at"`
	UpdatedAt  string     `json:"updated_at"`

	// Key carries the plaintext key material exactly once, on creation
	Key string `json:"key,omitempty"`
}

// NewAPIKeyResponse converts an APIKey domain object into a response DTO.
// The plaintext key is only present when the caller passes it explicitly.
func NewAPIKeyResponse(k *apikey.APIKey, plaintext string) *APIKeyResponse {
	return &APIKeyResponse{
		ID:         k.ID,
		TenantID:   k.TenantID,
		Name:       k.Name,
		IsActive:   k.IsActive,
		LastUsedAt: k.LastUsedAt,
		CreatedAt:  k.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  k.UpdatedAt.Format(time.RFC3339),
		Key:        plaintext,
	}
}
