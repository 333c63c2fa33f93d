package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/tenantcore/tenantcore/internal/api/dto"
	"github.com/tenantcore/tenantcore/internal/domain/apikey"
)

type APIKeyService interface {
	// CreateAPIKey generates new key material, stores its hash and returns
	// the plaintext key exactly once
	CreateAPIKey(ctx context.Context, tenantID int64, req dto.CreateAPIKeyRequest) (*dto.APIKeyResponse, error)
	ListAPIKeysByTenant(ctx context.Context, tenantID int64) ([]*dto.APIKeyResponse, error)
	DeleteAPIKey(ctx context.Context, id int64) error
}

type apiKeyService struct {
	ServiceParams
}

func NewAPIKeyService(params ServiceParams) APIKeyService {
	return &apiKeyService{
		ServiceParams: params,
	}
}

func (s *apiKeyService) CreateAPIKey(ctx context.Context, tenantID int64, req dto.CreateAPIKeyRequest) (*dto.APIKeyResponse, error) {
	if _, err := s.TenantRepo.GetByID(ctx, tenantID); err != nil {
		return nil, err
	}

	plaintext := "tc_" + uuid.New().String()

	key := &apikey.APIKey{
		TenantID: tenantID,
		Name:     req.Name,
		KeyHash:  apikey.HashKey(plaintext),
		IsActive: true,
	}

	if err := s.APIKeyRepo.Create(ctx, key); err != nil {
		return nil, err
	}

	s.Logger.Infow("created api key", "api_key_id", key.ID, "tenant_id", tenantID)

	return dto.NewAPIKeyResponse(key, plaintext), nil
}

func (s *apiKeyService) ListAPIKeysByTenant(ctx context.Context, tenantID int64) ([]*dto.APIKeyResponse, error) {
	if _, err := s.TenantRepo.GetByID(ctx, tenantID); err != nil {
		return nil, err
	}

	keys, err := s.APIKeyRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.APIKeyResponse, 0, len(keys))
	for _, k := range keys {
		responses = append(responses, dto.NewAPIKeyResponse(k, ""))
	}

	return responses, nil
}

func (s *apiKeyService) DeleteAPIKey(ctx context.Context, id int64) error {
	if _, err := s.APIKeyRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.APIKeyRepo.Delete(ctx, id)
}
