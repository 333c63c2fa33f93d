package service

import (
	"context"
	"time"

	"github.com/tenantcore/tenantcore/internal/api/dto"
	"github.com/tenantcore/tenantcore/internal/domain/tenant"
	"github.com/tenantcore/tenantcore/internal/types"
)

type TenantService interface {
	CreateTenant(ctx context.Context, req dto.CreateTenantRequest) (*dto.TenantResponse, error)
	GetTenantByID(ctx context.Context, id int64) (*dto.TenantResponse, error)
	GetAllTenants(ctx context.Context) ([]*dto.TenantResponse, error)
	UpdateTenant(ctx context.Context, id int64, req dto.UpdateTenantRequest) (*dto.TenantResponse, error)
	DeleteTenant(ctx context.Context, id int64) error

	// SuspendTenant marks the tenant suspended and cascades the inactive
	// flag to every user and API key it owns, in one transaction.
	SuspendTenant(ctx context.Context, id int64, reason string) (*dto.CascadeResponse, error)

	// ActivateTenant re-activates a tenant and cascades the active flag to
	// its API keys and non-admin users. Refused while payments are overdue.
	ActivateTenant(ctx context.Context, id int64) (*dto.CascadeResponse, error)
}

type tenantService struct {
	ServiceParams
}

func NewTenantService(params ServiceParams) TenantService {
	return &tenantService{
		ServiceParams: params,
	}
}

func (s *tenantService) CreateTenant(ctx context.Context, req dto.CreateTenantRequest) (*dto.TenantResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	newTenant := req.ToTenant()
	if err := s.TenantRepo.Create(ctx, newTenant); err != nil {
		return nil, err
	}

	s.Logger.Infow("created tenant",
		"tenant_id", newTenant.ID,
		"facility_code", newTenant.FacilityCode)

	return dto.NewTenantResponse(newTenant), nil
}

func (s *tenantService) GetTenantByID(ctx context.Context, id int64) (*dto.TenantResponse, error) {
	t, err := s.TenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return dto.NewTenantResponse(t), nil
}

func (s *tenantService) GetAllTenants(ctx context.Context) ([]*dto.TenantResponse, error) {
	tenants, err := s.TenantRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.TenantResponse, 0, len(tenants))
	for _, t := range tenants {
		responses = append(responses, dto.NewTenantResponse(t))
	}

	return responses, nil
}

func (s *tenantService) UpdateTenant(ctx context.Context, id int64, req dto.UpdateTenantRequest) (*dto.TenantResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.TenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Tier != nil {
		existing.Tier = *req.Tier
	}
	if req.MonthlyFee != nil {
		existing.MonthlyFee = *req.MonthlyFee
	}
	if req.Currency != nil {
		existing.Currency = *req.Currency
	}
	if req.PaymentStatus != nil {
		existing.PaymentStatus = *req.PaymentStatus
	}
	if req.SubscriptionEndDate != nil {
		existing.SubscriptionEndDate = req.SubscriptionEndDate
	}

	if err := s.TenantRepo.Update(ctx, existing); err != nil {
		return nil, err
	}

	return dto.NewTenantResponse(existing), nil
}

func (s *tenantService) DeleteTenant(ctx context.Context, id int64) error {
	if _, err := s.TenantRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.TenantRepo.Delete(ctx, id)
}

func (s *tenantService) SuspendTenant(ctx context.Context, id int64, reason string) (*dto.CascadeResponse, error) {
	t, err := s.TenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var userCount, keyCount int64

	// The tenant status change and both bulk flips commit or roll back as
	// one unit so readers never observe a partial cascade.
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		now := time.Now().UTC()
		t.Status = types.TenantStatusSuspended
		t.SuspensionReason = &reason
		t.SuspendedAt = &now

		if err := s.TenantRepo.Update(ctx, t); err != nil {
			return err
		}

		userCount, err = s.UserRepo.BulkSetActiveByTenant(ctx, id, false, false)
		if err != nil {
			return err
		}

		keyCount, err = s.APIKeyRepo.BulkSetActiveByTenant(ctx, id, false)
		if err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("suspended tenant",
		"tenant_id", id,
		"reason", reason,
		"suspended_users", userCount,
		"suspended_api_keys", keyCount)

	return &dto.CascadeResponse{
		TenantID:        id,
		Status:          types.TenantStatusSuspended,
		AffectedUsers:   userCount,
		AffectedAPIKeys: keyCount,
	}, nil
}

func (s *tenantService) ActivateTenant(ctx context.Context, id int64) (*dto.CascadeResponse, error) {
	t, err := s.TenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Checked before any mutation: an overdue tenant stays suspended.
	if t.PaymentStatus == types.PaymentStatusOverdue {
		return nil, tenant.NewOverduePaymentError(id)
	}

	var userCount, keyCount int64

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		t.Status = types.TenantStatusActive
		t.SuspensionReason = nil
		t.SuspendedAt = nil

		if err := s.TenantRepo.Update(ctx, t); err != nil {
			return err
		}

		// Admin accounts are exempt from reactivation; a manually disabled
		// admin must not come back just because the tenant did.
		userCount, err = s.UserRepo.BulkSetActiveByTenant(ctx, id, true, true)
		if err != nil {
			return err
		}

		keyCount, err = s.APIKeyRepo.BulkSetActiveByTenant(ctx, id, true)
		if err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("activated tenant",
		"tenant_id", id,
		"activated_users", userCount,
		"activated_api_keys", keyCount)

	return &dto.CascadeResponse{
		TenantID:        id,
		Status:          types.TenantStatusActive,
		AffectedUsers:   userCount,
		AffectedAPIKeys: keyCount,
	}, nil
}
