package service

import (
	"context"

	"github.com/tenantcore/tenantcore/internal/api/dto"
)

type UserService interface {
	CreateUser(ctx context.Context, tenantID int64, req dto.CreateUserRequest) (*dto.UserResponse, error)
	GetUserByID(ctx context.Context, id int64) (*dto.UserResponse, error)
	ListUsersByTenant(ctx context.Context, tenantID int64) ([]*dto.UserResponse, error)
	UpdateUser(ctx context.Context, id int64, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, id int64) error
}

type userService struct {
	ServiceParams
}

func NewUserService(params ServiceParams) UserService {
	return &userService{
		ServiceParams: params,
	}
}

func (s *userService) CreateUser(ctx context.Context, tenantID int64, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.TenantRepo.GetByID(ctx, tenantID); err != nil {
		return nil, err
	}

	u := req.ToUser(tenantID)
	if err := s.UserRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.Logger.Infow("created user", "user_id", u.ID, "tenant_id", tenantID, "role", u.Role)

	return dto.NewUserResponse(u), nil
}

func (s *userService) GetUserByID(ctx context.Context, id int64) (*dto.UserResponse, error) {
	u, err := s.UserRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return dto.NewUserResponse(u), nil
}

func (s *userService) ListUsersByTenant(ctx context.Context, tenantID int64) ([]*dto.UserResponse, error) {
	if _, err := s.TenantRepo.GetByID(ctx, tenantID); err != nil {
		return nil, err
	}

	users, err := s.UserRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, dto.NewUserResponse(u))
	}

	return responses, nil
}

func (s *userService) UpdateUser(ctx context.Context, id int64, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.UserRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Role != nil {
		u.Role = *req.Role
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}

	if err := s.UserRepo.Update(ctx, u); err != nil {
		return nil, err
	}

	return dto.NewUserResponse(u), nil
}

func (s *userService) DeleteUser(ctx context.Context, id int64) error {
	if _, err := s.UserRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.UserRepo.Delete(ctx, id)
}
