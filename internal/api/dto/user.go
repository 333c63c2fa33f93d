package dto

import (
	"time"

	"github.com/tenantcore/tenantcore/internal/domain/user"
	"github.com/tenantcore/tenantcore/internal/types"
)

type CreateUserRequest struct {
	Email string         `json:"email" binding:"required,email"`
	Name  string         `json:"name" binding:"required"`
	Role  types.UserRole `json:"role" binding:"required"`
}

func (r *CreateUserRequest) Validate() error {
	return r.Role.Validate()
}

// ToUser builds the domain user; new users start active.
func (r *CreateUserRequest) ToUser(tenantID int64) *user.User {
	return &user.User{
		TenantID: tenantID,
		Email:    r.Email,
		Name:     r.Name,
		Role:     r.Role,
		IsActive: true,
	}
}

type UpdateUserRequest struct {
	Name     *string         `json:"name,omitempty"`
	Role     *types.UserRole `json:"role,omitempty"`
	IsActive *bool           `json:"is_active,omitempty"`
}

func (r *UpdateUserRequest) Validate() error {
	if r.Role != nil {
		return r.Role.Validate()
	}
	return nil
}

type UserResponse struct {
	ID        int64          `json:"id"`
	TenantID  int64          `json:"tenant_id"`
	Email     string         `json:"email"`
	Name      string         `json:"name"`
	Role      types.UserRole `json:"role"`
	IsActive  bool           `json:"is_active"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}

// NewUserResponse converts a User domain object into a UserResponse DTO
func NewUserResponse(u *user.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		TenantID:  u.TenantID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}
