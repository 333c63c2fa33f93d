package tenant

import (
	"context"

	"github.com/tenantcore/tenantcore/internal/types"
)

type Repository interface {
	Create(ctx context.Context, tenant *Tenant) error
	GetByID(ctx context.Context, id int64) (*Tenant, error)
	List(ctx context.Context) ([]*Tenant, error)
	ListByStatus(ctx context.Context, status types.TenantStatus) ([]*Tenant, error)
	Update(ctx context.Context, tenant *Tenant) error
	Delete(ctx context.Context, id int64) error
}
