package apikey

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, key *APIKey) error
	GetByID(ctx context.Context, id int64) (*APIKey, error)
	ListByTenant(ctx context.Context, tenantID int64) ([]*APIKey, error)
	Update(ctx context.Context, key *APIKey) error
	Delete(ctx context.Context, id int64) error

	// BulkSetActiveByTenant flips the active flag on every API key owned by
	// the tenant and returns the number of affected rows.
	BulkSetActiveByTenant(ctx context.Context, tenantID int64, active bool) (int64, error)
}
