package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domainAPIKey "github.com/tenantcore/tenantcore/internal/domain/apikey"
	ierr "github.com/tenantcore/tenantcore/internal/errors"
	"github.com/tenantcore/tenantcore/internal/logger"
	"github.com/tenantcore/tenantcore/internal/postgres"
)

type apiKeyRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

// NewAPIKeyRepository creates a new API key repository
func NewAPIKeyRepository(client postgres.IClient, logger *logger.Logger) domainAPIKey.Repository {
	return &apiKeyRepository{
		client: client,
		logger: logger,
	}
}

func (r *apiKeyRepository) Create(ctx context.Context, k *domainAPIKey.APIKey) error {
	r.logger.Debugw("creating api key", "tenant_id", k.TenantID, "name", k.Name)

	now := time.Now().UTC()
	k.CreatedAt = now
	k.UpdatedAt = now

	query := `
		INSERT INTO api_keys (tenant_id, name, key_hash, is_active, last_used_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := r.client.Querier(ctx).GetContext(ctx, &k.ID, query,
		k.TenantID, k.Name, k.KeyHash, k.IsActive, k.LastUsedAt, k.CreatedAt, k.UpdatedAt,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create api key").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *apiKeyRepository) GetByID(ctx context.Context, id int64) (*domainAPIKey.APIKey, error) {
	var k domainAPIKey.APIKey
	query := `SELECT * FROM api_keys WHERE id = $1`

	err := r.client.Querier(ctx).GetContext(ctx, &k, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("api key not found").
				WithHintf("api key not found for id: %d", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get api key").
			Mark(ierr.ErrDatabase)
	}

	return &k, nil
}

func (r *apiKeyRepository) ListByTenant(ctx context.Context, tenantID int64) ([]*domainAPIKey.APIKey, error) {
	var keys []*domainAPIKey.APIKey
	query := `SELECT * FROM api_keys WHERE tenant_id = $1 ORDER BY id`

	if err := r.client.Querier(ctx).SelectContext(ctx, &keys, query, tenantID); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list api keys").
			WithReportableDetails(map[string]any{
				"tenant_id": tenantID,
			}).
			Mark(ierr.ErrDatabase)
	}

	return keys, nil
}

func (r *apiKeyRepository) Update(ctx context.Context, k *domainAPIKey.APIKey) error {
	k.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE api_keys SET
			name = $2, is_active = $3, last_used_at = $4, updated_at = $5
		WHERE id = $1`

	res, err := r.client.Querier(ctx).ExecContext(ctx, query,
		k.ID, k.Name, k.IsActive, k.LastUsedAt, k.UpdatedAt,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update api key").
			Mark(ierr.ErrDatabase)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return ierr.NewError("api key not found").
			WithHintf("api key not found for id: %d", k.ID).
			Mark(ierr.ErrNotFound)
	}

	return nil
}

func (r *apiKeyRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.client.Querier(ctx).ExecContext(ctx, `DELETE FROM api_keys WHERE id = $1`, id)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete api key").
			Mark(ierr.ErrDatabase)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return ierr.NewError("api key not found").
			WithHintf("api key not found for id: %d", id).
			Mark(ierr.ErrNotFound)
	}

	return nil
}

func (r *apiKeyRepository) BulkSetActiveByTenant(ctx context.Context, tenantID int64, active bool) (int64, error) {
	query := `UPDATE api_keys SET is_active = $2, updated_at = $3 WHERE tenant_id = $1`

	res, err := r.client.Querier(ctx).ExecContext(ctx, query, tenantID, active, time.Now().UTC())
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to bulk update api keys").
			WithReportableDetails(map[string]any{
				"tenant_id": tenantID,
				"active":    active,
			}).
			Mark(ierr.ErrDatabase)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to read affected row count").
			Mark(ierr.ErrDatabase)
	}

	return affected, nil
}
