package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domainUser "github.com/tenantcore/tenantcore/internal/domain/user"
	ierr "github.com/tenantcore/tenantcore/internal/errors"
	"github.com/tenantcore/tenantcore/internal/logger"
	"github.com/tenantcore/tenantcore/internal/postgres"
	"github.com/tenantcore/tenantcore/internal/types"
)

type userRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(client postgres.IClient, logger *logger.Logger) domainUser.Repository {
	return &userRepository{
		client: client,
		logger: logger,
	}
}

func (r *userRepository) Create(ctx context.Context, u *domainUser.User) error {
	r.logger.Debugw("creating user", "tenant_id", u.TenantID, "email", u.Email)

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	query := `
		INSERT INTO users (tenant_id, email, name, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := r.client.Querier(ctx).GetContext(ctx, &u.ID, query,
		u.TenantID, u.Email, u.Name, u.Role, u.IsActive, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("A user with this email already exists").
				WithReportableDetails(map[string]any{
					"email": u.Email,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create user").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domainUser.User, error) {
	var u domainUser.User
	query := `SELECT * FROM users WHERE id = $1`

	err := r.client.Querier(ctx).GetContext(ctx, &u, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("user not found").
				WithHintf("user not found for id: %d", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get user").
			Mark(ierr.ErrDatabase)
	}

	return &u, nil
}

func (r *userRepository) ListByTenant(ctx context.Context, tenantID int64) ([]*domainUser.User, error) {
	var users []*domainUser.User
	query := `SELECT * FROM users WHERE tenant_id = $1 ORDER BY id`

	if err := r.client.Querier(ctx).SelectContext(ctx, &users, query, tenantID); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list users").
			WithReportableDetails(map[string]any{
				"tenant_id": tenantID,
			}).
			Mark(ierr.ErrDatabase)
	}

	return users, nil
}

func (r *userRepository) Update(ctx context.Context, u *domainUser.User) error {
	u.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE users SET
			email = $2, name = $3, role = $4, is_active = $5, updated_at = $6
		WHERE id = $1`

	res, err := r.client.Querier(ctx).ExecContext(ctx, query,
		u.ID, u.Email, u.Name, u.Role, u.IsActive, u.UpdatedAt,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update user").
			Mark(ierr.ErrDatabase)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return ierr.NewError("user not found").
			WithHintf("user not found for id: %d", u.ID).
			Mark(ierr.ErrNotFound)
	}

	return nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.client.Querier(ctx).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete user").
			Mark(ierr.ErrDatabase)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return ierr.NewError("user not found").
			WithHintf("user not found for id: %d", id).
			Mark(ierr.ErrNotFound)
	}

	return nil
}

func (r *userRepository) BulkSetActiveByTenant(ctx context.Context, tenantID int64, active bool, exemptAdmins bool) (int64, error) {
	query := `UPDATE users SET is_active = $2, updated_at = $3 WHERE tenant_id = $1`
	args := []any{tenantID, active, time.Now().UTC()}

	if exemptAdmins {
		query += ` AND role <> $4`
		args = append(args, types.UserRoleAdmin)
	}

	res, err := r.client.Querier(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to bulk update users").
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
