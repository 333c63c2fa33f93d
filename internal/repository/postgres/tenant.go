package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	ierr "github.com/tenantcore/tenantcore/internal/errors"
	domainTenant "github.com/tenantcore/tenantcore/internal/domain/tenant"
	"github.com/tenantcore/tenantcore/internal/logger"
	"github.com/tenantcore/tenantcore/internal/postgres"
	"github.com/tenantcore/tenantcore/internal/types"
)

const pqUniqueViolation = "23505"

type tenantRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository(client postgres.IClient, logger *logger.Logger) domainTenant.Repository {
	return &tenantRepository{
		client: client,
		logger: logger,
	}
}

func (r *tenantRepository) Create(ctx context.Context, t *domainTenant.Tenant) error {
	r.logger.Debugw("creating tenant", "name", t.Name, "facility_code", t.FacilityCode)

	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	query := `
		INSERT INTO tenants (
			name, facility_code, domain, tier, monthly_fee, currency,
			status, payment_status, subscription_end_date,
			suspension_reason, suspended_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`

	err := r.client.Querier(ctx).GetContext(ctx, &t.ID, query,
		t.Name, t.FacilityCode, t.Domain, t.Tier, t.MonthlyFee, t.Currency,
		t.Status, t.PaymentStatus, t.SubscriptionEndDate,
		t.SuspensionReason, t.SuspendedAt, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("A tenant with this facility code or domain already exists").
				WithReportableDetails(map[string]any{
					"facility_code": t.FacilityCode,
					"domain":        t.Domain,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create tenant").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *tenantRepository) GetByID(ctx context.Context, id int64) (*domainTenant.Tenant, error) {
	var t domainTenant.Tenant
	query := `SELECT * FROM tenants WHERE id = $1`

	err := r.client.Querier(ctx).GetContext(ctx, &t, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainTenant.NewTenantNotFoundError(id)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get tenant").
			WithReportableDetails(map[string]any{
				"tenant_id": id,
			}).
			Mark(ierr.ErrDatabase)
	}

	return &t, nil
}

func (r *tenantRepository) List(ctx context.Context) ([]*domainTenant.Tenant, error) {
	var tenants []*domainTenant.Tenant
	query := `SELECT * FROM tenants ORDER BY id`

	if err := r.client.Querier(ctx).SelectContext(ctx, &tenants, query); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list tenants").
			Mark(ierr.ErrDatabase)
	}

	return tenants, nil
}

func (r *tenantRepository) ListByStatus(ctx context.Context, status types.TenantStatus) ([]*domainTenant.Tenant, error) {
	var tenants []*domainTenant.Tenant
	query := `SELECT * FROM tenants WHERE status = $1 ORDER BY id`

	if err := r.client.Querier(ctx).SelectContext(ctx, &tenants, query, status); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list tenants by status").
			WithReportableDetails(map[string]any{
				"status": status,
			}).
			Mark(ierr.ErrDatabase)
	}

	return tenants, nil
}

func (r *tenantRepository) Update(ctx context.Context, t *domainTenant.Tenant) error {
	t.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE tenants SET
			name = $2, facility_code = $3, domain = $4, tier = $5,
			monthly_fee = $6, currency = $7, status = $8, payment_status = $9,
			subscription_end_date = $10, suspension_reason = $11,
			suspended_at = $12, updated_at = $13
		WHERE id = $1`

	res, err := r.client.Querier(ctx).ExecContext(ctx, query,
		t.ID, t.Name, t.FacilityCode, t.Domain, t.Tier,
		t.MonthlyFee, t.Currency, t.Status, t.PaymentStatus,
		t.SubscriptionEndDate, t.SuspensionReason, t.SuspendedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("A tenant with this facility code or domain already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to update tenant").
			Mark(ierr.ErrDatabase)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return domainTenant.NewTenantNotFoundError(t.ID)
	}

	return nil
}

func (r *tenantRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.client.Querier(ctx).ExecContext(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete tenant").
			Mark(ierr.ErrDatabase)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return domainTenant.NewTenantNotFoundError(id)
	}

	return nil
}

// isUniqueViolation reports whether err is a postgres unique constraint violation
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	return false
}
