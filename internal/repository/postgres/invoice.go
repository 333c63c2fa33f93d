package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	domainInvoice "github.com/tenantcore/tenantcore/internal/domain/invoice"
	ierr "github.com/tenantcore/tenantcore/internal/errors"
	"github.com/tenantcore/tenantcore/internal/logger"
	"github.com/tenantcore/tenantcore/internal/postgres"
	"github.com/tenantcore/tenantcore/internal/types"
)

type invoiceRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(client postgres.IClient, logger *logger.Logger) domainInvoice.Repository {
	return &invoiceRepository{
		client: client,
		logger: logger,
	}
}

// Create persists the invoice and its line items in a single transaction.
func (r *invoiceRepository) Create(ctx context.Context, inv *domainInvoice.Invoice) error {
	r.logger.Debugw("creating invoice",
		"tenant_id", inv.TenantID,
		"invoice_number", inv.InvoiceNumber,
		"line_items", len(inv.LineItems))

	return r.client.WithTx(ctx, func(ctx context.Context) error {
		now := time.Now().UTC()
		inv.CreatedAt = now
		inv.UpdatedAt = now
		if inv.Status == "" {
			inv.Status = types.StatusPublished
		}

		query := `
			INSERT INTO invoices (
				tenant_id, invoice_number, invoice_date, due_date, currency,
				tax_rate, total_amount, tax_amount, net_amount,
				invoice_status, invoice_type, plan_id, period_key, period_label,
				paid_at, status, created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
				$15, $16, $17, $18
			)
			RETURNING id`

		err := r.client.Querier(ctx).GetContext(ctx, &inv.ID, query,
			inv.TenantID, inv.InvoiceNumber, inv.InvoiceDate, inv.DueDate, inv.Currency,
			inv.TaxRate, inv.TotalAmount, inv.TaxAmount, inv.NetAmount,
			inv.InvoiceStatus, inv.InvoiceType, inv.PlanID, inv.PeriodKey, inv.PeriodLabel,
			inv.PaidAt, inv.Status, inv.CreatedAt, inv.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return ierr.WithError(err).
					WithHint("An invoice with this number already exists for the tenant").
					WithReportableDetails(map[string]any{
						"tenant_id":      inv.TenantID,
						"invoice_number": inv.InvoiceNumber,
					}).
					Mark(ierr.ErrAlreadyExists)
			}
			return ierr.WithError(err).
				WithHint("Failed to create invoice").
				Mark(ierr.ErrDatabase)
		}

		for _, item := range inv.LineItems {
			item.InvoiceID = inv.ID
			item.CreatedAt = now
			item.UpdatedAt = now

			itemQuery := `
				INSERT INTO invoice_line_items (
					invoice_id, description, quantity, unit, unit_price,
					total_price, tax_rate, tax_amount, net_amount,
					resource_type, period_start, period_end, created_at, updated_at
				) VALUES (
					$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
				)
				RETURNING id`

			err := r.client.Querier(ctx).GetContext(ctx, &item.ID, itemQuery,
				item.InvoiceID, item.Description, item.Quantity, item.Unit, item.UnitPrice,
				item.TotalPrice, item.TaxRate, item.TaxAmount, item.NetAmount,
				item.ResourceType, item.PeriodStart, item.PeriodEnd, item.CreatedAt, item.UpdatedAt,
			)
			if err != nil {
				return ierr.WithError(err).
					WithHint("Failed to create invoice line item").
					Mark(ierr.ErrDatabase)
			}
		}

		return nil
	})
}

func (r *invoiceRepository) GetByID(ctx context.Context, id int64) (*domainInvoice.Invoice, error) {
	var inv domainInvoice.Invoice
	query := `SELECT * FROM invoices WHERE id = $1 AND status <> $2`

	err := r.client.Querier(ctx).GetContext(ctx, &inv, query, id, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainInvoice.NewInvoiceNotFoundError(id)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get invoice").
			Mark(ierr.ErrDatabase)
	}

	itemsQuery := `SELECT * FROM invoice_line_items WHERE invoice_id = $1 ORDER BY id`
	if err := r.client.Querier(ctx).SelectContext(ctx, &inv.LineItems, itemsQuery, id); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get invoice line items").
			Mark(ierr.ErrDatabase)
	}

	return &inv, nil
}

func (r *invoiceRepository) Update(ctx context.Context, inv *domainInvoice.Invoice) error {
	inv.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE invoices SET
			due_date = $2, currency = $3, tax_rate = $4, total_amount = $5,
			tax_amount = $6, net_amount = $7, invoice_status = $8,
			period_label = $9, paid_at = $10, updated_at = $11
		WHERE id = $1 AND status <> $12`

	res, err := r.client.Querier(ctx).ExecContext(ctx, query,
		inv.ID, inv.DueDate, inv.Currency, inv.TaxRate, inv.TotalAmount,
		inv.TaxAmount, inv.NetAmount, inv.InvoiceStatus,
		inv.PeriodLabel, inv.PaidAt, inv.UpdatedAt, types.StatusDeleted,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update invoice").
			Mark(ierr.ErrDatabase)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return domainInvoice.NewInvoiceNotFoundError(inv.ID)
	}

	return nil
}

// Delete soft-deletes the invoice. The paid-invoice guard lives in the
// service layer; this only flips the row status.
func (r *invoiceRepository) Delete(ctx context.Context, id int64) error {
	query := `UPDATE invoices SET status = $2, updated_at = $3 WHERE id = $1 AND status <> $2`

	res, err := r.client.Querier(ctx).ExecContext(ctx, query, id, types.StatusDeleted, time.Now().UTC())
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete invoice").
			Mark(ierr.ErrDatabase)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return domainInvoice.NewInvoiceNotFoundError(id)
	}

	return nil
}

func (r *invoiceRepository) List(ctx context.Context, filter *types.InvoiceFilter) ([]*domainInvoice.Invoice, error) {
	where, args := buildInvoiceFilter(filter)

	query := fmt.Sprintf(
		`SELECT * FROM invoices %s ORDER BY invoice_date DESC, id DESC LIMIT %d OFFSET %d`,
		where, filter.GetLimit(), filter.Offset,
	)

	var invoices []*domainInvoice.Invoice
	if err := r.client.Querier(ctx).SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list invoices").
			Mark(ierr.ErrDatabase)
	}

	return invoices, nil
}

func (r *invoiceRepository) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	where, args := buildInvoiceFilter(filter)

	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM invoices %s`, where)
	if err := r.client.Querier(ctx).GetContext(ctx, &count, query, args...); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count invoices").
			Mark(ierr.ErrDatabase)
	}

	return count, nil
}

func (r *invoiceRepository) ExistsForPeriod(ctx context.Context, tenantID int64, periodKey string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM invoices
			WHERE tenant_id = $1 AND period_key = $2 AND status <> $3
		)`

	err := r.client.Querier(ctx).GetContext(ctx, &exists, query, tenantID, periodKey, types.StatusDeleted)
	if err != nil {
		return false, ierr.WithError(err).
			WithHint("invoice existence check failed").
			WithReportableDetails(map[string]any{
				"tenant_id":  tenantID,
				"period_key": periodKey,
			}).
			Mark(ierr.ErrDatabase)
	}

	return exists, nil
}

// NextSequence atomically advances the invoice number counter for the
// (tenant, prefix, yearMonth) scope. The upsert with RETURNING makes
// concurrent allocations serialize on the sequence row, so no two callers
// ever observe the same value.
func (r *invoiceRepository) NextSequence(ctx context.Context, tenantID int64, prefix string, yearMonth string) (int64, error) {
	query := `
		INSERT INTO invoice_sequences (tenant_id, prefix, year_month, last_value, created_at, updated_at)
		VALUES ($1, $2, $3, 1, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (tenant_id, prefix, year_month) DO UPDATE
		SET last_value = invoice_sequences.last_value + 1,
			updated_at = CURRENT_TIMESTAMP
		RETURNING last_value`

	var lastValue int64
	err := r.client.Querier(ctx).GetContext(ctx, &lastValue, query, tenantID, prefix, yearMonth)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("invoice number generation failed").
			WithReportableDetails(map[string]any{
				"tenant_id":  tenantID,
				"prefix":     prefix,
				"year_month": yearMonth,
			}).
			Mark(ierr.ErrDatabase)
	}

	r.logger.Infow("generated invoice sequence",
		"tenant_id", tenantID,
		"prefix", prefix,
		"year_month", yearMonth,
		"sequence", lastValue)

	return lastValue, nil
}

// buildInvoiceFilter assembles the WHERE clause for list and count queries.
// Soft-deleted invoices are always excluded.
func buildInvoiceFilter(filter *types.InvoiceFilter) (string, []any) {
	clauses := []string{"status <> $1"}
	args := []any{types.StatusDeleted}

	next := func() int { return len(args) + 1 }

	if filter.TenantID != nil {
		clauses = append(clauses, fmt.Sprintf("tenant_id = $%d", next()))
		args = append(args, *filter.TenantID)
	}
	if filter.InvoiceStatus != nil {
		clauses = append(clauses, fmt.Sprintf("invoice_status = $%d", next()))
		args = append(args, *filter.InvoiceStatus)
	}
	if filter.InvoiceType != nil {
		clauses = append(clauses, fmt.Sprintf("invoice_type = $%d", next()))
		args = append(args, *filter.InvoiceType)
	}
	if filter.PeriodKey != nil {
		clauses = append(clauses, fmt.Sprintf("period_key = $%d", next()))
		args = append(args, *filter.PeriodKey)
	}
	if filter.StartDate != nil {
		clauses = append(clauses, fmt.Sprintf("invoice_date >= $%d", next()))
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		clauses = append(clauses, fmt.Sprintf("invoice_date <= $%d", next()))
		args = append(args, *filter.EndDate)
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}
