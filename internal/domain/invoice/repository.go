package invoice

import (
	"context"

	"github.com/tenantcore/tenantcore/internal/types"
)

// Repository defines the interface for invoice persistence operations
type Repository interface {
	// Create persists a new invoice together with its line items atomically
	Create(ctx context.Context, invoice *Invoice) error

	// GetByID retrieves an invoice and its line items by ID
	GetByID(ctx context.Context, id int64) (*Invoice, error)

	// Update updates an existing invoice
	Update(ctx context.Context, invoice *Invoice) error

	// Delete soft-deletes an invoice; lifecycle guards are the caller's job
	Delete(ctx context.Context, id int64) error

	// List retrieves invoices based on filter criteria
	List(ctx context.Context, filter *types.InvoiceFilter) ([]*Invoice, error)

	// Count returns the total count of invoices based on filter criteria
	Count(ctx context.Context, filter *types.InvoiceFilter) (int, error)

	// ExistsForPeriod reports whether the tenant already has an invoice for
	// the given billing period, the idempotency check for billing runs
	ExistsForPeriod(ctx context.Context, tenantID int64, periodKey string) (bool, error)

	// NextSequence atomically advances and returns the invoice number
	// sequence for the (tenant, prefix, yearMonth) scope
	NextSequence(ctx context.Context, tenantID int64, prefix string, yearMonth string) (int64, error)
}
