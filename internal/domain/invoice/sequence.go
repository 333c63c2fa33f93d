package invoice

import (
	"time"
)

// Sequence tracks the last issued invoice number sequence for a
// (tenant, prefix, year-month) scope. The counter is advanced atomically
// by the repository so concurrent allocations never observe the same value.
type Sequence struct {
	TenantID  int64     `db:"tenant_id"`
	Prefix    string    `db:"prefix"`
	YearMonth string    `db:"year_month"`
	LastValue int64     `db:"last_value"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
