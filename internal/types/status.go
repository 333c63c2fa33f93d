package types

// Status is a type for the row-level lifecycle of a resource in the database.
// Deleting an invoice flips its status to deleted rather than removing the row,
// so paid invoices can be guarded and history stays queryable.
// Any changes to this type should be reflected in the database schema by running migrations
type Status string

const (
	StatusPublished Status = "published"
	StatusDeleted   Status = "deleted"
)
