package apikey

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// APIKey represents a programmatic credential owned by a tenant. Only the
// SHA-256 hash of the key material is stored; the plaintext key is shown
// once at creation time.
type APIKey struct {
	ID         int64      `db:"id" json:"id"`
	TenantID   int64      `db:"tenant_id" json:"tenant_id"`
	Name       string     `db:"name" json:"name"`
	KeyHash    string     `db:"key_hash" json:"-"`
	IsActive   bool       `db:"is_active" json:"is_active"`
	LastUsedAt *time.Time `db:"last_used_at" json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// HashKey returns the hex-encoded SHA-256 digest of the raw key material
func HashKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
