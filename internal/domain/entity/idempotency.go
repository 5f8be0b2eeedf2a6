package entity

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyKey remembers the response to a write so a retried request is
// answered from here instead of being applied twice.
type IdempotencyKey struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Key          string    `gorm:"uniqueIndex:idx_idempotency_user_key;size:255;not null"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_idempotency_user_key"`
	Endpoint     string    `gorm:"size:255;not null"` // e.g. "POST /api/v1/orders"
	RequestHash  string    `gorm:"size:64"`           // sha256 of the request body
	ResponseCode int       `gorm:"not null"`
	ResponseBody string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"`
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// IsExpired checks if the idempotency key has expired
func (i *IdempotencyKey) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// Pending reports whether the first request holding the key is still running
func (i *IdempotencyKey) Pending() bool {
	return i.ResponseCode == 0
}

// Matches reports whether a replay targets the same endpoint with the same body
func (i *IdempotencyKey) Matches(endpoint, requestHash string) bool {
	return i.Endpoint == endpoint && (i.RequestHash == "" || i.RequestHash == requestHash)
}
