package models

import "time"

// APIKey is an issued integration credential. Keys are valid for one year
// from issuance and can be revoked by flipping IsActive.
type APIKey struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	KeyValue  string    `gorm:"uniqueIndex;not null" json:"key_value"`
	Label     string    `json:"label"`
	UserID    uint      `gorm:"index" json:"user_id"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
