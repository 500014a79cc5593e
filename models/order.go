package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order status constants
const (
	OrderStatusPending    = "PENDING"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusCompleted  = "COMPLETED"
	OrderStatusFailed     = "FAILED"
	OrderStatusExpired    = "EXPIRED"
)

// Order represents a request to collect a specific amount through a
// specific payment channel. The order number is the public handle shared
// with the payer; it never changes after creation.
type Order struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderNumber string          `gorm:"uniqueIndex;not null" json:"order_number"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Method      string          `gorm:"not null" json:"method"`
	Status      string          `gorm:"not null;index;index:idx_orders_status_expires" json:"status"`
	UTRNumber   string          `json:"utr_number,omitempty"`
	UPIID       string          `json:"upi_id,omitempty"`
	UserID      uint            `gorm:"index" json:"user_id"`
	ExpiresAt   time.Time       `gorm:"not null;index:idx_orders_status_expires" json:"expires_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// IsTerminalStatus reports whether the status admits no further transitions.
func IsTerminalStatus(status string) bool {
	switch status {
	case OrderStatusCompleted, OrderStatusFailed, OrderStatusExpired:
		return true
	}
	return false
}
