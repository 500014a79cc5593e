package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment mirrors an Order for reconciliation and operator review. It is
// keyed by order number rather than order ID so either record can be looked
// up independently, and it shares the order status constants. Exactly one
// payment exists per order for the lifetime of the order.
type Payment struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrderNumber   string          `gorm:"uniqueIndex;not null" json:"order_number"`
	RecipientName string          `json:"recipient_name"`
	Description   string          `json:"description,omitempty"`
	Method        string          `gorm:"not null" json:"method"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Status        string          `gorm:"not null;index" json:"status"`
	UTRNumber     string          `json:"utr_number,omitempty"`
	UserID        uint            `gorm:"index" json:"user_id"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
