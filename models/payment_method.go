package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment method types
const (
	MethodTypeUPI    = "UPI"
	MethodTypeBank   = "BANK"
	MethodTypeCrypto = "CRYPTO"
	// MethodTypeDemo marks sandbox methods that must never back a real order
	MethodTypeDemo = "DEMO"
)

// PaymentMethod is a merchant-configured collection channel. The coordinator
// only reads it: the time limit drives a new order's expiry and the min/max
// bounds gate payer submissions.
type PaymentMethod struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	Type          string           `gorm:"not null;index" json:"type"`
	UPIID         string           `json:"upi_id,omitempty"`
	BankName      string           `json:"bank_name,omitempty"`
	AccountNumber string           `json:"account_number,omitempty"`
	IFSCCode      string           `json:"ifsc_code,omitempty"`
	CryptoAddress string           `json:"crypto_address,omitempty"`
	CryptoNetwork string           `json:"crypto_network,omitempty"`
	MinAmount     *decimal.Decimal `gorm:"type:decimal(20,2)" json:"min_amount,omitempty"`
	MaxAmount     *decimal.Decimal `gorm:"type:decimal(20,2)" json:"max_amount,omitempty"`
	TimeLimit     int              `gorm:"not null;default:7" json:"time_limit"`
	Active        bool             `gorm:"default:true" json:"active"`
	UserID        uint             `gorm:"index" json:"user_id"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// ValidMethodType reports whether t names a channel orders may be created on.
func ValidMethodType(t string) bool {
	switch t {
	case MethodTypeUPI, MethodTypeBank, MethodTypeCrypto:
		return true
	}
	return false
}
