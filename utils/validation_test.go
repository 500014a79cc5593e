package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUTR(t *testing.T) {
	tests := []struct {
		name    string
		utr     string
		wantMsg string
	}{
		{name: "valid 12 digits", utr: "123456789012", wantMsg: ""},
		{name: "empty", utr: "", wantMsg: "UTR number is required"},
		{name: "11 digits", utr: "12345678901", wantMsg: "UTR number must be 12 digits"},
		{name: "13 digits", utr: "1234567890123", wantMsg: "UTR number must be 12 digits"},
		{name: "letters", utr: "12345678901a", wantMsg: "Only numbers are allowed"},
		{name: "spaces", utr: "123456 89012", wantMsg: "Only numbers are allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUTR(tt.utr)
			if tt.wantMsg == "" {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.Equal(t, "utr_number", err.Field)
			assert.Equal(t, tt.wantMsg, err.Message)
		})
	}
}

func TestValidateAmountBounds(t *testing.T) {
	min := decimal.NewFromInt(100)
	max := decimal.NewFromInt(5000)

	tests := []struct {
		name   string
		amount decimal.Decimal
		min    *decimal.Decimal
		max    *decimal.Decimal
		wantOK bool
	}{
		{name: "within bounds", amount: decimal.NewFromInt(500), min: &min, max: &max, wantOK: true},
		{name: "exactly min", amount: decimal.NewFromInt(100), min: &min, max: &max, wantOK: true},
		{name: "exactly max", amount: decimal.NewFromInt(5000), min: &min, max: &max, wantOK: true},
		{name: "one below min", amount: decimal.NewFromInt(99), min: &min, max: &max, wantOK: false},
		{name: "one above max", amount: decimal.NewFromInt(5001), min: &min, max: &max, wantOK: false},
		{name: "no bounds", amount: decimal.NewFromInt(1), wantOK: true},
		{name: "negative", amount: decimal.NewFromInt(-1), wantOK: false},
		{name: "zero no bounds", amount: decimal.Zero, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAmountBounds(tt.amount, tt.min, tt.max)
			if tt.wantOK {
				assert.Nil(t, err)
			} else {
				require.NotNil(t, err)
				assert.Equal(t, "amount", err.Field)
			}
		})
	}
}

func TestFieldValidationErrorsError(t *testing.T) {
	errs := FieldValidationErrors{
		{Field: "utr_number", Message: "UTR number is required"},
		{Field: "amount", Message: "Amount must not be negative"},
	}
	assert.Equal(t, "utr_number: UTR number is required; amount: Amount must not be negative", errs.Error())
}
