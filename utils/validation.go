package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// FieldValidationError represents a validation error for a specific field
type FieldValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldValidationErrors represents multiple field validation errors
type FieldValidationErrors []FieldValidationError

// Error implements the error interface
func (e FieldValidationErrors) Error() string {
	var messages []string
	for _, err := range e {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

var utrRegex = regexp.MustCompile(`^[0-9]{12}$`)

// ValidateUTR checks that a payer-supplied reference number is exactly 12
// numeric digits. Returns a field error describing the failure, or nil.
func ValidateUTR(utr string) *FieldValidationError {
	if utr == "" {
		return &FieldValidationError{Field: "utr_number", Message: "UTR number is required"}
	}
	if !utrRegex.MatchString(utr) {
		if strings.ContainsFunc(utr, func(r rune) bool { return r < '0' || r > '9' }) {
			return &FieldValidationError{Field: "utr_number", Message: "Only numbers are allowed"}
		}
		return &FieldValidationError{Field: "utr_number", Message: "UTR number must be 12 digits"}
	}
	return nil
}

// ValidateAmountBounds checks an amount against a method's optional min/max
// bounds. Amounts equal to a bound are accepted.
func ValidateAmountBounds(amount decimal.Decimal, min, max *decimal.Decimal) *FieldValidationError {
	if amount.IsNegative() {
		return &FieldValidationError{Field: "amount", Message: "Amount must not be negative"}
	}
	if min != nil && amount.LessThan(*min) {
		return &FieldValidationError{Field: "amount", Message: fmt.Sprintf("Amount must be at least %s", min.String())}
	}
	if max != nil && amount.GreaterThan(*max) {
		return &FieldValidationError{Field: "amount", Message: fmt.Sprintf("Amount must not exceed %s", max.String())}
	}
	return nil
}
