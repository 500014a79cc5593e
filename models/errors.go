package models

import "errors"

var (
	// ErrOrderNotFound is returned when no order matches the given key
	ErrOrderNotFound = errors.New("order not found")
	// ErrPaymentNotFound is returned when no payment matches the given key
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrMethodNotFound is returned when no usable payment method is configured
	ErrMethodNotFound = errors.New("no active payment method configured")
	// ErrNotPending is returned when a conditional update expected PENDING
	// and matched zero rows; the caller should re-read the current status
	ErrNotPending = errors.New("order is no longer pending")
	// ErrNotProcessing is returned when a resolve action expected PROCESSING
	// and matched zero rows
	ErrNotProcessing = errors.New("order is not awaiting confirmation")
	// ErrPairedInsert is returned when the payment half of a paired insert
	// failed and the order half was rolled back
	ErrPairedInsert = errors.New("paired payment insert failed")
	// ErrDuplicateOrderNumber is returned by the order store on a
	// unique-constraint violation for order_number
	ErrDuplicateOrderNumber = errors.New("order number already exists")
	// ErrCollisionExhausted is returned when order number generation kept
	// colliding past the retry limit
	ErrCollisionExhausted = errors.New("order number generation exhausted retries")
)
