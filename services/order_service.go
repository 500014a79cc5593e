package services

import (
	"context"
	"errors"
	"time"

	"github.com/vermils/paydesk/models"
	"github.com/vermils/paydesk/utils"

	"github.com/shopspring/decimal"
)

// orderNumberAttempts bounds collision retries during order creation
const orderNumberAttempts = 5

// OrderStore is the coordinator's view of the order table
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	FindPendingByUser(ctx context.Context, userID uint, now time.Time) (*models.Order, error)
	UpdateStatusIf(ctx context.Context, orderNumber, from, to string, fields map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id uint) error
	FindPendingBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error)
}

// PaymentStore is the coordinator's view of the payment table
type PaymentStore interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Payment, error)
	UpdateStatusIf(ctx context.Context, orderNumber, from, to string, fields map[string]interface{}) (int64, error)
}

// MethodStore resolves merchant channel configuration at creation time
type MethodStore interface {
	FindActiveByType(ctx context.Context, methodType string) (*models.PaymentMethod, error)
	FindDefaultActive(ctx context.Context) (*models.PaymentMethod, error)
}

// Decision is an operator verdict on a submitted payment
type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReject  Decision = "REJECT"
)

// OrderService coordinates the order/payment pair through its lifecycle:
// paired creation, payer proof submission, expiry, and operator resolution.
// The order row is always written first; the payment row follows, guarded by
// a compensating revert, so the order stays the source of truth whenever the
// second write fails.
type OrderService struct {
	orders   OrderStore
	payments PaymentStore
	methods  MethodStore
}

// NewOrderService creates a new OrderService instance
func NewOrderService(orders OrderStore, payments PaymentStore, methods MethodStore) *OrderService {
	return &OrderService{
		orders:   orders,
		payments: payments,
		methods:  methods,
	}
}

// CreateOrder resolves the applicable channel configuration, generates an
// order number and inserts the order/payment pair, both PENDING. The expiry
// timestamp is the creation time plus the method's time limit. If the
// payment insert fails the order is deleted again and ErrPairedInsert is
// returned, so either both rows exist or neither does.
func (s *OrderService) CreateOrder(ctx context.Context, userID uint, amount decimal.Decimal, methodType, recipientName string) (*models.Order, *models.Payment, error) {
	method, err := s.resolveMethod(ctx, methodType)
	if err != nil {
		return nil, nil, err
	}

	if fieldErr := utils.ValidateAmountBounds(amount, method.MinAmount, method.MaxAmount); fieldErr != nil {
		return nil, nil, utils.FieldValidationErrors{*fieldErr}
	}

	timeLimit := method.TimeLimit
	if timeLimit <= 0 {
		timeLimit = utils.DefaultTimeLimit
	}

	now := time.Now()
	order := &models.Order{
		Amount:    amount,
		Method:    method.Type,
		Status:    models.OrderStatusPending,
		UPIID:     method.UPIID,
		UserID:    userID,
		ExpiresAt: now.Add(time.Duration(timeLimit) * time.Minute),
	}

	// The generator gives no uniqueness guarantee; the unique constraint on
	// order_number does. Regenerate on collision, bounded.
	created := false
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order.OrderNumber = utils.GenerateOrderNumber()
		err = s.orders.Create(ctx, order)
		if err == nil {
			created = true
			break
		}
		if !errors.Is(err, models.ErrDuplicateOrderNumber) {
			return nil, nil, err
		}
	}
	if !created {
		return nil, nil, models.ErrCollisionExhausted
	}

	payment := &models.Payment{
		OrderNumber:   order.OrderNumber,
		RecipientName: recipientName,
		Method:        method.Type,
		Amount:        amount,
		Status:        models.OrderStatusPending,
		UserID:        userID,
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		// Compensating delete: never leave an order without its payment
		if delErr := s.orders.Delete(ctx, order.ID); delErr != nil {
			utils.LogError("Failed to roll back order %s after payment insert failure: %v", order.OrderNumber, delErr)
		}
		return nil, nil, models.ErrPairedInsert
	}

	return order, payment, nil
}

func (s *OrderService) resolveMethod(ctx context.Context, methodType string) (*models.PaymentMethod, error) {
	if methodType == "" {
		return s.methods.FindDefaultActive(ctx)
	}
	if !models.ValidMethodType(methodType) {
		return nil, utils.FieldValidationErrors{{Field: "method", Message: "Unknown payment method"}}
	}
	return s.methods.FindActiveByType(ctx, methodType)
}

// SubmitProof records a payer's claim of payment: the UTR reference and the
// amount they report having sent. Both records move PENDING -> PROCESSING,
// order first. If the order-side conditional update matches nothing the
// order was already expired, submitted or resolved, and ErrNotPending tells
// the caller to re-read the authoritative status. If the payment-side update
// fails afterwards, the order transition is reverted so no partial state
// survives.
func (s *OrderService) SubmitProof(ctx context.Context, orderNumber string, userID uint, utr string, amount decimal.Decimal) (*models.Order, error) {
	var fieldErrs utils.FieldValidationErrors
	if fieldErr := utils.ValidateUTR(utr); fieldErr != nil {
		fieldErrs = append(fieldErrs, *fieldErr)
	}

	order, err := s.orders.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	// When the caller is authenticated (API surface), the order must belong
	// to them; the hosted payment page passes zero and relies on the order
	// number alone.
	if userID != 0 && order.UserID != userID {
		return nil, models.ErrOrderNotFound
	}

	method, err := s.resolveMethod(ctx, order.Method)
	if err == nil {
		if fieldErr := utils.ValidateAmountBounds(amount, method.MinAmount, method.MaxAmount); fieldErr != nil {
			fieldErrs = append(fieldErrs, *fieldErr)
		}
	} else if fieldErr := utils.ValidateAmountBounds(amount, nil, nil); fieldErr != nil {
		// Channel config may have been deleted since creation; still reject
		// negative amounts
		fieldErrs = append(fieldErrs, *fieldErr)
	}
	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	fields := map[string]interface{}{
		"utr_number": utr,
		"amount":     amount,
	}

	rows, err := s.orders.UpdateStatusIf(ctx, orderNumber, models.OrderStatusPending, models.OrderStatusProcessing, fields)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// Lost the race against expiry or a duplicate submission
		return nil, models.ErrNotPending
	}

	rows, err = s.payments.UpdateStatusIf(ctx, orderNumber, models.OrderStatusPending, models.OrderStatusProcessing, fields)
	if err != nil || rows == 0 {
		// Revert the order half so the pair stays consistent
		revert := map[string]interface{}{"utr_number": "", "amount": order.Amount}
		if _, revErr := s.orders.UpdateStatusIf(ctx, orderNumber, models.OrderStatusProcessing, models.OrderStatusPending, revert); revErr != nil {
			utils.LogError("Failed to revert order %s after payment update failure: %v", orderNumber, revErr)
		}
		if err != nil {
			return nil, err
		}
		return nil, models.ErrNotPending
	}

	return s.orders.FindByOrderNumber(ctx, orderNumber)
}

// EvaluateExpiry is a pure function of the order's status, its expiry
// timestamp and the supplied clock reading. It returns the status the order
// should hold: EXPIRED for an overdue PENDING order, the current status
// otherwise.
func EvaluateExpiry(order *models.Order, now time.Time) string {
	if order.Status == models.OrderStatusPending && now.After(order.ExpiresAt) {
		return models.OrderStatusExpired
	}
	return order.Status
}

// ExpireOrder applies the PENDING -> EXPIRED transition to both records.
// Matching zero rows is benign: a concurrent submission won the race, and
// the conditional update makes the loser a no-op. A payment-side failure
// reverts the order half so a later sweep retries the whole pair; an order
// left EXPIRED with its payment PENDING would never be revisited.
func (s *OrderService) ExpireOrder(ctx context.Context, orderNumber string) error {
	rows, err := s.orders.UpdateStatusIf(ctx, orderNumber, models.OrderStatusPending, models.OrderStatusExpired, nil)
	if err != nil {
		return err
	}
	if rows == 0 {
		return nil
	}

	if _, err := s.payments.UpdateStatusIf(ctx, orderNumber, models.OrderStatusPending, models.OrderStatusExpired, nil); err != nil {
		if _, revErr := s.orders.UpdateStatusIf(ctx, orderNumber, models.OrderStatusExpired, models.OrderStatusPending, nil); revErr != nil {
			utils.LogError("Failed to revert order %s after payment expire failure: %v", orderNumber, revErr)
		}
		return err
	}
	return nil
}

// SweepExpired expires every PENDING order whose deadline has passed.
// Called from the background sweeper so expiry holds even when no client
// is watching the order.
func (s *OrderService) SweepExpired(ctx context.Context) (int, error) {
	orders, err := s.orders.FindPendingBefore(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, order := range orders {
		if err := s.ExpireOrder(ctx, order.OrderNumber); err != nil {
			utils.LogError("Failed to expire order %s: %v", order.OrderNumber, err)
			continue
		}
		expired++
	}
	return expired, nil
}

// Resolve applies an operator verdict to a submitted payment: APPROVE moves
// the pair to COMPLETED, REJECT to FAILED. Conditioned on PROCESSING; any
// other current status yields ErrNotProcessing. Same order-first,
// revert-on-payment-failure discipline as SubmitProof.
func (s *OrderService) Resolve(ctx context.Context, orderNumber string, decision Decision) (*models.Order, error) {
	var target string
	switch decision {
	case DecisionApprove:
		target = models.OrderStatusCompleted
	case DecisionReject:
		target = models.OrderStatusFailed
	default:
		return nil, utils.FieldValidationErrors{{Field: "action", Message: "Action must be approve or reject"}}
	}

	rows, err := s.orders.UpdateStatusIf(ctx, orderNumber, models.OrderStatusProcessing, target, nil)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, models.ErrNotProcessing
	}

	rows, err = s.payments.UpdateStatusIf(ctx, orderNumber, models.OrderStatusProcessing, target, nil)
	if err != nil || rows == 0 {
		if _, revErr := s.orders.UpdateStatusIf(ctx, orderNumber, target, models.OrderStatusProcessing, nil); revErr != nil {
			utils.LogError("Failed to revert order %s after payment resolve failure: %v", orderNumber, revErr)
		}
		if err != nil {
			return nil, err
		}
		return nil, models.ErrNotProcessing
	}

	return s.orders.FindByOrderNumber(ctx, orderNumber)
}

// CheckOrderStatus returns the authoritative state of an order, expiring it
// lazily when its deadline has passed with no submission. Callers display
// whatever this returns; local state is never trusted after an action.
func (s *OrderService) CheckOrderStatus(ctx context.Context, orderNumber string) (*models.Order, error) {
	order, err := s.orders.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	if EvaluateExpiry(order, time.Now()) == models.OrderStatusExpired && order.Status == models.OrderStatusPending {
		if err := s.ExpireOrder(ctx, order.OrderNumber); err != nil {
			return nil, err
		}
		return s.orders.FindByOrderNumber(ctx, orderNumber)
	}

	return order, nil
}

// GetPayment returns the payment mirror for an order number
func (s *OrderService) GetPayment(ctx context.Context, orderNumber string) (*models.Payment, error) {
	return s.payments.FindByOrderNumber(ctx, orderNumber)
}

// ReusePendingOrder returns the merchant's newest unexpired PENDING order,
// or ErrOrderNotFound when a fresh one should be created.
func (s *OrderService) ReusePendingOrder(ctx context.Context, userID uint) (*models.Order, error) {
	return s.orders.FindPendingByUser(ctx, userID, time.Now())
}
