package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vermils/paydesk/models"
	"github.com/vermils/paydesk/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderStore struct {
	orders     map[string]*models.Order
	nextID     uint
	createErrs []error
	deleted    []uint
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[string]*models.Order)}
}

func (s *fakeOrderStore) Create(ctx context.Context, order *models.Order) error {
	if len(s.createErrs) > 0 {
		err := s.createErrs[0]
		s.createErrs = s.createErrs[1:]
		if err != nil {
			return err
		}
	}
	s.nextID++
	order.ID = s.nextID
	order.CreatedAt = time.Now()
	clone := *order
	s.orders[order.OrderNumber] = &clone
	return nil
}

func (s *fakeOrderStore) FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	order, ok := s.orders[orderNumber]
	if !ok {
		return nil, models.ErrOrderNotFound
	}
	clone := *order
	return &clone, nil
}

func (s *fakeOrderStore) FindPendingByUser(ctx context.Context, userID uint, now time.Time) (*models.Order, error) {
	for _, order := range s.orders {
		if order.UserID == userID && order.Status == models.OrderStatusPending && order.ExpiresAt.After(now) {
			clone := *order
			return &clone, nil
		}
	}
	return nil, models.ErrOrderNotFound
}

func (s *fakeOrderStore) UpdateStatusIf(ctx context.Context, orderNumber, from, to string, fields map[string]interface{}) (int64, error) {
	order, ok := s.orders[orderNumber]
	if !ok || order.Status != from {
		return 0, nil
	}
	order.Status = to
	if utr, ok := fields["utr_number"].(string); ok {
		order.UTRNumber = utr
	}
	if amount, ok := fields["amount"].(decimal.Decimal); ok {
		order.Amount = amount
	}
	return 1, nil
}

func (s *fakeOrderStore) Delete(ctx context.Context, id uint) error {
	for number, order := range s.orders {
		if order.ID == id {
			delete(s.orders, number)
			s.deleted = append(s.deleted, id)
			return nil
		}
	}
	return models.ErrOrderNotFound
}

func (s *fakeOrderStore) FindPendingBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error) {
	var overdue []models.Order
	for _, order := range s.orders {
		if order.Status == models.OrderStatusPending && order.ExpiresAt.Before(cutoff) {
			overdue = append(overdue, *order)
		}
	}
	return overdue, nil
}

type fakePaymentStore struct {
	payments   map[string]*models.Payment
	nextID     uint
	createErr  error
	updateErr  error
	failUpdate bool
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{payments: make(map[string]*models.Payment)}
}

func (s *fakePaymentStore) Create(ctx context.Context, payment *models.Payment) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.nextID++
	payment.ID = s.nextID
	clone := *payment
	s.payments[payment.OrderNumber] = &clone
	return nil
}

func (s *fakePaymentStore) FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Payment, error) {
	payment, ok := s.payments[orderNumber]
	if !ok {
		return nil, models.ErrPaymentNotFound
	}
	clone := *payment
	return &clone, nil
}

func (s *fakePaymentStore) UpdateStatusIf(ctx context.Context, orderNumber, from, to string, fields map[string]interface{}) (int64, error) {
	if s.updateErr != nil {
		return 0, s.updateErr
	}
	if s.failUpdate {
		return 0, nil
	}
	payment, ok := s.payments[orderNumber]
	if !ok || payment.Status != from {
		return 0, nil
	}
	payment.Status = to
	if utr, ok := fields["utr_number"].(string); ok {
		payment.UTRNumber = utr
	}
	if amount, ok := fields["amount"].(decimal.Decimal); ok {
		payment.Amount = amount
	}
	return 1, nil
}

type fakeMethodStore struct {
	method *models.PaymentMethod
	err    error
}

func (s *fakeMethodStore) FindActiveByType(ctx context.Context, methodType string) (*models.PaymentMethod, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.method, nil
}

func (s *fakeMethodStore) FindDefaultActive(ctx context.Context) (*models.PaymentMethod, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.method, nil
}

func upiMethod() *models.PaymentMethod {
	min := decimal.NewFromInt(100)
	max := decimal.NewFromInt(5000)
	return &models.PaymentMethod{
		ID:        1,
		Type:      models.MethodTypeUPI,
		UPIID:     "merchant@upi",
		MinAmount: &min,
		MaxAmount: &max,
		TimeLimit: 10,
		Active:    true,
	}
}

func newTestService() (*OrderService, *fakeOrderStore, *fakePaymentStore) {
	orders := newFakeOrderStore()
	payments := newFakePaymentStore()
	svc := NewOrderService(orders, payments, &fakeMethodStore{method: upiMethod()})
	return svc, orders, payments
}

func TestCreateOrderPairsRecords(t *testing.T) {
	svc, orders, payments := newTestService()

	before := time.Now()
	order, payment, err := svc.CreateOrder(context.Background(), 7, decimal.NewFromInt(500), "", "Test Payment")
	require.NoError(t, err)

	assert.Len(t, order.OrderNumber, utils.OrderNumberLength)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.OrderStatusPending, payment.Status)
	assert.Equal(t, order.OrderNumber, payment.OrderNumber)
	assert.Equal(t, "merchant@upi", order.UPIID)
	assert.Equal(t, uint(7), order.UserID)

	wantExpiry := before.Add(10 * time.Minute)
	assert.WithinDuration(t, wantExpiry, order.ExpiresAt, 2*time.Second)

	_, err = orders.FindByOrderNumber(context.Background(), order.OrderNumber)
	assert.NoError(t, err)
	_, err = payments.FindByOrderNumber(context.Background(), order.OrderNumber)
	assert.NoError(t, err)
}

func TestCreateOrderRejectsOutOfBoundsAmount(t *testing.T) {
	svc, orders, _ := newTestService()

	for _, amount := range []int64{99, 5001} {
		_, _, err := svc.CreateOrder(context.Background(), 7, decimal.NewFromInt(amount), "", "Test Payment")

		var fieldErrs utils.FieldValidationErrors
		require.ErrorAs(t, err, &fieldErrs)
		assert.Equal(t, "amount", fieldErrs[0].Field)
	}
	assert.Empty(t, orders.orders)
}

func TestCreateOrderRejectsUnknownMethod(t *testing.T) {
	svc, _, _ := newTestService()

	_, _, err := svc.CreateOrder(context.Background(), 7, decimal.NewFromInt(500), "CHEQUE", "Test Payment")

	var fieldErrs utils.FieldValidationErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "method", fieldErrs[0].Field)
}

func TestCreateOrderRetriesOnCollision(t *testing.T) {
	svc, orders, _ := newTestService()
	orders.createErrs = []error{models.ErrDuplicateOrderNumber, models.ErrDuplicateOrderNumber}

	order, _, err := svc.CreateOrder(context.Background(), 7, decimal.NewFromInt(500), "", "Test Payment")
	require.NoError(t, err)
	assert.Len(t, order.OrderNumber, utils.OrderNumberLength)
}

func TestCreateOrderCollisionExhausted(t *testing.T) {
	svc, orders, _ := newTestService()
	for i := 0; i < 5; i++ {
		orders.createErrs = append(orders.createErrs, models.ErrDuplicateOrderNumber)
	}

	_, _, err := svc.CreateOrder(context.Background(), 7, decimal.NewFromInt(500), "", "Test Payment")
	assert.ErrorIs(t, err, models.ErrCollisionExhausted)
}

func TestCreateOrderRollsBackOnPaymentInsertFailure(t *testing.T) {
	svc, orders, payments := newTestService()
	payments.createErr = errors.New("insert failed")

	_, _, err := svc.CreateOrder(context.Background(), 7, decimal.NewFromInt(500), "", "Test Payment")
	assert.ErrorIs(t, err, models.ErrPairedInsert)

	// No orphaned order may survive the failed pair
	assert.Empty(t, orders.orders)
	assert.Len(t, orders.deleted, 1)
}

func TestSubmitProofMovesPairToProcessing(t *testing.T) {
	svc, orders, payments := newTestService()
	order, _, err := svc.CreateOrder(context.Background(), 7, decimal.NewFromInt(500), "", "Test Payment")
	require.NoError(t, err)

	updated, err := svc.SubmitProof(context.Background(), order.OrderNumber, 0, "123456789012", decimal.NewFromInt(500))
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusProcessing, updated.Status)
	assert.Equal(t, "123456789012", updated.UTRNumber)

	stored := orders.orders[order.OrderNumber]
	assert.Equal(t, models.OrderStatusProcessing, stored.Status)
	payment := payments.payments[order.OrderNumber]
	assert.Equal(t, models.OrderStatusProcessing, payment.Status)
	assert.Equal(t, "123456789012", payment.UTRNumber)
}

func TestSubmitProofValidation(t *testing.T) {
	svc, orders, _ := newTestService()
	order, _, err := svc.CreateOrder(context.Background(), 7, decimal.NewFromInt(500), "", "Test Payment")
	require.NoError(t, err)

	tests := []struct {
		name   string
		utr    string
		amount decimal.Decimal
		fields []string
	}{
		{name: "short utr", utr: "12345678901", amount: decimal.NewFromInt(500), fields: []string{"utr_number"}},
		{name: "non numeric utr", utr: "12345678901a", amount: decimal.NewFromInt(500), fields: []string{"utr_number"}},
		{name: "amount below min", utr: "123456789012", amount: decimal.NewFromInt(50), fields: []string{"amount"}},
		{name: "both invalid", utr: "bad", amount: decimal.NewFromInt(-1), fields: []string{"utr_number", "amount"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SubmitProof(context.Background(), order.OrderNumber, 0, tt.utr, tt.amount)

			var fieldErrs utils.FieldValidationErrors
			require.ErrorAs(t, err, &fieldErrs)
			require.Len(t, fieldErrs, len(tt.fields))
			for i, field := range tt.fields {
				assert.Equal(t, field, fieldErrs[i].Field)
			}
		})
	}

	// Validation failures must not touch the stored order
	stored := orders.orders[order.OrderNumber]
	assert.Equal(t, models.OrderStatusPending, stored.Status)
	assert.Empty(t, stored.UTRNumber)
}

func TestSubmitProofRejectsForeignOrder(t *testing.T) {
	svc, _, _ := newTestService()
	order, _, err := svc.CreateOrder(context.Background(), 7, decimal.NewFromInt(500), "", "Test Payment")
	require.NoError(t, err)

	_, err = svc.SubmitProof(context.Background(), order.OrderNumber, 8, "123456789012", decimal.NewFromInt(500))
	assert.ErrorIs(t, err, models.ErrOrderNotFound)
}

func TestSubmitProofNotPending(t *testing.T) {
	svc, _, _ := newTestService()
	order, _, err := svc.CreateOrder(context.Background(), 7, decimal.NewFromInt(500), "", "Test Payment")
	require.NoError(t, err)

	require.NoError(t, svc.ExpireOrder(context.Background(), order.OrderNumber))

	_, err = svc.SubmitProof(context.Background(), order.OrderNumber, 0, "123456789012", decimal.NewFromInt(500))
	assert.ErrorIs(t, err, models.ErrNotPending)
}

func TestSubmitProofRevertsOrderOnPaymentFailure(t *testing.T) {
	svc, orders, payments := newTestService()
	order, _, err := svc.CreateOrder(context.Background(), 7, decimal.NewFromInt(500), "", "Test Payment")
	require.NoError(t, err)

	payments.failUpdate = true
	_, err = svc.SubmitProof(context.Background(), order.OrderNumber, 0, "123456789012", decimal.NewFromInt(500))
	assert.ErrorIs(t, err, models.ErrNotPending)

	// The order half must be back where it started
	stored := orders.orders[order.OrderNumber]
	assert.Equal(t, models.OrderStatusPending, stored.Status)
	assert.Empty(t, stored.UTRNumber)
	assert.True(t, stored.Amount.Equal(order.Amount))
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		decision   Decision
		wantStatus string
	}{
		{name: "approve completes", decision: DecisionApprove, wantStatus: models.OrderStatusCompleted},
		{name: "reject fails", decision: DecisionReject, wantStatus: models.OrderStatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, orders, payments := newTestService()
			order, _, err := svc.CreateOrder(context.Background(), 7, decimal.NewFromInt(500), "", "Test Payment")
			require.NoError(t, err)
			_, err = svc.SubmitProof(context.Background(), order.OrderNumber, 0, "123456789012", decimal.NewFromInt(500))
			require.NoError(t, err)

			resolved, err := svc.Resolve(context.Background(), order.OrderNumber, tt.decision)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resolved.Status)
			assert.Equal(t, tt.wantStatus, orders.orders[order.OrderNumber].Status)
			assert.Equal(t, tt.wantStatus, payments.payments[order.OrderNumber].Status)

			// A second verdict must not land on a settled order
			_, err = svc.Resolve(context.Background(), order.OrderNumber, DecisionReject)
			assert.ErrorIs(t, err, models.ErrNotProcessing)
			assert.Equal(t, tt.wantStatus, orders.orders[order.OrderNumber].Status)
		})
	}
}

func TestResolveRequiresProcessing(t *testing.T) {
	svc, _, _ := newTestService()
	order, _, err := svc.CreateOrder(context.Background(), 7, decimal.NewFromInt(500), "", "Test Payment")
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), order.OrderNumber, DecisionApprove)
	assert.ErrorIs(t, err, models.ErrNotProcessing)
}

func TestEvaluateExpiry(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name   string
		status string
		expiry time.Time
		want   string
	}{
		{name: "pending overdue", status: models.OrderStatusPending, expiry: now.Add(-time.Second), want: models.OrderStatusExpired},
		{name: "pending in window", status: models.OrderStatusPending, expiry: now.Add(time.Minute), want: models.OrderStatusPending},
		{name: "processing overdue keeps status", status: models.OrderStatusProcessing, expiry: now.Add(-time.Hour), want: models.OrderStatusProcessing},
		{name: "completed overdue keeps status", status: models.OrderStatusCompleted, expiry: now.Add(-time.Hour), want: models.OrderStatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &models.Order{Status: tt.status, ExpiresAt: tt.expiry}
			assert.Equal(t, tt.want, EvaluateExpiry(order, now))
		})
	}
}

func TestCheckOrderStatusExpiresLazily(t *testing.T) {
	svc, orders, payments := newTestService()
	order, _, err := svc.CreateOrder(context.Background(), 7, decimal.NewFromInt(500), "", "Test Payment")
	require.NoError(t, err)

	// Push the stored deadline into the past
	orders.orders[order.OrderNumber].ExpiresAt = time.Now().Add(-time.Minute)

	current, err := svc.CheckOrderStatus(context.Background(), order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusExpired, current.Status)
	assert.Equal(t, models.OrderStatusExpired, payments.payments[order.OrderNumber].Status)
}

func TestSweepExpired(t *testing.T) {
	svc, orders, _ := newTestService()

	overdueA, _, err := svc.CreateOrder(context.Background(), 7, decimal.NewFromInt(500), "", "Test Payment")
	require.NoError(t, err)
	overdueB, _, err := svc.CreateOrder(context.Background(), 7, decimal.NewFromInt(500), "", "Test Payment")
	require.NoError(t, err)
	fresh, _, err := svc.CreateOrder(context.Background(), 7, decimal.NewFromInt(500), "", "Test Payment")
	require.NoError(t, err)

	orders.orders[overdueA.OrderNumber].ExpiresAt = time.Now().Add(-time.Minute)
	orders.orders[overdueB.OrderNumber].ExpiresAt = time.Now().Add(-time.Hour)

	expired, err := svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, expired)
	assert.Equal(t, models.OrderStatusExpired, orders.orders[overdueA.OrderNumber].Status)
	assert.Equal(t, models.OrderStatusExpired, orders.orders[overdueB.OrderNumber].Status)
	assert.Equal(t, models.OrderStatusPending, orders.orders[fresh.OrderNumber].Status)
}

func TestExpireOrderRevertsOrderOnPaymentFailure(t *testing.T) {
	svc, orders, payments := newTestService()
	order, _, err := svc.CreateOrder(context.Background(), 7, decimal.NewFromInt(500), "", "Test Payment")
	require.NoError(t, err)

	payments.updateErr = errors.New("connection reset")
	err = svc.ExpireOrder(context.Background(), order.OrderNumber)
	require.Error(t, err)

	// The pair must not stay diverged: the order half goes back to PENDING
	assert.Equal(t, models.OrderStatusPending, orders.orders[order.OrderNumber].Status)
	assert.Equal(t, models.OrderStatusPending, payments.payments[order.OrderNumber].Status)

	// Once the payment store recovers, the next sweep expires the whole pair
	payments.updateErr = nil
	orders.orders[order.OrderNumber].ExpiresAt = time.Now().Add(-time.Minute)

	expired, err := svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, expired)
	assert.Equal(t, models.OrderStatusExpired, orders.orders[order.OrderNumber].Status)
	assert.Equal(t, models.OrderStatusExpired, payments.payments[order.OrderNumber].Status)
}

func TestExpireOrderIsIdempotent(t *testing.T) {
	svc, orders, _ := newTestService()
	order, _, err := svc.CreateOrder(context.Background(), 7, decimal.NewFromInt(500), "", "Test Payment")
	require.NoError(t, err)

	require.NoError(t, svc.ExpireOrder(context.Background(), order.OrderNumber))
	require.NoError(t, svc.ExpireOrder(context.Background(), order.OrderNumber))
	assert.Equal(t, models.OrderStatusExpired, orders.orders[order.OrderNumber].Status)
}

func TestReusePendingOrder(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.ReusePendingOrder(context.Background(), 7)
	assert.ErrorIs(t, err, models.ErrOrderNotFound)

	order, _, err := svc.CreateOrder(context.Background(), 7, decimal.NewFromInt(500), "", "Test Payment")
	require.NoError(t, err)

	reused, err := svc.ReusePendingOrder(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, reused.OrderNumber)

	_, err = svc.ReusePendingOrder(context.Background(), 8)
	assert.ErrorIs(t, err, models.ErrOrderNotFound)
}
