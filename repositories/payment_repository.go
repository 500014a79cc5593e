package repositories

import (
	"context"
	"errors"

	"github.com/vermils/paydesk/models"

	"gorm.io/gorm"
)

// PaymentRepository owns the durable payment table: one row per payment,
// keyed to its order by order_number.
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new PaymentRepository instance
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a new payment record
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// FindByOrderNumber returns the payment mirroring the given order
func (r *PaymentRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Where("order_number = ?", orderNumber).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// UpdateStatusIf transitions a payment from an expected prior status to a
// new one, optionally setting extra fields. Returns rows matched; zero means
// the payment was missing or not in the expected status.
func (r *PaymentRepository) UpdateStatusIf(ctx context.Context, orderNumber, from, to string, fields map[string]interface{}) (int64, error) {
	updates := map[string]interface{}{"status": to}
	for k, v := range fields {
		updates[k] = v
	}
	result := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("order_number = ? AND status = ?", orderNumber, from).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// ListByStatus returns payments in the given status, newest first. An empty
// status returns everything.
func (r *PaymentRepository) ListByStatus(ctx context.Context, status string) ([]models.Payment, error) {
	query := r.db.WithContext(ctx).Model(&models.Payment{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var payments []models.Payment
	err := query.Order("created_at DESC").Find(&payments).Error
	return payments, err
}
