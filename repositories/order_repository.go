package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/vermils/paydesk/models"

	"gorm.io/gorm"
)

// OrderRepository owns the durable order table: one row per order, unique
// on order_number.
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new OrderRepository instance
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts a new order. A unique-constraint violation on order_number
// is reported as models.ErrDuplicateOrderNumber so the caller can regenerate.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.ErrDuplicateOrderNumber
		}
		return err
	}
	return nil
}

// FindByOrderNumber returns the order with the given order number
func (r *OrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Where("order_number = ?", orderNumber).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindPendingByUser returns the newest still-valid PENDING order for a
// merchant, if any. Used to hand a returning payer their open order instead
// of minting a second one.
func (r *OrderRepository) FindPendingByUser(ctx context.Context, userID uint, now time.Time) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND expires_at > ?", userID, models.OrderStatusPending, now).
		Order("created_at DESC").
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// UpdateStatusIf transitions an order from an expected prior status to a new
// one, optionally setting extra fields in the same statement. It returns the
// number of rows matched; zero means the order was missing or no longer in
// the expected status, and the caller decides what that implies.
func (r *OrderRepository) UpdateStatusIf(ctx context.Context, orderNumber, from, to string, fields map[string]interface{}) (int64, error) {
	updates := map[string]interface{}{"status": to}
	for k, v := range fields {
		updates[k] = v
	}
	result := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("order_number = ? AND status = ?", orderNumber, from).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// Delete removes an order row. Only used as the compensating action when the
// paired payment insert fails.
func (r *OrderRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&models.Order{}, id).Error
}

// FindPendingBefore returns PENDING orders whose expiry timestamp has passed
func (r *OrderRepository) FindPendingBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at < ?", models.OrderStatusPending, cutoff).
		Find(&orders).Error
	return orders, err
}

// ListByUser returns orders newest first, optionally filtered by merchant
// and status. A zero userID matches every merchant.
func (r *OrderRepository) ListByUser(ctx context.Context, userID uint, status string) ([]models.Order, error) {
	query := r.db.WithContext(ctx)
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var orders []models.Order
	err := query.Order("created_at DESC").Find(&orders).Error
	return orders, err
}
