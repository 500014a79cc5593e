package repositories

import (
	"context"
	"errors"

	"github.com/vermils/paydesk/models"

	"gorm.io/gorm"
)

// PaymentMethodRepository reads and maintains merchant channel configuration.
// The coordinator only ever reads from it.
type PaymentMethodRepository struct {
	db *gorm.DB
}

// NewPaymentMethodRepository creates a new PaymentMethodRepository instance
func NewPaymentMethodRepository(db *gorm.DB) *PaymentMethodRepository {
	return &PaymentMethodRepository{db: db}
}

// FindActiveByType returns an active, non-demo method of the given type
func (r *PaymentMethodRepository) FindActiveByType(ctx context.Context, methodType string) (*models.PaymentMethod, error) {
	var method models.PaymentMethod
	err := r.db.WithContext(ctx).
		Where("type = ? AND active = ? AND type <> ?", methodType, true, models.MethodTypeDemo).
		First(&method).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrMethodNotFound
		}
		return nil, err
	}
	return &method, nil
}

// FindDefaultActive returns the oldest active non-demo method, used when the
// caller names no channel. UPI configurations win over other types so the
// hosted payment page always has a collection handle to show.
func (r *PaymentMethodRepository) FindDefaultActive(ctx context.Context) (*models.PaymentMethod, error) {
	var method models.PaymentMethod
	err := r.db.WithContext(ctx).
		Where("active = ? AND type <> ?", true, models.MethodTypeDemo).
		Order("CASE WHEN type = 'UPI' THEN 0 ELSE 1 END, id ASC").
		First(&method).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrMethodNotFound
		}
		return nil, err
	}
	return &method, nil
}

// FindByID returns a method by primary key
func (r *PaymentMethodRepository) FindByID(ctx context.Context, id uint) (*models.PaymentMethod, error) {
	var method models.PaymentMethod
	err := r.db.WithContext(ctx).First(&method, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrMethodNotFound
		}
		return nil, err
	}
	return &method, nil
}

// List returns configured methods, all of them when userID is zero
func (r *PaymentMethodRepository) List(ctx context.Context, userID uint) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	query := r.db.WithContext(ctx).Order("id ASC")
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}
	err := query.Find(&methods).Error
	return methods, err
}

// Save creates or updates a method configuration
func (r *PaymentMethodRepository) Save(ctx context.Context, method *models.PaymentMethod) error {
	return r.db.WithContext(ctx).Save(method).Error
}

// Delete removes a method configuration
func (r *PaymentMethodRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.PaymentMethod{}, id).Error
}
