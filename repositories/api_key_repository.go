package repositories

import (
	"context"

	"github.com/vermils/paydesk/models"

	"gorm.io/gorm"
)

// APIKeyRepository stores issued integration keys
type APIKeyRepository struct {
	db *gorm.DB
}

// NewAPIKeyRepository creates a new APIKeyRepository instance
func NewAPIKeyRepository(db *gorm.DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Create inserts a newly issued key
func (r *APIKeyRepository) Create(ctx context.Context, key *models.APIKey) error {
	return r.db.WithContext(ctx).Create(key).Error
}

// FindByValue returns the key row matching the presented credential
func (r *APIKeyRepository) FindByValue(ctx context.Context, value string) (*models.APIKey, error) {
	var key models.APIKey
	err := r.db.WithContext(ctx).Where("key_value = ?", value).First(&key).Error
	if err != nil {
		return nil, err
	}
	return &key, nil
}

// ListByUser returns issued keys newest first, all of them when userID is zero
func (r *APIKeyRepository) ListByUser(ctx context.Context, userID uint) ([]models.APIKey, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}
	var keys []models.APIKey
	err := query.Find(&keys).Error
	return keys, err
}

// Deactivate revokes a key by primary key
func (r *APIKeyRepository) Deactivate(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.APIKey{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
