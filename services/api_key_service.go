package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/vermils/paydesk/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// API key validation errors, surfaced verbatim to integrators
var (
	ErrAPIKeyRequired = errors.New("API key is required")
	ErrAPIKeyInvalid  = errors.New("Invalid API key")
	ErrAPIKeyInactive = errors.New("API key is inactive")
	ErrAPIKeyExpired  = errors.New("API key has expired")
)

// keyValidity is how long an issued key stays usable
const keyValidity = 365 * 24 * time.Hour

// APIKeyStore is the service's view of the issued-key table
type APIKeyStore interface {
	Create(ctx context.Context, key *models.APIKey) error
	FindByValue(ctx context.Context, value string) (*models.APIKey, error)
	ListByUser(ctx context.Context, userID uint) ([]models.APIKey, error)
	Deactivate(ctx context.Context, id uint) error
}

// APIKeyService issues and validates integration credentials
type APIKeyService struct {
	store APIKeyStore
}

// NewAPIKeyService creates a new APIKeyService instance
func NewAPIKeyService(store APIKeyStore) *APIKeyService {
	return &APIKeyService{store: store}
}

// Issue creates a new key for a merchant, valid for one year
func (s *APIKeyService) Issue(ctx context.Context, userID uint, label string) (*models.APIKey, error) {
	key := &models.APIKey{
		KeyValue:  "pk_" + strings.ReplaceAll(uuid.New().String(), "-", ""),
		Label:     label,
		UserID:    userID,
		IsActive:  true,
		ExpiresAt: time.Now().Add(keyValidity),
	}
	if err := s.store.Create(ctx, key); err != nil {
		return nil, err
	}
	return key, nil
}

// Validate checks a presented key and returns its row when usable
func (s *APIKeyService) Validate(ctx context.Context, value string) (*models.APIKey, error) {
	if value == "" {
		return nil, ErrAPIKeyRequired
	}

	key, err := s.store.FindByValue(ctx, value)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAPIKeyInvalid
		}
		return nil, err
	}

	if !key.IsActive {
		return nil, ErrAPIKeyInactive
	}
	if !key.ExpiresAt.IsZero() && key.ExpiresAt.Before(time.Now()) {
		return nil, ErrAPIKeyExpired
	}

	return key, nil
}

// List returns a merchant's keys
func (s *APIKeyService) List(ctx context.Context, userID uint) ([]models.APIKey, error) {
	return s.store.ListByUser(ctx, userID)
}

// Revoke deactivates a key
func (s *APIKeyService) Revoke(ctx context.Context, id uint) error {
	return s.store.Deactivate(ctx, id)
}
