package api_keys

import (
	"time"

	"herbarium/internal/storage"

	"github.com/google/uuid"
)

type ApiKeyRepository struct{}

func (r *ApiKeyRepository) CreateApiKey(apiKey *ApiKey) error {
	if apiKey.ID == uuid.Nil {
		apiKey.ID = uuid.New()
	}

	if apiKey.CreatedAt.IsZero() {
		apiKey.CreatedAt = time.Now().UTC()
	}

	return storage.GetDb().Create(apiKey).Error
}

func (r *ApiKeyRepository) GetApiKeysByUserID(userID uuid.UUID) ([]*ApiKey, error) {
	var apiKeys []*ApiKey

	err := storage.GetDb().
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&apiKeys).Error

	return apiKeys, err
}

func (r *ApiKeyRepository) GetApiKeyByID(apiKeyID uuid.UUID) (*ApiKey, error) {
	var apiKey ApiKey

	err := storage.GetDb().
		Where("id = ?", apiKeyID).
		First(&apiKey).Error

	if err != nil {
		return nil, err
	}

	return &apiKey, nil
}

func (r *ApiKeyRepository) GetApiKeyByTokenHash(tokenHash string) (*ApiKey, error) {
	var apiKey ApiKey

	err := storage.GetDb().
		Where("token_hash = ? AND status = ?", tokenHash, ApiKeyStatusActive).
		First(&apiKey).Error

	if err != nil {
		return nil, err
	}

	return &apiKey, nil
}

// RevokeApiKey is a soft delete. Key rows are never removed so the
// usage ledger keeps valid references.
func (r *ApiKeyRepository) RevokeApiKey(apiKeyID uuid.UUID) error {
	return storage.GetDb().Model(&ApiKey{}).
		Where("id = ?", apiKeyID).
		Updates(map[string]any{
			"status":     ApiKeyStatusRevoked,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *ApiKeyRepository) UpdateLastUsed(apiKeyID uuid.UUID) error {
	return storage.GetDb().Model(&ApiKey{}).
		Where("id = ?", apiKeyID).
		Update("last_used_at", time.Now().UTC()).Error
}
