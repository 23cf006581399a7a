package api_keys

import (
	"time"

	plans "herbarium/internal/features/plans"

	"github.com/google/uuid"
)

type CreateApiKeyRequestDTO struct {
	Name      string     `json:"name"                binding:"required,min=1,max=100"`
	PlanID    *uuid.UUID `json:"planId,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

type GetApiKeysResponseDTO struct {
	ApiKeys []*ApiKey `json:"apiKeys"`
}

// ValidateKeyResult is the authn/authz decision for one inbound
// gateway request. When Valid is false, Reason carries the
// caller-visible 401 message.
type ValidateKeyResult struct {
	Valid    bool
	Reason   string
	ApiKeyID uuid.UUID
	UserID   uuid.UUID
	Plan     *plans.Plan
}

type CachedApiKey struct {
	ID        uuid.UUID    `json:"id"`
	UserID    uuid.UUID    `json:"userId"`
	PlanID    uuid.UUID    `json:"planId"`
	Status    ApiKeyStatus `json:"status"`
	ExpiresAt *time.Time   `json:"expiresAt"`
}

// IsExpired treats a key with a past expiration as invalid even when
// its status is still ACTIVE.
func (k *CachedApiKey) IsExpired(now time.Time) bool {
	return k.ExpiresAt != nil && k.ExpiresAt.Before(now)
}
