package api_keys

import (
	"time"

	"github.com/google/uuid"
)

type ApiKey struct {
	ID          uuid.UUID    `json:"id"          gorm:"column:id"`
	UserID      uuid.UUID    `json:"userId"      gorm:"column:user_id"`
	PlanID      uuid.UUID    `json:"planId"      gorm:"column:plan_id"`
	Name        string       `json:"name"        gorm:"column:name"`
	TokenPrefix string       `json:"tokenPrefix" gorm:"column:token_prefix"`
	TokenHash   string       `json:"-"           gorm:"column:token_hash;uniqueIndex"` // Never expose in JSON
	Status      ApiKeyStatus `json:"status"      gorm:"column:status"`
	LastUsedAt  *time.Time   `json:"lastUsedAt"  gorm:"column:last_used_at"`
	ExpiresAt   *time.Time   `json:"expiresAt"   gorm:"column:expires_at"`
	CreatedAt   time.Time    `json:"createdAt"   gorm:"column:created_at"`
	UpdatedAt   time.Time    `json:"updatedAt"   gorm:"column:updated_at"`

	Token string `json:"token,omitempty" gorm:"-"` // Temporary field only populated during creation
}

func (ApiKey) TableName() string {
	return "api_keys"
}
