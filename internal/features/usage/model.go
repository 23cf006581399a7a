package usage

import (
	"time"

	"github.com/google/uuid"
)

// UsageRecord is one appended row per inbound gateway call that
// passed key validation. Rows are never updated or deleted.
type UsageRecord struct {
	ID             uuid.UUID `json:"id"             gorm:"column:id"`
	ApiKeyID       uuid.UUID `json:"apiKeyId"       gorm:"column:api_key_id"`
	Endpoint       string    `json:"endpoint"       gorm:"column:endpoint"`
	Method         string    `json:"method"         gorm:"column:method"`
	StatusCode     int       `json:"statusCode"     gorm:"column:status_code"`
	ResponseTimeMs int64     `json:"responseTimeMs" gorm:"column:response_time_ms"`
	ClientIP       string    `json:"clientIp"       gorm:"column:client_ip"`
	UserAgent      string    `json:"userAgent"      gorm:"column:user_agent"`
	CreatedAt      time.Time `json:"createdAt"      gorm:"column:created_at"`
}

func (UsageRecord) TableName() string {
	return "usage_records"
}
