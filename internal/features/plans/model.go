package plans

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Plan struct {
	ID          uuid.UUID `json:"id"          gorm:"column:id"`
	Name        string    `json:"name"        gorm:"column:name"`
	Description string    `json:"description" gorm:"column:description"`

	MonthlyPrice        float64 `json:"monthlyPrice"        gorm:"column:monthly_price"`
	MonthlyRequestLimit int     `json:"monthlyRequestLimit" gorm:"column:monthly_request_limit"`
	DailyRateLimit      int     `json:"dailyRateLimit"      gorm:"column:daily_rate_limit"`

	FeaturesRaw string          `json:"-"        gorm:"column:features_raw"`
	Features    map[string]bool `json:"features" gorm:"-"`

	IsActive  bool      `json:"isActive"  gorm:"column:is_active"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"column:updated_at"`
}

func (Plan) TableName() string {
	return "plans"
}

func (p *Plan) BeforeSave(tx *gorm.DB) error {
	if p.Features == nil {
		p.Features = map[string]bool{}
	}

	data, err := json.Marshal(p.Features)
	if err != nil {
		return err
	}

	p.FeaturesRaw = string(data)

	return nil
}

func (p *Plan) AfterFind(tx *gorm.DB) error {
	p.Features = map[string]bool{}

	if p.FeaturesRaw == "" {
		return nil
	}

	if err := json.Unmarshal([]byte(p.FeaturesRaw), &p.Features); err != nil {
		p.Features = map[string]bool{}
	}

	return nil
}

// HasFeature reports whether the plan grants the named capability.
// Unknown or missing feature names always resolve to false.
func (p *Plan) HasFeature(feature string) bool {
	if p.Features == nil {
		return false
	}

	return p.Features[feature]
}
