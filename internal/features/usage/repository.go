package usage

import (
	"time"

	"herbarium/internal/storage"

	"github.com/google/uuid"
)

type UsageRepository struct{}

func (r *UsageRepository) Create(record *UsageRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	return storage.GetDb().Create(record).Error
}

func (r *UsageRepository) CountByApiKey(apiKeyID uuid.UUID) (int64, error) {
	var count int64

	err := storage.GetDb().Model(&UsageRecord{}).
		Where("api_key_id = ?", apiKeyID).
		Count(&count).Error

	return count, err
}

func (r *UsageRepository) CountByApiKeySince(apiKeyID uuid.UUID, since time.Time) (int64, error) {
	var count int64

	err := storage.GetDb().Model(&UsageRecord{}).
		Where("api_key_id = ? AND created_at >= ?", apiKeyID, since).
		Count(&count).Error

	return count, err
}

func (r *UsageRepository) GetAverageResponseTime(apiKeyID uuid.UUID) (float64, error) {
	var average float64

	err := storage.GetDb().Raw(`
		SELECT COALESCE(AVG(response_time_ms), 0)
		FROM usage_records
		WHERE api_key_id = ?`, apiKeyID).
		Scan(&average).Error

	return average, err
}

func (r *UsageRepository) GetEndpointBreakdown(apiKeyID uuid.UUID) ([]*EndpointUsageDTO, error) {
	var breakdown = make([]*EndpointUsageDTO, 0)

	err := storage.GetDb().Raw(`
		SELECT
			endpoint,
			method,
			status_code,
			COUNT(*) as count
		FROM usage_records
		WHERE api_key_id = ?
		GROUP BY endpoint, method, status_code
		ORDER BY count DESC`, apiKeyID).
		Scan(&breakdown).Error

	return breakdown, err
}

func (r *UsageRepository) GetDailyCounts(apiKeyID uuid.UUID, since time.Time) ([]*DailyUsageDTO, error) {
	var daily = make([]*DailyUsageDTO, 0)

	err := storage.GetDb().Raw(`
		SELECT
			date_trunc('day', created_at) as day,
			COUNT(*) as count
		FROM usage_records
		WHERE api_key_id = ? AND created_at >= ?
		GROUP BY day
		ORDER BY day ASC`, apiKeyID, since).
		Scan(&daily).Error

	return daily, err
}

func (r *UsageRepository) CountByUser(userID uuid.UUID) (int64, error) {
	var count int64

	err := storage.GetDb().Raw(`
		SELECT COUNT(*)
		FROM usage_records ur
		JOIN api_keys ak ON ur.api_key_id = ak.id
		WHERE ak.user_id = ?`, userID).
		Scan(&count).Error

	return count, err
}
