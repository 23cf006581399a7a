package usage

import (
	"fmt"
	"log/slog"
	"time"

	api_keys "herbarium/internal/features/api_keys"

	"github.com/google/uuid"
)

const dailySeriesWindow = 30 * 24 * time.Hour

type UsageService struct {
	usageRepository *UsageRepository
	apiKeyService   *api_keys.ApiKeyService
	logger          *slog.Logger
}

// WriteUsageRecord appends one ledger row. The write is best-effort:
// a failure is logged and swallowed so telemetry can never change the
// client-visible response.
func (s *UsageService) WriteUsageRecord(record *UsageRecord) {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	if err := s.usageRepository.Create(record); err != nil {
		s.logger.Error("failed to create usage record",
			"apiKeyId", record.ApiKeyID,
			"endpoint", record.Endpoint,
			"error", err)
	}
}

// GetKeyUsageStats builds the usage report for one key. The daily
// series starts at since; callers pass a zero time to get the default
// 30-day window.
func (s *UsageService) GetKeyUsageStats(apiKeyID uuid.UUID, userID uuid.UUID, since time.Time) (*UsageStatsResponseDTO, error) {
	if _, err := s.apiKeyService.GetApiKeyForUser(apiKeyID, userID); err != nil {
		return nil, err
	}

	total, err := s.usageRepository.CountByApiKey(apiKeyID)
	if err != nil {
		return nil, fmt.Errorf("failed to count usage records: %w", err)
	}

	now := time.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	today, err := s.usageRepository.CountByApiKeySince(apiKeyID, startOfDay)
	if err != nil {
		return nil, fmt.Errorf("failed to count today's usage: %w", err)
	}

	average, err := s.usageRepository.GetAverageResponseTime(apiKeyID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute average response time: %w", err)
	}

	endpoints, err := s.usageRepository.GetEndpointBreakdown(apiKeyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get endpoint breakdown: %w", err)
	}

	if since.IsZero() {
		since = now.Add(-dailySeriesWindow)
	}

	daily, err := s.usageRepository.GetDailyCounts(apiKeyID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily counts: %w", err)
	}

	return &UsageStatsResponseDTO{
		TotalRequests:     total,
		RequestsToday:     today,
		AvgResponseTimeMs: average,
		Endpoints:         endpoints,
		Daily:             daily,
	}, nil
}

func (s *UsageService) GetUserTotalRequests(userID uuid.UUID) (int64, error) {
	total, err := s.usageRepository.CountByUser(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count user usage: %w", err)
	}

	return total, nil
}
