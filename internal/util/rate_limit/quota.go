package rate_limit

import (
	"context"
	"fmt"
	"herbarium/internal/cache"
	"time"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

type QuotaLimiter struct {
	client valkey.Client
}

type QuotaResult struct {
	Allowed      bool  `json:"allowed"`
	DailyUsed    int64 `json:"dailyUsed"`
	MonthlyUsed  int64 `json:"monthlyUsed"`
	DailyLimit   int   `json:"dailyLimit"`
	MonthlyLimit int   `json:"monthlyLimit"`
}

const (
	defaultTimeout = 5 * time.Second
	keyPrefix      = "quota:key:"
)

// Lua script for combined daily/monthly quota admission.
// This script atomically:
// 1. Reads the current daily and monthly counters
// 2. Rejects if either counter already reached its limit
// 3. Increments both counters and sets expiry on first use
// A limit of 0 means unlimited for that window.
const quotaAdmissionLuaScript = `
local daily_key = KEYS[1]
local monthly_key = KEYS[2]
local daily_limit = tonumber(ARGV[1])
local monthly_limit = tonumber(ARGV[2])
local daily_ttl = tonumber(ARGV[3])
local monthly_ttl = tonumber(ARGV[4])

local daily = tonumber(redis.call('GET', daily_key) or '0')
local monthly = tonumber(redis.call('GET', monthly_key) or '0')

if daily_limit > 0 and daily >= daily_limit then
    return {0, daily, monthly}
end
if monthly_limit > 0 and monthly >= monthly_limit then
    return {0, daily, monthly}
end

daily = redis.call('INCR', daily_key)
if daily == 1 then
    redis.call('EXPIRE', daily_key, daily_ttl)
end

monthly = redis.call('INCR', monthly_key)
if monthly == 1 then
    redis.call('EXPIRE', monthly_key, monthly_ttl)
end

return {1, daily, monthly}
`

func NewQuotaLimiter() *QuotaLimiter {
	return &QuotaLimiter{
		client: cache.GetCache(),
	}
}

// CheckQuota admits or rejects one request for the given API key.
// The check-and-increment runs as a single Lua execution, so two
// concurrent requests can never both consume the last quota unit.
func (l *QuotaLimiter) CheckQuota(apiKeyID uuid.UUID, dailyLimit, monthlyLimit int) (*QuotaResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	dailyKey := fmt.Sprintf("%s%s:d:%s", keyPrefix, apiKeyID, now.Format("20060102"))
	monthlyKey := fmt.Sprintf("%s%s:m:%s", keyPrefix, apiKeyID, now.Format("200601"))

	result := l.client.Do(ctx, l.client.B().Eval().
		Script(quotaAdmissionLuaScript).
		Numkeys(2).
		Key(dailyKey).
		Key(monthlyKey).
		Arg(fmt.Sprintf("%d", dailyLimit)).
		Arg(fmt.Sprintf("%d", monthlyLimit)).
		Arg(fmt.Sprintf("%d", secondsUntilEndOfDay(now))).
		Arg(fmt.Sprintf("%d", secondsUntilEndOfMonth(now))).
		Build())

	if result.Error() != nil {
		return nil, fmt.Errorf("quota check failed: %w", result.Error())
	}

	values, err := result.AsIntSlice()
	if err != nil {
		return nil, fmt.Errorf("failed to parse quota result: %w", err)
	}

	if len(values) < 3 {
		return nil, fmt.Errorf("invalid quota result: expected 3 values, got %d", len(values))
	}

	return &QuotaResult{
		Allowed:      values[0] == 1,
		DailyUsed:    values[1],
		MonthlyUsed:  values[2],
		DailyLimit:   dailyLimit,
		MonthlyLimit: monthlyLimit,
	}, nil
}

func (l *QuotaLimiter) ResetQuota(apiKeyID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	dailyKey := fmt.Sprintf("%s%s:d:%s", keyPrefix, apiKeyID, now.Format("20060102"))
	monthlyKey := fmt.Sprintf("%s%s:m:%s", keyPrefix, apiKeyID, now.Format("200601"))

	result := l.client.Do(ctx, l.client.B().Del().Key(dailyKey).Key(monthlyKey).Build())
	return result.Error()
}

func secondsUntilEndOfDay(now time.Time) int64 {
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return int64(endOfDay.Sub(now).Seconds()) + 1
}

func secondsUntilEndOfMonth(now time.Time) int64 {
	endOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return int64(endOfMonth.Sub(now).Seconds()) + 1
}
