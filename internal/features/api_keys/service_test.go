package api_keys

import (
	"errors"
	"strings"
	"testing"
	"time"

	plans "herbarium/internal/features/plans"
	"herbarium/internal/util/logger"
	rate_limit "herbarium/internal/util/rate_limit"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_GenerateSecureToken_ProducesTokenWithPrefixAndLength(t *testing.T) {
	service := &ApiKeyService{}

	fullToken, prefix, hash, err := service.generateSecureToken()

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(fullToken, TokenPrefix))
	assert.Len(t, fullToken, len(TokenPrefix)+TokenLength)
	assert.True(t, strings.HasPrefix(prefix, TokenPrefix))
	assert.True(t, strings.HasSuffix(prefix, "..."))
	assert.Len(t, hash, 64) // hex-encoded SHA-256
}

func Test_GenerateSecureToken_ProducesUniqueTokens(t *testing.T) {
	service := &ApiKeyService{}

	first, _, firstHash, err := service.generateSecureToken()
	require.NoError(t, err)

	second, _, secondHash, err := service.generateSecureToken()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NotEqual(t, firstHash, secondHash)
}

func Test_HashToken_IsDeterministic(t *testing.T) {
	service := &ApiKeyService{}

	first := service.hashToken("hb_sometoken")
	second := service.hashToken("hb_sometoken")

	assert.Equal(t, first, second)
}

func Test_HashToken_NeverEchoesToken(t *testing.T) {
	service := &ApiKeyService{}

	hash := service.hashToken("hb_secretvalue")

	assert.NotContains(t, hash, "secretvalue")
}

func Test_IsExpired_WithNoExpiration_ReturnsFalse(t *testing.T) {
	apiKey := &CachedApiKey{}

	assert.False(t, apiKey.IsExpired(time.Now().UTC()))
}

func Test_IsExpired_WithPastExpiration_ReturnsTrue(t *testing.T) {
	past := time.Now().UTC().Add(-time.Hour)
	apiKey := &CachedApiKey{ExpiresAt: &past}

	assert.True(t, apiKey.IsExpired(time.Now().UTC()))
}

func Test_IsExpired_WithFutureExpiration_ReturnsFalse(t *testing.T) {
	future := time.Now().UTC().Add(time.Hour)
	apiKey := &CachedApiKey{ExpiresAt: &future}

	assert.False(t, apiKey.IsExpired(time.Now().UTC()))
}

type fakeKeyStore struct {
	byHash map[string]*ApiKey

	lookupCalls   int
	lastUsedCalls int
}

func (s *fakeKeyStore) CreateApiKey(apiKey *ApiKey) error { return nil }

func (s *fakeKeyStore) GetApiKeysByUserID(userID uuid.UUID) ([]*ApiKey, error) { return nil, nil }

func (s *fakeKeyStore) GetApiKeyByID(apiKeyID uuid.UUID) (*ApiKey, error) {
	return nil, gorm.ErrRecordNotFound
}

// GetApiKeyByTokenHash mirrors the repository contract: only ACTIVE
// rows are stored in byHash, anything else is a record-not-found.
func (s *fakeKeyStore) GetApiKeyByTokenHash(tokenHash string) (*ApiKey, error) {
	s.lookupCalls++

	if apiKey, ok := s.byHash[tokenHash]; ok {
		return apiKey, nil
	}

	return nil, gorm.ErrRecordNotFound
}

func (s *fakeKeyStore) RevokeApiKey(apiKeyID uuid.UUID) error { return nil }

func (s *fakeKeyStore) UpdateLastUsed(apiKeyID uuid.UUID) error {
	s.lastUsedCalls++
	return nil
}

type fakeKeyCache struct {
	entries map[string]*CachedApiKey
}

func (c *fakeKeyCache) Get(key string) *CachedApiKey { return c.entries[key] }

func (c *fakeKeyCache) Set(key string, item *CachedApiKey) {
	if c.entries == nil {
		c.entries = map[string]*CachedApiKey{}
	}
	c.entries[key] = item
}

func (c *fakeKeyCache) Invalidate(key string) { delete(c.entries, key) }

type fakePlanResolver struct {
	plan *plans.Plan
	err  error
}

func (r *fakePlanResolver) GetDefaultPlan() (*plans.Plan, error) { return r.plan, r.err }

func (r *fakePlanResolver) GetPlanWithCache(planID uuid.UUID) (*plans.Plan, error) {
	return r.plan, r.err
}

type fakeQuotaChecker struct {
	result *rate_limit.QuotaResult
	err    error

	calls int
}

func (q *fakeQuotaChecker) CheckQuota(apiKeyID uuid.UUID, dailyLimit, monthlyLimit int) (*rate_limit.QuotaResult, error) {
	q.calls++

	if q.err != nil {
		return nil, q.err
	}

	return q.result, nil
}

func createValidationService(
	store *fakeKeyStore,
	keyCache *fakeKeyCache,
	resolver *fakePlanResolver,
	quota *fakeQuotaChecker,
) *ApiKeyService {
	return &ApiKeyService{
		apiKeyRepository: store,
		planService:      resolver,
		quotaLimiter:     quota,
		apiKeyCacheUtil:  keyCache,
		logger:           logger.GetLogger(),
	}
}

func createMeteredPlan() *plans.Plan {
	return &plans.Plan{
		ID:                  uuid.New(),
		Name:                "Starter",
		DailyRateLimit:      100,
		MonthlyRequestLimit: 1000,
		IsActive:            true,
	}
}

func createActiveStoredKey(service *ApiKeyService, token string) (*fakeKeyStore, *ApiKey) {
	apiKey := &ApiKey{
		ID:     uuid.New(),
		UserID: uuid.New(),
		PlanID: uuid.New(),
		Status: ApiKeyStatusActive,
	}

	store := &fakeKeyStore{
		byHash: map[string]*ApiKey{service.hashToken(token): apiKey},
	}

	return store, apiKey
}

func Test_ValidateApiKey_WithEmptyToken_ReturnsRequiredReasonWithoutLookup(t *testing.T) {
	store := &fakeKeyStore{}
	service := createValidationService(store, &fakeKeyCache{}, &fakePlanResolver{}, &fakeQuotaChecker{})

	result, err := service.ValidateApiKey("   ")

	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, ReasonApiKeyRequired, result.Reason)
	assert.Equal(t, 0, store.lookupCalls)
}

func Test_ValidateApiKey_WithWrongPrefix_ReturnsCombinedReason(t *testing.T) {
	service := createValidationService(&fakeKeyStore{}, &fakeKeyCache{}, &fakePlanResolver{}, &fakeQuotaChecker{})

	result, err := service.ValidateApiKey("sk_0123456789abcdef0123456789abcdef")

	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, ReasonInvalidKeyOrRateLimited, result.Reason)
}

func Test_ValidateApiKey_WithUnknownToken_ReturnsCombinedReasonAndCachesNotFound(t *testing.T) {
	store := &fakeKeyStore{}
	quota := &fakeQuotaChecker{result: &rate_limit.QuotaResult{Allowed: true}}
	service := createValidationService(store, &fakeKeyCache{}, &fakePlanResolver{}, quota)

	token := TokenPrefix + strings.Repeat("f", TokenLength)

	first, err := service.ValidateApiKey(token)
	require.NoError(t, err)
	second, err := service.ValidateApiKey(token)
	require.NoError(t, err)

	assert.False(t, first.Valid)
	assert.Equal(t, ReasonInvalidKeyOrRateLimited, first.Reason)
	assert.Equal(t, first.Reason, second.Reason)
	assert.Equal(t, 1, store.lookupCalls, "negative result must be served from cache")
	assert.Equal(t, 0, quota.calls)
}

func Test_ValidateApiKey_WithRevokedKey_ReturnsCombinedReasonRegardlessOfQuota(t *testing.T) {
	token := TokenPrefix + strings.Repeat("a", TokenLength)
	quota := &fakeQuotaChecker{result: &rate_limit.QuotaResult{Allowed: true}}

	service := createValidationService(&fakeKeyStore{}, &fakeKeyCache{}, &fakePlanResolver{}, quota)
	service.apiKeyCacheUtil.Set(service.hashToken(token), &CachedApiKey{
		ID:     uuid.New(),
		Status: ApiKeyStatusRevoked,
	})

	result, err := service.ValidateApiKey(token)

	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, ReasonInvalidKeyOrRateLimited, result.Reason)
	assert.Equal(t, 0, quota.calls, "quota must not be consulted for a revoked key")
}

func Test_ValidateApiKey_WithExpiredActiveKey_ReturnsCombinedReason(t *testing.T) {
	token := TokenPrefix + strings.Repeat("b", TokenLength)
	quota := &fakeQuotaChecker{result: &rate_limit.QuotaResult{Allowed: true}}
	service := createValidationService(&fakeKeyStore{}, &fakeKeyCache{}, &fakePlanResolver{}, quota)

	store, apiKey := createActiveStoredKey(service, token)
	past := time.Now().UTC().Add(-time.Minute)
	apiKey.ExpiresAt = &past
	service.apiKeyRepository = store

	result, err := service.ValidateApiKey(token)

	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, ReasonInvalidKeyOrRateLimited, result.Reason)
	assert.Equal(t, 0, quota.calls)
}

func Test_ValidateApiKey_WithExhaustedQuota_ReturnsCombinedReason(t *testing.T) {
	token := TokenPrefix + strings.Repeat("c", TokenLength)
	quota := &fakeQuotaChecker{result: &rate_limit.QuotaResult{Allowed: false, DailyUsed: 100}}
	service := createValidationService(&fakeKeyStore{}, &fakeKeyCache{}, &fakePlanResolver{plan: createMeteredPlan()}, quota)

	store, _ := createActiveStoredKey(service, token)
	service.apiKeyRepository = store

	result, err := service.ValidateApiKey(token)

	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, ReasonInvalidKeyOrRateLimited, result.Reason)
	assert.Equal(t, 0, store.lastUsedCalls, "a rejected request must not touch last_used_at")
}

func Test_ValidateApiKey_WithQuotaBackendFailure_RefusesWithCombinedReason(t *testing.T) {
	token := TokenPrefix + strings.Repeat("d", TokenLength)
	quota := &fakeQuotaChecker{err: errors.New("connection refused")}
	service := createValidationService(&fakeKeyStore{}, &fakeKeyCache{}, &fakePlanResolver{plan: createMeteredPlan()}, quota)

	store, _ := createActiveStoredKey(service, token)
	service.apiKeyRepository = store

	result, err := service.ValidateApiKey(token)

	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, ReasonInvalidKeyOrRateLimited, result.Reason)
	assert.NotContains(t, result.Reason, "connection refused")
}

func Test_ValidateApiKey_WithValidActiveKey_AdmitsAndRecordsUse(t *testing.T) {
	token := TokenPrefix + strings.Repeat("e", TokenLength)
	plan := createMeteredPlan()
	quota := &fakeQuotaChecker{result: &rate_limit.QuotaResult{Allowed: true, DailyUsed: 1, MonthlyUsed: 1}}
	service := createValidationService(&fakeKeyStore{}, &fakeKeyCache{}, &fakePlanResolver{plan: plan}, quota)

	store, apiKey := createActiveStoredKey(service, token)
	service.apiKeyRepository = store

	result, err := service.ValidateApiKey(token)

	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, apiKey.ID, result.ApiKeyID)
	assert.Equal(t, apiKey.UserID, result.UserID)
	assert.Same(t, plan, result.Plan)
	assert.Equal(t, 1, quota.calls)
	assert.Equal(t, 1, store.lastUsedCalls)
}

func Test_ValidateApiKey_WithPlanLookupFailure_ReturnsInternalError(t *testing.T) {
	token := TokenPrefix + strings.Repeat("9", TokenLength)
	resolver := &fakePlanResolver{err: errors.New("plan table unreachable")}
	service := createValidationService(&fakeKeyStore{}, &fakeKeyCache{}, resolver, &fakeQuotaChecker{})

	store, _ := createActiveStoredKey(service, token)
	service.apiKeyRepository = store

	result, err := service.ValidateApiKey(token)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "error fetching plan details")
}
