package api_keys

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	plans "herbarium/internal/features/plans"
	rate_limit "herbarium/internal/util/rate_limit"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Collaborators are narrow interfaces so validation branches can be
// driven by fakes; the concrete repository, plan service, quota
// limiter and cache util satisfy them.
type apiKeyStore interface {
	CreateApiKey(apiKey *ApiKey) error
	GetApiKeysByUserID(userID uuid.UUID) ([]*ApiKey, error)
	GetApiKeyByID(apiKeyID uuid.UUID) (*ApiKey, error)
	GetApiKeyByTokenHash(tokenHash string) (*ApiKey, error)
	RevokeApiKey(apiKeyID uuid.UUID) error
	UpdateLastUsed(apiKeyID uuid.UUID) error
}

type planResolver interface {
	GetDefaultPlan() (*plans.Plan, error)
	GetPlanWithCache(planID uuid.UUID) (*plans.Plan, error)
}

type quotaChecker interface {
	CheckQuota(apiKeyID uuid.UUID, dailyLimit, monthlyLimit int) (*rate_limit.QuotaResult, error)
}

type keyCache interface {
	Get(key string) *CachedApiKey
	Set(key string, item *CachedApiKey)
	Invalidate(key string)
}

type ApiKeyService struct {
	apiKeyRepository apiKeyStore
	planService      planResolver
	quotaLimiter     quotaChecker

	apiKeyCacheUtil keyCache
	singleflight    singleflight.Group // Prevents thundering herd on DB calls
	logger          *slog.Logger
}

const (
	TokenPrefix = "hb_"
	TokenLength = 32
)

// Caller-visible validation failure reasons. Bad key, revoked key,
// expired key and exhausted quota all share one message so callers
// cannot enumerate issued keys.
const (
	ReasonApiKeyRequired          = "API key is required"
	ReasonInvalidKeyOrRateLimited = "Invalid API key or rate limit exceeded"
)

func (s *ApiKeyService) CreateApiKey(request *CreateApiKeyRequestDTO, userID uuid.UUID) (*ApiKey, error) {
	plan, err := s.resolvePlan(request.PlanID)
	if err != nil {
		return nil, err
	}

	fullToken, tokenPrefix, tokenHash, err := s.generateSecureToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	apiKey := &ApiKey{
		ID:          uuid.New(),
		UserID:      userID,
		PlanID:      plan.ID,
		Name:        request.Name,
		TokenPrefix: tokenPrefix,
		TokenHash:   tokenHash,
		Status:      ApiKeyStatusActive,
		ExpiresAt:   request.ExpiresAt,
	}

	if err := s.apiKeyRepository.CreateApiKey(apiKey); err != nil {
		return nil, fmt.Errorf("failed to create API key: %w", err)
	}

	// Pre-warm cache with new API key for immediate availability
	cachedKey := &CachedApiKey{
		ID:        apiKey.ID,
		UserID:    apiKey.UserID,
		PlanID:    apiKey.PlanID,
		Status:    apiKey.Status,
		ExpiresAt: apiKey.ExpiresAt,
	}
	s.apiKeyCacheUtil.Set(tokenHash, cachedKey)

	// Set the full token in the response (only returned once)
	apiKey.Token = fullToken

	return apiKey, nil
}

func (s *ApiKeyService) GetUserApiKeys(userID uuid.UUID) (*GetApiKeysResponseDTO, error) {
	apiKeys, err := s.apiKeyRepository.GetApiKeysByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get API keys: %w", err)
	}

	return &GetApiKeysResponseDTO{
		ApiKeys: apiKeys,
	}, nil
}

// GetApiKeyForUser loads a key and confirms it belongs to the user.
func (s *ApiKeyService) GetApiKeyForUser(apiKeyID uuid.UUID, userID uuid.UUID) (*ApiKey, error) {
	apiKey, err := s.apiKeyRepository.GetApiKeyByID(apiKeyID)
	if err != nil {
		return nil, errors.New("API key not found")
	}

	if apiKey.UserID != userID {
		return nil, errors.New("API key does not belong to this user")
	}

	return apiKey, nil
}

func (s *ApiKeyService) RevokeApiKey(apiKeyID uuid.UUID, userID uuid.UUID) error {
	apiKey, err := s.apiKeyRepository.GetApiKeyByID(apiKeyID)
	if err != nil {
		return errors.New("API key not found")
	}

	if apiKey.UserID != userID {
		return errors.New("API key does not belong to this user")
	}

	if err := s.apiKeyRepository.RevokeApiKey(apiKeyID); err != nil {
		return fmt.Errorf("failed to revoke API key: %w", err)
	}

	s.apiKeyCacheUtil.Invalidate(apiKey.TokenHash)

	return nil
}

// ValidateApiKey decides whether a presented key may proceed and
// resolves its plan. Expected rejections come back as an invalid
// result; a non-nil error means an internal data problem, never a
// caller mistake.
func (s *ApiKeyService) ValidateApiKey(token string) (*ValidateKeyResult, error) {
	if strings.TrimSpace(token) == "" {
		return &ValidateKeyResult{Valid: false, Reason: ReasonApiKeyRequired}, nil
	}

	if !strings.HasPrefix(token, TokenPrefix) {
		return &ValidateKeyResult{Valid: false, Reason: ReasonInvalidKeyOrRateLimited}, nil
	}

	tokenHash := s.hashToken(token)

	cachedKey, err := s.lookupKey(tokenHash)
	if err != nil {
		return nil, fmt.Errorf("error fetching API key details: %w", err)
	}

	if cachedKey.Status != ApiKeyStatusActive {
		return &ValidateKeyResult{Valid: false, Reason: ReasonInvalidKeyOrRateLimited}, nil
	}

	if cachedKey.IsExpired(time.Now().UTC()) {
		return &ValidateKeyResult{Valid: false, Reason: ReasonInvalidKeyOrRateLimited}, nil
	}

	plan, err := s.planService.GetPlanWithCache(cachedKey.PlanID)
	if err != nil {
		return nil, fmt.Errorf("error fetching plan details: %w", err)
	}

	quota, err := s.quotaLimiter.CheckQuota(cachedKey.ID, plan.DailyRateLimit, plan.MonthlyRequestLimit)
	if err != nil {
		// Admission cannot be verified, so the key is refused with the
		// same message as an exhausted quota
		s.logger.Error("quota check failed", "apiKeyId", cachedKey.ID, "error", err)
		return &ValidateKeyResult{Valid: false, Reason: ReasonInvalidKeyOrRateLimited}, nil
	}

	if !quota.Allowed {
		return &ValidateKeyResult{Valid: false, Reason: ReasonInvalidKeyOrRateLimited}, nil
	}

	if err := s.apiKeyRepository.UpdateLastUsed(cachedKey.ID); err != nil {
		s.logger.Error("failed to update last used timestamp", "apiKeyId", cachedKey.ID, "error", err)
	}

	return &ValidateKeyResult{
		Valid:    true,
		ApiKeyID: cachedKey.ID,
		UserID:   cachedKey.UserID,
		Plan:     plan,
	}, nil
}

// lookupKey resolves a token hash to a cached key entry, falling back
// to the database under singleflight. Unknown and revoked keys are
// cached as NOT_FOUND to keep repeated probes off the database.
func (s *ApiKeyService) lookupKey(tokenHash string) (*CachedApiKey, error) {
	if cachedKey := s.apiKeyCacheUtil.Get(tokenHash); cachedKey != nil {
		return cachedKey, nil
	}

	result, err, _ := s.singleflight.Do(tokenHash, func() (any, error) {
		return s.apiKeyRepository.GetApiKeyByTokenHash(tokenHash)
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound := &CachedApiKey{Status: ApiKeyStatusNotFound}
			s.apiKeyCacheUtil.Set(tokenHash, notFound)
			return notFound, nil
		}

		return nil, err
	}

	apiKey, ok := result.(*ApiKey)
	if !ok {
		return nil, fmt.Errorf("failed to cast result to ApiKey")
	}

	cachedKey := &CachedApiKey{
		ID:        apiKey.ID,
		UserID:    apiKey.UserID,
		PlanID:    apiKey.PlanID,
		Status:    apiKey.Status,
		ExpiresAt: apiKey.ExpiresAt,
	}
	s.apiKeyCacheUtil.Set(tokenHash, cachedKey)

	return cachedKey, nil
}

func (s *ApiKeyService) resolvePlan(planID *uuid.UUID) (*plans.Plan, error) {
	if planID == nil {
		plan, err := s.planService.GetDefaultPlan()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve default plan: %w", err)
		}
		return plan, nil
	}

	plan, err := s.planService.GetPlanWithCache(*planID)
	if err != nil {
		return nil, errors.New("plan not found")
	}

	if !plan.IsActive {
		return nil, errors.New("plan is not available")
	}

	return plan, nil
}

func (s *ApiKeyService) generateSecureToken() (fullToken, prefix, hash string, err error) {
	tokenBytes := make([]byte, TokenLength/2) // hex encoding doubles the length
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", "", "", err
	}

	tokenSuffix := hex.EncodeToString(tokenBytes)
	fullToken = TokenPrefix + tokenSuffix
	prefix = TokenPrefix + tokenSuffix[:6] + "..."
	hash = s.hashToken(fullToken)

	return fullToken, prefix, hash, nil
}

func (s *ApiKeyService) hashToken(token string) string {
	hasher := sha256.New()
	hasher.Write([]byte(token))
	return hex.EncodeToString(hasher.Sum(nil))
}
