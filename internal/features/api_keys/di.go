package api_keys

import (
	"sync"

	"herbarium/internal/cache"
	plans "herbarium/internal/features/plans"
	cache_utils "herbarium/internal/util/cache"
	"herbarium/internal/util/logger"
	rate_limit "herbarium/internal/util/rate_limit"

	"golang.org/x/sync/singleflight"
)

var (
	once             sync.Once
	apiKeyService    *ApiKeyService
	apiKeyController *ApiKeyController
)

func setUpDependencies() {
	apiKeyRepository := &ApiKeyRepository{}

	apiKeyService = &ApiKeyService{
		apiKeyRepository,
		plans.GetPlanService(),
		rate_limit.NewQuotaLimiter(),
		cache_utils.NewCacheUtil[CachedApiKey](cache.GetCache(), "hb_apikey:"),
		singleflight.Group{},
		logger.GetLogger(),
	}

	apiKeyController = &ApiKeyController{
		apiKeyService,
	}
}

func GetApiKeyService() *ApiKeyService {
	once.Do(setUpDependencies)
	return apiKeyService
}

func GetApiKeyController() *ApiKeyController {
	once.Do(setUpDependencies)
	return apiKeyController
}
