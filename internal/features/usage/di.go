package usage

import (
	"sync"

	api_keys "herbarium/internal/features/api_keys"
	"herbarium/internal/util/logger"
)

var (
	once            sync.Once
	usageService    *UsageService
	usageController *UsageController
)

func setUpDependencies() {
	usageRepository := &UsageRepository{}

	usageService = &UsageService{
		usageRepository,
		api_keys.GetApiKeyService(),
		logger.GetLogger(),
	}

	usageController = &UsageController{
		usageService,
	}
}

func GetUsageService() *UsageService {
	once.Do(setUpDependencies)
	return usageService
}

func GetUsageController() *UsageController {
	once.Do(setUpDependencies)
	return usageController
}
