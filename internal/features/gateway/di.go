package gateway

import (
	"sync"

	api_keys "herbarium/internal/features/api_keys"
	herbs "herbarium/internal/features/herbs"
	usage "herbarium/internal/features/usage"
	"herbarium/internal/util/logger"
)

var (
	once              sync.Once
	gatewayService    *GatewayService
	gatewayController *GatewayController
)

func setUpDependencies() {
	gatewayService = &GatewayService{
		herbs.GetHerbRepository(),
		logger.GetLogger(),
	}

	gatewayController = &GatewayController{
		gatewayService,
		api_keys.GetApiKeyService(),
		usage.GetUsageService(),
		logger.GetLogger(),
	}
}

func GetGatewayService() *GatewayService {
	once.Do(setUpDependencies)
	return gatewayService
}

func GetGatewayController() *GatewayController {
	once.Do(setUpDependencies)
	return gatewayController
}
