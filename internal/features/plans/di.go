package plans

import (
	"sync"

	"herbarium/internal/cache"
	cache_utils "herbarium/internal/util/cache"
	"herbarium/internal/util/logger"
)

var (
	once           sync.Once
	planService    *PlanService
	planController *PlanController
)

func setUpDependencies() {
	planRepository := &PlanRepository{}

	planService = &PlanService{
		planRepository,
		cache_utils.NewCacheUtil[Plan](cache.GetCache(), "hb_plan:"),
		logger.GetLogger(),
	}

	planController = &PlanController{
		planService,
	}
}

func GetPlanService() *PlanService {
	once.Do(setUpDependencies)
	return planService
}

func GetPlanController() *PlanController {
	once.Do(setUpDependencies)
	return planController
}
