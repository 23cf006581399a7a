package system_healthcheck

import "sync"

var (
	healthcheckController *HealthcheckController
	setUpOnce             sync.Once
)

func GetHealthcheckController() *HealthcheckController {
	setUpOnce.Do(func() {
		healthcheckController = &HealthcheckController{getHealthcheckService()}
	})

	return healthcheckController
}
