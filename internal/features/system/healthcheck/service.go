package system_healthcheck

import (
	"context"
	"fmt"
	"time"

	"herbarium/internal/cache"
	"herbarium/internal/storage"

	"github.com/valkey-io/valkey-go"
)

const probeTimeout = 5 * time.Second

type HealthcheckService struct {
	valkeyClient valkey.Client
}

func (s *HealthcheckService) CheckHealth() error {
	if err := s.checkDatabase(); err != nil {
		return fmt.Errorf("database unavailable: %w", err)
	}

	if err := s.checkCache(); err != nil {
		return fmt.Errorf("cache unavailable: %w", err)
	}

	return nil
}

func (s *HealthcheckService) checkDatabase() error {
	sqlDb, err := storage.GetDb().DB()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	return sqlDb.PingContext(ctx)
}

func (s *HealthcheckService) checkCache() error {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	return s.valkeyClient.Do(ctx, s.valkeyClient.B().Ping().Build()).Error()
}

func getHealthcheckService() *HealthcheckService {
	return &HealthcheckService{cache.GetCache()}
}
