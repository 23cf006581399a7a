package plans

import (
	"fmt"
	"log/slog"

	cache_utils "herbarium/internal/util/cache"

	"github.com/google/uuid"
)

const DefaultPlanName = "Free"

type PlanService struct {
	planRepository *PlanRepository
	planCacheUtil  *cache_utils.CacheUtil[Plan]
	logger         *slog.Logger
}

func (s *PlanService) GetPlanWithCache(planID uuid.UUID) (*Plan, error) {
	if cachedPlan := s.planCacheUtil.Get(planID.String()); cachedPlan != nil {
		return cachedPlan, nil
	}

	plan, err := s.planRepository.GetPlanByID(planID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	s.planCacheUtil.Set(planID.String(), plan)

	return plan, nil
}

func (s *PlanService) GetActivePlans() ([]*Plan, error) {
	activePlans, err := s.planRepository.GetActivePlans()
	if err != nil {
		return nil, fmt.Errorf("failed to get plans: %w", err)
	}

	return activePlans, nil
}

func (s *PlanService) GetDefaultPlan() (*Plan, error) {
	plan, err := s.planRepository.GetPlanByName(DefaultPlanName)
	if err != nil {
		return nil, fmt.Errorf("failed to get default plan: %w", err)
	}

	return plan, nil
}

func (s *PlanService) UpdatePlan(plan *Plan) error {
	if err := s.planRepository.UpdatePlan(plan); err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}

	s.planCacheUtil.Invalidate(plan.ID.String())

	return nil
}

// SeedDefaultPlans creates the built-in plan catalog on first start.
// Plans are operator-maintained afterwards and never deleted while
// keys reference them.
func (s *PlanService) SeedDefaultPlans() error {
	count, err := s.planRepository.CountPlans()
	if err != nil {
		return fmt.Errorf("failed to count plans: %w", err)
	}

	if count > 0 {
		return nil
	}

	defaultPlans := []*Plan{
		{
			Name:                DefaultPlanName,
			Description:         "Basic herb information for small projects",
			MonthlyPrice:        0,
			MonthlyRequestLimit: 1000,
			DailyRateLimit:      100,
			IsActive:            true,
			Features: map[string]bool{
				FeatureBasicHerbInfo: true,
				FeatureCategories:    true,
			},
		},
		{
			Name:                "Starter",
			Description:         "Full catalog access with search",
			MonthlyPrice:        9.99,
			MonthlyRequestLimit: 10000,
			DailyRateLimit:      1000,
			IsActive:            true,
			Features: map[string]bool{
				FeatureBasicHerbInfo: true,
				FeatureCategories:    true,
				FeatureSearch:        true,
			},
		},
		{
			Name:                "Professional",
			Description:         "Detailed herb documents, search and advanced filtering",
			MonthlyPrice:        29.99,
			MonthlyRequestLimit: 100000,
			DailyRateLimit:      10000,
			IsActive:            true,
			Features: map[string]bool{
				FeatureBasicHerbInfo:     true,
				FeatureDetailedHerbInfo:  true,
				FeatureCategories:        true,
				FeatureSearch:            true,
				FeatureAdvancedFiltering: true,
				FeatureBulkOperations:    true,
			},
		},
	}

	for _, plan := range defaultPlans {
		if err := s.planRepository.CreatePlan(plan); err != nil {
			return fmt.Errorf("failed to seed plan %s: %w", plan.Name, err)
		}

		s.logger.Info("Seeded plan", "name", plan.Name)
	}

	return nil
}
