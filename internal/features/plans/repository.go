package plans

import (
	"time"

	"herbarium/internal/storage"

	"github.com/google/uuid"
)

type PlanRepository struct{}

func (r *PlanRepository) CreatePlan(plan *Plan) error {
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}

	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now().UTC()
	}

	return storage.GetDb().Create(plan).Error
}

func (r *PlanRepository) GetPlanByID(planID uuid.UUID) (*Plan, error) {
	var plan Plan

	err := storage.GetDb().
		Where("id = ?", planID).
		First(&plan).Error

	if err != nil {
		return nil, err
	}

	return &plan, nil
}

func (r *PlanRepository) GetPlanByName(name string) (*Plan, error) {
	var plan Plan

	err := storage.GetDb().
		Where("name = ?", name).
		First(&plan).Error

	if err != nil {
		return nil, err
	}

	return &plan, nil
}

func (r *PlanRepository) GetActivePlans() ([]*Plan, error) {
	var activePlans []*Plan

	err := storage.GetDb().
		Where("is_active = ?", true).
		Order("monthly_price ASC").
		Find(&activePlans).Error

	return activePlans, err
}

func (r *PlanRepository) UpdatePlan(plan *Plan) error {
	plan.UpdatedAt = time.Now().UTC()
	return storage.GetDb().Save(plan).Error
}

func (r *PlanRepository) CountPlans() (int64, error) {
	var count int64
	err := storage.GetDb().Model(&Plan{}).Count(&count).Error
	return count, err
}
