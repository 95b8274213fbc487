package service

import (
	"context"

	"github.com/xxxsen/synopsis/internal/model"
	"github.com/xxxsen/synopsis/internal/repo"
)

type PlanService struct {
	plans *repo.PlanRepo
}

func NewPlanService(plans *repo.PlanRepo) *PlanService {
	return &PlanService{plans: plans}
}

// ListActive returns plans available for signup, cheapest first.
func (s *PlanService) ListActive(ctx context.Context) ([]*model.Plan, error) {
	return s.plans.ListActive(ctx)
}
