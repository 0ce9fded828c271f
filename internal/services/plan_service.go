package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/loki1512/MS-Fitness-Gym/internal/logger"
	"github.com/loki1512/MS-Fitness-Gym/internal/models"
	"github.com/loki1512/MS-Fitness-Gym/internal/repositories"
	"github.com/loki1512/MS-Fitness-Gym/internal/services/dto"
	"github.com/loki1512/MS-Fitness-Gym/pkg/apperrors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PlanService interface {
	ListPlans(ctx context.Context, db *gorm.DB, includeInactive bool) ([]dto.PlanResponse, error)
	CreatePlan(ctx context.Context, db *gorm.DB, req *dto.CreatePlanRequest) (*dto.PlanMutationResponse, error)
	UpdatePlan(ctx context.Context, db *gorm.DB, planID string, req *dto.UpdatePlanRequest) (*dto.PlanMutationResponse, error)
	DeletePlan(ctx context.Context, db *gorm.DB, planID string) error
}

type PlanServiceImpl struct {
	planRepo repositories.PlanRepository
}

func NewPlanService(planRepo repositories.PlanRepository) PlanService {
	return &PlanServiceImpl{planRepo: planRepo}
}

func (s *PlanServiceImpl) ListPlans(ctx context.Context, db *gorm.DB, includeInactive bool) ([]dto.PlanResponse, error) {
	plans, err := s.planRepo.FindAll(db.WithContext(ctx), !includeInactive)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := make([]dto.PlanResponse, 0, len(plans))
	for i := range plans {
		resp = append(resp, planResponse(&plans[i]))
	}
	return resp, nil
}

func (s *PlanServiceImpl) CreatePlan(ctx context.Context, db *gorm.DB, req *dto.CreatePlanRequest) (*dto.PlanMutationResponse, error) {
	features, err := encodeFeatures(req.Features)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	plan := &models.Plan{
		Name:         strings.TrimSpace(req.Name),
		Price:        req.Price,
		DurationDays: req.DurationDays,
		Features:     features,
		IsActive:     true,
	}
	if err := s.planRepo.Create(db.WithContext(ctx), plan); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "plan created", "plan_id", plan.ID, "name", plan.Name)
	resp := planResponse(plan)
	return &dto.PlanMutationResponse{Message: "Plan created successfully", Plan: &resp}, nil
}

func (s *PlanServiceImpl) UpdatePlan(ctx context.Context, db *gorm.DB, planID string, req *dto.UpdatePlanRequest) (*dto.PlanMutationResponse, error) {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if _, err := s.planRepo.FindByID(tx, planID); err != nil {
		return nil, handlePlanError(err)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.DurationDays != nil {
		updates["duration_days"] = *req.DurationDays
	}
	if req.Features != nil {
		features, err := encodeFeatures(req.Features)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		updates["features"] = features
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.planRepo.Update(tx, planID, updates); err != nil {
			return nil, handlePlanError(err)
		}
	}

	plan, err := s.planRepo.FindByID(tx, planID)
	if err != nil {
		return nil, handlePlanError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := planResponse(plan)
	return &dto.PlanMutationResponse{Message: "Plan updated successfully", Plan: &resp}, nil
}

// DeletePlan deactivates the plan. Plans are never removed because payments
// and memberships keep referring to them.
func (s *PlanServiceImpl) DeletePlan(ctx context.Context, db *gorm.DB, planID string) error {
	err := s.planRepo.Update(db.WithContext(ctx), planID, map[string]interface{}{"is_active": false})
	if err != nil {
		return handlePlanError(err)
	}
	logger.CtxInfo(ctx, "plan deactivated", "plan_id", planID)
	return nil
}

func encodeFeatures(features []string) (datatypes.JSON, error) {
	if features == nil {
		return nil, nil
	}
	raw, err := json.Marshal(features)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal features: %w", err)
	}
	return datatypes.JSON(raw), nil
}

func planResponse(p *models.Plan) dto.PlanResponse {
	resp := dto.PlanResponse{
		ID:           p.ID,
		Name:         p.Name,
		Price:        p.Price,
		DurationDays: p.DurationDays,
		IsActive:     p.IsActive,
	}
	if len(p.Features) > 0 {
		// a malformed column just drops the perks list
		_ = json.Unmarshal(p.Features, &resp.Features)
	}
	return resp
}
