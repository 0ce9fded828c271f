package repositories

import (
	"errors"
	"time"

	"github.com/loki1512/MS-Fitness-Gym/internal/models"
	"gorm.io/gorm"
)

var ErrPlanNotFound = errors.New("plan not found")

type PlanRepository interface {
	Create(db *gorm.DB, plan *models.Plan) error
	FindByID(db *gorm.DB, id string) (*models.Plan, error)
	FindAll(db *gorm.DB, activeOnly bool) ([]models.Plan, error)
	Update(db *gorm.DB, planID string, updates map[string]interface{}) error
	CountActive(db *gorm.DB) (int64, error)
}

type PlanRepositoryImpl struct{}

func NewPlanRepository() PlanRepository {
	return &PlanRepositoryImpl{}
}

func (r *PlanRepositoryImpl) Create(db *gorm.DB, plan *models.Plan) error {
	return db.Create(plan).Error
}

func (r *PlanRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Plan, error) {
	var plan models.Plan
	if err := db.First(&plan, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepositoryImpl) FindAll(db *gorm.DB, activeOnly bool) ([]models.Plan, error) {
	var plans []models.Plan
	query := db.Model(&models.Plan{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("price ASC").Find(&plans).Error
	return plans, err
}

// Update applies a partial update. Deleting a plan is Update with is_active=false.
func (r *PlanRepositoryImpl) Update(db *gorm.DB, planID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := db.Model(&models.Plan{}).Where("id = ?", planID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPlanNotFound
	}
	return nil
}

func (r *PlanRepositoryImpl) CountActive(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.Plan{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}
