package repositories

import (
	"errors"
	"time"

	"github.com/loki1512/MS-Fitness-Gym/internal/models"
	"gorm.io/gorm"
)

var ErrMembershipNotFound = errors.New("membership not found")

type MembershipRepository interface {
	Create(db *gorm.DB, membership *models.Membership) error
	FindByUser(db *gorm.DB, userID string) ([]models.Membership, error)
	SaveStatuses(db *gorm.DB, changed []*models.Membership) (int64, error)
	FindCurrentByUser(db *gorm.DB, userID string) ([]models.Membership, error)
	FindEndingBetween(db *gorm.DB, statuses []models.MembershipStatus, from, to time.Time) ([]models.Membership, error)
	FindEndedBefore(db *gorm.DB, day time.Time) ([]models.Membership, error)
	UserIDsWithAccess(db *gorm.DB, today time.Time) ([]string, error)
	CountByStatus(db *gorm.DB, status models.MembershipStatus) (int64, error)
	RefreshAll(db *gorm.DB, today time.Time, expiringWindowDays int) (int64, error)
}

type MembershipRepositoryImpl struct{}

func NewMembershipRepository() MembershipRepository {
	return &MembershipRepositoryImpl{}
}

func (r *MembershipRepositoryImpl) Create(db *gorm.DB, membership *models.Membership) error {
	return db.Create(membership).Error
}

// FindByUser returns the whole history of a user, newest first, with plans.
func (r *MembershipRepositoryImpl) FindByUser(db *gorm.DB, userID string) ([]models.Membership, error) {
	var memberships []models.Membership
	err := db.Preload("Plan").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&memberships).Error
	return memberships, err
}

// SaveStatuses writes back the status of every membership in changed. Rows
// that became Expired in the meantime are left alone, so a stale read can
// never bring a membership back.
func (r *MembershipRepositoryImpl) SaveStatuses(db *gorm.DB, changed []*models.Membership) (int64, error) {
	now := time.Now()
	var total int64
	for _, m := range changed {
		result := db.Model(&models.Membership{}).
			Where("id = ? AND status <> ?", m.ID, models.MembershipExpired).
			Updates(map[string]interface{}{
				"status":     m.Status,
				"updated_at": now,
			})
		if result.Error != nil {
			return total, result.Error
		}
		total += result.RowsAffected
	}
	return total, nil
}

// FindCurrentByUser returns the user's non-Expired memberships.
func (r *MembershipRepositoryImpl) FindCurrentByUser(db *gorm.DB, userID string) ([]models.Membership, error) {
	var memberships []models.Membership
	err := db.Preload("Plan").
		Where("user_id = ? AND status IN ?", userID, models.CurrentStatuses).
		Order("end_date DESC").
		Find(&memberships).Error
	return memberships, err
}

// FindEndingBetween lists memberships in statuses whose end date lies in
// [from, to], soonest first, with user and plan.
func (r *MembershipRepositoryImpl) FindEndingBetween(db *gorm.DB, statuses []models.MembershipStatus, from, to time.Time) ([]models.Membership, error) {
	var memberships []models.Membership
	err := db.Preload("User").Preload("Plan").
		Where("status IN ?", statuses).
		Where("end_date >= ? AND end_date <= ?", from, to).
		Order("end_date ASC").
		Find(&memberships).Error
	return memberships, err
}

// FindEndedBefore lists every membership that ended before day, most recent first.
func (r *MembershipRepositoryImpl) FindEndedBefore(db *gorm.DB, day time.Time) ([]models.Membership, error) {
	var memberships []models.Membership
	err := db.Preload("User").Preload("Plan").
		Where("end_date < ?", day).
		Order("end_date DESC").
		Find(&memberships).Error
	return memberships, err
}

// UserIDsWithAccess lists users holding an Active or Expiring membership that
// has not ended before today.
func (r *MembershipRepositoryImpl) UserIDsWithAccess(db *gorm.DB, today time.Time) ([]string, error) {
	var ids []string
	err := db.Model(&models.Membership{}).
		Distinct("user_id").
		Where("status IN ? AND end_date >= ?", models.CurrentStatuses, today).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *MembershipRepositoryImpl) CountByStatus(db *gorm.DB, status models.MembershipStatus) (int64, error) {
	var count int64
	err := db.Model(&models.Membership{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// RefreshAll reclassifies every non-Expired membership as of today using
// set-based updates and returns the number of rows changed. Expired rows are
// never touched.
func (r *MembershipRepositoryImpl) RefreshAll(db *gorm.DB, today time.Time, expiringWindowDays int) (int64, error) {
	windowEnd := today.AddDate(0, 0, expiringWindowDays)
	now := time.Now()
	var total int64

	steps := []struct {
		set   models.MembershipStatus
		where string
		args  []interface{}
	}{
		{
			set:   models.MembershipExpired,
			where: "status <> ? AND end_date < ?",
			args:  []interface{}{models.MembershipExpired, today},
		},
		{
			set:   models.MembershipExpiring,
			where: "status = ? AND end_date >= ? AND end_date <= ?",
			args:  []interface{}{models.MembershipActive, today, windowEnd},
		},
		{
			set:   models.MembershipActive,
			where: "status = ? AND end_date > ?",
			args:  []interface{}{models.MembershipExpiring, windowEnd},
		},
	}

	for _, step := range steps {
		result := db.Model(&models.Membership{}).
			Where(step.where, step.args...).
			Updates(map[string]interface{}{"status": step.set, "updated_at": now})
		if result.Error != nil {
			return total, result.Error
		}
		total += result.RowsAffected
	}
	return total, nil
}
