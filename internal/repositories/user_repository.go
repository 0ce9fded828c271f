package repositories

import (
	"errors"
	"strings"
	"time"

	"github.com/loki1512/MS-Fitness-Gym/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrRoleNotFound = errors.New("role not found")
)

type UserRepository interface {
	Create(db *gorm.DB, user *models.User) error
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	LockByID(db *gorm.DB, id string) (*models.User, error)
	Update(db *gorm.DB, userID string, updates map[string]interface{}) error
	EmailTaken(db *gorm.DB, email, exceptID string) (bool, error)
	PhoneTaken(db *gorm.DB, phone, exceptID string) (bool, error)

	FindByRole(db *gorm.DB, role models.RoleName) ([]models.User, error)
	FindMembers(db *gorm.DB, filter MemberFilter) ([]models.User, error)
	CountByRole(db *gorm.DB, role models.RoleName) (int64, error)
	FindRole(db *gorm.DB, name models.RoleName) (*models.Role, error)
}

// MemberFilter narrows the members list. Zero values mean "no filter".
type MemberFilter struct {
	Search  string
	Gender  string
	DOBFrom *time.Time
	DOBTo   *time.Time
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

// Create inserts the user together with its role associations.
func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	return db.Create(user).Error
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	err := db.Preload("Roles").First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := db.Preload("Roles").First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// LockByID reads the user row with SELECT ... FOR UPDATE. It must run inside a
// transaction and serialises renewals for the same user.
func (r *UserRepositoryImpl) LockByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Update(db *gorm.DB, userID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) EmailTaken(db *gorm.DB, email, exceptID string) (bool, error) {
	return r.taken(db, "email", email, exceptID)
}

func (r *UserRepositoryImpl) PhoneTaken(db *gorm.DB, phone, exceptID string) (bool, error) {
	return r.taken(db, "phone", phone, exceptID)
}

func (r *UserRepositoryImpl) taken(db *gorm.DB, column, value, exceptID string) (bool, error) {
	var count int64
	query := db.Model(&models.User{}).Where(column+" = ?", value)
	if exceptID != "" {
		query = query.Where("id <> ?", exceptID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *UserRepositoryImpl) withRole(db *gorm.DB, role models.RoleName) *gorm.DB {
	return db.Model(&models.User{}).
		Joins("JOIN user_roles ON user_roles.user_id = users.id").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("roles.name = ?", role)
}

func (r *UserRepositoryImpl) FindByRole(db *gorm.DB, role models.RoleName) ([]models.User, error) {
	var users []models.User
	err := r.withRole(db, role).
		Preload("Roles").
		Order("users.created_at DESC").
		Find(&users).Error
	return users, err
}

// FindMembers returns members matching filter with their membership history
// and plans preloaded, newest registrations first.
func (r *UserRepositoryImpl) FindMembers(db *gorm.DB, filter MemberFilter) ([]models.User, error) {
	query := r.withRole(db, models.RoleMember)

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(users.name) LIKE ? OR LOWER(users.email) LIKE ? OR users.phone LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if filter.Gender != "" {
		query = query.Where("users.gender = ?", filter.Gender)
	}
	if filter.DOBFrom != nil {
		query = query.Where("users.date_of_birth >= ?", *filter.DOBFrom)
	}
	if filter.DOBTo != nil {
		query = query.Where("users.date_of_birth <= ?", *filter.DOBTo)
	}

	var users []models.User
	err := query.
		Preload("Memberships.Plan").
		Order("users.created_at DESC").
		Find(&users).Error
	return users, err
}

func (r *UserRepositoryImpl) CountByRole(db *gorm.DB, role models.RoleName) (int64, error) {
	var count int64
	err := r.withRole(db, role).Count(&count).Error
	return count, err
}

func (r *UserRepositoryImpl) FindRole(db *gorm.DB, name models.RoleName) (*models.Role, error) {
	var role models.Role
	err := db.First(&role, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}
