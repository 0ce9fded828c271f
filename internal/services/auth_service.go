package services

import (
	"context"
	"errors"
	"strings"

	"github.com/loki1512/MS-Fitness-Gym/database"
	"github.com/loki1512/MS-Fitness-Gym/internal/auth"
	"github.com/loki1512/MS-Fitness-Gym/internal/logger"
	"github.com/loki1512/MS-Fitness-Gym/internal/models"
	"github.com/loki1512/MS-Fitness-Gym/internal/repositories"
	"github.com/loki1512/MS-Fitness-Gym/internal/services/dto"
	"github.com/loki1512/MS-Fitness-Gym/pkg/apperrors"
	"gorm.io/gorm"
)

type AuthService interface {
	InitAdmin(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	EnsureAdmin(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (bool, error)
	Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

type AuthServiceImpl struct {
	userRepo       repositories.UserRepository
	membershipRepo repositories.MembershipRepository
	clock          Clock
}

func NewAuthService(
	userRepo repositories.UserRepository,
	membershipRepo repositories.MembershipRepository,
	clock Clock,
) AuthService {
	return &AuthServiceImpl{
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
		clock:          clock,
	}
}

// InitAdmin bootstraps the first admin. It refuses once any admin exists.
func (s *AuthServiceImpl) InitAdmin(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	admins, err := s.userRepo.CountByRole(tx, models.RoleAdmin)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if admins > 0 {
		return nil, apperrors.ErrAdminExists
	}

	user, err := createAccount(tx, s.userRepo, req, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "admin account created", "user_id", user.ID)
	return &dto.RegisterResponse{
		Message: "Admin user created successfully",
		User:    userSummary(user),
	}, nil
}

// EnsureAdmin seeds the configured admin at start-up when no admin exists yet.
// It reports whether an account was created.
func (s *AuthServiceImpl) EnsureAdmin(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (bool, error) {
	if req == nil || req.Email == "" || req.Password == "" {
		return false, nil
	}
	_, err := s.InitAdmin(ctx, db, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrAdminExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *AuthServiceImpl) Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := createAccount(tx, s.userRepo, req, models.RoleMember)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.RegisterResponse{
		Message: "Registration successful",
		User:    userSummary(user),
	}, nil
}

// Login verifies credentials, refreshes the user's membership statuses and
// issues a token carrying the user's roles.
func (s *AuthServiceImpl) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(db, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.Active {
		return nil, apperrors.ErrAccountDeactivated
	}

	if _, err := refreshHistory(ctx, db, s.membershipRepo, user.ID, s.clock.Today(), "login"); err != nil {
		return nil, err
	}

	roles := roleStrings(user)
	token, err := auth.GenerateToken(user.ID, roles)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "user logged in", "user_id", user.ID)
	return &dto.LoginResponse{
		Token: token,
		User: dto.LoginUser{
			ID:        user.ID,
			Name:      user.DisplayName(),
			Email:     user.Email,
			Phone:     user.Phone,
			IsAdmin:   user.HasRole(models.RoleAdmin),
			IsManager: user.HasRole(models.RoleManager),
			Role:      auth.PrimaryRole(roles),
		},
	}, nil
}

// createAccount inserts a user holding a single role. Uniqueness of phone and
// email is checked up front and again by the unique indexes on insert.
func createAccount(tx *gorm.DB, userRepo repositories.UserRepository, req *dto.RegisterRequest, roleName models.RoleName) (*models.User, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	phone := strings.TrimSpace(req.Phone)
	email := strings.TrimSpace(req.Email)

	if taken, err := userRepo.PhoneTaken(tx, phone, ""); err != nil {
		return nil, apperrors.InternalError(err)
	} else if taken {
		return nil, apperrors.ErrPhoneTaken
	}
	if taken, err := userRepo.EmailTaken(tx, email, ""); err != nil {
		return nil, apperrors.InternalError(err)
	} else if taken {
		return nil, apperrors.ErrEmailTaken
	}

	dob, err := parseDatePtr(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	role, err := userRepo.FindRole(tx, roleName)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Phone:        phone,
		Email:        email,
		PasswordHash: hash,
		DateOfBirth:  dob,
		Active:       true,
		Roles:        []models.Role{*role},
	}
	if req.Gender != "" {
		g := models.Gender(req.Gender)
		user.Gender = &g
	}

	if err := userRepo.Create(tx, user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperrors.ErrAlreadyExists(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func userSummary(u *models.User) dto.UserSummary {
	return dto.UserSummary{
		ID:    u.ID,
		Name:  u.DisplayName(),
		Email: u.Email,
		Phone: u.Phone,
	}
}
