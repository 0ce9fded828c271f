package services

import (
	"context"
	"strings"
	"time"

	"github.com/loki1512/MS-Fitness-Gym/internal/auth"
	"github.com/loki1512/MS-Fitness-Gym/internal/logger"
	"github.com/loki1512/MS-Fitness-Gym/internal/membership"
	"github.com/loki1512/MS-Fitness-Gym/internal/models"
	"github.com/loki1512/MS-Fitness-Gym/internal/repositories"
	"github.com/loki1512/MS-Fitness-Gym/internal/services/dto"
	"github.com/loki1512/MS-Fitness-Gym/pkg/apperrors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserService interface {
	GetMe(ctx context.Context, db *gorm.DB, userID string) (*dto.MeResponse, error)
	GetProfile(ctx context.Context, db *gorm.DB, userID string) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateProfileRequest) error

	GetUserDetail(ctx context.Context, db *gorm.DB, userID string) (*dto.UserDetailResponse, error)
	AdminUpdateUser(ctx context.Context, db *gorm.DB, adminID, userID string, req *dto.AdminUpdateUserRequest) error
	ListMembers(ctx context.Context, db *gorm.DB, filter *dto.MemberFilter) (*dto.MemberListResponse, error)

	CreateManager(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	ListManagers(ctx context.Context, db *gorm.DB) ([]dto.ManagerResponse, error)
}

type UserServiceImpl struct {
	userRepo       repositories.UserRepository
	membershipRepo repositories.MembershipRepository
	paymentRepo    repositories.PaymentRepository
	clock          Clock
}

func NewUserService(
	userRepo repositories.UserRepository,
	membershipRepo repositories.MembershipRepository,
	paymentRepo repositories.PaymentRepository,
	clock Clock,
) UserService {
	return &UserServiceImpl{
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
		paymentRepo:    paymentRepo,
		clock:          clock,
	}
}

// ==========================
// Self-service
// ==========================

func (s *UserServiceImpl) GetMe(ctx context.Context, db *gorm.DB, userID string) (*dto.MeResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleUserError(err)
	}

	today := s.clock.Today()
	history, err := refreshHistory(ctx, db, s.membershipRepo, user.ID, today, "me")
	if err != nil {
		return nil, err
	}

	roles := roleStrings(user)
	return &dto.MeResponse{
		ID:          user.ID,
		Name:        user.DisplayName(),
		Email:       user.Email,
		Phone:       user.Phone,
		DateOfBirth: formatDatePtr(user.DateOfBirth),
		Gender:      genderPtr(user.Gender),
		IsAdmin:     user.HasRole(models.RoleAdmin),
		IsManager:   user.HasRole(models.RoleManager),
		Role:        auth.PrimaryRole(roles),
		Roles:       roles,
		Membership:  buildMembershipSummary(history, today, false),
	}, nil
}

func (s *UserServiceImpl) GetProfile(ctx context.Context, db *gorm.DB, userID string) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleUserError(err)
	}

	today := s.clock.Today()
	history, err := refreshHistory(ctx, db, s.membershipRepo, user.ID, today, "profile")
	if err != nil {
		return nil, err
	}

	return &dto.ProfileResponse{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Phone:       user.Phone,
		DateOfBirth: formatDatePtr(user.DateOfBirth),
		Gender:      genderPtr(user.Gender),
		Membership:  buildMembershipSummary(history, today, false),
	}, nil
}

func (s *UserServiceImpl) UpdateProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateProfileRequest) error {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if _, err := s.userRepo.FindByID(tx, userID); err != nil {
		return handleUserError(err)
	}

	updates, err := s.profileUpdates(tx, userID, req)
	if err != nil {
		return err
	}
	if len(updates) > 0 {
		if err := s.userRepo.Update(tx, userID, updates); err != nil {
			return passThrough(err)
		}
	}
	return tx.Commit().Error
}

// ==========================
// Staff views
// ==========================

func (s *UserServiceImpl) GetUserDetail(ctx context.Context, db *gorm.DB, userID string) (*dto.UserDetailResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleUserError(err)
	}

	today := s.clock.Today()
	history, err := refreshHistory(ctx, db, s.membershipRepo, user.ID, today, "user_detail")
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.FindByUser(db, user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.UserDetailResponse{
		ID:                 user.ID,
		Name:               user.Name,
		Email:              user.Email,
		Phone:              user.Phone,
		DateOfBirth:        formatDatePtr(user.DateOfBirth),
		Gender:             genderPtr(user.Gender),
		Active:             user.Active,
		CreatedAt:          user.CreatedAt,
		Roles:              roleStrings(user),
		CurrentMembership:  buildMembershipSummary(history, today, true),
		MembershipsHistory: make([]dto.MembershipHistoryItem, 0, len(history)),
		PaymentsHistory:    make([]dto.PaymentHistoryItem, 0, len(payments)),
	}
	for i := range history {
		m := &history[i]
		resp.MembershipsHistory = append(resp.MembershipsHistory, dto.MembershipHistoryItem{
			ID:        m.ID,
			Plan:      m.PlanName(),
			StartDate: formatDate(m.Start()),
			EndDate:   formatDate(m.End()),
			Status:    string(m.Status),
		})
	}
	for i := range payments {
		resp.PaymentsHistory = append(resp.PaymentsHistory, paymentHistoryItem(&payments[i]))
	}
	return resp, nil
}

// AdminUpdateUser lets an admin change any field of another account. An admin
// cannot deactivate themselves.
func (s *UserServiceImpl) AdminUpdateUser(ctx context.Context, db *gorm.DB, adminID, userID string, req *dto.AdminUpdateUserRequest) error {
	if req.Active != nil && !*req.Active && adminID == userID {
		return apperrors.ErrCannotModifySelf
	}

	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if _, err := s.userRepo.FindByID(tx, userID); err != nil {
		return handleUserError(err)
	}

	updates, err := s.profileUpdates(tx, userID, &req.UpdateProfileRequest)
	if err != nil {
		return err
	}
	if req.DateOfBirth != nil {
		dob, err := parseDatePtr(*req.DateOfBirth)
		if err != nil {
			return err
		}
		updates["date_of_birth"] = dob
	}
	if req.Gender != nil {
		if *req.Gender == "" {
			updates["gender"] = nil
		} else {
			updates["gender"] = models.Gender(*req.Gender)
		}
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if len(updates) > 0 {
		if err := s.userRepo.Update(tx, userID, updates); err != nil {
			return passThrough(err)
		}
	}
	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "user updated by admin", "admin_id", adminID, "target_id", userID)
	return nil
}

// ListMembers returns members matching the filter. The plan filter compares
// against the plan of the member's current (Active or Expiring) membership.
func (s *UserServiceImpl) ListMembers(ctx context.Context, db *gorm.DB, filter *dto.MemberFilter) (*dto.MemberListResponse, error) {
	repoFilter := repositories.MemberFilter{
		Search: filter.Search,
		Gender: filter.Gender,
	}
	if filter.DOBFrom != "" {
		t, err := parseDate(filter.DOBFrom)
		if err != nil {
			return nil, err
		}
		repoFilter.DOBFrom = &t
	}
	if filter.DOBTo != "" {
		t, err := parseDate(filter.DOBTo)
		if err != nil {
			return nil, err
		}
		repoFilter.DOBTo = &t
	}

	users, err := s.userRepo.FindMembers(db.WithContext(ctx), repoFilter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	today := s.clock.Today()
	planFilter := strings.TrimSpace(filter.Plan)

	var stale []*models.Membership
	members := make([]dto.MemberListItem, 0, len(users))
	for i := range users {
		u := &users[i]
		stale = append(stale, membership.Refresh(u.Memberships, today)...)
		cur := membership.CurrentWithAccessSoon(u.Memberships)

		if planFilter != "" && (cur == nil || cur.PlanName() != planFilter) {
			continue
		}
		members = append(members, memberListItem(u, cur, today))
	}

	if len(stale) > 0 {
		if _, err := s.membershipRepo.SaveStatuses(db.WithContext(ctx), stale); err != nil {
			logger.CtxWithError(ctx, "failed to persist refreshed statuses", err)
		}
	}

	return &dto.MemberListResponse{Members: members, Count: len(members)}, nil
}

func (s *UserServiceImpl) CreateManager(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := createAccount(tx, s.userRepo, req, models.RoleManager)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "manager created", "user_id", user.ID)
	return &dto.RegisterResponse{
		Message: "Manager created successfully",
		User:    userSummary(user),
	}, nil
}

func (s *UserServiceImpl) ListManagers(ctx context.Context, db *gorm.DB) ([]dto.ManagerResponse, error) {
	users, err := s.userRepo.FindByRole(db, models.RoleManager)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	managers := make([]dto.ManagerResponse, 0, len(users))
	for i := range users {
		m := &users[i]
		managers = append(managers, dto.ManagerResponse{
			ID:          m.ID,
			Name:        m.DisplayName(),
			Email:       m.Email,
			Phone:       m.Phone,
			DateOfBirth: formatDatePtr(m.DateOfBirth),
			Gender:      genderPtr(m.Gender),
			Active:      m.Active,
			CreatedAt:   m.CreatedAt,
		})
	}
	return managers, nil
}

// profileUpdates turns the self-editable fields into a column map, checking
// that a new email or phone is not held by someone else.
func (s *UserServiceImpl) profileUpdates(tx *gorm.DB, userID string, req *dto.UpdateProfileRequest) (map[string]interface{}, error) {
	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		taken, err := s.userRepo.EmailTaken(tx, email, userID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if taken {
			return nil, apperrors.ErrEmailTaken
		}
		updates["email"] = email
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		taken, err := s.userRepo.PhoneTaken(tx, phone, userID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if taken {
			return nil, apperrors.ErrPhoneTaken
		}
		updates["phone"] = phone
	}
	if req.Password != nil && *req.Password != "" {
		if err := auth.ValidatePassword(*req.Password); err != nil {
			return nil, apperrors.ErrWeakPassword
		}
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		updates["password_hash"] = hash
	}
	return updates, nil
}

func memberListItem(u *models.User, cur *models.Membership, today time.Time) dto.MemberListItem {
	item := dto.MemberListItem{
		ID:               u.ID,
		Name:             u.Name,
		DisplayName:      u.DisplayName(),
		Email:            u.Email,
		Phone:            u.Phone,
		DateOfBirth:      formatDatePtr(u.DateOfBirth),
		Gender:           genderPtr(u.Gender),
		CurrentPlan:      "No Plan",
		MembershipStatus: models.NoMembership,
		CreatedAt:        u.CreatedAt,
	}
	if cur != nil {
		end := datatypes.Date(cur.End())
		days := membership.DaysRemaining(cur, today)
		item.CurrentPlan = cur.PlanName()
		item.MembershipStatus = string(cur.Status)
		item.EndDate = formatDatePtr(&end)
		item.DaysRemaining = &days
	}
	return item
}
