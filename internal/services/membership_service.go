package services

import (
	"context"
	"errors"
	"time"

	"github.com/loki1512/MS-Fitness-Gym/database"
	"github.com/loki1512/MS-Fitness-Gym/internal/logger"
	"github.com/loki1512/MS-Fitness-Gym/internal/membership"
	"github.com/loki1512/MS-Fitness-Gym/internal/metrics"
	"github.com/loki1512/MS-Fitness-Gym/internal/models"
	"github.com/loki1512/MS-Fitness-Gym/internal/repositories"
	"github.com/loki1512/MS-Fitness-Gym/internal/services/dto"
	"github.com/loki1512/MS-Fitness-Gym/internal/telemetry"
	"github.com/loki1512/MS-Fitness-Gym/pkg/apperrors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"
)

// AdminRenewalNote is stored on the Cash payment recorded by a manual renewal.
const AdminRenewalNote = "Admin approved - Cash payment"

var tracer = telemetry.Tracer("services")

type MembershipService interface {
	// ApplyRenewal runs the renewal sequence for userID inside tx: lock the
	// user, refresh and supersede the current membership, insert the new one.
	ApplyRenewal(ctx context.Context, tx *gorm.DB, policy membership.RenewalPolicy, userID string, plan *models.Plan) (*models.Membership, error)

	// Renew is the admin manual renewal: buffer policy plus an Approved Cash payment.
	Renew(ctx context.Context, db *gorm.DB, adminID, userID string, req *dto.RenewMembershipRequest) (*dto.MembershipGrantResponse, error)

	// RefreshAll reclassifies every membership as of today.
	RefreshAll(ctx context.Context, db *gorm.DB) (int64, error)
}

type MembershipServiceImpl struct {
	userRepo       repositories.UserRepository
	planRepo       repositories.PlanRepository
	membershipRepo repositories.MembershipRepository
	paymentRepo    repositories.PaymentRepository
	clock          Clock
}

func NewMembershipService(
	userRepo repositories.UserRepository,
	planRepo repositories.PlanRepository,
	membershipRepo repositories.MembershipRepository,
	paymentRepo repositories.PaymentRepository,
	clock Clock,
) MembershipService {
	return &MembershipServiceImpl{
		userRepo:       userRepo,
		planRepo:       planRepo,
		membershipRepo: membershipRepo,
		paymentRepo:    paymentRepo,
		clock:          clock,
	}
}

func (s *MembershipServiceImpl) ApplyRenewal(ctx context.Context, tx *gorm.DB, policy membership.RenewalPolicy, userID string, plan *models.Plan) (*models.Membership, error) {
	ctx, span := tracer.Start(ctx, "membership.apply_renewal")
	defer span.End()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.String("renewal.policy", policy.Name()),
	)

	// the row lock serialises renewals of the same user
	if _, err := s.userRepo.LockByID(tx, userID); err != nil {
		return nil, handleUserError(err)
	}

	history, err := s.membershipRepo.FindByUser(tx, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	grant, err := membership.GrantOrExtend(policy, userID, history, plan, s.clock.Today())
	if err != nil {
		if errors.Is(err, membership.ErrInvalidPlan) {
			return nil, apperrors.ErrInvalidOperation("membership", "Invalid plan")
		}
		return nil, apperrors.InternalError(err)
	}

	if len(grant.Changed) > 0 {
		if _, err := s.membershipRepo.SaveStatuses(tx, grant.Changed); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	if err := s.membershipRepo.Create(tx, grant.Membership); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert membership")
		if database.IsUniqueViolation(err) {
			return nil, apperrors.ErrMembershipConflict.WithError(err)
		}
		return nil, apperrors.InternalError(err)
	}

	span.SetAttributes(
		attribute.String("membership.start", formatDate(grant.Membership.Start())),
		attribute.String("membership.end", formatDate(grant.Membership.End())),
		attribute.Bool("membership.extended", grant.Superseded != nil),
	)
	logger.CtxDebug(ctx, "membership granted",
		"user_id", userID,
		"policy", policy.Name(),
		"start", formatDate(grant.Membership.Start()),
		"end", formatDate(grant.Membership.End()),
	)
	return grant.Membership, nil
}

func (s *MembershipServiceImpl) Renew(ctx context.Context, db *gorm.DB, adminID, userID string, req *dto.RenewMembershipRequest) (*dto.MembershipGrantResponse, error) {
	ctx, span := tracer.Start(ctx, "membership.renew")
	defer span.End()

	policy := membership.ExtendWithBuffer{}
	var granted *models.Membership

	err := database.WithRetry(ctx, db, func(tx *gorm.DB) error {
		plan, err := s.planRepo.FindByID(tx, req.PlanID)
		if err != nil {
			return handlePlanError(err)
		}

		m, err := s.ApplyRenewal(ctx, tx, policy, userID, plan)
		if err != nil {
			return err
		}

		now := s.clock.Now().UTC()
		processedBy := adminID
		payment := &models.Payment{
			UserID:      userID,
			PlanID:      plan.ID,
			Amount:      plan.Price,
			Method:      models.PaymentMethodCash,
			Status:      models.PaymentApproved,
			Date:        now,
			ApprovedAt:  &now,
			ProcessedBy: &processedBy,
			Notes:       AdminRenewalNote,
		}
		if err := s.paymentRepo.Create(tx, payment); err != nil {
			return apperrors.InternalError(err)
		}

		granted = m
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "renew failed")
		return nil, passThrough(err)
	}

	metrics.MembershipsGranted.WithLabelValues(policy.Name()).Inc()
	logger.CtxInfo(ctx, "membership renewed by admin",
		"admin_id", adminID,
		"user_id", userID,
		"end_date", formatDate(granted.End()),
	)
	return &dto.MembershipGrantResponse{
		Message:    "Membership renewed successfully",
		Membership: membershipRange(granted),
	}, nil
}

func (s *MembershipServiceImpl) RefreshAll(ctx context.Context, db *gorm.DB) (int64, error) {
	start := time.Now()
	updated, err := s.membershipRepo.RefreshAll(db.WithContext(ctx), s.clock.Today(), membership.ExpiringWindowDays)
	logger.DBLog("refresh_membership_statuses", "memberships", time.Since(start), err)
	if err != nil {
		return updated, apperrors.InternalError(err)
	}
	metrics.MembershipStatusChanges.WithLabelValues("sweep").Add(float64(updated))
	return updated, nil
}

func membershipRange(m *models.Membership) dto.MembershipRange {
	return dto.MembershipRange{
		StartDate: formatDate(m.Start()),
		EndDate:   formatDate(m.End()),
	}
}
