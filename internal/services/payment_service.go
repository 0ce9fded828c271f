package services

import (
	"context"
	"strings"

	"github.com/loki1512/MS-Fitness-Gym/database"
	"github.com/loki1512/MS-Fitness-Gym/internal/logger"
	"github.com/loki1512/MS-Fitness-Gym/internal/membership"
	"github.com/loki1512/MS-Fitness-Gym/internal/metrics"
	"github.com/loki1512/MS-Fitness-Gym/internal/models"
	"github.com/loki1512/MS-Fitness-Gym/internal/repositories"
	"github.com/loki1512/MS-Fitness-Gym/internal/services/dto"
	"github.com/loki1512/MS-Fitness-Gym/internal/validator"
	"github.com/loki1512/MS-Fitness-Gym/pkg/apperrors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"
)

type PaymentService interface {
	Submit(ctx context.Context, db *gorm.DB, userID string, req *dto.SubmitPaymentRequest) (*dto.SubmitPaymentResponse, error)
	History(ctx context.Context, db *gorm.DB, userID string) ([]dto.PaymentHistoryItem, error)
	Pending(ctx context.Context, db *gorm.DB) ([]dto.PendingPaymentItem, error)
	Approve(ctx context.Context, db *gorm.DB, adminID, paymentID string) (*dto.MembershipGrantResponse, error)
	Reject(ctx context.Context, db *gorm.DB, adminID, paymentID string, req *dto.RejectPaymentRequest) error
}

type PaymentServiceImpl struct {
	paymentRepo       repositories.PaymentRepository
	planRepo          repositories.PlanRepository
	membershipService MembershipService
	notifier          NotificationService
	clock             Clock
}

func NewPaymentService(
	paymentRepo repositories.PaymentRepository,
	planRepo repositories.PlanRepository,
	membershipService MembershipService,
	notifier NotificationService,
	clock Clock,
) PaymentService {
	return &PaymentServiceImpl{
		paymentRepo:       paymentRepo,
		planRepo:          planRepo,
		membershipService: membershipService,
		notifier:          notifier,
		clock:             clock,
	}
}

// Submit records a Pending payment. UPI payments must carry a 12 digit UTR
// that no other live payment uses; Cash payments never carry one.
func (s *PaymentServiceImpl) Submit(ctx context.Context, db *gorm.DB, userID string, req *dto.SubmitPaymentRequest) (*dto.SubmitPaymentResponse, error) {
	method := models.PaymentMethod(req.PaymentMethod)
	if method == "" {
		method = models.PaymentMethodUPI
	}

	var txnRef *string
	if method == models.PaymentMethodUPI {
		ref := strings.TrimSpace(req.TxnRef)
		if !validator.IsValidUTR(ref) {
			return nil, apperrors.ErrUTRRequired
		}
		txnRef = &ref
	}

	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	plan, err := s.planRepo.FindByID(tx, req.PlanID)
	if err != nil {
		return nil, handlePlanError(err)
	}
	if !plan.IsActive {
		return nil, apperrors.ErrPlanInactive
	}

	if txnRef != nil {
		inUse, err := s.paymentRepo.TxnRefInUse(tx, *txnRef)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if inUse {
			return nil, apperrors.ErrUTRTaken
		}
	}

	payment := &models.Payment{
		UserID: userID,
		PlanID: plan.ID,
		Amount: req.Amount,
		Method: method,
		TxnRef: txnRef,
		Status: models.PaymentPending,
		Date:   s.clock.Now().UTC(),
		Notes:  strings.TrimSpace(req.Notes),
	}
	if err := s.paymentRepo.Create(tx, payment); err != nil {
		return nil, passThrough(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	metrics.PaymentsSubmitted.WithLabelValues(string(method)).Inc()
	logger.CtxInfo(ctx, "payment submitted", "payment_id", payment.ID, "method", method)
	return &dto.SubmitPaymentResponse{
		Message:   "Payment submitted for approval",
		PaymentID: payment.ID,
	}, nil
}

func (s *PaymentServiceImpl) History(ctx context.Context, db *gorm.DB, userID string) ([]dto.PaymentHistoryItem, error) {
	payments, err := s.paymentRepo.FindByUser(db.WithContext(ctx), userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.PaymentHistoryItem, 0, len(payments))
	for i := range payments {
		items = append(items, paymentHistoryItem(&payments[i]))
	}
	return items, nil
}

func (s *PaymentServiceImpl) Pending(ctx context.Context, db *gorm.DB) ([]dto.PendingPaymentItem, error) {
	payments, err := s.paymentRepo.FindWithFilter(db.WithContext(ctx), repositories.PaymentFilter{
		Statuses: []models.PaymentStatus{models.PaymentPending},
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.PendingPaymentItem, 0, len(payments))
	for i := range payments {
		p := &payments[i]
		items = append(items, dto.PendingPaymentItem{
			ID:            p.ID,
			UserName:      userDisplayName(p.User),
			UserID:        p.UserID,
			Plan:          p.PlanName(),
			Amount:        p.Amount,
			TxnRef:        p.TxnRef,
			PaymentMethod: string(p.Method),
			Date:          p.Date,
			Notes:         p.Notes,
		})
	}
	return items, nil
}

// Approve moves a Pending payment to Approved and grants or extends the
// member's membership in the same transaction. The payment row is locked and
// its status re-checked, so a concurrent second approval gets
// ErrPaymentAlreadyProcessed.
func (s *PaymentServiceImpl) Approve(ctx context.Context, db *gorm.DB, adminID, paymentID string) (*dto.MembershipGrantResponse, error) {
	ctx, span := tracer.Start(ctx, "payment.approve")
	defer span.End()
	span.SetAttributes(attribute.String("payment.id", paymentID))

	policy := membership.ExtendContinuous{}
	var granted *models.Membership

	err := database.WithRetry(ctx, db, func(tx *gorm.DB) error {
		payment, err := s.paymentRepo.LockByID(tx, paymentID)
		if err != nil {
			return handlePaymentError(err)
		}
		if payment.Status.IsTerminal() {
			return apperrors.ErrPaymentAlreadyProcessed
		}

		plan, err := s.planRepo.FindByID(tx, payment.PlanID)
		if err != nil {
			return apperrors.ErrInvalidOperation("payment", "Invalid plan")
		}

		m, err := s.membershipService.ApplyRenewal(ctx, tx, policy, payment.UserID, plan)
		if err != nil {
			return err
		}

		now := s.clock.Now().UTC()
		err = s.paymentRepo.Update(tx, payment.ID, map[string]interface{}{
			"status":       models.PaymentApproved,
			"approved_at":  now,
			"processed_by": adminID,
		})
		if err != nil {
			return handlePaymentError(err)
		}

		granted = m
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "approve failed")
		return nil, passThrough(err)
	}

	metrics.PaymentDecisions.WithLabelValues(string(models.PaymentApproved)).Inc()
	metrics.MembershipsGranted.WithLabelValues(policy.Name()).Inc()
	logger.CtxInfo(ctx, "payment approved",
		"payment_id", paymentID,
		"admin_id", adminID,
		"end_date", formatDate(granted.End()),
	)

	grant := membershipRange(granted)
	s.notifyDecision(ctx, db, paymentID, func(ctx context.Context, p *models.Payment) {
		s.notifier.PaymentApproved(ctx, p, grant)
	})

	return &dto.MembershipGrantResponse{
		Message:    "Payment approved and membership activated",
		Membership: grant,
	}, nil
}

// Reject moves a Pending payment to Rejected, appending the reason to its notes.
func (s *PaymentServiceImpl) Reject(ctx context.Context, db *gorm.DB, adminID, paymentID string, req *dto.RejectPaymentRequest) error {
	reason := ""
	if req != nil {
		reason = strings.TrimSpace(req.Reason)
	}

	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	payment, err := s.paymentRepo.LockByID(tx, paymentID)
	if err != nil {
		return handlePaymentError(err)
	}
	if payment.Status.IsTerminal() {
		return apperrors.ErrPaymentAlreadyProcessed
	}

	updates := map[string]interface{}{
		"status":       models.PaymentRejected,
		"processed_by": adminID,
	}
	if reason != "" {
		updates["notes"] = appendNote(payment.Notes, "Rejected: "+reason)
	}
	if err := s.paymentRepo.Update(tx, payment.ID, updates); err != nil {
		return handlePaymentError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	metrics.PaymentDecisions.WithLabelValues(string(models.PaymentRejected)).Inc()
	logger.CtxInfo(ctx, "payment rejected", "payment_id", paymentID, "admin_id", adminID)

	s.notifyDecision(ctx, db, paymentID, func(ctx context.Context, p *models.Payment) {
		s.notifier.PaymentRejected(ctx, p, reason)
	})
	return nil
}

// notifyDecision mails the member in the background once the decision is
// committed. Mail failures never affect the response.
func (s *PaymentServiceImpl) notifyDecision(ctx context.Context, db *gorm.DB, paymentID string, send func(context.Context, *models.Payment)) {
	if s.notifier == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	go func() {
		payment, err := s.paymentRepo.FindByID(db.WithContext(ctx), paymentID)
		if err != nil {
			logger.CtxWithError(ctx, "failed to load payment for notification", err, "payment_id", paymentID)
			return
		}
		send(ctx, payment)
	}()
}

func appendNote(notes, line string) string {
	if strings.TrimSpace(notes) == "" {
		return line
	}
	return notes + "\n" + line
}

func userDisplayName(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.DisplayName()
}
