package services

import (
	"context"

	"github.com/loki1512/MS-Fitness-Gym/internal/email"
	"github.com/loki1512/MS-Fitness-Gym/internal/logger"
	"github.com/loki1512/MS-Fitness-Gym/internal/membership"
	"github.com/loki1512/MS-Fitness-Gym/internal/metrics"
	"github.com/loki1512/MS-Fitness-Gym/internal/models"
	"github.com/loki1512/MS-Fitness-Gym/internal/repositories"
	"github.com/loki1512/MS-Fitness-Gym/internal/services/dto"
	"github.com/loki1512/MS-Fitness-Gym/pkg/apperrors"
	"gorm.io/gorm"
)

// NotificationService sends member-facing mail about payments and renewals.
type NotificationService interface {
	PaymentApproved(ctx context.Context, payment *models.Payment, grant dto.MembershipRange)
	PaymentRejected(ctx context.Context, payment *models.Payment, reason string)
	SendRenewalReminders(ctx context.Context, db *gorm.DB) (*dto.ReminderResponse, error)
}

type notificationService struct {
	provider       email.Provider
	membershipRepo repositories.MembershipRepository
	clock          Clock
}

func NewNotificationService(
	provider email.Provider,
	membershipRepo repositories.MembershipRepository,
	clock Clock,
) NotificationService {
	return &notificationService{
		provider:       provider,
		membershipRepo: membershipRepo,
		clock:          clock,
	}
}

func (s *notificationService) PaymentApproved(ctx context.Context, payment *models.Payment, grant dto.MembershipRange) {
	if payment.User == nil {
		return
	}
	s.send(ctx, payment.User.Email, "Your payment has been approved", email.TemplatePaymentApproved, email.TemplateData{
		"Name":      payment.User.Name,
		"Amount":    payment.Amount,
		"Plan":      payment.PlanName(),
		"StartDate": grant.StartDate,
		"EndDate":   grant.EndDate,
	})
}

func (s *notificationService) PaymentRejected(ctx context.Context, payment *models.Payment, reason string) {
	if payment.User == nil {
		return
	}
	s.send(ctx, payment.User.Email, "Your payment could not be verified", email.TemplatePaymentRejected, email.TemplateData{
		"Name":   payment.User.Name,
		"Amount": payment.Amount,
		"Plan":   payment.PlanName(),
		"Reason": reason,
	})
}

// SendRenewalReminders mails every member on the priority list. Members whose
// account is inactive are skipped.
func (s *notificationService) SendRenewalReminders(ctx context.Context, db *gorm.DB) (*dto.ReminderResponse, error) {
	today := s.clock.Today()
	list, err := s.membershipRepo.FindEndingBetween(
		db.WithContext(ctx),
		models.CurrentStatuses,
		today,
		today.AddDate(0, 0, membership.ExpiringWindowDays),
	)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.ReminderResponse{Message: "Renewal reminders processed"}
	for i := range list {
		m := &list[i]
		if m.User == nil || !m.User.Active || m.User.Email == "" {
			resp.Skipped++
			continue
		}
		ok := s.send(ctx, m.User.Email, "Your membership is about to end", email.TemplateRenewalReminder, email.TemplateData{
			"Name":          m.User.Name,
			"Plan":          m.PlanName(),
			"EndDate":       formatDate(m.End()),
			"DaysRemaining": membership.DaysRemaining(m, today),
		})
		if ok {
			resp.Sent++
		} else {
			resp.Failed++
		}
	}

	logger.WorkerLog("notifications", "renewal_reminders", nil,
		"sent", resp.Sent, "skipped", resp.Skipped, "failed", resp.Failed)
	return resp, nil
}

func (s *notificationService) send(ctx context.Context, to, subject, template string, data email.TemplateData) bool {
	if s.provider == nil {
		return false
	}
	if err := s.provider.SendTemplate([]string{to}, subject, template, data); err != nil {
		metrics.EmailsSent.WithLabelValues(template, "error").Inc()
		logger.CtxWithError(ctx, "failed to send email", err, "template", template)
		return false
	}
	metrics.EmailsSent.WithLabelValues(template, "ok").Inc()
	return true
}
