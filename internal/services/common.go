package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/loki1512/MS-Fitness-Gym/database"
	"github.com/loki1512/MS-Fitness-Gym/internal/membership"
	"github.com/loki1512/MS-Fitness-Gym/internal/metrics"
	"github.com/loki1512/MS-Fitness-Gym/internal/models"
	"github.com/loki1512/MS-Fitness-Gym/internal/repositories"
	"github.com/loki1512/MS-Fitness-Gym/internal/services/dto"
	"github.com/loki1512/MS-Fitness-Gym/internal/validator"
	"github.com/loki1512/MS-Fitness-Gym/pkg/apperrors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Clock supplies "now". Every date computation in the services goes through it.
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now()
}

func (c Clock) Now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// Today is the current calendar date at UTC midnight.
func (c Clock) Today() time.Time {
	return membership.Day(c.Now().UTC())
}

func formatDate(t time.Time) string {
	return t.Format(validator.DateLayout)
}

func formatDatePtr(d *datatypes.Date) *string {
	if d == nil {
		return nil
	}
	s := formatDate(time.Time(*d))
	return &s
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(validator.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, apperrors.ValidationError(map[string]string{
			"date": "Invalid date format. Use YYYY-MM-DD",
		})
	}
	return t, nil
}

func parseDatePtr(value string) (*datatypes.Date, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := parseDate(value)
	if err != nil {
		return nil, err
	}
	d := datatypes.Date(t)
	return &d, nil
}

func genderPtr(g *models.Gender) *string {
	if g == nil {
		return nil
	}
	s := string(*g)
	return &s
}

func roleStrings(u *models.User) []string {
	names := u.RoleNames()
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, string(n))
	}
	return out
}

// refreshHistory reclassifies the user's memberships as of today and persists
// the changes so the response built from history reflects them.
func refreshHistory(ctx context.Context, db *gorm.DB, repo repositories.MembershipRepository, userID string, today time.Time, source string) ([]models.Membership, error) {
	history, err := repo.FindByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	changed := membership.Refresh(history, today)
	if len(changed) == 0 {
		return history, nil
	}

	saved, err := repo.SaveStatuses(db.WithContext(ctx), changed)
	if err != nil {
		return nil, apperrors.DatabaseError(fmt.Errorf("save refreshed statuses: %w", err))
	}
	metrics.MembershipStatusChanges.WithLabelValues(source).Add(float64(saved))
	return history, nil
}

// buildMembershipSummary describes the membership a user currently holds.
// Active follows the strict access rule; the rest of the block shows the
// Active or Expiring record with the latest end date.
func buildMembershipSummary(history []models.Membership, today time.Time, withStart bool) *dto.MembershipSummary {
	cur := membership.CurrentWithAccessSoon(history)
	if cur == nil {
		return &dto.MembershipSummary{Active: false, Status: models.NoMembership}
	}

	plan := cur.PlanName()
	end := formatDate(cur.End())
	days := membership.DaysRemaining(cur, today)
	summary := &dto.MembershipSummary{
		Active:        membership.CurrentForAccess(history) != nil && days >= 0,
		Plan:          &plan,
		EndDate:       &end,
		DaysRemaining: &days,
		Status:        string(cur.Status),
	}
	if withStart {
		start := formatDate(cur.Start())
		summary.StartDate = &start
	}
	return summary
}

func paymentHistoryItem(p *models.Payment) dto.PaymentHistoryItem {
	return dto.PaymentHistoryItem{
		ID:            p.ID,
		Amount:        p.Amount,
		Plan:          p.PlanName(),
		PaymentMethod: string(p.Method),
		TxnRef:        p.TxnRef,
		Status:        string(p.Status),
		Date:          p.Date,
		Notes:         p.Notes,
	}
}

func handleUserError(err error) error {
	if errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.ErrUserNotFound
	}
	return apperrors.DatabaseError(err)
}

func handlePlanError(err error) error {
	if errors.Is(err, repositories.ErrPlanNotFound) {
		return apperrors.ErrPlanNotFound
	}
	return apperrors.DatabaseError(err)
}

func handlePaymentError(err error) error {
	if errors.Is(err, repositories.ErrPaymentNotFound) {
		return apperrors.ErrPaymentNotFound
	}
	return apperrors.DatabaseError(err)
}

// passThrough keeps AppErrors intact and wraps anything else as internal.
func passThrough(err error) error {
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	if database.IsUniqueViolation(err) {
		return apperrors.ErrAlreadyExists(err)
	}
	return apperrors.InternalError(err)
}
