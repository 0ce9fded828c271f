package membership

import (
	"errors"
	"time"

	"github.com/loki1512/MS-Fitness-Gym/internal/models"
	"gorm.io/datatypes"
)

var ErrInvalidPlan = errors.New("membership: plan is missing or has a non-positive duration")

// RenewalPolicy decides how many days beyond the plan's duration a renewal grants.
type RenewalPolicy interface {
	Name() string
	ExtraDays(cur *models.Membership, today time.Time) int
}

// ExtendContinuous is used when a member's payment is approved. The new
// period starts the day after the current one ends and lasts exactly the
// plan's duration.
type ExtendContinuous struct{}

func (ExtendContinuous) Name() string { return "extend_continuous" }

func (ExtendContinuous) ExtraDays(*models.Membership, time.Time) int { return 0 }

// ExtendWithBuffer is used for manual renewals by an admin. On top of the
// back-to-back start it adds the days left on the current membership to the
// plan's duration.
type ExtendWithBuffer struct{}

func (ExtendWithBuffer) Name() string { return "extend_with_buffer" }

func (ExtendWithBuffer) ExtraDays(cur *models.Membership, today time.Time) int {
	if cur == nil {
		return 0
	}
	if days := DaysRemaining(cur, today); days > 0 {
		return days
	}
	return 0
}

// Grant is the outcome of a renewal. Changed lists existing memberships whose
// status was modified (refreshed or superseded) and must be saved before
// Membership is inserted.
type Grant struct {
	Membership *models.Membership
	Superseded *models.Membership
	Changed    []*models.Membership
}

// GrantOrExtend computes the next membership for userID on plan as of today.
// history is the user's full membership history and is updated in place.
func GrantOrExtend(policy RenewalPolicy, userID string, history []models.Membership, plan *models.Plan, today time.Time) (Grant, error) {
	if plan == nil || plan.DurationDays <= 0 {
		return Grant{}, ErrInvalidPlan
	}
	if policy == nil {
		policy = ExtendContinuous{}
	}
	today = Day(today)

	changed := Refresh(history, today)
	cur := CurrentWithAccessSoon(history)

	start := today
	if cur != nil && !Day(cur.End()).Before(today) {
		start = Day(cur.End()).AddDate(0, 0, 1)
	}
	end := start.AddDate(0, 0, plan.DurationDays+policy.ExtraDays(cur, today))

	// Retire every record still holding access so only the new one remains current.
	for i := range history {
		m := &history[i]
		if m.Status == models.MembershipExpired {
			continue
		}
		m.Status = models.MembershipExpired
		if !containsMembership(changed, m) {
			changed = append(changed, m)
		}
	}

	return Grant{
		Membership: &models.Membership{
			UserID:    userID,
			PlanID:    plan.ID,
			StartDate: datatypes.Date(start),
			EndDate:   datatypes.Date(end),
			Status:    models.MembershipActive,
		},
		Superseded: cur,
		Changed:    changed,
	}, nil
}

func containsMembership(list []*models.Membership, m *models.Membership) bool {
	for _, candidate := range list {
		if candidate == m {
			return true
		}
	}
	return false
}
