package membership

import (
	"time"

	"github.com/loki1512/MS-Fitness-Gym/internal/models"
)

// ExpiringWindowDays is how close to its end date a membership must be to count as Expiring.
const ExpiringWindowDays = 7

// Day truncates t to its calendar date at UTC midnight.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from one date to another.
func DaysBetween(from, to time.Time) int {
	return int(Day(to).Sub(Day(from)).Hours() / 24)
}

// Classify derives the status of m as of today.
func Classify(m *models.Membership, today time.Time) models.MembershipStatus {
	days := DaysRemaining(m, today)
	switch {
	case days < 0:
		return models.MembershipExpired
	case days <= ExpiringWindowDays:
		return models.MembershipExpiring
	default:
		return models.MembershipActive
	}
}

// DaysRemaining is end_date - today in days, negative once lapsed.
func DaysRemaining(m *models.Membership, today time.Time) int {
	return DaysBetween(today, m.End())
}

// IsExpiringSoon reports whether a non-expired membership ends within the window.
func IsExpiringSoon(m *models.Membership, today time.Time) bool {
	if m.Status == models.MembershipExpired {
		return false
	}
	days := DaysRemaining(m, today)
	return days >= 0 && days <= ExpiringWindowDays
}

// Refresh reclassifies every membership in history that is not already
// Expired and returns the ones whose status changed. Expired is terminal.
func Refresh(history []models.Membership, today time.Time) []*models.Membership {
	var changed []*models.Membership
	for i := range history {
		m := &history[i]
		if m.Status == models.MembershipExpired {
			continue
		}
		if status := Classify(m, today); status != m.Status {
			m.Status = status
			changed = append(changed, m)
		}
	}
	return changed
}

// CurrentForAccess returns the Active membership with the latest end date.
func CurrentForAccess(history []models.Membership) *models.Membership {
	return latest(history, models.MembershipActive)
}

// CurrentWithAccessSoon returns the Active or Expiring membership with the latest end date.
func CurrentWithAccessSoon(history []models.Membership) *models.Membership {
	return latest(history, models.MembershipActive, models.MembershipExpiring)
}

func latest(history []models.Membership, statuses ...models.MembershipStatus) *models.Membership {
	var best *models.Membership
	for i := range history {
		m := &history[i]
		if !hasStatus(m.Status, statuses) {
			continue
		}
		if best == nil || m.End().After(best.End()) {
			best = m
		}
	}
	return best
}

func hasStatus(s models.MembershipStatus, set []models.MembershipStatus) bool {
	for _, candidate := range set {
		if s == candidate {
			return true
		}
	}
	return false
}
