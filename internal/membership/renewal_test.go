package membership

import (
	"testing"

	"github.com/loki1512/MS-Fitness-Gym/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plan(days int) *models.Plan {
	p := &models.Plan{Name: "Monthly", Price: 1000, DurationDays: days}
	p.ID = "plan-1"
	return p
}

func TestGrantOrExtend_BackToBackExtension(t *testing.T) {
	history := []models.Membership{ms("2023-12-11", "2024-01-10", models.MembershipActive)}

	grant, err := GrantOrExtend(ExtendContinuous{}, "user-1", history, plan(30), date("2024-01-05"))
	require.NoError(t, err)

	assert.Equal(t, date("2024-01-11"), grant.Membership.Start())
	assert.Equal(t, date("2024-02-10"), grant.Membership.End())
	assert.Equal(t, models.MembershipActive, grant.Membership.Status)
	assert.Equal(t, "user-1", grant.Membership.UserID)
	assert.Equal(t, "plan-1", grant.Membership.PlanID)

	require.NotNil(t, grant.Superseded)
	assert.Equal(t, models.MembershipExpired, history[0].Status)
	assert.Len(t, grant.Changed, 1)
}

func TestGrantOrExtend_FreshStart(t *testing.T) {
	grant, err := GrantOrExtend(ExtendContinuous{}, "user-1", nil, plan(30), date("2024-03-01"))
	require.NoError(t, err)

	assert.Equal(t, date("2024-03-01"), grant.Membership.Start())
	assert.Equal(t, date("2024-03-31"), grant.Membership.End())
	assert.Nil(t, grant.Superseded)
	assert.Empty(t, grant.Changed)
}

func TestGrantOrExtend_LapsedMembershipStartsToday(t *testing.T) {
	history := []models.Membership{ms("2024-01-01", "2024-01-31", models.MembershipActive)}

	grant, err := GrantOrExtend(ExtendContinuous{}, "user-1", history, plan(30), date("2024-02-15"))
	require.NoError(t, err)

	assert.Equal(t, date("2024-02-15"), grant.Membership.Start())
	assert.Nil(t, grant.Superseded, "a lapsed membership is refreshed to Expired, not superseded")
	assert.Equal(t, models.MembershipExpired, history[0].Status)
	assert.Len(t, grant.Changed, 1)
}

func TestGrantOrExtend_EndsTodayContinuesTomorrow(t *testing.T) {
	history := []models.Membership{ms("2024-01-01", "2024-01-31", models.MembershipExpiring)}

	grant, err := GrantOrExtend(ExtendContinuous{}, "user-1", history, plan(10), date("2024-01-31"))
	require.NoError(t, err)

	assert.Equal(t, date("2024-02-01"), grant.Membership.Start())
	assert.Equal(t, date("2024-02-11"), grant.Membership.End())
}

func TestGrantOrExtend_WithBufferAddsRemainingDays(t *testing.T) {
	history := []models.Membership{ms("2023-12-11", "2024-01-10", models.MembershipActive)}

	grant, err := GrantOrExtend(ExtendWithBuffer{}, "user-1", history, plan(30), date("2024-01-05"))
	require.NoError(t, err)

	assert.Equal(t, date("2024-01-11"), grant.Membership.Start())
	// 30 days of plan + 5 days remaining on the superseded membership
	assert.Equal(t, date("2024-02-15"), grant.Membership.End())
}

func TestGrantOrExtend_WithBufferWithoutCurrent(t *testing.T) {
	grant, err := GrantOrExtend(ExtendWithBuffer{}, "user-1", nil, plan(30), date("2024-03-01"))
	require.NoError(t, err)

	assert.Equal(t, date("2024-03-31"), grant.Membership.End())
}

func TestGrantOrExtend_InvalidPlan(t *testing.T) {
	_, err := GrantOrExtend(ExtendContinuous{}, "user-1", nil, nil, date("2024-03-01"))
	assert.ErrorIs(t, err, ErrInvalidPlan)

	_, err = GrantOrExtend(ExtendContinuous{}, "user-1", nil, plan(0), date("2024-03-01"))
	assert.ErrorIs(t, err, ErrInvalidPlan)
}

func TestGrantOrExtend_RetiresDuplicateCurrentRecords(t *testing.T) {
	history := []models.Membership{
		ms("2024-01-01", "2024-03-01", models.MembershipActive),
		ms("2024-01-01", "2024-04-01", models.MembershipActive),
	}

	grant, err := GrantOrExtend(ExtendContinuous{}, "user-1", history, plan(30), date("2024-01-15"))
	require.NoError(t, err)

	assert.Equal(t, date("2024-04-02"), grant.Membership.Start())
	assert.Equal(t, &history[1], grant.Superseded)
	for _, m := range history {
		assert.Equal(t, models.MembershipExpired, m.Status)
	}
	assert.Len(t, grant.Changed, 2)
}

func TestPolicyNames(t *testing.T) {
	assert.Equal(t, "extend_continuous", ExtendContinuous{}.Name())
	assert.Equal(t, "extend_with_buffer", ExtendWithBuffer{}.Name())
}
