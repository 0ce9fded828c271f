package integration_test

import (
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/loki1512/MS-Fitness-Gym/internal/models"
	"github.com/loki1512/MS-Fitness-Gym/internal/services/dto"
	"github.com/loki1512/MS-Fitness-Gym/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submitUPI(t *testing.T, ts *helpers.TestServer, token, planID, utr string, amount float64) string {
	t.Helper()

	res, resBody := ts.SendRequest(t, http.MethodPost, "/api/payments/submit", token, map[string]interface{}{
		"plan_id":        planID,
		"amount":         amount,
		"payment_method": "UPI",
		"txn_ref":        utr,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, resBody)

	var submitted dto.SubmitPaymentResponse
	helpers.DecodeJSON(t, resBody, &submitted)
	require.NotEmpty(t, submitted.PaymentID)
	return submitted.PaymentID
}

func TestPaymentApproval_GrantsMembership(t *testing.T) {
	ts := freshServer(t)
	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts)
	memberToken, member := helpers.CreateAndLoginMember(t, ts)
	plan := helpers.CreatePlan(t, ts.DB, "Monthly", 1000, 30)

	paymentID := submitUPI(t, ts, memberToken, plan.ID, "123456789012", 1000)

	res, resBody := ts.SendRequest(t, http.MethodGet, "/api/admin/payments/pending", adminToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, resBody)
	var pending []dto.PendingPaymentItem
	helpers.DecodeJSON(t, resBody, &pending)
	require.Len(t, pending, 1)
	assert.Equal(t, paymentID, pending[0].ID)

	res, resBody = ts.SendRequest(t, http.MethodPost, "/api/admin/payments/"+paymentID+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, resBody)

	var grant dto.MembershipGrantResponse
	helpers.DecodeJSON(t, resBody, &grant)
	today := time.Now().UTC()
	assert.Equal(t, today.Format("2006-01-02"), grant.Membership.StartDate)
	assert.Equal(t, today.AddDate(0, 0, 30).Format("2006-01-02"), grant.Membership.EndDate)

	var stored models.Payment
	require.NoError(t, ts.DB.First(&stored, "id = ?", paymentID).Error)
	assert.Equal(t, models.PaymentApproved, stored.Status)
	assert.NotNil(t, stored.ApprovedAt)

	res, resBody = ts.SendRequest(t, http.MethodGet, "/api/me", memberToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, resBody)
	var me dto.MeResponse
	helpers.DecodeJSON(t, resBody, &me)
	require.NotNil(t, me.Membership)
	assert.True(t, me.Membership.Active)
	assert.Equal(t, "Active", me.Membership.Status)
	require.NotNil(t, me.Membership.Plan)
	assert.Equal(t, "Monthly", *me.Membership.Plan)

	res, resBody = ts.SendRequest(t, http.MethodGet, "/api/payments/history", memberToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, resBody)
	var history []dto.PaymentHistoryItem
	helpers.DecodeJSON(t, resBody, &history)
	require.Len(t, history, 1)
	assert.Equal(t, "Approved", history[0].Status)

	var count int64
	ts.DB.Model(&models.Membership{}).Where("user_id = ?", member.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestPaymentApproval_ExtendsCurrentMembership(t *testing.T) {
	ts := freshServer(t)
	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts)
	memberToken, member := helpers.CreateAndLoginMember(t, ts)
	plan := helpers.CreatePlan(t, ts.DB, "Monthly", 1000, 30)

	today := time.Now().UTC()
	currentEnd := today.AddDate(0, 0, 20)
	helpers.CreateMembership(t, ts.DB, member.ID, plan.ID, today.AddDate(0, 0, -10), currentEnd, models.MembershipActive)

	paymentID := submitUPI(t, ts, memberToken, plan.ID, "222222222222", 1000)
	res, resBody := ts.SendRequest(t, http.MethodPost, "/api/admin/payments/"+paymentID+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, resBody)

	var grant dto.MembershipGrantResponse
	helpers.DecodeJSON(t, resBody, &grant)
	assert.Equal(t, currentEnd.AddDate(0, 0, 1).Format("2006-01-02"), grant.Membership.StartDate)
	assert.Equal(t, currentEnd.AddDate(0, 0, 31).Format("2006-01-02"), grant.Membership.EndDate)

	var current int64
	ts.DB.Model(&models.Membership{}).
		Where("user_id = ? AND status IN ?", member.ID, models.CurrentStatuses).
		Count(&current)
	assert.Equal(t, int64(1), current, "only one membership grants access")
}

func TestPaymentReject(t *testing.T) {
	ts := freshServer(t)
	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts)
	memberToken, member := helpers.CreateAndLoginMember(t, ts)
	plan := helpers.CreatePlan(t, ts.DB, "Monthly", 1000, 30)

	paymentID := submitUPI(t, ts, memberToken, plan.ID, "333333333333", 1000)

	res, resBody := ts.SendRequest(t, http.MethodPost, "/api/admin/payments/"+paymentID+"/reject", adminToken, map[string]interface{}{
		"reason": "UTR not found",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, resBody)
	assert.Contains(t, resBody, "Payment rejected")

	var stored models.Payment
	require.NoError(t, ts.DB.First(&stored, "id = ?", paymentID).Error)
	assert.Equal(t, models.PaymentRejected, stored.Status)
	assert.Contains(t, stored.Notes, "UTR not found")

	var count int64
	ts.DB.Model(&models.Membership{}).Where("user_id = ?", member.ID).Count(&count)
	assert.Zero(t, count)

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/admin/payments/"+paymentID+"/approve", adminToken, nil)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestPaymentSubmit_Rules(t *testing.T) {
	ts := freshServer(t)
	memberToken, _ := helpers.CreateAndLoginMember(t, ts)
	plan := helpers.CreatePlan(t, ts.DB, "Monthly", 1000, 30)
	retired := helpers.CreatePlan(t, ts.DB, "Retired", 500, 15)
	require.NoError(t, ts.DB.Model(retired).Update("is_active", false).Error)

	submitUPI(t, ts, memberToken, plan.ID, "444444444444", 1000)

	tests := []struct {
		name   string
		body   map[string]interface{}
		status int
	}{
		{
			name:   "reused UTR",
			body:   map[string]interface{}{"plan_id": plan.ID, "amount": 1000, "payment_method": "UPI", "txn_ref": "444444444444"},
			status: http.StatusConflict,
		},
		{
			name:   "UPI without UTR",
			body:   map[string]interface{}{"plan_id": plan.ID, "amount": 1000, "payment_method": "UPI"},
			status: http.StatusBadRequest,
		},
		{
			name:   "malformed UTR",
			body:   map[string]interface{}{"plan_id": plan.ID, "amount": 1000, "payment_method": "UPI", "txn_ref": "12AB"},
			status: http.StatusBadRequest,
		},
		{
			name:   "inactive plan",
			body:   map[string]interface{}{"plan_id": retired.ID, "amount": 500, "payment_method": "UPI", "txn_ref": "555555555555"},
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown plan",
			body:   map[string]interface{}{"plan_id": "no-such-plan", "amount": 500, "payment_method": "UPI", "txn_ref": "666666666666"},
			status: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, resBody := ts.SendRequest(t, http.MethodPost, "/api/payments/submit", memberToken, tt.body)
			assert.Equal(t, tt.status, res.StatusCode, resBody)
		})
	}
}

// approveConcurrently fires one approve request per payment ID, all released
// at once, and returns the sorted status codes.
func approveConcurrently(t *testing.T, ts *helpers.TestServer, token string, paymentIDs ...string) []int {
	t.Helper()

	statuses := make([]int, len(paymentIDs))
	errs := make([]error, len(paymentIDs))
	start := make(chan struct{})

	var wg sync.WaitGroup
	for i, id := range paymentIDs {
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()
			<-start

			req, err := http.NewRequest(http.MethodPost, url, nil)
			if err != nil {
				errs[i] = err
				return
			}
			req.Header.Set("Authorization", "Bearer "+token)
			res, err := ts.Server.Client().Do(req)
			if err != nil {
				errs[i] = err
				return
			}
			res.Body.Close()
			statuses[i] = res.StatusCode
		}(i, ts.Server.URL+"/api/admin/payments/"+id+"/approve")
	}
	close(start)
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	sort.Ints(statuses)
	return statuses
}

// Two admins approving the same payment at once: exactly one wins and the
// member ends up with a single membership.
func TestPaymentApproval_ConcurrentDoubleApproval(t *testing.T) {
	ts := freshServer(t)
	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts)
	memberToken, member := helpers.CreateAndLoginMember(t, ts)
	plan := helpers.CreatePlan(t, ts.DB, "Monthly", 1000, 30)

	paymentID := submitUPI(t, ts, memberToken, plan.ID, "777777777777", 1000)

	statuses := approveConcurrently(t, ts, adminToken, paymentID, paymentID)
	assert.Equal(t, []int{http.StatusOK, http.StatusConflict}, statuses)

	var count int64
	ts.DB.Model(&models.Membership{}).Where("user_id = ?", member.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

// Two different payments for the same member approved at once must chain:
// the later grant starts the day after the earlier one ends.
func TestPaymentApproval_ConcurrentPaymentsChain(t *testing.T) {
	ts := freshServer(t)
	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts)
	memberToken, member := helpers.CreateAndLoginMember(t, ts)
	plan := helpers.CreatePlan(t, ts.DB, "Monthly", 1000, 30)

	first := submitUPI(t, ts, memberToken, plan.ID, "888888888881", 1000)
	second := submitUPI(t, ts, memberToken, plan.ID, "888888888882", 1000)

	statuses := approveConcurrently(t, ts, adminToken, first, second)
	assert.Equal(t, []int{http.StatusOK, http.StatusOK}, statuses)

	var current int64
	ts.DB.Model(&models.Membership{}).
		Where("user_id = ? AND status IN ?", member.ID, models.CurrentStatuses).
		Count(&current)
	assert.Equal(t, int64(1), current, "only one membership grants access")

	var memberships []models.Membership
	require.NoError(t, ts.DB.Where("user_id = ?", member.ID).Order("start_date").Find(&memberships).Error)
	require.Len(t, memberships, 2)

	today := time.Now().UTC()
	assert.Equal(t, today.Format(dateLayout), memberships[0].Start().Format(dateLayout))
	assert.Equal(t, memberships[0].End().AddDate(0, 0, 1).Format(dateLayout), memberships[1].Start().Format(dateLayout))
	assert.Equal(t, memberships[0].End().AddDate(0, 0, 31).Format(dateLayout), memberships[1].End().Format(dateLayout))
	assert.Contains(t, models.CurrentStatuses, memberships[1].Status)

	var approved int64
	ts.DB.Model(&models.Payment{}).
		Where("user_id = ? AND status = ?", member.ID, models.PaymentApproved).
		Count(&approved)
	assert.Equal(t, int64(2), approved)
}
