package integration_test

import (
	"net/http"
	"testing"

	"github.com/loki1512/MS-Fitness-Gym/internal/services/dto"
	"github.com/loki1512/MS-Fitness-Gym/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitAdmin_OnlyOnce(t *testing.T) {
	ts := freshServer(t)

	body := map[string]interface{}{
		"name":     "Owner",
		"phone":    helpers.UniquePhone(),
		"email":    helpers.UniqueEmail("owner"),
		"password": "owner_password",
	}
	res, resBody := ts.SendRequest(t, http.MethodPost, "/api/init-admin", "", body)
	require.Equal(t, http.StatusCreated, res.StatusCode, resBody)
	assert.Contains(t, resBody, "Admin user created successfully")

	token := helpers.Login(t, ts, body["email"].(string), "owner_password")
	res, resBody = ts.SendRequest(t, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, resBody)

	var me dto.MeResponse
	helpers.DecodeJSON(t, resBody, &me)
	assert.True(t, me.IsAdmin)
	assert.Equal(t, "admin", me.Role)

	second := map[string]interface{}{
		"name":     "Intruder",
		"phone":    helpers.UniquePhone(),
		"email":    helpers.UniqueEmail("intruder"),
		"password": "intruder_password",
	}
	res, resBody = ts.SendRequest(t, http.MethodPost, "/api/init-admin", "", second)
	assert.Equal(t, http.StatusConflict, res.StatusCode, resBody)
}

func TestRegisterLoginAndProfile(t *testing.T) {
	ts := freshServer(t)

	email := helpers.UniqueEmail("member")
	res, resBody := ts.SendRequest(t, http.MethodPost, "/api/register", "", map[string]interface{}{
		"name":     "Ravi Kumar",
		"phone":    helpers.UniquePhone(),
		"email":    email,
		"password": "secret123",
		"gender":   "male",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, resBody)
	assert.Contains(t, resBody, "Registration successful")

	token := helpers.Login(t, ts, email, "secret123")

	res, resBody = ts.SendRequest(t, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, resBody)

	var profile dto.ProfileResponse
	helpers.DecodeJSON(t, resBody, &profile)
	assert.Equal(t, email, profile.Email)
	require.NotNil(t, profile.Membership)
	assert.False(t, profile.Membership.Active)
	assert.Equal(t, "No Membership", profile.Membership.Status)

	res, resBody = ts.SendRequest(t, http.MethodPut, "/api/profile", token, map[string]interface{}{
		"name": "Ravi K",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, resBody)
	assert.Contains(t, resBody, "Profile updated successfully")

	res, resBody = ts.SendRequest(t, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, resBody)
	assert.Contains(t, resBody, "Ravi K")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ts := freshServer(t)

	email := helpers.UniqueEmail("dup")
	first := map[string]interface{}{
		"name":     "First",
		"phone":    helpers.UniquePhone(),
		"email":    email,
		"password": "secret123",
	}
	res, resBody := ts.SendRequest(t, http.MethodPost, "/api/register", "", first)
	require.Equal(t, http.StatusCreated, res.StatusCode, resBody)

	second := map[string]interface{}{
		"name":     "Second",
		"phone":    helpers.UniquePhone(),
		"email":    email,
		"password": "secret123",
	}
	res, resBody = ts.SendRequest(t, http.MethodPost, "/api/register", "", second)
	assert.Equal(t, http.StatusConflict, res.StatusCode, resBody)
}

func TestRegister_InvalidPhone(t *testing.T) {
	ts := freshServer(t)

	res, resBody := ts.SendRequest(t, http.MethodPost, "/api/register", "", map[string]interface{}{
		"name":     "Bad Phone",
		"phone":    "12345",
		"email":    helpers.UniqueEmail("badphone"),
		"password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, resBody)
	assert.Contains(t, resBody, "phone")
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := freshServer(t)
	user := helpers.CreateUser(t, ts.DB, "Member", helpers.UniqueEmail("member"), helpers.DefaultPassword, "member")

	res, resBody := ts.SendRequest(t, http.MethodPost, "/api/login", "", map[string]interface{}{
		"email":    user.Email,
		"password": "not-the-password",
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode, resBody)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	ts := freshServer(t)

	res, _ := ts.SendRequest(t, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	memberToken, _ := helpers.CreateAndLoginMember(t, ts)
	res, _ = ts.SendRequest(t, http.MethodGet, "/api/admin/payments/pending", memberToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestDeactivatedUser_TokenStopsWorking(t *testing.T) {
	ts := freshServer(t)
	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts)
	memberToken, member := helpers.CreateAndLoginMember(t, ts)

	res, resBody := ts.SendRequest(t, http.MethodPut, "/api/admin/users/"+member.ID, adminToken, map[string]interface{}{
		"active": false,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, resBody)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/me", memberToken, nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/login", "", map[string]interface{}{
		"email":    member.Email,
		"password": helpers.DefaultPassword,
	})
	assert.NotEqual(t, http.StatusOK, res.StatusCode)
}

func TestHealthAndStats(t *testing.T) {
	ts := freshServer(t)
	helpers.CreatePlan(t, ts.DB, "Monthly", 1000, 30)

	res, resBody := ts.SendRequest(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, resBody)
	assert.Contains(t, resBody, "healthy")

	res, resBody = ts.SendRequest(t, http.MethodGet, "/api/stats", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, resBody)

	var stats dto.StatsResponse
	helpers.DecodeJSON(t, resBody, &stats)
	assert.Equal(t, int64(1), stats.TotalPlans)
}
