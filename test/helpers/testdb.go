package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/loki1512/MS-Fitness-Gym/internal/auth"
	"github.com/loki1512/MS-Fitness-Gym/internal/models"
	"github.com/loki1512/MS-Fitness-Gym/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const DefaultPassword = "password123"

var phoneSeq atomic.Int64

// UniquePhone returns a fresh 10 digit phone number.
func UniquePhone() string {
	return fmt.Sprintf("9%09d", phoneSeq.Add(1)%1_000_000_000)
}

// UniqueEmail returns a fresh address with the given prefix.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s_%d_%d@test.com", prefix, time.Now().UnixNano(), phoneSeq.Add(1))
}

// CreateUser inserts an active user with a hashed password and the given roles.
func CreateUser(t *testing.T, db *gorm.DB, name, email, password string, roles ...models.RoleName) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	var roleRows []models.Role
	if len(roles) > 0 {
		require.NoError(t, db.Where("name IN ?", roles).Find(&roleRows).Error)
		require.Len(t, roleRows, len(roles), "roles must be seeded")
	}

	user := &models.User{
		Name:         name,
		Phone:        UniquePhone(),
		Email:        email,
		PasswordHash: hash,
		Active:       true,
		Roles:        roleRows,
	}
	require.NoError(t, db.Create(user).Error, "failed to create user %s", email)
	return user
}

// Login authenticates through the API and returns the bearer token.
func Login(t *testing.T, ts *TestServer, email, password string) string {
	t.Helper()

	res, body := ts.SendRequest(t, http.MethodPost, "/api/login", "", map[string]interface{}{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "login should succeed: %s", body)

	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal([]byte(body), &login))
	assert.NotEmpty(t, login.Token)
	return login.Token
}

// CreateAndLoginUser creates a user with the given role and logs them in.
func CreateAndLoginUser(t *testing.T, ts *TestServer, name string, role models.RoleName) (string, *models.User) {
	t.Helper()

	user := CreateUser(t, ts.DB, name, UniqueEmail(string(role)), DefaultPassword, role)
	return Login(t, ts, user.Email, DefaultPassword), user
}

func CreateAndLoginAdmin(t *testing.T, ts *TestServer) (string, *models.User) {
	return CreateAndLoginUser(t, ts, "Test Admin", models.RoleAdmin)
}

func CreateAndLoginManager(t *testing.T, ts *TestServer) (string, *models.User) {
	return CreateAndLoginUser(t, ts, "Test Manager", models.RoleManager)
}

func CreateAndLoginMember(t *testing.T, ts *TestServer) (string, *models.User) {
	return CreateAndLoginUser(t, ts, "Test Member", models.RoleMember)
}

// CreatePlan inserts an active plan directly.
func CreatePlan(t *testing.T, db *gorm.DB, name string, price float64, durationDays int) *models.Plan {
	t.Helper()

	plan := &models.Plan{
		Name:         name,
		Price:        price,
		DurationDays: durationDays,
		Features:     datatypes.JSON(`["Gym access"]`),
		IsActive:     true,
	}
	require.NoError(t, db.Create(plan).Error)
	return plan
}

// CreateMembership inserts a membership row with explicit dates.
func CreateMembership(t *testing.T, db *gorm.DB, userID, planID string, start, end time.Time, status models.MembershipStatus) *models.Membership {
	t.Helper()

	m := &models.Membership{
		UserID:    userID,
		PlanID:    planID,
		StartDate: datatypes.Date(start),
		EndDate:   datatypes.Date(end),
		Status:    status,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

// CreatePayment inserts a payment row in the given status.
func CreatePayment(t *testing.T, db *gorm.DB, userID, planID string, amount float64, status models.PaymentStatus, date time.Time) *models.Payment {
	t.Helper()

	p := &models.Payment{
		UserID: userID,
		PlanID: planID,
		Amount: amount,
		Method: models.PaymentMethodUPI,
		Status: status,
		Date:   date,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}
