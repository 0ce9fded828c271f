package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/loki1512/MS-Fitness-Gym/internal/services/dto"
	"github.com/loki1512/MS-Fitness-Gym/internal/validator"
	"github.com/loki1512/MS-Fitness-Gym/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	return c, w
}

func TestBindAndValidate_JSON(t *testing.T) {
	h := NewBaseHandler(validator.New())

	t.Run("valid body", func(t *testing.T) {
		c, _ := newTestContext(http.MethodPost, "/api/admin/plans", `{"name":"Monthly","price":999,"duration_days":30}`)
		var req dto.CreatePlanRequest
		require.True(t, h.BindAndValidate_JSON(c, &req))
		assert.Equal(t, "Monthly", req.Name)
		assert.Equal(t, 30, req.DurationDays)
	})

	t.Run("malformed json", func(t *testing.T) {
		c, w := newTestContext(http.MethodPost, "/api/admin/plans", `{"name":`)
		var req dto.CreatePlanRequest
		assert.False(t, h.BindAndValidate_JSON(c, &req))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rule violation reports the json field", func(t *testing.T) {
		c, w := newTestContext(http.MethodPost, "/api/admin/plans", `{"name":"Monthly","price":999,"duration_days":0}`)
		var req dto.CreatePlanRequest
		assert.False(t, h.BindAndValidate_JSON(c, &req))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "duration_days")
	})

	t.Run("empty body is rejected", func(t *testing.T) {
		c, w := newTestContext(http.MethodPost, "/api/admin/plans", "")
		var req dto.CreatePlanRequest
		assert.False(t, h.BindAndValidate_JSON(c, &req))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBindAndValidate_OptionalJSON(t *testing.T) {
	h := NewBaseHandler(validator.New())

	c, _ := newTestContext(http.MethodPost, "/api/admin/payments/p1/reject", "")
	var empty dto.RejectPaymentRequest
	require.True(t, h.BindAndValidate_OptionalJSON(c, &empty))
	assert.Empty(t, empty.Reason)

	c, _ = newTestContext(http.MethodPost, "/api/admin/payments/p1/reject", `{"reason":"UTR not found"}`)
	var withReason dto.RejectPaymentRequest
	require.True(t, h.BindAndValidate_OptionalJSON(c, &withReason))
	assert.Equal(t, "UTR not found", withReason.Reason)

	c, w := newTestContext(http.MethodPost, "/api/admin/payments/p1/reject", `{"reason":`)
	var broken dto.RejectPaymentRequest
	assert.False(t, h.BindAndValidate_OptionalJSON(c, &broken))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBindAndValidate_Query(t *testing.T) {
	h := NewBaseHandler(validator.New())

	c, _ := newTestContext(http.MethodGet, "/api/admin/members?gender=female&dob_from=1990-01-01", "")
	var filter dto.MemberFilter
	require.True(t, h.BindAndValidate_Query(c, &filter))
	assert.Equal(t, "female", filter.Gender)
	assert.Equal(t, "1990-01-01", filter.DOBFrom)

	c, w := newTestContext(http.MethodGet, "/api/admin/members?dob_from=01-01-1990", "")
	var bad dto.MemberFilter
	assert.False(t, h.BindAndValidate_Query(c, &bad))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "dob_from")
}

func TestHandleServiceError(t *testing.T) {
	h := NewBaseHandler(validator.New())

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"domain conflict", apperrors.ErrPaymentAlreadyProcessed, http.StatusConflict, "CONFLICT"},
		{"not found", apperrors.ErrUserNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(http.MethodGet, "/", "")
			h.HandleServiceError(c, tt.err)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.code)
		})
	}
}

func TestGetAndAuthorizeUserID(t *testing.T) {
	h := NewBaseHandler(validator.New())

	c, w := newTestContext(http.MethodGet, "/api/me", "")
	_, ok := h.GetAndAuthorizeUserID(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c, _ = newTestContext(http.MethodGet, "/api/me", "")
	c.Set("userID", "user-1")
	id, ok := h.GetAndAuthorizeUserID(c)
	assert.True(t, ok)
	assert.Equal(t, "user-1", id)
}

func TestParseParamID(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "/", "")
	c.Params = gin.Params{{Key: "id", Value: " abc "}}
	id, err := ParseParamID(c, "id")
	require.NoError(t, err)
	assert.Equal(t, "abc", id)

	_, err = ParseParamID(c, "user_id")
	assert.Error(t, err)
}
