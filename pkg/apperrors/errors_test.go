package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_IsMatchesCopies(t *testing.T) {
	withDetails := ErrPaymentAlreadyProcessed.WithDetails(gin.H{"payment_id": "p1"})
	wrapped := fmt.Errorf("approve: %w", withDetails)

	assert.True(t, errors.Is(wrapped, ErrPaymentAlreadyProcessed))
	assert.False(t, errors.Is(wrapped, ErrPaymentNotFound))
	assert.Nil(t, ErrPaymentAlreadyProcessed.Details, "predefined error must not be mutated")
}

func TestAppError_UnwrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := DatabaseError(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestAppError_MarshalHidesCause(t *testing.T) {
	err := Wrap(errors.New("secret"), CodeConflict, "payment", "Payment already processed", http.StatusConflict)

	data, mErr := json.Marshal(err)
	require.NoError(t, mErr)
	assert.JSONEq(t, `{"code":"CONFLICT","domain":"payment","message":"Payment already processed"}`, string(data))
}

func TestHandleError_WritesStatusAndBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   ErrorCode
	}{
		{"app error", ErrPlanNotFound, http.StatusNotFound, CodeNotFound},
		{"wrapped app error", fmt.Errorf("x: %w", ErrUTRTaken), http.StatusConflict, CodeAlreadyExists},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

			HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body struct {
				Error struct {
					Code ErrorCode `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}
