package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/loki1512/MS-Fitness-Gym/internal/auth"
	"github.com/loki1512/MS-Fitness-Gym/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(guards ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware()}, guards...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": GetUserID(c),
			"role":    c.GetString(RoleKey),
			"roles":   GetRoles(c),
		})
	})
	r.GET("/protected", handlers...)
	return r
}

func doRequest(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func tokenFor(t *testing.T, userID string, roles ...string) string {
	t.Helper()
	auth.Configure("middleware-test-secret", time.Hour)
	token, err := auth.GenerateToken(userID, roles)
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware_RejectsMissingHeader(t *testing.T) {
	w := doRequest(newAuthRouter(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestAuthMiddleware_RejectsWrongScheme(t *testing.T) {
	w := doRequest(newAuthRouter(), "Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_RejectsGarbageToken(t *testing.T) {
	w := doRequest(newAuthRouter(), "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_AcceptsValidToken(t *testing.T) {
	token := tokenFor(t, "user-42", string(models.RoleMember), string(models.RoleManager))

	w := doRequest(newAuthRouter(), "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"user-42"`)
	assert.Contains(t, w.Body.String(), `"role":"manager"`)
}

func TestRoleGuards(t *testing.T) {
	member := tokenFor(t, "m", string(models.RoleMember))
	manager := tokenFor(t, "g", string(models.RoleManager))
	admin := tokenFor(t, "a", string(models.RoleAdmin))

	tests := []struct {
		name   string
		guard  gin.HandlerFunc
		token  string
		status int
	}{
		{"member blocked from staff", StaffOnly(), member, http.StatusForbidden},
		{"manager allowed staff", StaffOnly(), manager, http.StatusOK},
		{"admin allowed staff", StaffOnly(), admin, http.StatusOK},
		{"manager blocked from admin", AdminOnly(), manager, http.StatusForbidden},
		{"admin allowed admin", AdminOnly(), admin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(newAuthRouter(tt.guard), "Bearer "+tt.token)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestAuthMiddleware_StoresClaims(t *testing.T) {
	token := tokenFor(t, "user-7", string(models.RoleAdmin))

	r := gin.New()
	r.GET("/protected", AuthMiddleware(), func(c *gin.Context) {
		claims, ok := GetClaims(c)
		require.True(t, ok)
		assert.Equal(t, "user-7", claims.UserID)
		assert.True(t, auth.IsAdmin(claims))
		c.Status(http.StatusNoContent)
	})

	w := doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestStaffOnly_WithoutAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/protected", StaffOnly(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := doRequest(r, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBearerToken(t *testing.T) {
	tok, ok := bearerToken("Bearer abc.def")
	assert.True(t, ok)
	assert.Equal(t, "abc.def", tok)

	tok, ok = bearerToken("bearer xyz")
	assert.True(t, ok)
	assert.Equal(t, "xyz", tok)

	_, ok = bearerToken("Bearer ")
	assert.False(t, ok)
	_, ok = bearerToken("Token abc")
	assert.False(t, ok)
}
