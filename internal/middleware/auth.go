package middleware

import (
	"errors"
	"strings"

	"github.com/loki1512/MS-Fitness-Gym/internal/auth"
	"github.com/loki1512/MS-Fitness-Gym/internal/logger"
	"github.com/loki1512/MS-Fitness-Gym/internal/metrics"
	"github.com/loki1512/MS-Fitness-Gym/internal/models"
	"github.com/loki1512/MS-Fitness-Gym/internal/repositories"
	"github.com/loki1512/MS-Fitness-Gym/pkg/apperrors"
	"github.com/loki1512/MS-Fitness-Gym/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// gin context keys set by AuthMiddleware
const (
	UserIDKey = "userID"
	RolesKey  = "roles"
	RoleKey   = "role"
	ClaimsKey = "claims"
)

var userRepo = repositories.NewUserRepository()

// AuthMiddleware checks the Bearer JWT. When DBMiddleware has run, the account
// is reloaded so a deactivation or role change takes effect on the next
// request rather than when the token expires.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			reject(c, "missing_token", apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}

		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			reject(c, "invalid_token", apperrors.ErrInvalidToken)
			return
		}

		if db, ok := requestDB(c); ok {
			user, err := userRepo.FindByID(db.WithContext(c.Request.Context()), claims.UserID)
			if err != nil {
				if errors.Is(err, repositories.ErrUserNotFound) {
					reject(c, "unknown_user", apperrors.ErrInvalidToken)
					return
				}
				apperrors.HandleError(c, apperrors.InternalError(err))
				return
			}
			if !user.Active {
				reject(c, "inactive", apperrors.ErrAccountDeactivated)
				return
			}
			claims.Roles = roleStrings(user.RoleNames())
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, claims.UserID)
		c.Set(RolesKey, claims.Roles)
		c.Set(RoleKey, claims.Role())
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

func AdminOnly() gin.HandlerFunc {
	return requireClaims(auth.IsAdmin)
}

// StaffOnly admits managers and admins.
func StaffOnly() gin.HandlerFunc {
	return requireClaims(auth.IsManagerOrHigher)
}

func requireClaims(allow func(*auth.Claims) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if ok && allow(claims) {
			c.Next()
			return
		}
		logger.CtxWarn(c.Request.Context(), "access denied",
			"path", c.Request.URL.Path,
			"roles", GetRoles(c),
		)
		reject(c, "forbidden", apperrors.ErrInsufficientPermissions)
	}
}

// GetClaims returns the claims AuthMiddleware stored, with roles reloaded from the database when available.
func GetClaims(c *gin.Context) (*auth.Claims, bool) {
	val, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := val.(*auth.Claims)
	return claims, ok && claims != nil
}

func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

func GetRoles(c *gin.Context) []string {
	return c.GetStringSlice(RolesKey)
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

func requestDB(c *gin.Context) (*gorm.DB, bool) {
	val, ok := c.Get(string(contextkeys.DBContextKey))
	if !ok {
		return nil, false
	}
	db, ok := val.(*gorm.DB)
	return db, ok && db != nil
}

func reject(c *gin.Context, reason string, err *apperrors.AppError) {
	metrics.AuthRejections.WithLabelValues(reason).Inc()
	apperrors.HandleError(c, err)
}

func roleStrings(names []models.RoleName) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, string(n))
	}
	return out
}
