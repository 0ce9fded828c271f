package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "msfitness"

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrNotConfigured = errors.New("jwt secret is not configured")
)

var (
	secret   []byte
	tokenTTL = 24 * time.Hour
)

// Configure sets the signing secret and token lifetime. It is called once at start-up.
func Configure(signingSecret string, ttl time.Duration) {
	secret = []byte(signingSecret)
	if ttl > 0 {
		tokenTTL = ttl
	}
}

// Claims identifies the principal and the roles it held when the token was issued.
type Claims struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// Role returns the most privileged role in the claims.
func (c *Claims) Role() string {
	return PrimaryRole(c.Roles)
}

func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func GenerateToken(userID string, roles []string) (string, error) {
	if len(secret) == 0 {
		return "", ErrNotConfigured
	}

	now := time.Now()
	claims := Claims{
		UserID: userID,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func ParseToken(tokenStr string) (*Claims, error) {
	if len(secret) == 0 {
		return nil, ErrNotConfigured
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
