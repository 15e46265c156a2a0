package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type UserRole string

const (
	RoleOwner    UserRole = "OWNER"
	RoleEmployee UserRole = "EMPLOYEE"
	RoleGuest    UserRole = "GUEST"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleOwner, RoleEmployee, RoleGuest:
		return true
	}
	return false
}

type Claims struct {
	UserID     string   `json:"userId"`
	Role       UserRole `json:"role"`
	Name       *string  `json:"name,omitempty"`
	DeviceName *string  `json:"deviceName,omitempty"`
	jwt.RegisteredClaims
}

func ParseBearerToken(authHeader string) string {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func VerifyAccessToken(tokenString string, secret string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("token required")
	}

	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	_, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(time.Now()) {
		return nil, errors.New("token expired")
	}
	if !claims.Role.Valid() {
		return nil, errors.New("unknown role")
	}
	return claims, nil
}

// IssueAccessToken signs a short-lived staff or guest token. Guest tokens are
// minted when a table session starts on a shared ordering device.
func IssueAccessToken(userID string, role UserRole, deviceName string, secret string, ttlSeconds int64) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ttlSeconds) * time.Second)),
		},
	}
	if deviceName != "" {
		claims.DeviceName = &deviceName
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
