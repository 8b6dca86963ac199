package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Spectronyx/rent-manager-app-sub000/internal/domain"
)

// Claims carries the caller identity handed to handlers and services
type Claims struct {
	UserID string      `json:"user_id"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the token belongs to an admin
func (c *Claims) IsAdmin() bool {
	return c != nil && c.Role == domain.RoleAdmin
}

var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrMalformedHeader = errors.New("invalid authorization header")
)

// TokenManager issues and verifies HS256 session tokens
type TokenManager struct {
	secret string
	issuer string
	ttl    time.Duration
}

func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	if secret == "" {
		secret = "change-me-in-production"
	}
	if issuer == "" {
		issuer = "rentmanager"
	}
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &TokenManager{secret: secret, issuer: issuer, ttl: ttl}
}

// TTL is how long issued tokens stay valid
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

func (tm *TokenManager) GenerateToken(userID, email string, role domain.Role) (string, error) {
	if userID == "" || !role.Valid() {
		return "", fmt.Errorf("token needs a user id and a known role, got %q/%q", userID, role)
	}
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
			Issuer:    tm.issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(tm.secret))
}

func (tm *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tm.secret), nil
	}, jwt.WithIssuer(tm.issuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ExtractToken returns the token from an "Authorization: Bearer <token>" header
func ExtractToken(authHeader string) (string, error) {
	tok, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || tok == "" || strings.ContainsAny(tok, " \t") {
		return "", ErrMalformedHeader
	}
	return tok, nil
}
