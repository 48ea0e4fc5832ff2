package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/twocards/platform/pkg/types"
)

// DefaultTokenTTL bounds how long an issued token stays valid.
const DefaultTokenTTL = 24 * time.Hour

// Claims binds a user identity to a token.
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies bearer tokens. The signing secret is
// selected per request from the app context, so a token minted under one
// app's test key never verifies under its live key or under another app.
type TokenService struct {
	selector Selector
	ttl      time.Duration
}

// NewTokenService creates a token service with the given selector.
func NewTokenService(selector Selector, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{selector: selector, ttl: ttl}
}

// Issue signs a token for the user under the app context's signing key.
func (s *TokenService) Issue(user *types.User, ac AppContext) (string, error) {
	if user == nil || user.ID == "" || user.Email == "" {
		return "", fmt.Errorf("auth.Issue: user is missing")
	}
	key := s.selector.SigningKey(ac)
	if key == NotAuthenticated {
		return "", fmt.Errorf("auth.Issue: no signing key for unauthenticated context")
	}
	now := time.Now().UTC()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(key))
	if err != nil {
		return "", fmt.Errorf("auth.Issue: %w", err)
	}
	return signed, nil
}

// Verify parses a token against the app context's signing key and returns
// its claims.
func (s *TokenService) Verify(tokenString string, ac AppContext) (*Claims, error) {
	key := s.selector.SigningKey(ac)
	if key == NotAuthenticated {
		return nil, fmt.Errorf("auth.Verify: no signing key for unauthenticated context")
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(key), nil
	})
	if err != nil {
		return nil, fmt.Errorf("auth.Verify: %w", err)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("auth.Verify: token has no user id")
	}
	return claims, nil
}
