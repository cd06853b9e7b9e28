package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

const memberIDClaim = "memberId"

// TokenProvider mints and validates HMAC-signed access tokens carrying the
// member id as subject.
type TokenProvider struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenProvider constructs a TokenProvider.
func NewTokenProvider(secret string, ttl time.Duration) *TokenProvider {
	return &TokenProvider{secret: []byte(secret), ttl: ttl}
}

// CreateAccessToken issues a token for the member.
func (p *TokenProvider) CreateAccessToken(memberID int64) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		memberIDClaim: memberID,
		"iat":         now.Unix(),
		"exp":         now.Add(p.ttl).Unix(),
	})
	return token.SignedString(p.secret)
}

// Validate verifies signature and expiry and extracts the member id.
// Any failure maps to ErrInvalidToken; callers reject the connection.
func (p *TokenProvider) Validate(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	raw, ok := claims[memberIDClaim].(float64)
	if !ok || raw <= 0 {
		return 0, ErrInvalidToken
	}
	return int64(raw), nil
}
