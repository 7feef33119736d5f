package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidToken = errors.New("invalid token")

// ResultClaims carries a game result message through a redirect without
// letting the client forge it.
type ResultClaims struct {
	Message string `json:"msg"`
	jwt.RegisteredClaims
}

// TokenSigner signs and verifies short-lived HS256 tokens.
type TokenSigner struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewTokenSigner(key []byte, ttl time.Duration) *TokenSigner {
	return &TokenSigner{key: key, ttl: ttl, now: time.Now}
}

// SignResult returns a compact token embedding message.
func (s *TokenSigner) SignResult(message string) (string, error) {
	now := s.now()
	claims := &ResultClaims{
		Message: message,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("signing result: %w", err)
	}
	return signed, nil
}

// VerifyResult returns the message inside a token produced by SignResult.
func (s *TokenSigner) VerifyResult(tokenStr string) (string, error) {
	claims := &ResultClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return s.key, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	return claims.Message, nil
}
