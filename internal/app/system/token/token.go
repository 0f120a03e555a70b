// Package token issues and verifies the signed session tokens that back
// cookie authentication. Tokens are stateless HS256 JWTs carrying only a
// subject (user id) and an expiration; there is no server-side revocation,
// so logout is advisory and a captured token stays valid until it expires.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var (
	// ErrInvalid covers every structural or signature failure: malformed
	// tokens, tampered payloads, wrong signing algorithm, missing subject.
	ErrInvalid = errors.New("token is invalid")

	// ErrExpired is returned for a well-formed, correctly signed token whose
	// expiration instant has passed.
	ErrExpired = errors.New("token is expired")
)

// Service mints and verifies session tokens with a single shared secret.
type Service struct {
	secret []byte
	ttl    time.Duration
	log    *zap.Logger
}

// New builds a Service. The secret is required; an empty secret is a
// configuration error and must abort startup, never surface per-request.
func New(secret string, ttl time.Duration, logger *zap.Logger) (*Service, error) {
	if secret == "" {
		return nil, fmt.Errorf("auth secret is empty; provide >=32 random chars")
	}
	if len(secret) < 32 {
		logger.Warn("auth secret is short; 32+ chars recommended",
			zap.Int("length", len(secret)))
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Service{secret: []byte(secret), ttl: ttl, log: logger}, nil
}

// TTL reports the token lifetime, which also bounds the cookie MaxAge.
func (s *Service) TTL() time.Duration { return s.ttl }

// Issue signs a token asserting subject = userID, issued now, expiring
// now + TTL.
func (s *Service) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiration and returns the subject user id.
// Outcomes are exactly ErrExpired (stale but authentic) or ErrInvalid
// (everything else); no other error crosses this boundary.
func (s *Service) Verify(tokenString string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			// Reject anything but HS256 to prevent algorithm confusion.
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return s.secret, nil
		})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", ErrInvalid
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalid
	}
	return claims.Subject, nil
}
