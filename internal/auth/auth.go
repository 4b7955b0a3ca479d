// Package auth verifies bearer credentials against the shared signing
// secret and resolves them to user identities.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/isuprotikroy/Sonciv/internal/domain"
)

type Guard struct {
	secret []byte
}

func NewGuard(secret string) *Guard {
	return &Guard{secret: []byte(secret)}
}

type claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Verify validates the token's signature and expiry and returns the embedded
// user id. Any failure maps to ErrUnauthenticated; callers must not run the
// guarded operation.
func (g *Guard) Verify(token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, fmt.Errorf("%w: missing token", domain.ErrUnauthenticated)
	}
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return g.secret, nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	userID, err := uuid.Parse(c.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad user id in token", domain.ErrUnauthenticated)
	}
	return userID, nil
}

// Issue mints a token for userID. Token issuance normally lives with the
// identity provider; this is here for tests and local tooling.
func (g *Guard) Issue(userID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString(g.secret)
}
