// Package auth issues and verifies the signed session tokens used by the
// dashboard, and provides the middleware that turns a token into a request
// identity.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionCookieName = "wapio_session"

// SessionCookieName returns the cookie the middleware reads tokens from.
func SessionCookieName() string {
	return sessionCookieName
}

// Claims are the session claims embedded in a Wapio token. Subject carries
// the user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// CreateToken signs a session token for the given user.
func CreateToken(userID, role string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifyToken parses and validates a session token, returning its claims.
func VerifyToken(token string, secret []byte) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
