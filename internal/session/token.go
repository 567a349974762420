// Package session keeps one lookup.State per browser.
//
// SESSION FLOW:
//  1. First request has no cookie → Middleware creates a State in the Store,
//     signs its xid with HS256 and sets it as an HttpOnly cookie.
//  2. Later requests present the cookie → the token is verified and the State
//     is looked up and placed in the request context.
//  3. The cookie is re-signed on every request, so expiry slides with activity.
//  4. The Store's sweeper drops States that have been idle longer than the TTL.
//
// Nothing is persisted: a restart starts every visitor from an empty form.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sakif/ghlookup/internal/apperror"
)

const issuer = "ghlookup"

// MinSecretLength is the shortest HMAC secret Tokens accepts.
const MinSecretLength = 16

// Tokens signs and verifies session cookies.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

// NewTokens creates Tokens with the given secret and lifetime.
func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("session: secret must be at least %d characters", MinSecretLength)
	}
	if ttl <= 0 {
		return nil, errors.New("session: token ttl must be positive")
	}
	return &Tokens{secret: []byte(secret), ttl: ttl}, nil
}

// RandomSecret returns a hex secret for processes started without one.
func RandomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session: generating secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Generate signs a token whose subject is sessionID.
func (t *Tokens) Generate(sessionID string) (string, error) {
	return t.generateAt(sessionID, time.Now())
}

func (t *Tokens) generateAt(sessionID string, now time.Time) (string, error) {
	c := jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		Issuer:    issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("session: signing token: %w", err)
	}
	return signed, nil
}

// Validate verifies tokenStr and returns the session ID it carries.
// HS256 is pinned so a token with alg "none" or RS256 is rejected.
func (t *Tokens) Validate(tokenStr string) (string, error) {
	var c jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(
		tokenStr,
		&c,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("session: unexpected signing method: %v", token.Header["alg"])
			}
			return t.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperror.Unauthorized("session expired")
		}
		return "", &apperror.AppError{Err: apperror.ErrUnauthorized, Message: "invalid session token", Cause: err}
	}
	if c.Subject == "" {
		return "", apperror.Unauthorized("session token has no subject")
	}
	return c.Subject, nil
}
