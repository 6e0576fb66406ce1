// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// DefaultTokenTTL is how long issued tokens stay valid.
const DefaultTokenTTL = 7 * 24 * time.Hour

// TokenIssuer signs and verifies bearer tokens. The token subject is the
// user ID; the role is not carried because it is never trusted from the
// credential anyway.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates a TokenIssuer with the given HMAC secret.
// A zero ttl falls back to DefaultTokenTTL.
func NewTokenIssuer(secret []byte, ttl time.Duration) (*TokenIssuer, error) {
	if len(secret) == 0 {
		return nil, oops.Code("AUTH_EMPTY_SECRET").Errorf("token secret cannot be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: secret, ttl: ttl}, nil
}

// Issue signs a token for the given user.
func (t *TokenIssuer) Issue(userID ulid.ULID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", oops.Code("AUTH_TOKEN_SIGN_FAILED").Wrap(err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning the user ID it was
// issued for. Malformed, expired, or badly signed tokens all yield
// ErrUnauthenticated.
func (t *TokenIssuer) Verify(token string) (ulid.ULID, error) {
	if token == "" {
		return ulid.ULID{}, ErrUnauthenticated
	}
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, oops.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !parsed.Valid {
		return ulid.ULID{}, ErrUnauthenticated
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return ulid.ULID{}, ErrUnauthenticated
	}
	id, err := ulid.Parse(claims.Subject)
	if err != nil {
		return ulid.ULID{}, ErrUnauthenticated
	}
	return id, nil
}
