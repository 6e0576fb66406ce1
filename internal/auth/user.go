// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

package auth

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/classtrack/classtrack/internal/tracker"
)

// Account limits.
const (
	MaxUserNameLength = 100
	MinPasswordLength = 6
)

// User is a registered account. The role is fixed at registration.
type User struct {
	ID           ulid.ULID
	Name         string
	Email        string // normalized: lower case, trimmed
	PasswordHash string
	Role         tracker.Role
	CreatedAt    time.Time
}

// NewUser creates a validated User. The email is normalized and the
// password hash must already be computed.
func NewUser(name, email, passwordHash string, role tracker.Role) (*User, error) {
	email = NormalizeEmail(email)
	if name == "" || len(name) > MaxUserNameLength {
		return nil, &tracker.ValidationError{Field: "name", Message: fmt.Sprintf("must be 1-%d characters", MaxUserNameLength)}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, &tracker.ValidationError{Field: "email", Message: "must be a valid email address"}
	}
	if passwordHash == "" {
		return nil, oops.Code("USER_INVALID_HASH").Errorf("password hash cannot be empty")
	}
	if !role.Valid() {
		return nil, &tracker.ValidationError{Field: "role", Message: "must be student or teacher"}
	}
	return &User{
		ID:           ulid.Make(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// NormalizeEmail lower-cases and trims an email so uniqueness is
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
