// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

package auth

import (
	"context"

	"github.com/oklog/ulid/v2"
)

// UserRepository manages user persistence. Implementations map
// storage-level "no rows" onto ErrNotFound and duplicate emails onto
// ErrEmailTaken.
type UserRepository interface {
	// Create stores a new user.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*User, error)

	// GetByEmail retrieves a user by normalized email.
	GetByEmail(ctx context.Context, email string) (*User, error)
}
