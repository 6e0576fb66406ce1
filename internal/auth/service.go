// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/classtrack/classtrack/internal/tracker"
)

// Service provides registration, login, and principal resolution.
type Service struct {
	users  UserRepository
	hasher PasswordHasher
	tokens *TokenIssuer
}

// NewService creates an auth Service.
func NewService(users UserRepository, hasher PasswordHasher, tokens *TokenIssuer) *Service {
	return &Service{users: users, hasher: hasher, tokens: tokens}
}

// dummyPasswordHash is verified against when the email is unknown so that
// login failures take the same time whether or not the account exists.
// This is NOT a real credential - it's a fake hash that will never match any password.
//
//nolint:gosec // G101: intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Register creates a user and returns it with a signed token. The role
// defaults to student when empty; duplicate emails yield ErrEmailTaken.
func (s *Service) Register(ctx context.Context, name, email, password string, role tracker.Role) (*User, string, error) {
	if role == "" {
		role = tracker.RoleStudent
	}
	if len(password) < MinPasswordLength {
		return nil, "", &tracker.ValidationError{Field: "password", Message: fmt.Sprintf("must be at least %d characters", MinPasswordLength)}
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", oops.Code("AUTH_REGISTER_FAILED").With("operation", "hash password").Wrap(err)
	}

	user, err := NewUser(name, email, hash, role)
	if err != nil {
		return nil, "", err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", oops.Code("AUTH_REGISTER_FAILED").With("operation", "persist user").Wrap(err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", oops.Code("AUTH_REGISTER_FAILED").With("operation", "issue token").Wrap(err)
	}
	return user, token, nil
}

// Login authenticates an email/password pair and returns the user with a
// signed token. Unknown email and wrong password produce the same error,
// and password verification runs either way to keep response time even.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	user, lookupErr := s.users.GetByEmail(ctx, NormalizeEmail(email))

	targetHash := dummyPasswordHash
	userExists := false
	switch {
	case lookupErr == nil:
		targetHash = user.PasswordHash
		userExists = true
	case errors.Is(lookupErr, ErrNotFound):
		// keep the dummy hash
	default:
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").With("operation", "get user by email").Wrap(lookupErr)
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil && userExists {
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").With("operation", "verify password").Wrap(verifyErr)
	}
	if !userExists || !valid {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").With("operation", "issue token").Wrap(err)
	}
	return user, token, nil
}

// Resolve turns a bearer token into a Principal. The role comes from the
// stored user, never from the token, so role changes apply immediately.
// A token whose user no longer exists resolves to ErrUnauthenticated.
func (s *Service) Resolve(ctx context.Context, token string) (tracker.Principal, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return tracker.Principal{}, ErrUnauthenticated
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return tracker.Principal{}, ErrUnauthenticated
		}
		return tracker.Principal{}, oops.Code("AUTH_RESOLVE_FAILED").With("user_id", userID.String()).Wrap(err)
	}

	return tracker.Principal{ID: user.ID, Role: user.Role}, nil
}

// GetUser returns the stored user for an authenticated principal.
func (s *Service) GetUser(ctx context.Context, id ulid.ULID) (*User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, oops.Code("AUTH_GET_USER_FAILED").With("user_id", id.String()).Wrap(err)
	}
	return user, nil
}
