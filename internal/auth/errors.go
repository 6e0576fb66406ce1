// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested user does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnauthenticated is returned when a credential is missing, malformed,
// expired, signature-invalid, or references a user that no longer exists.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrEmailTaken is returned when registering with an email that is
// already in use (case-insensitive).
var ErrEmailTaken = errors.New("email already registered")

// ErrInvalidCredentials is returned on login when the email/password pair
// does not match. The same error covers unknown email and wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")
