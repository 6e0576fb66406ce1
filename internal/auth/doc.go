// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

// Package auth provides registration, login, and principal resolution.
//
// Credentials are signed bearer tokens. Resolution always re-reads the
// user's role from storage rather than trusting the token payload, so a
// role change takes effect immediately without re-issuing tokens.
package auth
