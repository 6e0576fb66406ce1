// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

package tracker

import "github.com/oklog/ulid/v2"

// Role identifies what kind of account a principal is acting as.
type Role string

// Known roles. Anything else is denied by the policy.
const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// Principal is an authenticated actor. The role is always read from
// storage at resolution time, never taken from a credential payload.
type Principal struct {
	ID   ulid.ULID
	Role Role
}

// IsZero reports whether the principal is unset.
func (p Principal) IsZero() bool {
	return p.ID.IsZero()
}
