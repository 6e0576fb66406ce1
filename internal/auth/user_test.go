// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/classtrack/internal/auth"
	"github.com/classtrack/classtrack/internal/tracker"
)

func TestNewUser(t *testing.T) {
	t.Run("valid user", func(t *testing.T) {
		u, err := auth.NewUser("Ada Lovelace", "Ada@Example.com", "hash", tracker.RoleTeacher)
		require.NoError(t, err)
		assert.False(t, u.ID.IsZero())
		assert.Equal(t, "ada@example.com", u.Email, "email should be normalized")
		assert.Equal(t, tracker.RoleTeacher, u.Role)
		assert.False(t, u.CreatedAt.IsZero())
	})

	t.Run("empty name fails", func(t *testing.T) {
		_, err := auth.NewUser("", "ada@example.com", "hash", tracker.RoleStudent)
		require.Error(t, err)
		assert.True(t, tracker.IsValidation(err))
		assert.Contains(t, err.Error(), "name")
	})

	t.Run("name exceeds max length", func(t *testing.T) {
		_, err := auth.NewUser(strings.Repeat("a", auth.MaxUserNameLength+1), "ada@example.com", "hash", tracker.RoleStudent)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name")
	})

	t.Run("invalid email fails", func(t *testing.T) {
		_, err := auth.NewUser("Ada", "not-an-email", "hash", tracker.RoleStudent)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "email")
	})

	t.Run("empty hash fails", func(t *testing.T) {
		_, err := auth.NewUser("Ada", "ada@example.com", "", tracker.RoleStudent)
		assert.Error(t, err)
	})

	t.Run("unknown role fails", func(t *testing.T) {
		_, err := auth.NewUser("Ada", "ada@example.com", "hash", tracker.Role("admin"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "role")
	})
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ada@example.com", auth.NormalizeEmail("  Ada@Example.COM "))
	assert.Equal(t, "", auth.NormalizeEmail("   "))
}
