// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

package tracker_test

import (
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/classtrack/internal/tracker"
)

func TestNewClassroom(t *testing.T) {
	teacherID := ulid.Make()

	t.Run("valid classroom", func(t *testing.T) {
		c, err := tracker.NewClassroom(teacherID, "Algebra I", "Math", "Introductory algebra")
		require.NoError(t, err)
		assert.False(t, c.ID.IsZero())
		assert.Equal(t, teacherID, c.TeacherID)
		assert.True(t, c.Active)
		assert.Empty(t, c.Students)
		assert.False(t, c.CreatedAt.IsZero())
	})

	t.Run("empty description allowed", func(t *testing.T) {
		_, err := tracker.NewClassroom(teacherID, "Algebra I", "Math", "")
		require.NoError(t, err)
	})

	t.Run("empty name fails", func(t *testing.T) {
		_, err := tracker.NewClassroom(teacherID, "", "Math", "")
		require.Error(t, err)
		assert.True(t, tracker.IsValidation(err))
		assert.Contains(t, err.Error(), "name")
	})

	t.Run("empty subject fails", func(t *testing.T) {
		_, err := tracker.NewClassroom(teacherID, "Algebra I", "", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "subject")
	})

	t.Run("name exceeds max length", func(t *testing.T) {
		long := strings.Repeat("a", tracker.MaxNameLength+1)
		_, err := tracker.NewClassroom(teacherID, long, "Math", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name")
	})

	t.Run("name with control characters fails", func(t *testing.T) {
		_, err := tracker.NewClassroom(teacherID, "Algebra\x00I", "Math", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name")
	})

	t.Run("description exceeds max length", func(t *testing.T) {
		long := strings.Repeat("a", tracker.MaxDescriptionLength+1)
		_, err := tracker.NewClassroom(teacherID, "Algebra I", "Math", long)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "description")
	})

	t.Run("zero teacher fails validation", func(t *testing.T) {
		_, err := tracker.NewClassroom(ulid.ULID{}, "Algebra I", "Math", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "teacher_id")
	})
}

func TestClassroom_OwnedBy(t *testing.T) {
	teacherID := ulid.Make()
	c := &tracker.Classroom{ID: ulid.Make(), TeacherID: teacherID}

	assert.True(t, c.OwnedBy(teacherID))
	assert.False(t, c.OwnedBy(ulid.Make()))
}

func TestClassroom_Enrolled(t *testing.T) {
	studentID := ulid.Make()

	t.Run("enrolled student found", func(t *testing.T) {
		c := &tracker.Classroom{Students: []ulid.ULID{ulid.Make(), studentID}}
		assert.True(t, c.Enrolled(studentID))
	})

	t.Run("unknown student not found", func(t *testing.T) {
		c := &tracker.Classroom{Students: []ulid.ULID{ulid.Make()}}
		assert.False(t, c.Enrolled(studentID))
	})

	t.Run("empty roster", func(t *testing.T) {
		c := &tracker.Classroom{}
		assert.False(t, c.Enrolled(studentID))
	})
}
