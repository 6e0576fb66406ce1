// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

package tracker

import (
	"context"

	"github.com/oklog/ulid/v2"
)

// ClassroomRepository manages classroom persistence. Implementations map
// storage-level "no rows" onto ErrNotFound and duplicate enrollment onto
// ErrConflict.
type ClassroomRepository interface {
	// Get retrieves a classroom with its roster loaded.
	Get(ctx context.Context, id ulid.ULID) (*Classroom, error)

	// Create persists a new classroom.
	Create(ctx context.Context, c *Classroom) error

	// Update modifies the mutable fields of an existing classroom.
	// The owner and roster are not touched.
	Update(ctx context.Context, c *Classroom) error

	// Delete removes a classroom and its memberships.
	Delete(ctx context.Context, id ulid.ULID) error

	// ListByTeacher returns classrooms owned by the teacher, newest first.
	ListByTeacher(ctx context.Context, teacherID ulid.ULID) ([]*Classroom, error)

	// ListByStudent returns classrooms the student is enrolled in, newest first.
	ListByStudent(ctx context.Context, studentID ulid.ULID) ([]*Classroom, error)

	// AddStudent enrolls a student. Returns ErrConflict if already enrolled.
	AddStudent(ctx context.Context, classroomID, studentID ulid.ULID) error

	// RemoveStudent unenrolls a student. Absence is not an error.
	RemoveStudent(ctx context.Context, classroomID, studentID ulid.ULID) error
}

// ProgressRepository manages progress persistence.
type ProgressRepository interface {
	// Get retrieves a progress record by ID.
	Get(ctx context.Context, id ulid.ULID) (*Progress, error)

	// Create persists a new progress record.
	Create(ctx context.Context, p *Progress) error

	// Update modifies the mutable fields of an existing record.
	// StudentID and ClassroomID are not touched.
	Update(ctx context.Context, p *Progress) error

	// Delete removes a progress record by ID.
	Delete(ctx context.Context, id ulid.ULID) error

	// ListByStudent returns a student's records, most recently updated first.
	ListByStudent(ctx context.Context, studentID ulid.ULID) ([]*Progress, error)

	// ListByClassroom returns a classroom's records grouped by student.
	ListByClassroom(ctx context.Context, classroomID ulid.ULID) ([]*Progress, error)
}

// UserDirectory is the slice of the user store the tracker needs. It is
// declared here, not in the auth package, to keep tracker free of auth
// internals (mirroring how the services only see repository interfaces).
type UserDirectory interface {
	// FindStudentByEmail resolves a student account by normalized email.
	// Returns ErrNotFound if no user with that email has the student role.
	FindStudentByEmail(ctx context.Context, email string) (ulid.ULID, error)
}

// Transactor runs a function inside a storage transaction. Repository
// methods called with the returned context participate in it.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
