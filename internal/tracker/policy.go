// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

package tracker

import "github.com/oklog/ulid/v2"

// ClassroomScope is the visibility filter a collection read must apply.
// Exactly one field is set for a valid principal.
type ClassroomScope struct {
	// TeacherID restricts to classrooms owned by this teacher.
	TeacherID *ulid.ULID
	// StudentID restricts to classrooms this student is enrolled in.
	// Results visible through this scope must have their roster redacted.
	StudentID *ulid.ULID
}

// Policy decides whether a principal may perform an operation on a
// classroom or progress record, and computes visibility scopes for
// collection reads. All checks fail closed: a zero principal, an unknown
// role, or a missing resource denies.
//
// Existence is reported before ownership: a missing resource is
// ErrNotFound on every path, and an existing resource owned by someone
// else is ErrForbidden. The two are never conflated.
type Policy struct{}

// NewPolicy creates the ownership policy.
func NewPolicy() *Policy {
	return &Policy{}
}

// ClassroomListScope returns the visibility filter for listing classrooms.
// Teachers see classrooms they own; students see classrooms they are
// enrolled in, with the roster hidden.
func (Policy) ClassroomListScope(p Principal) (ClassroomScope, error) {
	if p.IsZero() || !p.Role.Valid() {
		return ClassroomScope{}, ErrForbidden
	}
	id := p.ID
	if p.Role == RoleTeacher {
		return ClassroomScope{TeacherID: &id}, nil
	}
	return ClassroomScope{StudentID: &id}, nil
}

// CanCreateClassroom allows classroom creation for teachers only. The
// created classroom's owner is forced to the principal regardless of any
// caller-supplied value; that forcing happens in the service.
func (Policy) CanCreateClassroom(p Principal) error {
	if p.IsZero() || p.Role != RoleTeacher {
		return ErrForbidden
	}
	return nil
}

// CanManageClassroom allows update, delete, enroll, and unenroll on a
// classroom for its owning teacher only.
func (Policy) CanManageClassroom(p Principal, c *Classroom) error {
	if c == nil {
		return ErrNotFound
	}
	if p.IsZero() || p.Role != RoleTeacher || !c.OwnedBy(p.ID) {
		return ErrForbidden
	}
	return nil
}

// CanListOwnProgress allows the self-scoped progress listing for students
// only. The scope is always forced to the principal's own records; a
// student can never read another student's progress through any path.
func (Policy) CanListOwnProgress(p Principal) error {
	if p.IsZero() || p.Role != RoleStudent {
		return ErrForbidden
	}
	return nil
}

// CanManageClassroomProgress allows reading and writing progress records
// in a classroom for its owning teacher only. This covers the classroom
// progress listing and progress create/update/delete, which all resolve
// the record's classroom first.
func (Policy) CanManageClassroomProgress(p Principal, c *Classroom) error {
	if c == nil {
		return ErrNotFound
	}
	if p.IsZero() || p.Role != RoleTeacher || !c.OwnedBy(p.ID) {
		return ErrForbidden
	}
	return nil
}

// RedactForViewer returns the classroom as the principal is allowed to
// see it. Students must not enumerate classmates, so the roster is
// stripped from their view; owners see everything.
func (Policy) RedactForViewer(p Principal, c *Classroom) *Classroom {
	if c == nil {
		return nil
	}
	if p.Role == RoleTeacher && c.OwnedBy(p.ID) {
		return c
	}
	redacted := *c
	redacted.Students = nil
	return &redacted
}
