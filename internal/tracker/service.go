// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

package tracker

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// AccessPolicy is the authorization contract the services consult before
// every read or write. It is an interface so tests can observe or replace
// the decisions; Policy is the production implementation.
type AccessPolicy interface {
	ClassroomListScope(p Principal) (ClassroomScope, error)
	CanCreateClassroom(p Principal) error
	CanManageClassroom(p Principal, c *Classroom) error
	CanListOwnProgress(p Principal) error
	CanManageClassroomProgress(p Principal, c *Classroom) error
	RedactForViewer(p Principal, c *Classroom) *Classroom
}

// ClassroomServiceConfig holds dependencies for ClassroomService.
type ClassroomServiceConfig struct {
	Classrooms ClassroomRepository
	Users      UserDirectory
	Transactor Transactor
	Policy     AccessPolicy
}

// ClassroomService provides policy-checked classroom operations.
type ClassroomService struct {
	classrooms ClassroomRepository
	users      UserDirectory
	tx         Transactor
	policy     AccessPolicy
}

// NewClassroomService creates a ClassroomService with the given configuration.
func NewClassroomService(cfg ClassroomServiceConfig) *ClassroomService {
	return &ClassroomService{
		classrooms: cfg.Classrooms,
		users:      cfg.Users,
		tx:         cfg.Transactor,
		policy:     cfg.Policy,
	}
}

// ListMine returns the classrooms visible to the principal: owned ones for
// teachers, enrolled ones (roster redacted) for students.
func (s *ClassroomService) ListMine(ctx context.Context, p Principal) ([]*Classroom, error) {
	scope, err := s.policy.ClassroomListScope(p)
	if err != nil {
		return nil, err
	}

	var classrooms []*Classroom
	switch {
	case scope.TeacherID != nil:
		classrooms, err = s.classrooms.ListByTeacher(ctx, *scope.TeacherID)
	case scope.StudentID != nil:
		classrooms, err = s.classrooms.ListByStudent(ctx, *scope.StudentID)
	default:
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, oops.Wrapf(err, "list classrooms for %s", p.ID)
	}

	out := make([]*Classroom, 0, len(classrooms))
	for _, c := range classrooms {
		out = append(out, s.policy.RedactForViewer(p, c))
	}
	return out, nil
}

// Create creates a classroom owned by the principal. The owner is always
// the authenticated teacher; caller-supplied owner values are ignored
// because none are accepted here.
func (s *ClassroomService) Create(ctx context.Context, p Principal, name, subject, description string) (*Classroom, error) {
	if err := s.policy.CanCreateClassroom(p); err != nil {
		return nil, err
	}
	c, err := NewClassroom(p.ID, name, subject, description)
	if err != nil {
		return nil, err
	}
	if err := s.classrooms.Create(ctx, c); err != nil {
		return nil, oops.Wrapf(err, "create classroom %s", c.ID)
	}
	return c, nil
}

// Update applies an allow-listed patch to a classroom owned by the
// principal. All policy and validation failures precede the write.
func (s *ClassroomService) Update(ctx context.Context, p Principal, id ulid.ULID, patch ClassroomPatch) (*Classroom, error) {
	c, err := s.classrooms.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanManageClassroom(p, c); err != nil {
		return nil, err
	}
	if err := patch.Apply(c); err != nil {
		return nil, err
	}
	if err := s.classrooms.Update(ctx, c); err != nil {
		return nil, oops.Wrapf(err, "update classroom %s", id)
	}
	return c, nil
}

// Delete removes a classroom owned by the principal.
func (s *ClassroomService) Delete(ctx context.Context, p Principal, id ulid.ULID) error {
	c, err := s.classrooms.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.policy.CanManageClassroom(p, c); err != nil {
		return err
	}
	if err := s.classrooms.Delete(ctx, id); err != nil {
		return oops.Wrapf(err, "delete classroom %s", id)
	}
	return nil
}

// AddStudent enrolls the student identified by email into the classroom.
// The membership write updates both sides of the relationship in one
// transactional unit, so the classroom roster and the student's
// membership set never diverge.
func (s *ClassroomService) AddStudent(ctx context.Context, p Principal, classroomID ulid.ULID, studentEmail string) (*Classroom, error) {
	c, err := s.classrooms.Get(ctx, classroomID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanManageClassroom(p, c); err != nil {
		return nil, err
	}

	studentID, err := s.users.FindStudentByEmail(ctx, studentEmail)
	if err != nil {
		return nil, err
	}
	if c.Enrolled(studentID) {
		return nil, ErrConflict
	}

	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		return s.classrooms.AddStudent(ctx, classroomID, studentID)
	})
	if err != nil {
		return nil, err
	}

	c.Students = append(c.Students, studentID)
	return c, nil
}

// RemoveStudent unenrolls a student from the classroom. Removing a
// student who is not enrolled succeeds and changes nothing.
func (s *ClassroomService) RemoveStudent(ctx context.Context, p Principal, classroomID, studentID ulid.ULID) error {
	c, err := s.classrooms.Get(ctx, classroomID)
	if err != nil {
		return err
	}
	if err := s.policy.CanManageClassroom(p, c); err != nil {
		return err
	}
	return s.tx.InTransaction(ctx, func(ctx context.Context) error {
		return s.classrooms.RemoveStudent(ctx, classroomID, studentID)
	})
}
