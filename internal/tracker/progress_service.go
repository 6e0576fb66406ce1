// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

package tracker

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// ProgressServiceConfig holds dependencies for ProgressService.
type ProgressServiceConfig struct {
	Progress   ProgressRepository
	Classrooms ClassroomRepository
	Policy     AccessPolicy
}

// ProgressService provides policy-checked progress operations. Every
// teacher-side operation resolves the record's classroom and checks
// ownership before touching progress state.
type ProgressService struct {
	progress   ProgressRepository
	classrooms ClassroomRepository
	policy     AccessPolicy
}

// NewProgressService creates a ProgressService with the given configuration.
func NewProgressService(cfg ProgressServiceConfig) *ProgressService {
	return &ProgressService{
		progress:   cfg.Progress,
		classrooms: cfg.Classrooms,
		policy:     cfg.Policy,
	}
}

// CreateProgressInput carries the caller-supplied fields for a new record.
type CreateProgressInput struct {
	StudentID        ulid.ULID
	ClassroomID      ulid.ULID
	Subject          string
	Score            float64
	CompletedModules []CompletedModule
	TotalModules     int
}

// ListMine returns the principal's own progress records. The scope is
// forced to the authenticated student; there is no way to widen it.
func (s *ProgressService) ListMine(ctx context.Context, p Principal) ([]*Progress, error) {
	if err := s.policy.CanListOwnProgress(p); err != nil {
		return nil, err
	}
	records, err := s.progress.ListByStudent(ctx, p.ID)
	if err != nil {
		return nil, oops.Wrapf(err, "list progress for student %s", p.ID)
	}
	return records, nil
}

// ListForClassroom returns all progress records in a classroom owned by
// the principal. Enrolled students cannot use this path.
func (s *ProgressService) ListForClassroom(ctx context.Context, p Principal, classroomID ulid.ULID) ([]*Progress, error) {
	c, err := s.classrooms.Get(ctx, classroomID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanManageClassroomProgress(p, c); err != nil {
		return nil, err
	}
	records, err := s.progress.ListByClassroom(ctx, classroomID)
	if err != nil {
		return nil, oops.Wrapf(err, "list progress for classroom %s", classroomID)
	}
	return records, nil
}

// Create records progress for a student enrolled in a classroom owned by
// the principal. A student outside the roster is a validation failure.
func (s *ProgressService) Create(ctx context.Context, p Principal, in CreateProgressInput) (*Progress, error) {
	c, err := s.classrooms.Get(ctx, in.ClassroomID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanManageClassroomProgress(p, c); err != nil {
		return nil, err
	}
	if !c.Enrolled(in.StudentID) {
		return nil, &ValidationError{Field: "student_id", Message: "student is not enrolled in this classroom"}
	}

	record, err := NewProgress(in.StudentID, in.ClassroomID, in.Subject, in.Score, in.CompletedModules, in.TotalModules)
	if err != nil {
		return nil, err
	}
	if err := s.progress.Create(ctx, record); err != nil {
		return nil, oops.Wrapf(err, "create progress %s", record.ID)
	}
	return record, nil
}

// Update applies an allow-listed patch to a progress record whose
// classroom the principal owns. Derived fields are recomputed on every
// write. Concurrent updates to the same record are last-write-wins.
func (s *ProgressService) Update(ctx context.Context, p Principal, id ulid.ULID, patch ProgressPatch) (*Progress, error) {
	record, err := s.progress.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c, err := s.classroomFor(ctx, record)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanManageClassroomProgress(p, c); err != nil {
		return nil, err
	}
	if err := patch.Apply(record, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.progress.Update(ctx, record); err != nil {
		return nil, oops.Wrapf(err, "update progress %s", id)
	}
	return record, nil
}

// Delete removes a progress record whose classroom the principal owns.
func (s *ProgressService) Delete(ctx context.Context, p Principal, id ulid.ULID) error {
	record, err := s.progress.Get(ctx, id)
	if err != nil {
		return err
	}
	c, err := s.classroomFor(ctx, record)
	if err != nil {
		return err
	}
	if err := s.policy.CanManageClassroomProgress(p, c); err != nil {
		return err
	}
	if err := s.progress.Delete(ctx, id); err != nil {
		return oops.Wrapf(err, "delete progress %s", id)
	}
	return nil
}

// classroomFor resolves the classroom a record belongs to. A dangling
// classroom reference denies the operation rather than skipping the
// ownership check.
func (s *ProgressService) classroomFor(ctx context.Context, record *Progress) (*Classroom, error) {
	c, err := s.classrooms.Get(ctx, record.ClassroomID)
	if err != nil {
		return nil, err
	}
	return c, nil
}
