// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

package tracker

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Classroom is a class owned by exactly one teacher. The owner never
// changes after creation; membership changes only through the dedicated
// enroll/unenroll operations.
type Classroom struct {
	ID          ulid.ULID
	TeacherID   ulid.ULID
	Name        string
	Subject     string
	Description string
	Students    []ulid.ULID // enrolled student IDs; redacted for student viewers
	Active      bool
	CreatedAt   time.Time
}

// NewClassroom creates a validated Classroom owned by the given teacher.
func NewClassroom(teacherID ulid.ULID, name, subject, description string) (*Classroom, error) {
	c := &Classroom{
		ID:          ulid.Make(),
		TeacherID:   teacherID,
		Name:        name,
		Subject:     subject,
		Description: description,
		Active:      true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that the classroom has required fields within limits.
func (c *Classroom) Validate() error {
	if c.ID.IsZero() {
		return &ValidationError{Field: "id", Message: "cannot be zero"}
	}
	if c.TeacherID.IsZero() {
		return &ValidationError{Field: "teacher_id", Message: "cannot be zero"}
	}
	if err := ValidateName(c.Name); err != nil {
		return err
	}
	if err := ValidateSubject(c.Subject); err != nil {
		return err
	}
	return ValidateDescription(c.Description)
}

// OwnedBy reports whether the classroom belongs to the given teacher.
func (c *Classroom) OwnedBy(teacherID ulid.ULID) bool {
	return c.TeacherID.Compare(teacherID) == 0
}

// Enrolled reports whether the student appears in the classroom's roster.
func (c *Classroom) Enrolled(studentID ulid.ULID) bool {
	for _, id := range c.Students {
		if id.Compare(studentID) == 0 {
			return true
		}
	}
	return false
}
