// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

package tracker

import "time"

// ClassroomPatch is the allow-listed set of classroom fields mutable
// through update. TeacherID and the roster are deliberately absent:
// ownership never changes, and membership goes through enroll/unenroll.
// Nil fields are left unchanged.
type ClassroomPatch struct {
	Name        *string `json:"name"`
	Subject     *string `json:"subject"`
	Description *string `json:"description"`
	Active      *bool   `json:"isActive"`
}

// IsZero reports whether the patch changes nothing.
func (p ClassroomPatch) IsZero() bool {
	return p.Name == nil && p.Subject == nil && p.Description == nil && p.Active == nil
}

// Apply validates and applies the patch to the classroom in place.
func (p ClassroomPatch) Apply(c *Classroom) error {
	if p.Name != nil {
		if err := ValidateName(*p.Name); err != nil {
			return err
		}
		c.Name = *p.Name
	}
	if p.Subject != nil {
		if err := ValidateSubject(*p.Subject); err != nil {
			return err
		}
		c.Subject = *p.Subject
	}
	if p.Description != nil {
		if err := ValidateDescription(*p.Description); err != nil {
			return err
		}
		c.Description = *p.Description
	}
	if p.Active != nil {
		c.Active = *p.Active
	}
	return nil
}

// ProgressPatch is the allow-listed set of progress fields mutable through
// update. StudentID and ClassroomID are deliberately absent: a progress
// record never moves between students or classrooms. Nil fields are left
// unchanged.
type ProgressPatch struct {
	Subject          *string            `json:"subject"`
	Score            *float64           `json:"score"`
	CompletedModules *[]CompletedModule `json:"completedModules"`
	TotalModules     *int               `json:"totalModules"`
}

// IsZero reports whether the patch changes nothing.
func (p ProgressPatch) IsZero() bool {
	return p.Subject == nil && p.Score == nil && p.CompletedModules == nil && p.TotalModules == nil
}

// Apply validates and applies the patch, then recomputes derived fields.
func (p ProgressPatch) Apply(pr *Progress, now time.Time) error {
	next := *pr
	if p.Subject != nil {
		next.Subject = *p.Subject
	}
	if p.Score != nil {
		next.Score = *p.Score
	}
	if p.CompletedModules != nil {
		next.CompletedModules = *p.CompletedModules
	}
	if p.TotalModules != nil {
		next.TotalModules = *p.TotalModules
	}
	if err := next.Validate(); err != nil {
		return err
	}
	next.Recompute(now)
	*pr = next
	return nil
}
