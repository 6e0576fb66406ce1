// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

package tracker

import (
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// CompletedModule records one finished module inside a progress record.
type CompletedModule struct {
	Name        string    `json:"name"`
	CompletedAt time.Time `json:"completedAt"`
	Score       float64   `json:"score"`
}

// Progress tracks one student's standing in one classroom. StudentID and
// ClassroomID are set at creation and immutable thereafter; the derived
// ProgressPercentage and LastUpdated are recomputed on every write.
type Progress struct {
	ID                 ulid.ULID
	StudentID          ulid.ULID
	ClassroomID        ulid.ULID
	Subject            string
	Score              float64
	CompletedModules   []CompletedModule
	TotalModules       int
	ProgressPercentage float64
	LastUpdated        time.Time
	CreatedAt          time.Time
}

// NewProgress creates a validated Progress record with derived fields set.
func NewProgress(studentID, classroomID ulid.ULID, subject string, score float64, completed []CompletedModule, totalModules int) (*Progress, error) {
	now := time.Now().UTC()
	p := &Progress{
		ID:               ulid.Make(),
		StudentID:        studentID,
		ClassroomID:      classroomID,
		Subject:          subject,
		Score:            score,
		CompletedModules: completed,
		TotalModules:     totalModules,
		CreatedAt:        now,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.Recompute(now)
	return p, nil
}

// Validate checks required fields and numeric ranges.
func (p *Progress) Validate() error {
	if p.ID.IsZero() {
		return &ValidationError{Field: "id", Message: "cannot be zero"}
	}
	if p.StudentID.IsZero() {
		return &ValidationError{Field: "student_id", Message: "cannot be zero"}
	}
	if p.ClassroomID.IsZero() {
		return &ValidationError{Field: "classroom_id", Message: "cannot be zero"}
	}
	if err := ValidateSubject(p.Subject); err != nil {
		return err
	}
	if err := ValidateScore("score", p.Score); err != nil {
		return err
	}
	if p.TotalModules < 0 {
		return &ValidationError{Field: "total_modules", Message: "cannot be negative"}
	}
	for i, m := range p.CompletedModules {
		if m.Name == "" {
			return &ValidationError{Field: fmt.Sprintf("completed_modules[%d].name", i), Message: "cannot be empty"}
		}
		if len(m.Name) > MaxModuleNameLength {
			return &ValidationError{Field: fmt.Sprintf("completed_modules[%d].name", i), Message: fmt.Sprintf("exceeds maximum length of %d", MaxModuleNameLength)}
		}
		if err := ValidateScore(fmt.Sprintf("completed_modules[%d].score", i), m.Score); err != nil {
			return err
		}
	}
	return nil
}

// Recompute refreshes the derived fields. The percentage is
// 100 * completed / total when total is positive, zero otherwise.
func (p *Progress) Recompute(now time.Time) {
	if p.TotalModules > 0 {
		p.ProgressPercentage = 100 * float64(len(p.CompletedModules)) / float64(p.TotalModules)
	} else {
		p.ProgressPercentage = 0
	}
	p.LastUpdated = now
}
