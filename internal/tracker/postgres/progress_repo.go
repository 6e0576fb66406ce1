// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/classtrack/classtrack/internal/store"
	"github.com/classtrack/classtrack/internal/tracker"
)

// ProgressRepository implements tracker.ProgressRepository using PostgreSQL.
// Completed modules are stored as a JSONB array in document order.
type ProgressRepository struct {
	db store.DB
}

// NewProgressRepository creates a new PostgreSQL progress repository.
func NewProgressRepository(db store.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

const progressColumns = `id, student_id, classroom_id, subject, score,
		completed_modules, total_modules, progress_percentage, last_updated, created_at`

// Get retrieves a progress record by ID.
func (r *ProgressRepository) Get(ctx context.Context, id ulid.ULID) (*tracker.Progress, error) {
	q := queryTarget(ctx, r.db)
	row := q.QueryRow(ctx, `
		SELECT `+progressColumns+`
		FROM progress WHERE id = $1
	`, id.String())
	p, err := scanProgressRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("PROGRESS_NOT_FOUND").With("id", id.String()).Wrap(tracker.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("PROGRESS_GET_FAILED").With("id", id.String()).Wrap(err)
	}
	return p, nil
}

// Create persists a new progress record.
func (r *ProgressRepository) Create(ctx context.Context, p *tracker.Progress) error {
	modulesJSON, err := marshalModules(p.CompletedModules)
	if err != nil {
		return err
	}
	q := queryTarget(ctx, r.db)
	_, err = q.Exec(ctx, `
		INSERT INTO progress (id, student_id, classroom_id, subject, score,
			completed_modules, total_modules, progress_percentage, last_updated, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, p.ID.String(), p.StudentID.String(), p.ClassroomID.String(), p.Subject, p.Score,
		modulesJSON, p.TotalModules, p.ProgressPercentage, p.LastUpdated, p.CreatedAt)
	if err != nil {
		return oops.Code("PROGRESS_CREATE_FAILED").With("id", p.ID.String()).Wrap(err)
	}
	return nil
}

// Update modifies the mutable fields of an existing record. The student
// and classroom columns are never part of this statement.
func (r *ProgressRepository) Update(ctx context.Context, p *tracker.Progress) error {
	modulesJSON, err := marshalModules(p.CompletedModules)
	if err != nil {
		return err
	}
	q := queryTarget(ctx, r.db)
	result, err := q.Exec(ctx, `
		UPDATE progress SET subject = $2, score = $3, completed_modules = $4,
			total_modules = $5, progress_percentage = $6, last_updated = $7
		WHERE id = $1
	`, p.ID.String(), p.Subject, p.Score, modulesJSON, p.TotalModules, p.ProgressPercentage, p.LastUpdated)
	if err != nil {
		return oops.Code("PROGRESS_UPDATE_FAILED").With("id", p.ID.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("PROGRESS_NOT_FOUND").With("id", p.ID.String()).Wrap(tracker.ErrNotFound)
	}
	return nil
}

// Delete removes a progress record by ID.
func (r *ProgressRepository) Delete(ctx context.Context, id ulid.ULID) error {
	q := queryTarget(ctx, r.db)
	result, err := q.Exec(ctx, `DELETE FROM progress WHERE id = $1`, id.String())
	if err != nil {
		return oops.Code("PROGRESS_DELETE_FAILED").With("id", id.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("PROGRESS_NOT_FOUND").With("id", id.String()).Wrap(tracker.ErrNotFound)
	}
	return nil
}

// ListByStudent returns a student's records, most recently updated first.
func (r *ProgressRepository) ListByStudent(ctx context.Context, studentID ulid.ULID) ([]*tracker.Progress, error) {
	q := queryTarget(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT `+progressColumns+`
		FROM progress WHERE student_id = $1
		ORDER BY last_updated DESC
	`, studentID.String())
	if err != nil {
		return nil, oops.Code("PROGRESS_QUERY_FAILED").With("student_id", studentID.String()).Wrap(err)
	}
	defer rows.Close()

	return scanProgressRows(rows)
}

// ListByClassroom returns a classroom's records grouped by student.
func (r *ProgressRepository) ListByClassroom(ctx context.Context, classroomID ulid.ULID) ([]*tracker.Progress, error) {
	q := queryTarget(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT `+progressColumns+`
		FROM progress WHERE classroom_id = $1
		ORDER BY student_id, last_updated DESC
	`, classroomID.String())
	if err != nil {
		return nil, oops.Code("PROGRESS_QUERY_FAILED").With("classroom_id", classroomID.String()).Wrap(err)
	}
	defer rows.Close()

	return scanProgressRows(rows)
}

func marshalModules(modules []tracker.CompletedModule) ([]byte, error) {
	if modules == nil {
		modules = []tracker.CompletedModule{}
	}
	data, err := json.Marshal(modules)
	if err != nil {
		return nil, oops.Code("PROGRESS_MARSHAL_FAILED").Wrap(err)
	}
	return data, nil
}

// progressScanFields holds intermediate scan values for progress parsing.
type progressScanFields struct {
	idStr          string
	studentIDStr   string
	classroomIDStr string
	modulesJSON    []byte
}

func scanProgressRow(row pgx.Row) (*tracker.Progress, error) {
	var p tracker.Progress
	var f progressScanFields

	err := row.Scan(
		&f.idStr, &f.studentIDStr, &f.classroomIDStr, &p.Subject, &p.Score,
		&f.modulesJSON, &p.TotalModules, &p.ProgressPercentage, &p.LastUpdated, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := parseProgressFields(&f, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func parseProgressFields(f *progressScanFields, p *tracker.Progress) error {
	var err error
	if p.ID, err = parseULID(f.idStr, "id"); err != nil {
		return err
	}
	if p.StudentID, err = parseULID(f.studentIDStr, "student_id"); err != nil {
		return err
	}
	if p.ClassroomID, err = parseULID(f.classroomIDStr, "classroom_id"); err != nil {
		return err
	}
	if err := json.Unmarshal(f.modulesJSON, &p.CompletedModules); err != nil {
		return oops.Code("PROGRESS_UNMARSHAL_FAILED").With("id", f.idStr).Wrap(err)
	}
	return nil
}

func scanProgressRows(rows pgx.Rows) ([]*tracker.Progress, error) {
	records := make([]*tracker.Progress, 0)
	for rows.Next() {
		var p tracker.Progress
		var f progressScanFields
		if err := rows.Scan(
			&f.idStr, &f.studentIDStr, &f.classroomIDStr, &p.Subject, &p.Score,
			&f.modulesJSON, &p.TotalModules, &p.ProgressPercentage, &p.LastUpdated, &p.CreatedAt,
		); err != nil {
			return nil, oops.Code("PROGRESS_SCAN_FAILED").Wrap(err)
		}
		if err := parseProgressFields(&f, &p); err != nil {
			return nil, err
		}
		records = append(records, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("PROGRESS_ITERATE_FAILED").Wrap(err)
	}
	return records, nil
}

// Compile-time interface check.
var _ tracker.ProgressRepository = (*ProgressRepository)(nil)
