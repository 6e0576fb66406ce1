// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/classtrack/classtrack/internal/store"
	"github.com/classtrack/classtrack/internal/tracker"
)

// ClassroomRepository implements tracker.ClassroomRepository using PostgreSQL.
type ClassroomRepository struct {
	db store.DB
}

// NewClassroomRepository creates a new PostgreSQL classroom repository.
func NewClassroomRepository(db store.DB) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

// Get retrieves a classroom with its roster loaded.
func (r *ClassroomRepository) Get(ctx context.Context, id ulid.ULID) (*tracker.Classroom, error) {
	q := queryTarget(ctx, r.db)
	row := q.QueryRow(ctx, `
		SELECT id, teacher_id, name, subject, description, is_active, created_at
		FROM classrooms WHERE id = $1
	`, id.String())
	c, err := scanClassroomRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("CLASSROOM_NOT_FOUND").With("id", id.String()).Wrap(tracker.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("CLASSROOM_GET_FAILED").With("id", id.String()).Wrap(err)
	}

	c.Students, err = r.listMembers(ctx, q, id)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create persists a new classroom.
func (r *ClassroomRepository) Create(ctx context.Context, c *tracker.Classroom) error {
	q := queryTarget(ctx, r.db)
	_, err := q.Exec(ctx, `
		INSERT INTO classrooms (id, teacher_id, name, subject, description, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, c.ID.String(), c.TeacherID.String(), c.Name, c.Subject, c.Description, c.Active, c.CreatedAt)
	if err != nil {
		return oops.Code("CLASSROOM_CREATE_FAILED").With("id", c.ID.String()).Wrap(err)
	}
	return nil
}

// Update modifies the mutable fields of an existing classroom. The owner
// and roster columns are never part of this statement.
func (r *ClassroomRepository) Update(ctx context.Context, c *tracker.Classroom) error {
	q := queryTarget(ctx, r.db)
	result, err := q.Exec(ctx, `
		UPDATE classrooms SET name = $2, subject = $3, description = $4, is_active = $5
		WHERE id = $1
	`, c.ID.String(), c.Name, c.Subject, c.Description, c.Active)
	if err != nil {
		return oops.Code("CLASSROOM_UPDATE_FAILED").With("id", c.ID.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("CLASSROOM_NOT_FOUND").With("id", c.ID.String()).Wrap(tracker.ErrNotFound)
	}
	return nil
}

// Delete removes a classroom. Memberships and progress rows cascade.
func (r *ClassroomRepository) Delete(ctx context.Context, id ulid.ULID) error {
	q := queryTarget(ctx, r.db)
	result, err := q.Exec(ctx, `DELETE FROM classrooms WHERE id = $1`, id.String())
	if err != nil {
		return oops.Code("CLASSROOM_DELETE_FAILED").With("id", id.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("CLASSROOM_NOT_FOUND").With("id", id.String()).Wrap(tracker.ErrNotFound)
	}
	return nil
}

// ListByTeacher returns classrooms owned by the teacher, newest first,
// with rosters loaded.
func (r *ClassroomRepository) ListByTeacher(ctx context.Context, teacherID ulid.ULID) ([]*tracker.Classroom, error) {
	q := queryTarget(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT id, teacher_id, name, subject, description, is_active, created_at
		FROM classrooms WHERE teacher_id = $1
		ORDER BY created_at DESC
	`, teacherID.String())
	if err != nil {
		return nil, oops.Code("CLASSROOM_QUERY_FAILED").With("teacher_id", teacherID.String()).Wrap(err)
	}
	defer rows.Close()

	classrooms, err := scanClassrooms(rows)
	if err != nil {
		return nil, err
	}
	for _, c := range classrooms {
		c.Students, err = r.listMembers(ctx, q, c.ID)
		if err != nil {
			return nil, err
		}
	}
	return classrooms, nil
}

// ListByStudent returns classrooms the student is enrolled in, newest
// first. Rosters are not loaded: the student view never exposes them.
func (r *ClassroomRepository) ListByStudent(ctx context.Context, studentID ulid.ULID) ([]*tracker.Classroom, error) {
	q := queryTarget(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT c.id, c.teacher_id, c.name, c.subject, c.description, c.is_active, c.created_at
		FROM classrooms c
		JOIN classroom_members m ON m.classroom_id = c.id
		WHERE m.student_id = $1
		ORDER BY c.created_at DESC
	`, studentID.String())
	if err != nil {
		return nil, oops.Code("CLASSROOM_QUERY_FAILED").With("student_id", studentID.String()).Wrap(err)
	}
	defer rows.Close()

	return scanClassrooms(rows)
}

// AddStudent enrolls a student. A duplicate enrollment surfaces as
// tracker.ErrConflict; a vanished classroom or student as ErrNotFound.
func (r *ClassroomRepository) AddStudent(ctx context.Context, classroomID, studentID ulid.ULID) error {
	q := queryTarget(ctx, r.db)
	_, err := q.Exec(ctx, `
		INSERT INTO classroom_members (classroom_id, student_id) VALUES ($1, $2)
	`, classroomID.String(), studentID.String())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return oops.Code("ENROLLMENT_DUPLICATE").
					With("classroom_id", classroomID.String()).
					With("student_id", studentID.String()).
					Wrap(tracker.ErrConflict)
			case pgerrcode.ForeignKeyViolation:
				return oops.Code("ENROLLMENT_TARGET_GONE").
					With("classroom_id", classroomID.String()).
					With("student_id", studentID.String()).
					Wrap(tracker.ErrNotFound)
			}
		}
		return oops.Code("ENROLLMENT_CREATE_FAILED").With("classroom_id", classroomID.String()).Wrap(err)
	}
	return nil
}

// RemoveStudent unenrolls a student. Removing an absent student succeeds.
func (r *ClassroomRepository) RemoveStudent(ctx context.Context, classroomID, studentID ulid.ULID) error {
	q := queryTarget(ctx, r.db)
	_, err := q.Exec(ctx, `
		DELETE FROM classroom_members WHERE classroom_id = $1 AND student_id = $2
	`, classroomID.String(), studentID.String())
	if err != nil {
		return oops.Code("ENROLLMENT_DELETE_FAILED").With("classroom_id", classroomID.String()).Wrap(err)
	}
	return nil
}

func (r *ClassroomRepository) listMembers(ctx context.Context, q querier, classroomID ulid.ULID) ([]ulid.ULID, error) {
	rows, err := q.Query(ctx, `
		SELECT student_id FROM classroom_members WHERE classroom_id = $1 ORDER BY added_at
	`, classroomID.String())
	if err != nil {
		return nil, oops.Code("ENROLLMENT_QUERY_FAILED").With("classroom_id", classroomID.String()).Wrap(err)
	}
	defer rows.Close()

	var students []ulid.ULID
	for rows.Next() {
		var idStr string
		if err := rows.Scan(&idStr); err != nil {
			return nil, oops.Code("ENROLLMENT_SCAN_FAILED").Wrap(err)
		}
		id, err := parseULID(idStr, "student_id")
		if err != nil {
			return nil, err
		}
		students = append(students, id)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("ENROLLMENT_ITERATE_FAILED").Wrap(err)
	}
	return students, nil
}

// classroomScanFields holds intermediate scan values for classroom parsing.
type classroomScanFields struct {
	idStr        string
	teacherIDStr string
}

func scanClassroomRow(row pgx.Row) (*tracker.Classroom, error) {
	var c tracker.Classroom
	var f classroomScanFields

	err := row.Scan(&f.idStr, &f.teacherIDStr, &c.Name, &c.Subject, &c.Description, &c.Active, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := parseClassroomFields(&f, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func parseClassroomFields(f *classroomScanFields, c *tracker.Classroom) error {
	var err error
	if c.ID, err = parseULID(f.idStr, "id"); err != nil {
		return err
	}
	if c.TeacherID, err = parseULID(f.teacherIDStr, "teacher_id"); err != nil {
		return err
	}
	return nil
}

func scanClassrooms(rows pgx.Rows) ([]*tracker.Classroom, error) {
	classrooms := make([]*tracker.Classroom, 0)
	for rows.Next() {
		var c tracker.Classroom
		var f classroomScanFields
		if err := rows.Scan(&f.idStr, &f.teacherIDStr, &c.Name, &c.Subject, &c.Description, &c.Active, &c.CreatedAt); err != nil {
			return nil, oops.Code("CLASSROOM_SCAN_FAILED").Wrap(err)
		}
		if err := parseClassroomFields(&f, &c); err != nil {
			return nil, err
		}
		classrooms = append(classrooms, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("CLASSROOM_ITERATE_FAILED").Wrap(err)
	}
	return classrooms, nil
}

// Compile-time interface check.
var _ tracker.ClassroomRepository = (*ClassroomRepository)(nil)
