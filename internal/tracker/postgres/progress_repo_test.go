// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

package postgres_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/classtrack/internal/tracker"
	"github.com/classtrack/classtrack/internal/tracker/postgres"
)

var progressCols = []string{
	"id", "student_id", "classroom_id", "subject", "score",
	"completed_modules", "total_modules", "progress_percentage", "last_updated", "created_at",
}

func testProgress(t *testing.T) *tracker.Progress {
	t.Helper()
	modules := []tracker.CompletedModule{
		{Name: "Fractions", CompletedAt: time.Now().UTC().Truncate(time.Second), Score: 92},
	}
	p, err := tracker.NewProgress(ulid.Make(), ulid.Make(), "Math", 85, modules, 4)
	require.NoError(t, err)
	return p
}

func progressRow(t *testing.T, p *tracker.Progress) *pgxmock.Rows {
	t.Helper()
	modulesJSON, err := json.Marshal(p.CompletedModules)
	require.NoError(t, err)
	return pgxmock.NewRows(progressCols).AddRow(
		p.ID.String(), p.StudentID.String(), p.ClassroomID.String(), p.Subject, p.Score,
		modulesJSON, p.TotalModules, p.ProgressPercentage, p.LastUpdated, p.CreatedAt,
	)
}

func TestProgressRepository_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("found with modules decoded", func(t *testing.T) {
		mock := newMockPool(t)
		record := testProgress(t)
		mock.ExpectQuery(`FROM progress WHERE id = \$1`).
			WithArgs(record.ID.String()).
			WillReturnRows(progressRow(t, record))

		repo := postgres.NewProgressRepository(mock)
		got, err := repo.Get(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, record.ID, got.ID)
		require.Len(t, got.CompletedModules, 1)
		assert.Equal(t, "Fractions", got.CompletedModules[0].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing record is not found", func(t *testing.T) {
		mock := newMockPool(t)
		id := ulid.Make()
		mock.ExpectQuery(`FROM progress WHERE id = \$1`).
			WithArgs(id.String()).
			WillReturnRows(pgxmock.NewRows(progressCols))

		repo := postgres.NewProgressRepository(mock)
		_, err := repo.Get(ctx, id)
		assert.ErrorIs(t, err, tracker.ErrNotFound)
	})
}

func TestProgressRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("successful insert", func(t *testing.T) {
		mock := newMockPool(t)
		record := testProgress(t)
		modulesJSON, err := json.Marshal(record.CompletedModules)
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO progress`).
			WithArgs(record.ID.String(), record.StudentID.String(), record.ClassroomID.String(),
				record.Subject, record.Score, modulesJSON, record.TotalModules,
				record.ProgressPercentage, record.LastUpdated, record.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := postgres.NewProgressRepository(mock)
		require.NoError(t, repo.Create(ctx, record))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nil modules stored as empty array", func(t *testing.T) {
		mock := newMockPool(t)
		record := testProgress(t)
		record.CompletedModules = nil

		mock.ExpectExec(`INSERT INTO progress`).
			WithArgs(record.ID.String(), record.StudentID.String(), record.ClassroomID.String(),
				record.Subject, record.Score, []byte("[]"), record.TotalModules,
				record.ProgressPercentage, record.LastUpdated, record.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := postgres.NewProgressRepository(mock)
		require.NoError(t, repo.Create(ctx, record))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProgressRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("zero rows is not found", func(t *testing.T) {
		mock := newMockPool(t)
		record := testProgress(t)
		modulesJSON, err := json.Marshal(record.CompletedModules)
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE progress SET`).
			WithArgs(record.ID.String(), record.Subject, record.Score, modulesJSON,
				record.TotalModules, record.ProgressPercentage, record.LastUpdated).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		repo := postgres.NewProgressRepository(mock)
		assert.ErrorIs(t, repo.Update(ctx, record), tracker.ErrNotFound)
	})
}

func TestProgressRepository_ListByStudent(t *testing.T) {
	ctx := context.Background()
	studentID := ulid.Make()

	t.Run("returns records", func(t *testing.T) {
		mock := newMockPool(t)
		record := testProgress(t)
		record.StudentID = studentID
		mock.ExpectQuery(`FROM progress WHERE student_id = \$1`).
			WithArgs(studentID.String()).
			WillReturnRows(progressRow(t, record))

		repo := postgres.NewProgressRepository(mock)
		got, err := repo.ListByStudent(ctx, studentID)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, studentID, got[0].StudentID)
	})

	t.Run("empty result", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`FROM progress WHERE student_id = \$1`).
			WithArgs(studentID.String()).
			WillReturnRows(pgxmock.NewRows(progressCols))

		repo := postgres.NewProgressRepository(mock)
		got, err := repo.ListByStudent(ctx, studentID)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestProgressRepository_ListByClassroom(t *testing.T) {
	ctx := context.Background()
	classroomID := ulid.Make()

	t.Run("returns classroom records", func(t *testing.T) {
		mock := newMockPool(t)
		record := testProgress(t)
		record.ClassroomID = classroomID
		mock.ExpectQuery(`FROM progress WHERE classroom_id = \$1`).
			WithArgs(classroomID.String()).
			WillReturnRows(progressRow(t, record))

		repo := postgres.NewProgressRepository(mock)
		got, err := repo.ListByClassroom(ctx, classroomID)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, classroomID, got[0].ClassroomID)
	})
}
