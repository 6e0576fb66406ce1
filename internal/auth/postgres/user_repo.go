// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

// Package postgres implements the auth repositories on PostgreSQL.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/classtrack/classtrack/internal/auth"
	"github.com/classtrack/classtrack/internal/store"
	"github.com/classtrack/classtrack/internal/tracker"
)

// UserRepository implements auth.UserRepository using PostgreSQL. It also
// serves as the tracker.UserDirectory for enrollment lookups.
type UserRepository struct {
	db store.DB
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(db store.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create stores a new user. A duplicate email surfaces as ErrEmailTaken.
func (r *UserRepository) Create(ctx context.Context, user *auth.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, user.ID.String(), user.Name, user.Email, user.PasswordHash, string(user.Role), user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("USER_EMAIL_TAKEN").With("email", user.Email).Wrap(auth.ErrEmailTaken)
		}
		return oops.Code("USER_CREATE_FAILED").With("id", user.ID.String()).Wrap(err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id ulid.ULID) (*auth.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, email, password_hash, role, created_at
		FROM users WHERE id = $1
	`, id.String())
	user, err := scanUserRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").With("id", id.String()).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_FAILED").With("id", id.String()).Wrap(err)
	}
	return user, nil
}

// GetByEmail retrieves a user by normalized email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, email, password_hash, role, created_at
		FROM users WHERE email = $1
	`, email)
	user, err := scanUserRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").With("email", email).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_FAILED").With("email", email).Wrap(err)
	}
	return user, nil
}

// FindStudentByEmail resolves a student account by normalized email for
// enrollment. A missing user, or one that is not a student, reports
// tracker.ErrNotFound.
func (r *UserRepository) FindStudentByEmail(ctx context.Context, email string) (ulid.ULID, error) {
	var idStr string
	err := r.db.QueryRow(ctx, `
		SELECT id FROM users WHERE email = $1 AND role = 'student'
	`, auth.NormalizeEmail(email)).Scan(&idStr)
	if errors.Is(err, pgx.ErrNoRows) {
		return ulid.ULID{}, oops.Code("STUDENT_NOT_FOUND").With("email", email).Wrap(tracker.ErrNotFound)
	}
	if err != nil {
		return ulid.ULID{}, oops.Code("USER_GET_FAILED").With("email", email).Wrap(err)
	}
	id, err := ulid.Parse(idStr)
	if err != nil {
		return ulid.ULID{}, oops.Code("USER_PARSE_FAILED").With("id", idStr).Wrap(err)
	}
	return id, nil
}

func scanUserRow(row pgx.Row) (*auth.User, error) {
	var user auth.User
	var idStr, roleStr string

	err := row.Scan(&idStr, &user.Name, &user.Email, &user.PasswordHash, &roleStr, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	user.ID, err = ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("USER_PARSE_FAILED").With("id", idStr).Wrap(err)
	}
	user.Role = tracker.Role(roleStr)
	return &user, nil
}

// Compile-time interface checks.
var (
	_ auth.UserRepository   = (*UserRepository)(nil)
	_ tracker.UserDirectory = (*UserRepository)(nil)
)
