// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

// Package postgres implements the tracker repositories on PostgreSQL.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// querier abstracts query execution so repository methods run against the
// pool, a pgxmock pool, or an active transaction interchangeably.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// txKey is the context key under which Transactor stores the active
// transaction.
type txKey struct{}

// queryTarget returns the active transaction from ctx if one is present,
// falling back to the given default querier.
func queryTarget(ctx context.Context, fallback querier) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return fallback
}

// parseULID parses a stored ID, wrapping failures with the field name.
func parseULID(s, fieldName string) (ulid.ULID, error) {
	id, err := ulid.Parse(s)
	if err != nil {
		return ulid.ULID{}, oops.With("field", fieldName).With("value", s).Wrap(err)
	}
	return id, nil
}
