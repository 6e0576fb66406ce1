// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Classtrack Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/classtrack/classtrack/internal/store"
)

// Retry policy for transient transaction failures.
const (
	txRetryAttempts = 3
	txRetryBackoff  = 25 * time.Millisecond
)

// Transactor implements tracker.Transactor over a pgx connection. It
// stores the active pgx.Tx in context so repository methods called inside
// fn participate in the same transaction, and retries fn when the commit
// loses a serialization or deadlock race.
type Transactor struct {
	db store.DB
}

// NewTransactor creates a Transactor backed by the given connection.
func NewTransactor(db store.DB) *Transactor {
	return &Transactor{db: db}
}

// InTransaction begins a transaction, stores it in context, and calls fn.
// If fn returns nil the transaction is committed, otherwise rolled back.
// Serialization failures and deadlocks are retried a bounded number of
// times with backoff; fn must therefore be safe to re-run.
func (t *Transactor) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(txRetryAttempts, retry.NewConstant(txRetryBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := t.runOnce(ctx, fn); err != nil {
			if isTransient(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
	return err
}

func (t *Transactor) runOnce(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		return oops.Code("TX_BEGIN_FAILED").Wrap(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	txCtx := context.WithValue(ctx, txKey{}, tx)
	if err := fn(txCtx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return oops.Code("TX_COMMIT_FAILED").Wrap(err)
	}
	return nil
}

// isTransient reports whether the error is a serialization failure or
// deadlock that a fresh transaction may not hit.
func isTransient(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
}
