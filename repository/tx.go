package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Layouts used for DATE and DATETIME columns stored as text.
const (
	DateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
)

func now() string { return time.Now().UTC().Format(timestampLayout) }

// Today returns the current UTC date in DateLayout.
func Today() string { return time.Now().UTC().Format(DateLayout) }

// WithTx runs fn inside a transaction, committing on success and rolling back on
// error or panic. Repositories built on tx inside fn share the transaction.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// rowsAffectedOrNotFound turns a zero-row update into sql.ErrNoRows.
func rowsAffectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
