package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-sync/utils"
	"github.com/lib/pq"
)

var (
	ErrRecordNotFound         = errors.New("record not found")
	ErrInvalidParentReference = errors.New("record references a missing parent")
	ErrDuplicateRecord        = errors.New("record already exists")
)

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError // caller-supplied not-found error
	}
	return nil
}

// execCount runs a DELETE and reports how many rows it touched.
func execCount(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) (int64, error) {
	result, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return -1, handlePqError(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return -1, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return n, nil
}

// handlePqError maps Postgres constraint violations to repository errors.
func handlePqError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w (%s)", ErrInvalidParentReference, pqErr.Constraint)
		case "23505": // unique_violation
			return fmt.Errorf("%w (%s)", ErrDuplicateRecord, pqErr.Constraint)
		}
	}
	return err
}

// assignID keeps a persisted id and replaces anything else (blank, temp key).
func assignID(id string, tag utils.IDTag) string {
	if utils.IsValidBtDbID(id, tag) {
		return id
	}
	return utils.NewBtDbID(tag)
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (txErr error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				txErr = fmt.Errorf("%w (rollback also failed: %v)", txErr, rbErr)
			}
		} else if cErr := tx.Commit(); cErr != nil {
			txErr = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()
	return fn(tx)
}

// copyIn bulk-loads rows into table with COPY inside one transaction:
// either all rows are written or none.
func copyIn(ctx context.Context, db *sql.DB, table string, columns []string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}
	return withTx(ctx, db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, pq.CopyIn(table, columns...))
		if err != nil {
			return fmt.Errorf("prepare copy into %s: %w", table, err)
		}
		defer stmt.Close()

		for _, row := range rows {
			if _, err := stmt.ExecContext(ctx, row...); err != nil {
				return fmt.Errorf("copy row into %s: %w", table, handlePqError(err))
			}
		}
		if _, err := stmt.ExecContext(ctx); err != nil {
			return fmt.Errorf("flush copy into %s: %w", table, handlePqError(err))
		}
		return nil
	})
}

// moneyValue writes zero for a blank amount, NUMERIC rejects "".
func moneyValue(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
