package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/justsurfingit/jobly/internal/apperror"
	"github.com/justsurfingit/jobly/internal/database"
)

// Executor runs hand-written SQL with $n placeholders. *database.DB and
// *sqlx.DB satisfy it.
type Executor interface {
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

var _ Executor = (*database.DB)(nil)

// exists runs a SELECT EXISTS (...) query.
func exists(ctx context.Context, db Executor, query string, args ...interface{}) (bool, error) {
	var found bool
	if err := db.GetContext(ctx, &found, query, args...); err != nil {
		return false, err
	}
	return found, nil
}

// writeError translates constraint violations raised by an INSERT or UPDATE.
// Anything else is a storage failure and is wrapped as is.
func writeError(op string, err error, conflict, missing *apperror.Error) error {
	switch database.ErrorCode(err) {
	case database.UniqueViolation:
		if conflict != nil {
			return conflict
		}
	case database.ForeignKeyViolation:
		if missing != nil {
			return missing
		}
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
