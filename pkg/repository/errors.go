package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes translated by MapError.
const (
	pgUniqueViolation  = "23505"
	pgCheckViolation   = "23514"
	pgNotNullViolation = "23502"
)

// ErrConstraint indicates a row was rejected by a CHECK or NOT NULL constraint.
var ErrConstraint = errors.New("constraint violated")

// MapError translates database errors to domain errors: sql.ErrNoRows
// becomes notFoundErr, a unique violation becomes duplicateErr, and CHECK
// or NOT NULL violations wrap ErrConstraint with the constraint or column
// name. Other errors are returned unchanged.
func MapError(err error, notFoundErr, duplicateErr error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFoundErr
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return duplicateErr
	case pgCheckViolation:
		return fmt.Errorf("%w: %s", ErrConstraint, pgErr.ConstraintName)
	case pgNotNullViolation:
		return fmt.Errorf("%w: %s is required", ErrConstraint, pgErr.ColumnName)
	}

	return err
}
