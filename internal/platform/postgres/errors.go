package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes we distinguish at the store boundary.
const (
	pgUniqueViolationCode = "23505"
	pgCheckViolationCode  = "23514"
)

// isUniqueViolation checks if the given error is a PostgreSQL unique
// constraint violation, e.g. inserting a card with an existing ID.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode
}

// isConstraintViolation checks for any integrity constraint violation
// (class 23 in the PostgreSQL error code table).
func isConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return len(pgErr.Code) >= 2 && pgErr.Code[:2] == "23"
}
