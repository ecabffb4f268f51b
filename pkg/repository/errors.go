package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres unique_violation.
const uniqueViolation = "23505"

// MapError translates the two driver failures the case record store reacts
// to: sql.ErrNoRows becomes notFound and a unique-key violation becomes
// duplicate. Anything else is returned unchanged for the caller to wrap.
func MapError(err error, notFound, duplicate error) error {
	var pgErr *pgconn.PgError

	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return notFound
	case errors.As(err, &pgErr) && pgErr.Code == uniqueViolation:
		return duplicate
	default:
		return err
	}
}
