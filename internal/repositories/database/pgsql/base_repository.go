package pgsql

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BaseRepository provides the shared connection pool for all repositories.
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// uniqueViolationCode is the PostgreSQL error code raised when a unique
// constraint is violated. The storage constraints (active account name,
// idempotency key) are the source of truth for the service-level conflict
// semantics; these violations are translated, never swallowed.
const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a unique constraint violation on
// the named constraint. An empty constraint matches any unique violation.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
