package records

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrTableNotAllowed  = errors.New("table not allowed")
	ErrColumnNotAllowed = errors.New("column not allowed")
	ErrNotFound         = errors.New("record not found")
	ErrRowInUse         = errors.New("record is referenced by other records and cannot be deleted")
	ErrEmptyPayload     = errors.New("no fields to write")
)

const pgForeignKeyViolation = "23503"

// IsForeignKeyViolation reports whether err is a referential-integrity error
// from the database. Postgres is detected by SQLSTATE; the sqlite fallback
// keeps the mapping working under the in-memory test driver.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint")
}
