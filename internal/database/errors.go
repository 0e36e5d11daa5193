package database

import (
	"errors"
	"math"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// MaxSerialID is the largest key a SERIAL column can hold.
const MaxSerialID = math.MaxInt32

// SerialInRange reports whether id can match a SERIAL key. Larger values fail
// parameter encoding before reaching the server, so callers treat them as absent.
func SerialInRange(id int64) bool {
	return id > 0 && id <= MaxSerialID
}

// IsUniqueViolation reports whether err is a Postgres unique constraint violation.
func IsUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// IsForeignKeyViolation reports whether err is a Postgres foreign key violation.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, codeForeignKeyViolation)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}
