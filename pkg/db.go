package pkg

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// https://www.postgresql.org/docs/current/errcodes-appendix.html
const foreignKeyViolationCode = "23503"

// IsForeignKeyViolationError checks if the error is a postgres foreign
// key violation, e.g. a snapshot write racing a member deletion.
func IsForeignKeyViolationError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == foreignKeyViolationCode
	}
	return false
}
