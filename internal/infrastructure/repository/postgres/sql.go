package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

const pqUndefinedTable = "42P01"

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isUndefinedTable reports a missing relation, which happens when the
// migrations have not been applied yet.
func isUndefinedTable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUndefinedTable
	}
	return false
}
