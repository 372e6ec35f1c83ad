package database

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrDuplicateActiveSubmission indicates the partial unique index on
	// active submissions rejected an insert: the candidate already has a
	// non-rejected submission.
	ErrDuplicateActiveSubmission = errors.New("candidate already has an active submission")

	// ErrDuplicateEmail indicates a unique constraint violation on an email column
	ErrDuplicateEmail = errors.New("email already exists")
)

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation, optionally on a specific constraint name.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if pqErr.Code != "23505" {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}
