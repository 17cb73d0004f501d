package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"parcel-dispatch/internal/apperr"
)

// IsDuplicate - signals that the error is a duplicate key violation.
func IsDuplicate(err error) bool {
	return hasCode(err, "23505")
}

// IsNotFound - signals that the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsRetryable - signals a serialization failure or a deadlock.
func IsRetryable(err error) bool {
	return hasCode(err, "40001") || hasCode(err, "40P01")
}

func hasCode(err error, code string) bool {
	var pgerr *pgconn.PgError
	return errors.As(err, &pgerr) && pgerr.Code == code
}

// wrap annotates err with op and maps lost races onto apperr.ErrConflict.
func wrap(op string, err error) error {
	if IsDuplicate(err) || IsRetryable(err) {
		return fmt.Errorf("%s: %w", op, apperr.New(apperr.ErrConflict, "concurrent update"))
	}
	return fmt.Errorf("%s: %w", op, err)
}
