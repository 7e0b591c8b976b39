package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/jwalitptl/hospital-scheduling/internal/repository"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

// translate maps driver errors onto the repository sentinels.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return fmt.Errorf("%s: %w (%s)", op, repository.ErrConflict, pqErr.Constraint)
		case pqForeignKeyViolation:
			return fmt.Errorf("%s: %w (%s)", op, repository.ErrInvalidReference, pqErr.Constraint)
		case pqCheckViolation:
			return fmt.Errorf("%s: %w (%s)", op, repository.ErrConflict, pqErr.Constraint)
		}
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// affected turns a zero-row UPDATE into ErrNotFound.
func affected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}
	return nil
}
