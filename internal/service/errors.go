// Package service holds helpers shared by the domain services below it.
package service

import (
	"context"
	"errors"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/repository"
	apperrors "github.com/jwalitptl/hospital-scheduling/pkg/errors"
)

const (
	MsgDoesNotExist  = "Object does not exist."
	MsgPatientAccess = "You do not have access to this patient."
)

// RepoError maps repository sentinels onto API errors. conflict is the
// message used when a uniqueness rule is hit.
func RepoError(err error, resource, conflict string) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NotFound(resource, err)
	case errors.Is(err, repository.ErrConflict):
		if conflict == "" {
			conflict = resource + " already exists"
		}
		return apperrors.Conflict(conflict, err)
	case errors.Is(err, repository.ErrInvalidReference):
		e := apperrors.FieldError(apperrors.NonFieldErrors, "Referenced object does not exist.")
		e.Err = err
		return e
	}
	return apperrors.Internal(err)
}

// Caller returns the principal attached to ctx. Requests without one act
// with admin rights, which is how the seeder and disabled auth behave.
func Caller(ctx context.Context) *model.Principal {
	if p := model.PrincipalFromContext(ctx); p != nil {
		return p
	}
	return model.SystemPrincipal
}

// ReadScope honours include_deleted for admins only.
func ReadScope(ctx context.Context, includeDeleted bool) model.Scope {
	return model.Scope{IncludeDeleted: includeDeleted && Caller(ctx).IsAdmin()}
}

// Fields accumulates field-level validation messages.
type Fields map[string][]string

func (f Fields) Add(field, msg string) {
	f[field] = append(f[field], msg)
}

// Err returns nil when no message was added.
func (f Fields) Err() error {
	if len(f) == 0 {
		return nil
	}
	return apperrors.Validation(f)
}
