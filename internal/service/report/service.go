package report

import (
	"context"
	"errors"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/repository"
	"github.com/jwalitptl/hospital-scheduling/internal/service"
	apperrors "github.com/jwalitptl/hospital-scheduling/pkg/errors"
)

const msgDateOrder = "date_from must be less than or equal to date_to."

// TypeLookup resolves procedure types.
type TypeLookup interface {
	Lookup(ctx context.Context, id int64) (*model.ProcedureType, error)
}

type Service struct {
	repos repository.Repositories
	types TypeLookup
}

func NewService(repos repository.Repositories, types TypeLookup) *Service {
	return &Service{repos: repos, types: types}
}

// DepartmentCounts is the per-department variant of the patient-count report.
type DepartmentCounts struct {
	Department model.DepartmentSummary
	Results    []*model.ClinicianPatientCount
	Count      int
}

// scopeToCaller pins a clinician to their own rows. Admins keep the filter.
func scopeToCaller(ctx context.Context, clinicianID **int64) error {
	caller := service.Caller(ctx)
	switch {
	case caller.IsAdmin():
		return nil
	case caller.IsClinician():
		*clinicianID = caller.ClinicianID
		return nil
	}
	return apperrors.Forbidden("")
}

func (s *Service) ClinicianPatientCounts(ctx context.Context, filter model.ClinicianPatientCountFilter) ([]*model.ClinicianPatientCount, int, error) {
	if err := scopeToCaller(ctx, &filter.ClinicianID); err != nil {
		return nil, 0, err
	}
	counts, total, err := s.repos.Reports.ClinicianPatientCounts(ctx, filter)
	if err != nil {
		return nil, 0, service.RepoError(err, "clinician", "")
	}
	return counts, total, nil
}

// DepartmentClinicianPatientCounts reports one department. Clinicians may
// only look at their own department and see only their own row.
func (s *Service) DepartmentClinicianPatientCounts(ctx context.Context, departmentID int64, filter model.ClinicianPatientCountFilter) (*DepartmentCounts, error) {
	dept, err := s.repos.Departments.GetByID(ctx, departmentID)
	if err != nil {
		return nil, service.RepoError(err, "department", "")
	}

	if caller := service.Caller(ctx); caller.IsClinician() {
		own, err := s.repos.Clinicians.GetByID(ctx, *caller.ClinicianID, model.Scope{})
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.Forbidden("")
			}
			return nil, service.RepoError(err, "clinician", "")
		}
		if own.DepartmentID != dept.ID {
			return nil, apperrors.Forbidden("")
		}
	}
	if err := scopeToCaller(ctx, &filter.ClinicianID); err != nil {
		return nil, err
	}

	filter.DepartmentID = &dept.ID
	counts, total, err := s.repos.Reports.ClinicianPatientCounts(ctx, filter)
	if err != nil {
		return nil, service.RepoError(err, "clinician", "")
	}
	return &DepartmentCounts{
		Department: model.DepartmentSummary{ID: dept.ID, Name: dept.Name},
		Results:    counts,
		Count:      total,
	}, nil
}

// ScheduledPatients looks up open procedures of one type within a date range.
func (s *Service) ScheduledPatients(ctx context.Context, filter model.ScheduledPatientsFilter) ([]*model.ScheduledPatient, int, error) {
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return nil, 0, apperrors.FieldError(apperrors.NonFieldErrors, msgDateOrder)
	}
	if _, err := s.types.Lookup(ctx, filter.ProcedureTypeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, 0, &apperrors.AppError{Code: apperrors.ErrNotFound, Message: "Procedure type not found.", Err: err}
		}
		return nil, 0, service.RepoError(err, "procedure type", "")
	}
	if err := scopeToCaller(ctx, &filter.ClinicianID); err != nil {
		return nil, 0, err
	}

	rows, total, err := s.repos.Reports.ScheduledPatients(ctx, filter)
	if err != nil {
		return nil, 0, service.RepoError(err, "procedure", "")
	}
	return rows, total, nil
}
