package clinician

import (
	"context"
	"errors"
	"strings"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/repository"
	"github.com/jwalitptl/hospital-scheduling/internal/service"
	"github.com/jwalitptl/hospital-scheduling/internal/service/event"
)

type Service struct {
	repos  repository.Repositories
	events event.Emitter
}

func NewService(repos repository.Repositories, events event.Emitter) *Service {
	return &Service{repos: repos, events: events}
}

func (s *Service) checkRefs(ctx context.Context, userID, departmentID *int64) error {
	fields := service.Fields{}
	if userID != nil {
		if _, err := s.repos.Users.GetByID(ctx, *userID); err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return service.RepoError(err, "user", "")
			}
			fields.Add("user_id", service.MsgDoesNotExist)
		}
	}
	if departmentID != nil {
		if _, err := s.repos.Departments.GetByID(ctx, *departmentID); err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return service.RepoError(err, "department", "")
			}
			fields.Add("department_id", service.MsgDoesNotExist)
		}
	}
	return fields.Err()
}

func (s *Service) CreateClinician(ctx context.Context, req *model.CreateClinicianRequest) (*model.Clinician, error) {
	if err := s.checkRefs(ctx, &req.UserID, &req.DepartmentID); err != nil {
		return nil, err
	}

	clinician := &model.Clinician{
		UserID:       req.UserID,
		DepartmentID: req.DepartmentID,
		Name:         strings.TrimSpace(req.Name),
	}
	if err := s.repos.Clinicians.Create(ctx, clinician); err != nil {
		return nil, service.RepoError(err, "clinician", "This user is already linked to a clinician.")
	}
	s.events.Emit(ctx, event.ClinicianCreated, clinician.ID, clinician)
	return clinician, nil
}

func (s *Service) GetClinician(ctx context.Context, id int64, scope model.Scope) (*model.Clinician, error) {
	clinician, err := s.repos.Clinicians.GetByID(ctx, id, scope)
	if err != nil {
		return nil, service.RepoError(err, "clinician", "")
	}
	return clinician, nil
}

func (s *Service) UpdateClinician(ctx context.Context, id int64, req *model.UpdateClinicianRequest) (*model.Clinician, error) {
	clinician, err := s.repos.Clinicians.GetByID(ctx, id, model.Scope{})
	if err != nil {
		return nil, service.RepoError(err, "clinician", "")
	}
	if err := s.checkRefs(ctx, nil, req.DepartmentID); err != nil {
		return nil, err
	}

	if req.DepartmentID != nil {
		clinician.DepartmentID = *req.DepartmentID
	}
	if req.Name != nil {
		clinician.Name = strings.TrimSpace(*req.Name)
	}

	if err := s.repos.Clinicians.Update(ctx, clinician); err != nil {
		return nil, service.RepoError(err, "clinician", "")
	}
	s.events.Emit(ctx, event.ClinicianUpdated, clinician.ID, clinician)
	return clinician, nil
}

// DeleteClinician marks the clinician deleted. Links and procedures stay.
func (s *Service) DeleteClinician(ctx context.Context, id int64) error {
	if err := s.repos.Clinicians.SoftDelete(ctx, id); err != nil {
		return service.RepoError(err, "clinician", "")
	}
	s.events.Emit(ctx, event.ClinicianDeleted, id, nil)
	return nil
}

func (s *Service) ListClinicians(ctx context.Context, filter model.ClinicianFilter) ([]*model.Clinician, int, error) {
	clinicians, total, err := s.repos.Clinicians.List(ctx, filter)
	if err != nil {
		return nil, 0, service.RepoError(err, "clinician", "")
	}
	return clinicians, total, nil
}
