package relationship

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/repository"
	"github.com/jwalitptl/hospital-scheduling/internal/service"
	"github.com/jwalitptl/hospital-scheduling/internal/service/event"
	apperrors "github.com/jwalitptl/hospital-scheduling/pkg/errors"
)

const (
	msgDuplicate = "A relationship between this patient and clinician with this start already exists."
	msgEndBefore = "relationship_end must be on or after relationship_start."
)

// Service manages patient-clinician links. Writing a primary link demotes
// the patient's other active primary links in the same transaction.
type Service struct {
	repos  repository.Repositories
	events event.Emitter
	now    func() time.Time
}

func NewService(repos repository.Repositories, events event.Emitter) *Service {
	return &Service{repos: repos, events: events, now: time.Now}
}

func (s *Service) CreateLink(ctx context.Context, req *model.CreatePatientClinicianRequest) (*model.PatientClinician, error) {
	fields := service.Fields{}
	if _, err := s.repos.Patients.GetByID(ctx, req.PatientID, model.Scope{}); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, service.RepoError(err, "patient", "")
		}
		fields.Add("patient_id", service.MsgDoesNotExist)
	}
	if _, err := s.repos.Clinicians.GetByID(ctx, req.ClinicianID, model.Scope{}); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, service.RepoError(err, "clinician", "")
		}
		fields.Add("clinician_id", service.MsgDoesNotExist)
	}
	if req.RelationshipEnd != nil && req.RelationshipEnd.Before(*req.RelationshipStart) {
		fields.Add("relationship_end", msgEndBefore)
	}
	if err := fields.Err(); err != nil {
		return nil, err
	}

	link := &model.PatientClinician{
		PatientID:         req.PatientID,
		ClinicianID:       req.ClinicianID,
		IsPrimary:         req.IsPrimary,
		RelationshipStart: req.RelationshipStart.UTC(),
		Notes:             strings.TrimSpace(req.Notes),
	}
	if req.RelationshipEnd != nil {
		end := req.RelationshipEnd.UTC()
		link.RelationshipEnd = &end
	}

	err := s.repos.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repos.PatientClinicians.Create(ctx, link); err != nil {
			return err
		}
		if link.IsPrimary && link.IsActive() {
			return s.repos.PatientClinicians.DemotePrimary(ctx, link.PatientID, link.ID)
		}
		return nil
	})
	if err != nil {
		return nil, service.RepoError(err, "relationship", msgDuplicate)
	}

	s.events.Emit(ctx, event.RelationshipCreated, link.ID, link)
	return link, nil
}

func (s *Service) GetLink(ctx context.Context, id int64, scope model.Scope) (*model.PatientClinician, error) {
	link, err := s.repos.PatientClinicians.GetByID(ctx, id, scope)
	if err != nil {
		return nil, service.RepoError(err, "relationship", "")
	}
	if caller := service.Caller(ctx); caller.IsClinician() && link.ClinicianID != *caller.ClinicianID {
		return nil, apperrors.NotFound("relationship", nil)
	}
	return link, nil
}

func (s *Service) UpdateLink(ctx context.Context, id int64, req *model.UpdatePatientClinicianRequest) (*model.PatientClinician, error) {
	var link *model.PatientClinician
	err := s.repos.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		link, err = s.repos.PatientClinicians.GetByID(ctx, id, model.Scope{})
		if err != nil {
			return err
		}

		if req.IsPrimary != nil {
			link.IsPrimary = *req.IsPrimary
		}
		if req.Notes != nil {
			link.Notes = strings.TrimSpace(*req.Notes)
		}
		if req.RelationshipEnd != nil {
			if req.RelationshipEnd.Before(link.RelationshipStart) {
				return apperrors.FieldError("relationship_end", msgEndBefore)
			}
			end := req.RelationshipEnd.UTC()
			link.RelationshipEnd = &end
		}

		if err := s.repos.PatientClinicians.Update(ctx, link); err != nil {
			return err
		}
		if link.IsPrimary && link.IsActive() {
			return s.repos.PatientClinicians.DemotePrimary(ctx, link.PatientID, link.ID)
		}
		return nil
	})
	if err != nil {
		return nil, service.RepoError(err, "relationship", msgDuplicate)
	}

	s.events.Emit(ctx, event.RelationshipUpdated, link.ID, link)
	return link, nil
}

// EndLink closes an active link at end, or now when end is nil. The row is kept.
func (s *Service) EndLink(ctx context.Context, id int64, end *time.Time) (*model.PatientClinician, error) {
	link, err := s.repos.PatientClinicians.GetByID(ctx, id, model.Scope{})
	if err != nil {
		return nil, service.RepoError(err, "relationship", "")
	}
	if link.RelationshipEnd != nil {
		return nil, apperrors.FieldError(apperrors.NonFieldErrors, "This relationship has already ended.")
	}

	at := s.now().UTC()
	if end != nil {
		at = end.UTC()
	}
	if at.Before(link.RelationshipStart) {
		return nil, apperrors.FieldError("relationship_end", msgEndBefore)
	}
	link.RelationshipEnd = &at

	if err := s.repos.PatientClinicians.Update(ctx, link); err != nil {
		return nil, service.RepoError(err, "relationship", "")
	}
	s.events.Emit(ctx, event.RelationshipEnded, link.ID, link)
	return link, nil
}

func (s *Service) DeleteLink(ctx context.Context, id int64) error {
	if err := s.repos.PatientClinicians.SoftDelete(ctx, id); err != nil {
		return service.RepoError(err, "relationship", "")
	}
	s.events.Emit(ctx, event.RelationshipDeleted, id, nil)
	return nil
}

// ListLinks shows clinicians only their own links.
func (s *Service) ListLinks(ctx context.Context, filter model.PatientClinicianFilter) ([]*model.PatientClinician, int, error) {
	if caller := service.Caller(ctx); caller.IsClinician() {
		filter.ClinicianID = caller.ClinicianID
	}
	links, total, err := s.repos.PatientClinicians.List(ctx, filter)
	if err != nil {
		return nil, 0, service.RepoError(err, "relationship", "")
	}
	return links, total, nil
}
