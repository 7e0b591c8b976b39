package procedure

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/repository"
	"github.com/jwalitptl/hospital-scheduling/internal/service"
	"github.com/jwalitptl/hospital-scheduling/internal/service/event"
	apperrors "github.com/jwalitptl/hospital-scheduling/pkg/errors"
)

const (
	msgInactiveType = "Procedure type is inactive."
	msgPastSchedule = "scheduled_at must be in the future for PLANNED or SCHEDULED procedures."
	msgSelfAssign   = "Clinicians can only assign procedures to themselves."
)

// TypeLookup resolves procedure types, typically through the catalog cache.
type TypeLookup interface {
	Lookup(ctx context.Context, id int64) (*model.ProcedureType, error)
}

type Service struct {
	repos  repository.Repositories
	types  TypeLookup
	events event.Emitter
	now    func() time.Time
}

func NewService(repos repository.Repositories, types TypeLookup, events event.Emitter) *Service {
	return &Service{repos: repos, types: types, events: events, now: time.Now}
}

func invalidChoice(v string) string {
	return fmt.Sprintf("%q is not a valid choice.", v)
}

// exists records a field error for a missing reference and passes other
// failures through.
func exists(fields service.Fields, field string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		fields.Add(field, service.MsgDoesNotExist)
		return nil
	}
	return service.RepoError(err, field, "")
}

func (s *Service) CreateProcedure(ctx context.Context, req *model.CreateProcedureRequest) (*model.Procedure, error) {
	caller := service.Caller(ctx)
	if !caller.IsAdmin() && !caller.IsClinician() {
		return nil, apperrors.Forbidden("")
	}

	fields := service.Fields{}

	pt, err := s.types.Lookup(ctx, req.ProcedureTypeID)
	if err := exists(fields, "procedure_type_id", err); err != nil {
		return nil, err
	}
	if pt != nil && !pt.IsActive {
		fields.Add("procedure_type_id", msgInactiveType)
	}

	_, err = s.repos.Patients.GetByID(ctx, req.PatientID, model.Scope{})
	patientOK := err == nil
	if err := exists(fields, "patient_id", err); err != nil {
		return nil, err
	}
	_, err = s.repos.Clinicians.GetByID(ctx, req.ClinicianID, model.Scope{})
	clinicianOK := err == nil
	if err := exists(fields, "clinician_id", err); err != nil {
		return nil, err
	}

	status := model.ProcedureStatusPlanned
	if req.Status != "" {
		parsed, ok := model.ParseProcedureStatus(req.Status)
		if !ok {
			fields.Add("status", invalidChoice(req.Status))
		}
		status = parsed
	}

	scheduledAt := req.ScheduledAt.UTC()
	if status.IsOpen() && scheduledAt.Before(s.now()) {
		fields.Add("scheduled_at", msgPastSchedule)
	}

	if caller.IsClinician() {
		if req.ClinicianID != *caller.ClinicianID {
			fields.Add("clinician_id", msgSelfAssign)
		}
		if patientOK && clinicianOK {
			linked, err := s.repos.PatientClinicians.HasActiveLink(ctx, req.PatientID, req.ClinicianID)
			if err != nil {
				return nil, service.RepoError(err, "relationship", "")
			}
			if !linked {
				fields.Add("patient_id", service.MsgPatientAccess)
			}
		}
	}

	if err := fields.Err(); err != nil {
		return nil, err
	}

	p := &model.Procedure{
		ProcedureTypeID: req.ProcedureTypeID,
		PatientID:       req.PatientID,
		ClinicianID:     req.ClinicianID,
		Name:            strings.TrimSpace(req.Name),
		ScheduledAt:     scheduledAt,
		DurationMinutes: req.DurationMinutes,
		Status:          status,
		Notes:           req.Notes,
	}
	model.ResolveProcedureDefaults(p, pt)

	var created *model.Procedure
	err = s.repos.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repos.Procedures.Create(ctx, p); err != nil {
			return err
		}
		var err error
		created, err = s.repos.Procedures.GetByID(ctx, p.ID, model.Scope{})
		return err
	})
	if err != nil {
		return nil, service.RepoError(err, "procedure", "")
	}

	s.events.Emit(ctx, event.ProcedureCreated, created.ID, created)
	return created, nil
}

// GetProcedure hides other clinicians' procedures from a clinician.
func (s *Service) GetProcedure(ctx context.Context, id int64, scope model.Scope) (*model.Procedure, error) {
	p, err := s.repos.Procedures.GetByID(ctx, id, scope)
	if err != nil {
		return nil, service.RepoError(err, "procedure", "")
	}
	caller := service.Caller(ctx)
	switch {
	case caller.IsAdmin():
	case caller.IsClinician() && p.ClinicianID == *caller.ClinicianID:
	default:
		return nil, apperrors.NotFound("procedure", nil)
	}
	return p, nil
}

// UpdateProcedure applies a partial update. Any status may follow any other.
func (s *Service) UpdateProcedure(ctx context.Context, id int64, req *model.UpdateProcedureRequest) (*model.Procedure, error) {
	p, err := s.GetProcedure(ctx, id, model.Scope{})
	if err != nil {
		return nil, err
	}

	fields := service.Fields{}
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.ScheduledAt != nil {
		p.ScheduledAt = req.ScheduledAt.UTC()
	}
	if req.DurationMinutes != nil {
		p.DurationMinutes = req.DurationMinutes
	}
	if req.Notes != nil {
		p.Notes = *req.Notes
	}
	if req.Status != nil {
		status, ok := model.ParseProcedureStatus(*req.Status)
		if !ok {
			fields.Add("status", invalidChoice(*req.Status))
		} else {
			p.Status = status
		}
	}
	if (req.Status != nil || req.ScheduledAt != nil) && p.Status.IsOpen() && p.ScheduledAt.Before(s.now()) {
		fields.Add("scheduled_at", msgPastSchedule)
	}
	if err := fields.Err(); err != nil {
		return nil, err
	}

	if p.Name == "" {
		pt, err := s.types.Lookup(ctx, p.ProcedureTypeID)
		if err != nil {
			return nil, service.RepoError(err, "procedure type", "")
		}
		p.Name = pt.Name
	}

	if err := s.repos.Procedures.Update(ctx, p); err != nil {
		return nil, service.RepoError(err, "procedure", "")
	}
	s.events.Emit(ctx, event.ProcedureUpdated, p.ID, p)
	return p, nil
}

func (s *Service) DeleteProcedure(ctx context.Context, id int64) error {
	if _, err := s.GetProcedure(ctx, id, model.Scope{}); err != nil {
		return err
	}
	if err := s.repos.Procedures.SoftDelete(ctx, id); err != nil {
		return service.RepoError(err, "procedure", "")
	}
	s.events.Emit(ctx, event.ProcedureDeleted, id, nil)
	return nil
}

// ListProcedures shows clinicians only their own procedures.
func (s *Service) ListProcedures(ctx context.Context, filter model.ProcedureFilter) ([]*model.Procedure, int, error) {
	caller := service.Caller(ctx)
	switch {
	case caller.IsClinician():
		filter.ClinicianID = caller.ClinicianID
	case !caller.IsAdmin():
		return nil, 0, apperrors.Forbidden("")
	}

	procedures, total, err := s.repos.Procedures.List(ctx, filter)
	if err != nil {
		return nil, 0, service.RepoError(err, "procedure", "")
	}
	return procedures, total, nil
}
