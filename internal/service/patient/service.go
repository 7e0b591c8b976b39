package patient

import (
	"context"
	"strings"
	"time"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/repository"
	"github.com/jwalitptl/hospital-scheduling/internal/service"
	"github.com/jwalitptl/hospital-scheduling/internal/service/event"
	apperrors "github.com/jwalitptl/hospital-scheduling/pkg/errors"
)

const (
	msgFutureBirth   = "Date of birth cannot be in the future."
	msgBirthRequired = "This field is required."
	msgUserTaken     = "This user is already linked to a patient."
)

type PatientService interface {
	CreatePatient(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error)
	GetPatient(ctx context.Context, id int64, scope model.Scope) (*model.Patient, error)
	UpdatePatient(ctx context.Context, id int64, req *model.UpdatePatientRequest) (*model.Patient, error)
	DeletePatient(ctx context.Context, id int64) error
	ListPatients(ctx context.Context, filter model.PatientFilter) ([]*model.Patient, int, error)
}

type Service struct {
	repos  repository.Repositories
	events event.Emitter
	now    func() time.Time
}

func NewService(repos repository.Repositories, events event.Emitter) *Service {
	return &Service{repos: repos, events: events, now: time.Now}
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	e := strings.ToLower(strings.TrimSpace(*email))
	if e == "" {
		return nil
	}
	return &e
}

// checkBirthDate rejects the zero date an empty "date_of_birth" decodes to,
// and dates after today.
func (s *Service) checkBirthDate(d model.Date) error {
	if d.IsZero() {
		return apperrors.FieldError("date_of_birth", msgBirthRequired)
	}
	if !model.ValidateDateOfBirth(d, s.now()) {
		return apperrors.FieldError("date_of_birth", msgFutureBirth)
	}
	return nil
}

func (s *Service) CreatePatient(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	gender, ok := model.ParseGender(req.Gender)
	if !ok {
		return nil, apperrors.FieldError("gender", "Select a valid choice.")
	}
	if err := s.checkBirthDate(*req.DateOfBirth); err != nil {
		return nil, err
	}

	patient := &model.Patient{
		UserID:      req.UserID,
		Name:        strings.TrimSpace(req.Name),
		Gender:      gender,
		Email:       normalizeEmail(req.Email),
		DateOfBirth: *req.DateOfBirth,
	}
	if err := s.repos.Patients.Create(ctx, patient); err != nil {
		return nil, service.RepoError(err, "patient", msgUserTaken)
	}
	s.events.Emit(ctx, event.PatientCreated, patient.ID, patient)
	return patient, nil
}

// GetPatient hides patients a clinician has no active link to.
func (s *Service) GetPatient(ctx context.Context, id int64, scope model.Scope) (*model.Patient, error) {
	patient, err := s.repos.Patients.GetByID(ctx, id, scope)
	if err != nil {
		return nil, service.RepoError(err, "patient", "")
	}

	caller := service.Caller(ctx)
	if caller.IsClinician() {
		linked, err := s.repos.PatientClinicians.HasActiveLink(ctx, id, *caller.ClinicianID)
		if err != nil {
			return nil, service.RepoError(err, "patient", "")
		}
		if !linked {
			return nil, apperrors.NotFound("patient", nil)
		}
	}
	return patient, nil
}

func (s *Service) UpdatePatient(ctx context.Context, id int64, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.repos.Patients.GetByID(ctx, id, model.Scope{})
	if err != nil {
		return nil, service.RepoError(err, "patient", "")
	}

	if req.UserID != nil || req.ClearUserID {
		patient.UserID = req.UserID
	}
	if req.Name != nil {
		patient.Name = strings.TrimSpace(*req.Name)
	}
	if req.Gender != nil {
		gender, ok := model.ParseGender(*req.Gender)
		if !ok {
			return nil, apperrors.FieldError("gender", "Select a valid choice.")
		}
		patient.Gender = gender
	}
	if req.Email != nil {
		patient.Email = normalizeEmail(req.Email)
	}
	if req.DateOfBirth != nil {
		if err := s.checkBirthDate(*req.DateOfBirth); err != nil {
			return nil, err
		}
		patient.DateOfBirth = *req.DateOfBirth
	}

	if err := s.repos.Patients.Update(ctx, patient); err != nil {
		return nil, service.RepoError(err, "patient", msgUserTaken)
	}
	s.events.Emit(ctx, event.PatientUpdated, patient.ID, patient)
	return patient, nil
}

// DeletePatient marks the patient deleted; links and procedures are kept.
func (s *Service) DeletePatient(ctx context.Context, id int64) error {
	if err := s.repos.Patients.SoftDelete(ctx, id); err != nil {
		return service.RepoError(err, "patient", "")
	}
	s.events.Emit(ctx, event.PatientDeleted, id, nil)
	return nil
}

// ListPatients restricts clinicians to their actively linked patients.
func (s *Service) ListPatients(ctx context.Context, filter model.PatientFilter) ([]*model.Patient, int, error) {
	if caller := service.Caller(ctx); caller.IsClinician() {
		filter.LinkedClinicianID = caller.ClinicianID
	} else if !caller.IsAdmin() {
		return nil, 0, apperrors.Forbidden("")
	}

	patients, total, err := s.repos.Patients.List(ctx, filter)
	if err != nil {
		return nil, 0, service.RepoError(err, "patient", "")
	}
	return patients, total, nil
}
