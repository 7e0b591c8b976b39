package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/repository"
	"github.com/jwalitptl/hospital-scheduling/pkg/security"
)

type userFixture struct {
	email, password string
	admin           bool
}

var users = []userFixture{
	{"admin@hospital.com", "admin123", true},
	{"dr.smith@hospital.com", "clinician123", false},
	{"dr.jones@hospital.com", "clinician123", false},
	{"dr.williams@hospital.com", "clinician123", false},
	{"patient1@example.com", "patient123", false},
	{"patient2@example.com", "patient123", false},
}

var departments = []struct{ name, description string }{
	{"Cardiology", "Heart and cardiovascular diseases"},
	{"Radiology", "Medical imaging and diagnostics"},
	{"Neurology", "Brain and nervous system"},
	{"Orthopedics", "Bone and joint care"},
}

var clinicians = []struct{ email, name, department string }{
	{"dr.smith@hospital.com", "Dr. James Smith", "Cardiology"},
	{"dr.jones@hospital.com", "Dr. Sarah Jones", "Radiology"},
	{"dr.williams@hospital.com", "Dr. Robert Williams", "Neurology"},
}

var patients = []struct {
	name   string
	gender model.Gender
	email  string
	dob    model.Date
}{
	{"John Brown", model.GenderMale, "john.brown@example.com", model.NewDate(1975, 5, 15)},
	{"Emma Davis", model.GenderFemale, "emma.davis@example.com", model.NewDate(1982, 8, 22)},
	{"Michael Wilson", model.GenderMale, "michael.wilson@example.com", model.NewDate(1968, 3, 10)},
	{"Lisa Anderson", model.GenderFemale, "lisa.anderson@example.com", model.NewDate(1990, 11, 5)},
	{"James Taylor", model.GenderMale, "james.taylor@example.com", model.NewDate(1958, 6, 30)},
}

// links pair a patient email with a clinician user email; all are primary.
var links = []struct{ patient, clinician string }{
	{"john.brown@example.com", "dr.smith@hospital.com"},
	{"emma.davis@example.com", "dr.jones@hospital.com"},
	{"michael.wilson@example.com", "dr.williams@hospital.com"},
	{"lisa.anderson@example.com", "dr.smith@hospital.com"},
	{"james.taylor@example.com", "dr.jones@hospital.com"},
}

var procedureTypes = []struct {
	code, name string
	minutes    int
	department string
}{
	{"ECG", "Echocardiogram", 45, "Cardiology"},
	{"CATH", "Coronary Angiography", 90, "Cardiology"},
	{"MRI_BRAIN", "MRI Brain", 60, "Radiology"},
	{"XRAY_CHEST", "X-Ray Chest", 15, "Radiology"},
	{"CT_HEAD", "CT Head", 30, "Radiology"},
	{"EEG", "EEG", 60, "Neurology"},
	{"MRI_SPINE", "MRI Spine", 75, "Neurology"},
	{"XRAY_KNEE", "X-Ray Knee", 20, "Orthopedics"},
}

var procedures = []struct {
	patient, clinician, code string
	inDays                   int
	status                   model.ProcedureStatus
}{
	{"john.brown@example.com", "dr.smith@hospital.com", "ECG", 1, model.ProcedureStatusPlanned},
	{"emma.davis@example.com", "dr.jones@hospital.com", "MRI_BRAIN", 2, model.ProcedureStatusScheduled},
	{"michael.wilson@example.com", "dr.williams@hospital.com", "EEG", 3, model.ProcedureStatusPlanned},
	{"lisa.anderson@example.com", "dr.smith@hospital.com", "CATH", 4, model.ProcedureStatusScheduled},
	{"james.taylor@example.com", "dr.jones@hospital.com", "CT_HEAD", 5, model.ProcedureStatusPlanned},
}

// Result counts the rows each run created.
type Result struct {
	Users          int
	Departments    int
	Clinicians     int
	Patients       int
	Links          int
	ProcedureTypes int
	Procedures     int
}

// Seeder loads the sample data set. Every step is get-or-create, so a
// second run creates nothing.
type Seeder struct {
	repos  repository.Repositories
	hasher security.PasswordHasher
	logger zerolog.Logger
	now    func() time.Time
}

func NewSeeder(repos repository.Repositories, hasher security.PasswordHasher, logger zerolog.Logger) *Seeder {
	return &Seeder{repos: repos, hasher: hasher, logger: logger, now: time.Now}
}

func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	res := &Result{}
	err := s.repos.Tx.WithinTx(ctx, func(ctx context.Context) error {
		steps := []struct {
			name string
			fn   func(context.Context, *Result) error
		}{
			{"users", s.seedUsers},
			{"departments", s.seedDepartments},
			{"clinicians", s.seedClinicians},
			{"patients", s.seedPatients},
			{"patient clinician links", s.seedLinks},
			{"procedure types", s.seedProcedureTypes},
			{"procedures", s.seedProcedures},
		}
		for _, step := range steps {
			if err := step.fn(ctx, res); err != nil {
				return fmt.Errorf("seed %s: %w", step.name, err)
			}
			s.logger.Info().Str("step", step.name).Msg("seeded")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func missing(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

func (s *Seeder) seedUsers(ctx context.Context, res *Result) error {
	for _, f := range users {
		_, err := s.repos.Users.GetByEmail(ctx, f.email)
		if err == nil {
			continue
		}
		if !missing(err) {
			return err
		}
		hash, err := s.hasher.Hash(f.password)
		if err != nil {
			return err
		}
		u := &model.User{Email: f.email, PasswordHash: hash, IsAdmin: f.admin, IsActive: true}
		if err := s.repos.Users.Create(ctx, u); err != nil {
			return err
		}
		res.Users++
	}
	return nil
}

func (s *Seeder) seedDepartments(ctx context.Context, res *Result) error {
	for _, f := range departments {
		_, err := s.repos.Departments.GetByName(ctx, f.name)
		if err == nil {
			continue
		}
		if !missing(err) {
			return err
		}
		desc := f.description
		if err := s.repos.Departments.Create(ctx, &model.Department{Name: f.name, Description: &desc, IsActive: true}); err != nil {
			return err
		}
		res.Departments++
	}
	return nil
}

func (s *Seeder) seedClinicians(ctx context.Context, res *Result) error {
	for _, f := range clinicians {
		user, err := s.repos.Users.GetByEmail(ctx, f.email)
		if err != nil {
			return err
		}
		_, err = s.repos.Clinicians.GetByUserID(ctx, user.ID)
		if err == nil {
			continue
		}
		if !missing(err) {
			return err
		}
		dept, err := s.repos.Departments.GetByName(ctx, f.department)
		if err != nil {
			return err
		}
		if err := s.repos.Clinicians.Create(ctx, &model.Clinician{UserID: user.ID, DepartmentID: dept.ID, Name: f.name}); err != nil {
			return err
		}
		res.Clinicians++
	}
	return nil
}

func (s *Seeder) seedPatients(ctx context.Context, res *Result) error {
	for _, f := range patients {
		_, err := s.repos.Patients.GetByEmail(ctx, f.email)
		if err == nil {
			continue
		}
		if !missing(err) {
			return err
		}
		email := f.email
		p := &model.Patient{Name: f.name, Gender: f.gender, Email: &email, DateOfBirth: f.dob}
		if err := s.repos.Patients.Create(ctx, p); err != nil {
			return err
		}
		res.Patients++
	}
	return nil
}

func (s *Seeder) resolve(ctx context.Context, patientEmail, clinicianEmail string) (*model.Patient, *model.Clinician, error) {
	patient, err := s.repos.Patients.GetByEmail(ctx, patientEmail)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.repos.Users.GetByEmail(ctx, clinicianEmail)
	if err != nil {
		return nil, nil, err
	}
	clinician, err := s.repos.Clinicians.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return patient, clinician, nil
}

func (s *Seeder) seedLinks(ctx context.Context, res *Result) error {
	now := s.now().UTC()
	for _, f := range links {
		patient, clinician, err := s.resolve(ctx, f.patient, f.clinician)
		if err != nil {
			return err
		}
		linked, err := s.repos.PatientClinicians.HasActiveLink(ctx, patient.ID, clinician.ID)
		if err != nil {
			return err
		}
		if linked {
			continue
		}
		link := &model.PatientClinician{
			PatientID:         patient.ID,
			ClinicianID:       clinician.ID,
			IsPrimary:         true,
			RelationshipStart: now,
		}
		if err := s.repos.PatientClinicians.Create(ctx, link); err != nil {
			return err
		}
		if err := s.repos.PatientClinicians.DemotePrimary(ctx, patient.ID, link.ID); err != nil {
			return err
		}
		res.Links++
	}
	return nil
}

func (s *Seeder) seedProcedureTypes(ctx context.Context, res *Result) error {
	for _, f := range procedureTypes {
		_, err := s.repos.ProcedureTypes.GetByCode(ctx, f.code)
		if err == nil {
			continue
		}
		if !missing(err) {
			return err
		}
		dept, err := s.repos.Departments.GetByName(ctx, f.department)
		if err != nil {
			return err
		}
		minutes := f.minutes
		pt := &model.ProcedureType{
			Name:                   f.name,
			Code:                   f.code,
			DefaultDurationMinutes: &minutes,
			DepartmentID:           &dept.ID,
			IsActive:               true,
		}
		if err := s.repos.ProcedureTypes.Create(ctx, pt); err != nil {
			return err
		}
		res.ProcedureTypes++
	}
	return nil
}

func (s *Seeder) seedProcedures(ctx context.Context, res *Result) error {
	now := s.now().UTC()
	for _, f := range procedures {
		patient, clinician, err := s.resolve(ctx, f.patient, f.clinician)
		if err != nil {
			return err
		}
		pt, err := s.repos.ProcedureTypes.GetByCode(ctx, f.code)
		if err != nil {
			return err
		}

		_, total, err := s.repos.Procedures.List(ctx, model.ProcedureFilter{
			PatientID:       &patient.ID,
			ClinicianID:     &clinician.ID,
			ProcedureTypeID: &pt.ID,
			Page:            model.Page{Limit: 1},
		})
		if err != nil {
			return err
		}
		if total > 0 {
			continue
		}

		p := &model.Procedure{
			ProcedureTypeID: pt.ID,
			PatientID:       patient.ID,
			ClinicianID:     clinician.ID,
			ScheduledAt:     now.AddDate(0, 0, f.inDays),
			Status:          f.status,
		}
		model.ResolveProcedureDefaults(p, pt)
		if err := s.repos.Procedures.Create(ctx, p); err != nil {
			return err
		}
		res.Procedures++
	}
	return nil
}
