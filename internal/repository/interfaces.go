package repository

import (
	"context"
	"errors"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrConflict         = errors.New("record conflicts with an existing row")
	ErrInvalidReference = errors.New("referenced record does not exist")
)

// Transactor runs fn inside a single transaction. Repositories called with
// the ctx passed to fn take part in that transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, page model.Page) ([]*model.User, int, error)
}

type DepartmentRepository interface {
	Create(ctx context.Context, dept *model.Department) error
	GetByID(ctx context.Context, id int64) (*model.Department, error)
	GetByName(ctx context.Context, name string) (*model.Department, error)
	Update(ctx context.Context, dept *model.Department) error
	List(ctx context.Context, filter model.DepartmentFilter) ([]*model.Department, int, error)
}

type ClinicianRepository interface {
	Create(ctx context.Context, clinician *model.Clinician) error
	GetByID(ctx context.Context, id int64, scope model.Scope) (*model.Clinician, error)
	GetByUserID(ctx context.Context, userID int64) (*model.Clinician, error)
	Update(ctx context.Context, clinician *model.Clinician) error
	SoftDelete(ctx context.Context, id int64) error
	List(ctx context.Context, filter model.ClinicianFilter) ([]*model.Clinician, int, error)
}

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	GetByID(ctx context.Context, id int64, scope model.Scope) (*model.Patient, error)
	GetByEmail(ctx context.Context, email string) (*model.Patient, error)
	Update(ctx context.Context, patient *model.Patient) error
	SoftDelete(ctx context.Context, id int64) error
	List(ctx context.Context, filter model.PatientFilter) ([]*model.Patient, int, error)
}

type PatientClinicianRepository interface {
	Create(ctx context.Context, link *model.PatientClinician) error
	GetByID(ctx context.Context, id int64, scope model.Scope) (*model.PatientClinician, error)
	Update(ctx context.Context, link *model.PatientClinician) error
	SoftDelete(ctx context.Context, id int64) error
	List(ctx context.Context, filter model.PatientClinicianFilter) ([]*model.PatientClinician, int, error)
	// HasActiveLink reports whether an active, non-deleted link exists.
	HasActiveLink(ctx context.Context, patientID, clinicianID int64) (bool, error)
	// DemotePrimary clears is_primary on the patient's other active links.
	DemotePrimary(ctx context.Context, patientID, keepID int64) error
}

type ProcedureTypeRepository interface {
	Create(ctx context.Context, pt *model.ProcedureType) error
	GetByID(ctx context.Context, id int64) (*model.ProcedureType, error)
	GetByCode(ctx context.Context, code string) (*model.ProcedureType, error)
	Update(ctx context.Context, pt *model.ProcedureType) error
	List(ctx context.Context, filter model.ProcedureTypeFilter) ([]*model.ProcedureType, int, error)
}

type ProcedureRepository interface {
	Create(ctx context.Context, procedure *model.Procedure) error
	GetByID(ctx context.Context, id int64, scope model.Scope) (*model.Procedure, error)
	Update(ctx context.Context, procedure *model.Procedure) error
	SoftDelete(ctx context.Context, id int64) error
	List(ctx context.Context, filter model.ProcedureFilter) ([]*model.Procedure, int, error)
}

type ReportRepository interface {
	ClinicianPatientCounts(ctx context.Context, filter model.ClinicianPatientCountFilter) ([]*model.ClinicianPatientCount, int, error)
	ScheduledPatients(ctx context.Context, filter model.ScheduledPatientsFilter) ([]*model.ScheduledPatient, int, error)
}

// Repositories bundles every repository plus the transactor they share.
type Repositories struct {
	Tx                Transactor
	Users             UserRepository
	Departments       DepartmentRepository
	Clinicians        ClinicianRepository
	Patients          PatientRepository
	PatientClinicians PatientClinicianRepository
	ProcedureTypes    ProcedureTypeRepository
	Procedures        ProcedureRepository
	Reports           ReportRepository
}
