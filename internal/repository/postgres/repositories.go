package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-scheduling/internal/repository"
	"github.com/jwalitptl/hospital-scheduling/pkg/metrics"
)

// NewRepositories wires every postgres repository onto one pool.
func NewRepositories(db *sqlx.DB, m *metrics.Metrics) repository.Repositories {
	base := NewBaseRepository(db, m)
	return repository.Repositories{
		Tx:                base,
		Users:             NewUserRepository(base),
		Departments:       NewDepartmentRepository(base),
		Clinicians:        NewClinicianRepository(base),
		Patients:          NewPatientRepository(base),
		PatientClinicians: NewPatientClinicianRepository(base),
		ProcedureTypes:    NewProcedureTypeRepository(base),
		Procedures:        NewProcedureRepository(base),
		Reports:           NewReportRepository(base),
	}
}
