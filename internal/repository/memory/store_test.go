package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/repository"
)

type fixture struct {
	repos     repository.Repositories
	dept      *model.Department
	clinician *model.Clinician
	patient   *model.Patient
	pt        *model.ProcedureType
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	repos := NewStore().Repositories()

	user := &model.User{Email: "dr@hospital.com", PasswordHash: "x", IsActive: true}
	require.NoError(t, repos.Users.Create(ctx, user))
	dept := &model.Department{Name: "Cardiology", IsActive: true}
	require.NoError(t, repos.Departments.Create(ctx, dept))
	clinician := &model.Clinician{UserID: user.ID, DepartmentID: dept.ID, Name: "Dr. Smith"}
	require.NoError(t, repos.Clinicians.Create(ctx, clinician))
	patient := &model.Patient{Name: "John Brown", Gender: model.GenderMale, DateOfBirth: model.NewDate(1975, 5, 15)}
	require.NoError(t, repos.Patients.Create(ctx, patient))
	pt := &model.ProcedureType{Name: "Echocardiogram", Code: "ECG", DepartmentID: &dept.ID, IsActive: true}
	require.NoError(t, repos.ProcedureTypes.Create(ctx, pt))

	return &fixture{repos: repos, dept: dept, clinician: clinician, patient: patient, pt: pt}
}

func (f *fixture) procedure(t *testing.T, at time.Time, status model.ProcedureStatus) *model.Procedure {
	t.Helper()
	p := &model.Procedure{
		ProcedureTypeID: f.pt.ID,
		PatientID:       f.patient.ID,
		ClinicianID:     f.clinician.ID,
		Name:            f.pt.Name,
		ScheduledAt:     at,
		Status:          status,
	}
	require.NoError(t, f.repos.Procedures.Create(context.Background(), p))
	return p
}

func TestSoftDeleteHidesRowsUnlessScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.repos.Patients.SoftDelete(ctx, f.patient.ID))

	_, err := f.repos.Patients.GetByID(ctx, f.patient.ID, model.Scope{})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	p, err := f.repos.Patients.GetByID(ctx, f.patient.ID, model.Scope{IncludeDeleted: true})
	require.NoError(t, err)
	assert.True(t, p.IsDeleted())

	_, total, err := f.repos.Patients.List(ctx, model.PatientFilter{Page: model.Page{Limit: 10}})
	require.NoError(t, err)
	assert.Zero(t, total)

	assert.ErrorIs(t, f.repos.Patients.SoftDelete(ctx, f.patient.ID), repository.ErrNotFound)

	// clinicians
	user := &model.User{Email: "dr.jones@hospital.com", PasswordHash: "x", IsActive: true}
	require.NoError(t, f.repos.Users.Create(ctx, user))
	require.NoError(t, f.repos.Clinicians.Create(ctx, &model.Clinician{UserID: user.ID, DepartmentID: f.dept.ID, Name: "Dr. Jones"}))
	require.NoError(t, f.repos.Clinicians.SoftDelete(ctx, f.clinician.ID))

	clinicians, total, err := f.repos.Clinicians.List(ctx, model.ClinicianFilter{Page: model.Page{Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, clinicians, 1)
	assert.Equal(t, "Dr. Jones", clinicians[0].Name)

	_, total, err = f.repos.Clinicians.List(ctx, model.ClinicianFilter{Scope: model.Scope{IncludeDeleted: true}, Page: model.Page{Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	_, err = f.repos.Clinicians.GetByID(ctx, f.clinician.ID, model.Scope{})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	c, err := f.repos.Clinicians.GetByID(ctx, f.clinician.ID, model.Scope{IncludeDeleted: true})
	require.NoError(t, err)
	assert.True(t, c.IsDeleted())
}

func TestSoftDeletedProceduresHiddenUnlessScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	at := time.Now().Add(24 * time.Hour)
	gone := f.procedure(t, at, model.ProcedureStatusPlanned)
	f.procedure(t, at, model.ProcedureStatusScheduled)

	require.NoError(t, f.repos.Procedures.SoftDelete(ctx, gone.ID))

	_, total, err := f.repos.Procedures.List(ctx, model.ProcedureFilter{Page: model.Page{Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	_, total, err = f.repos.Procedures.List(ctx, model.ProcedureFilter{Scope: model.Scope{IncludeDeleted: true}, Page: model.Page{Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestUniqueConstraints(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.repos.Users.Create(ctx, &model.User{Email: "DR@hospital.com"})
	assert.ErrorIs(t, err, repository.ErrConflict)

	err = f.repos.ProcedureTypes.Create(ctx, &model.ProcedureType{Name: "dup", Code: "ECG"})
	assert.ErrorIs(t, err, repository.ErrConflict)

	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	link := &model.PatientClinician{PatientID: f.patient.ID, ClinicianID: f.clinician.ID, RelationshipStart: start}
	require.NoError(t, f.repos.PatientClinicians.Create(ctx, link))
	dup := &model.PatientClinician{PatientID: f.patient.ID, ClinicianID: f.clinician.ID, RelationshipStart: start}
	assert.ErrorIs(t, f.repos.PatientClinicians.Create(ctx, dup), repository.ErrConflict)

	bad := &model.PatientClinician{PatientID: 999, ClinicianID: f.clinician.ID, RelationshipStart: start}
	assert.ErrorIs(t, f.repos.PatientClinicians.Create(ctx, bad), repository.ErrInvalidReference)
}

func TestWithinTxRestoresOnError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := f.repos.Tx.WithinTx(ctx, func(ctx context.Context) error {
		require.NoError(t, f.repos.Departments.Create(ctx, &model.Department{Name: "Radiology", IsActive: true}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = f.repos.Departments.GetByName(ctx, "Radiology")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, f.repos.Tx.WithinTx(ctx, func(ctx context.Context) error {
		return f.repos.Departments.Create(ctx, &model.Department{Name: "Neurology", IsActive: true})
	}))
	_, err = f.repos.Departments.GetByName(ctx, "Neurology")
	assert.NoError(t, err)
}

func TestDemotePrimaryKeepsOne(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := &model.PatientClinician{PatientID: f.patient.ID, ClinicianID: f.clinician.ID, IsPrimary: true, RelationshipStart: time.Now().Add(-time.Hour)}
	b := &model.PatientClinician{PatientID: f.patient.ID, ClinicianID: f.clinician.ID, IsPrimary: true, RelationshipStart: time.Now()}
	require.NoError(t, f.repos.PatientClinicians.Create(ctx, a))
	require.NoError(t, f.repos.PatientClinicians.Create(ctx, b))

	require.NoError(t, f.repos.PatientClinicians.DemotePrimary(ctx, f.patient.ID, b.ID))

	got, err := f.repos.PatientClinicians.GetByID(ctx, a.ID, model.Scope{})
	require.NoError(t, err)
	assert.False(t, got.IsPrimary)
	got, err = f.repos.PatientClinicians.GetByID(ctx, b.ID, model.Scope{})
	require.NoError(t, err)
	assert.True(t, got.IsPrimary)
}

func TestProcedureRefsAndOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	early := f.procedure(t, base, model.ProcedureStatusPlanned)
	late := f.procedure(t, base.Add(48*time.Hour), model.ProcedureStatusScheduled)

	list, total, err := f.repos.Procedures.List(ctx, model.ProcedureFilter{Page: model.Page{Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, late.ID, list[0].ID)
	assert.Equal(t, early.ID, list[1].ID)
	assert.Equal(t, "Echocardiogram", list[0].ProcedureType.Name)
	assert.Equal(t, "John Brown", list[0].Patient.Name)
	assert.Equal(t, "Dr. Smith", list[0].Clinician.Name)
}

func TestScheduledPatientsWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	day := func(d, h int) time.Time { return time.Date(2024, 3, d, h, 0, 0, 0, time.UTC) }

	inFirst := f.procedure(t, day(1, 0), model.ProcedureStatusPlanned)
	inLast := f.procedure(t, day(3, 23), model.ProcedureStatusScheduled)
	f.procedure(t, day(4, 0), model.ProcedureStatusPlanned)
	f.procedure(t, day(2, 10), model.ProcedureStatusCompleted)
	deleted := f.procedure(t, day(2, 11), model.ProcedureStatusPlanned)
	require.NoError(t, f.repos.Procedures.SoftDelete(ctx, deleted.ID))

	from, to := day(1, 12), day(3, 0)
	rows, total, err := f.repos.Reports.ScheduledPatients(ctx, model.ScheduledPatientsFilter{
		ProcedureTypeID: f.pt.ID,
		DateFrom:        &from,
		DateTo:          &to,
		Page:            model.Page{Limit: 20},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, rows, 2)
	assert.Equal(t, inFirst.ID, rows[0].Procedure.ID)
	assert.Equal(t, inLast.ID, rows[1].Procedure.ID)
	assert.Equal(t, model.GenderMale, rows[0].Patient.Gender)
}

func TestClinicianPatientCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other := &model.Patient{Name: "Emma Davis", Gender: model.GenderFemale, DateOfBirth: model.NewDate(1982, 8, 22)}
	require.NoError(t, f.repos.Patients.Create(ctx, other))
	gone := &model.Patient{Name: "Gone", DateOfBirth: model.NewDate(1990, 1, 1)}
	require.NoError(t, f.repos.Patients.Create(ctx, gone))

	ended := time.Now()
	links := []*model.PatientClinician{
		{PatientID: f.patient.ID, ClinicianID: f.clinician.ID, RelationshipStart: time.Now().Add(-2 * time.Hour)},
		{PatientID: f.patient.ID, ClinicianID: f.clinician.ID, RelationshipStart: time.Now().Add(-time.Hour)},
		{PatientID: other.ID, ClinicianID: f.clinician.ID, RelationshipStart: time.Now().Add(-time.Hour), RelationshipEnd: &ended},
		{PatientID: gone.ID, ClinicianID: f.clinician.ID, RelationshipStart: time.Now().Add(-time.Hour)},
	}
	for _, l := range links {
		require.NoError(t, f.repos.PatientClinicians.Create(ctx, l))
	}
	require.NoError(t, f.repos.Patients.SoftDelete(ctx, gone.ID))

	user := &model.User{Email: "idle@hospital.com"}
	require.NoError(t, f.repos.Users.Create(ctx, user))
	idle := &model.Clinician{UserID: user.ID, DepartmentID: f.dept.ID, Name: "Dr. Idle"}
	require.NoError(t, f.repos.Clinicians.Create(ctx, idle))

	counts, total, err := f.repos.Reports.ClinicianPatientCounts(ctx, model.ClinicianPatientCountFilter{Page: model.Page{Limit: 20}})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, counts, 2)
	assert.Equal(t, "Dr. Idle", counts[0].Clinician.Name)
	assert.Zero(t, counts[0].PatientCount)
	assert.Equal(t, "Dr. Smith", counts[1].Clinician.Name)
	assert.Equal(t, 1, counts[1].PatientCount)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{3, 4}, paginate(items, model.Page{Limit: 2, Offset: 2}))
	assert.Equal(t, []int{5}, paginate(items, model.Page{Limit: 2, Offset: 4}))
	assert.Empty(t, paginate(items, model.Page{Limit: 2, Offset: 10}))
}
