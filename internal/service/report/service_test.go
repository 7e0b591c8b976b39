package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/repository"
	"github.com/jwalitptl/hospital-scheduling/internal/repository/memory"
	apperrors "github.com/jwalitptl/hospital-scheduling/pkg/errors"
)

type repoLookup struct{ repo repository.ProcedureTypeRepository }

func (r repoLookup) Lookup(ctx context.Context, id int64) (*model.ProcedureType, error) {
	return r.repo.GetByID(ctx, id)
}

type fixture struct {
	svc          *Service
	cardiology   *model.Department
	radiology    *model.Department
	smith, jones *model.Clinician
	ecg          *model.ProcedureType
	day          time.Time
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	repos := memory.NewStore().Repositories()
	f := &fixture{day: time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)}

	f.cardiology = &model.Department{Name: "Cardiology", IsActive: true}
	require.NoError(t, repos.Departments.Create(ctx, f.cardiology))
	f.radiology = &model.Department{Name: "Radiology", IsActive: true}
	require.NoError(t, repos.Departments.Create(ctx, f.radiology))

	mk := func(email, name string, dept int64) *model.Clinician {
		u := &model.User{Email: email}
		require.NoError(t, repos.Users.Create(ctx, u))
		c := &model.Clinician{UserID: u.ID, DepartmentID: dept, Name: name}
		require.NoError(t, repos.Clinicians.Create(ctx, c))
		return c
	}
	f.smith = mk("smith@hospital.com", "Dr. Smith", f.cardiology.ID)
	f.jones = mk("jones@hospital.com", "Dr. Jones", f.radiology.ID)

	f.ecg = &model.ProcedureType{Name: "Echocardiogram", Code: "ECG", IsActive: true}
	require.NoError(t, repos.ProcedureTypes.Create(ctx, f.ecg))

	for i, name := range []string{"John Brown", "Lisa Anderson"} {
		p := &model.Patient{Name: name, Gender: model.GenderUnknown, DateOfBirth: model.NewDate(1980, 1, 1)}
		require.NoError(t, repos.Patients.Create(ctx, p))
		require.NoError(t, repos.PatientClinicians.Create(ctx, &model.PatientClinician{
			PatientID: p.ID, ClinicianID: f.smith.ID, RelationshipStart: f.day.AddDate(0, -1, 0),
		}))
		require.NoError(t, repos.Procedures.Create(ctx, &model.Procedure{
			ProcedureTypeID: f.ecg.ID, PatientID: p.ID, ClinicianID: f.smith.ID,
			Name: "Echo", ScheduledAt: f.day.AddDate(0, 0, i), Status: model.ProcedureStatusScheduled,
		}))
	}

	f.svc = NewService(repos, repoLookup{repos.ProcedureTypes})
	return f
}

func asClinician(c *model.Clinician) context.Context {
	return model.WithPrincipal(context.Background(), &model.Principal{Role: model.RoleClinician, ClinicianID: &c.ID})
}

func TestClinicianPatientCounts(t *testing.T) {
	f := setup(t)

	rows, total, err := f.svc.ClinicianPatientCounts(context.Background(), model.ClinicianPatientCountFilter{Page: model.Page{Limit: 20}})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	byName := map[string]int{}
	for _, r := range rows {
		byName[r.Clinician.Name] = r.PatientCount
	}
	assert.Equal(t, map[string]int{"Dr. Smith": 2, "Dr. Jones": 0}, byName)

	rows, total, err = f.svc.ClinicianPatientCounts(asClinician(f.jones), model.ClinicianPatientCountFilter{Page: model.Page{Limit: 20}})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, f.jones.ID, rows[0].Clinician.ID)
}

func TestDepartmentCountsAccess(t *testing.T) {
	f := setup(t)
	page := model.ClinicianPatientCountFilter{Page: model.Page{Limit: 20}}

	res, err := f.svc.DepartmentClinicianPatientCounts(asClinician(f.smith), f.cardiology.ID, page)
	require.NoError(t, err)
	assert.Equal(t, "Cardiology", res.Department.Name)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, 2, res.Results[0].PatientCount)

	_, err = f.svc.DepartmentClinicianPatientCounts(asClinician(f.jones), f.cardiology.ID, page)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	_, err = f.svc.DepartmentClinicianPatientCounts(context.Background(), 999, page)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestScheduledPatients(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	from := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	to := from

	rows, total, err := f.svc.ScheduledPatients(ctx, model.ScheduledPatientsFilter{
		ProcedureTypeID: f.ecg.ID, DateFrom: &from, DateTo: &to, Page: model.Page{Limit: 20},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "John Brown", rows[0].Patient.Name)
	assert.Equal(t, "Dr. Smith", rows[0].Clinician.Name)

	later := from.AddDate(0, 0, 1)
	_, _, err = f.svc.ScheduledPatients(ctx, model.ScheduledPatientsFilter{ProcedureTypeID: f.ecg.ID, DateFrom: &later, DateTo: &from})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{msgDateOrder}, appErr.Fields[apperrors.NonFieldErrors])

	_, _, err = f.svc.ScheduledPatients(ctx, model.ScheduledPatientsFilter{ProcedureTypeID: 999})
	appErr, ok = apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
	assert.Equal(t, "Procedure type not found.", appErr.Message)

	_, total, err = f.svc.ScheduledPatients(asClinician(f.jones), model.ScheduledPatientsFilter{ProcedureTypeID: f.ecg.ID, Page: model.Page{Limit: 20}})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}
