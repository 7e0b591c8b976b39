package relationship

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/repository"
	"github.com/jwalitptl/hospital-scheduling/internal/repository/memory"
	"github.com/jwalitptl/hospital-scheduling/internal/service/event"
	apperrors "github.com/jwalitptl/hospital-scheduling/pkg/errors"
)

type env struct {
	svc        *Service
	repos      repository.Repositories
	patient    *model.Patient
	smith      *model.Clinician
	jones      *model.Clinician
	start, now time.Time
}

func setup(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	repos := memory.NewStore().Repositories()

	dept := &model.Department{Name: "Cardiology", IsActive: true}
	require.NoError(t, repos.Departments.Create(ctx, dept))
	mk := func(email, name string) *model.Clinician {
		u := &model.User{Email: email}
		require.NoError(t, repos.Users.Create(ctx, u))
		c := &model.Clinician{UserID: u.ID, DepartmentID: dept.ID, Name: name}
		require.NoError(t, repos.Clinicians.Create(ctx, c))
		return c
	}
	patient := &model.Patient{Name: "Emma Davis", Gender: model.GenderFemale, DateOfBirth: model.NewDate(1982, 8, 22)}
	require.NoError(t, repos.Patients.Create(ctx, patient))

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(repos, event.Nop{})
	svc.now = func() time.Time { return now }

	return &env{
		svc:     svc,
		repos:   repos,
		patient: patient,
		smith:   mk("smith@hospital.com", "Dr. Smith"),
		jones:   mk("jones@hospital.com", "Dr. Jones"),
		start:   time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
		now:     now,
	}
}

func (e *env) req(c *model.Clinician, start time.Time, primary bool) *model.CreatePatientClinicianRequest {
	return &model.CreatePatientClinicianRequest{
		PatientID:         e.patient.ID,
		ClinicianID:       c.ID,
		IsPrimary:         primary,
		RelationshipStart: &start,
	}
}

func TestDuplicateStartConflictsDifferentStartSucceeds(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	_, err := e.svc.CreateLink(ctx, e.req(e.smith, e.start, false))
	require.NoError(t, err)

	_, err = e.svc.CreateLink(ctx, e.req(e.smith, e.start, false))
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict), "got %v", err)

	_, err = e.svc.CreateLink(ctx, e.req(e.smith, e.start.Add(24*time.Hour), false))
	assert.NoError(t, err)
}

func TestPrimaryLinkDemotesOthers(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	first, err := e.svc.CreateLink(ctx, e.req(e.smith, e.start, true))
	require.NoError(t, err)
	second, err := e.svc.CreateLink(ctx, e.req(e.jones, e.start, true))
	require.NoError(t, err)

	got, err := e.svc.GetLink(ctx, first.ID, model.Scope{})
	require.NoError(t, err)
	assert.False(t, got.IsPrimary)

	primary := true
	_, err = e.svc.UpdateLink(ctx, first.ID, &model.UpdatePatientClinicianRequest{IsPrimary: &primary})
	require.NoError(t, err)

	got, err = e.svc.GetLink(ctx, second.ID, model.Scope{})
	require.NoError(t, err)
	assert.False(t, got.IsPrimary)
}

func TestCreateValidatesReferencesAndInterval(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	require.NoError(t, e.repos.Clinicians.SoftDelete(ctx, e.jones.ID))

	req := e.req(e.jones, e.start, false)
	end := e.start.Add(-time.Hour)
	req.RelationshipEnd = &end

	_, err := e.svc.CreateLink(ctx, req)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields, "clinician_id")
	assert.Equal(t, []string{msgEndBefore}, appErr.Fields["relationship_end"])
}

func TestEndLinkKeepsRow(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	link, err := e.svc.CreateLink(ctx, e.req(e.smith, e.start, true))
	require.NoError(t, err)

	ended, err := e.svc.EndLink(ctx, link.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, ended.RelationshipEnd)
	assert.True(t, ended.RelationshipEnd.Equal(e.now))

	_, err = e.svc.EndLink(ctx, link.ID, nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	active, err := e.repos.PatientClinicians.HasActiveLink(ctx, e.patient.ID, e.smith.ID)
	require.NoError(t, err)
	assert.False(t, active)

	links, total, err := e.svc.ListLinks(ctx, model.PatientClinicianFilter{PatientID: &e.patient.ID, Page: model.Page{Limit: 20}})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, link.ID, links[0].ID)
}

func TestClinicianListsOnlyOwnLinks(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	_, err := e.svc.CreateLink(ctx, e.req(e.smith, e.start, false))
	require.NoError(t, err)
	theirs, err := e.svc.CreateLink(ctx, e.req(e.jones, e.start, false))
	require.NoError(t, err)

	cctx := model.WithPrincipal(ctx, &model.Principal{Role: model.RoleClinician, ClinicianID: &e.smith.ID})
	_, total, err := e.svc.ListLinks(cctx, model.PatientClinicianFilter{Page: model.Page{Limit: 20}})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	_, err = e.svc.GetLink(cctx, theirs.ID, model.Scope{})
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}
