package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/repository"
	"github.com/jwalitptl/hospital-scheduling/pkg/metrics"
)

func newMock(t *testing.T) (BaseRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewBaseRepository(sqlx.NewDb(db, "postgres"), nil), mock
}

var patientCols = []string{"id", "user_id", "name", "gender", "email", "date_of_birth", "created_at", "updated_at", "deleted_at"}

func TestPatientGetByIDHidesDeletedByDefault(t *testing.T) {
	base, mock := newMock(t)
	repo := NewPatientRepository(base)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM patients p WHERE p.id = $1 AND p.deleted_at IS NULL`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(patientCols).
			AddRow(5, nil, "John Brown", "MALE", "john.brown@example.com", time.Date(1975, 5, 15, 0, 0, 0, 0, time.UTC), now, now, nil))

	p, err := repo.GetByID(context.Background(), 5, model.Scope{})
	require.NoError(t, err)
	assert.Equal(t, "John Brown", p.Name)
	assert.Equal(t, model.GenderMale, p.Gender)
	assert.Equal(t, "1975-05-15", p.DateOfBirth.String())
	require.NotNil(t, p.Email)
	assert.False(t, p.IsDeleted())
}

func TestPatientGetByIDIncludeDeleted(t *testing.T) {
	base, mock := newMock(t)
	repo := NewPatientRepository(base)

	mock.ExpectQuery(`FROM patients p WHERE p.id = \$1$`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(patientCols))

	_, err := repo.GetByID(context.Background(), 5, model.Scope{IncludeDeleted: true})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPatientListSearchAndLinkedClinician(t *testing.T) {
	base, mock := newMock(t)
	repo := NewPatientRepository(base)
	clinicianID := int64(2)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM patients p WHERE p.deleted_at IS NULL AND \(p.name ILIKE \$1 OR p.email ILIKE \$1\) AND EXISTS`).
		WithArgs(`%50\%%`, clinicianID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`ORDER BY p.name, p.id LIMIT \$3 OFFSET \$4`).
		WithArgs(`%50\%%`, clinicianID, 20, 40).
		WillReturnRows(sqlmock.NewRows(patientCols))

	patients, total, err := repo.List(context.Background(), model.PatientFilter{
		Search:            "50%",
		LinkedClinicianID: &clinicianID,
		Page:              model.Page{Limit: 20, Offset: 40},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.NotNil(t, patients)
	assert.Empty(t, patients)
}

func TestPatientSoftDeleteMissingRow(t *testing.T) {
	base, mock := newMock(t)
	repo := NewPatientRepository(base)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE patients SET deleted_at = NOW()`)).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SoftDelete(context.Background(), 9)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserCreateUniqueViolation(t *testing.T) {
	base, mock := newMock(t)
	repo := NewUserRepository(base)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: pqUniqueViolation, Constraint: "users_email_key"})

	err := repo.Create(context.Background(), &model.User{Email: "a@b.com", PasswordHash: "x", IsActive: true})
	assert.ErrorIs(t, err, repository.ErrConflict)
	assert.Contains(t, err.Error(), "users_email_key")
}

func TestProcedureCreateForeignKeyViolation(t *testing.T) {
	base, mock := newMock(t)
	repo := NewProcedureRepository(base)

	mock.ExpectQuery(`INSERT INTO procedures`).
		WillReturnError(&pq.Error{Code: pqForeignKeyViolation})

	err := repo.Create(context.Background(), &model.Procedure{Status: model.ProcedureStatusPlanned})
	assert.ErrorIs(t, err, repository.ErrInvalidReference)
}

func TestScheduledPatientsDateWindow(t *testing.T) {
	base, mock := newMock(t)
	repo := NewReportRepository(base)

	from := time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	dayStart := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	dayAfter := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`pr.status IN ('PLANNED', 'SCHEDULED') AND pr.deleted_at IS NULL AND pa.deleted_at IS NULL AND c.deleted_at IS NULL AND pr.scheduled_at >= $2 AND pr.scheduled_at < $3`)).
		WithArgs(int64(4), dayStart, dayAfter).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	scheduled := time.Date(2024, 3, 2, 9, 30, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY pr.scheduled_at, pr.id LIMIT $4 OFFSET $5`)).
		WithArgs(int64(4), dayStart, dayAfter, 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"procedure.id", "procedure.status", "procedure.scheduled_at", "procedure.duration_minutes",
			"patient.id", "patient.name", "patient.gender", "clinician.id", "clinician.name",
		}).AddRow(11, "PLANNED", scheduled, 45, 1, "John Brown", "MALE", 1, "Dr. James Smith"))

	rows, total, err := repo.ScheduledPatients(context.Background(), model.ScheduledPatientsFilter{
		ProcedureTypeID: 4,
		DateFrom:        &from,
		DateTo:          &to,
		Page:            model.Page{Limit: 20},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(11), rows[0].Procedure.ID)
	assert.Equal(t, model.ProcedureStatusPlanned, rows[0].Procedure.Status)
	require.NotNil(t, rows[0].Procedure.DurationMinutes)
	assert.Equal(t, 45, *rows[0].Procedure.DurationMinutes)
	assert.Equal(t, "John Brown", rows[0].Patient.Name)
	assert.Equal(t, "Dr. James Smith", rows[0].Clinician.Name)
}

func TestClinicianPatientCountsFilters(t *testing.T) {
	base, mock := newMock(t)
	repo := NewReportRepository(base)
	dept := int64(3)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM clinicians c WHERE c.deleted_at IS NULL AND c.department_id = $1`)).
		WithArgs(dept).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(`COUNT(DISTINCT pa.id) AS patient_count`)).
		WithArgs(dept, 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"clinician.id", "clinician.name", "department_id", "patient_count"}).
			AddRow(1, "Dr. A", 3, 2).
			AddRow(2, "Dr. B", 3, 0))

	counts, total, err := repo.ClinicianPatientCounts(context.Background(), model.ClinicianPatientCountFilter{
		DepartmentID: &dept,
		Page:         model.Page{Limit: 20},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, counts, 2)
	assert.Equal(t, "Dr. A", counts[0].Clinician.Name)
	assert.Equal(t, 2, counts[0].PatientCount)
	assert.Equal(t, 0, counts[1].PatientCount)
}

func TestWithinTxCommitsAndSharesTransaction(t *testing.T) {
	base, mock := newMock(t)
	links := NewPatientClinicianRepository(base)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE patient_clinicians SET is_primary = FALSE`).
		WithArgs(int64(1), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := base.WithinTx(context.Background(), func(ctx context.Context) error {
		// nested calls join the outer transaction
		return base.WithinTx(ctx, func(ctx context.Context) error {
			return links.DemotePrimary(ctx, 1, 7)
		})
	})
	require.NoError(t, err)
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	base, mock := newMock(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := base.WithinTx(context.Background(), func(ctx context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestObserveRecordsMetrics(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := metrics.NewMetrics("test", "db", prometheus.NewRegistry())
	repo := NewDepartmentRepository(NewBaseRepository(sqlx.NewDb(db, "postgres"), m))

	mock.ExpectQuery(`FROM departments WHERE id = \$1`).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`FROM departments WHERE id = \$1`).WithArgs(int64(2)).
		WillReturnError(errors.New("connection reset"))

	_, err = repo.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.GetByID(context.Background(), 2)
	assert.Error(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.DatabaseOperations.WithLabelValues("departments.get", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.DatabaseOperations.WithLabelValues("departments.get", "error")))
}

func TestLikePatternEscapes(t *testing.T) {
	assert.Equal(t, `%a\_b\%c\\%`, likePattern(`a_b%c\`))
}
