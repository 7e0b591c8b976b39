package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/repository"
)

type reportRepository struct {
	BaseRepository
}

func NewReportRepository(base BaseRepository) repository.ReportRepository {
	return &reportRepository{BaseRepository: base}
}

// ClinicianPatientCounts counts distinct live patients with an active link,
// per live clinician. Clinicians without patients appear with zero.
func (r *reportRepository) ClinicianPatientCounts(ctx context.Context, filter model.ClinicianPatientCountFilter) (_ []*model.ClinicianPatientCount, total int, err error) {
	defer r.observe("reports.clinician_patient_counts", time.Now(), &err)

	w := &where{}
	w.raw("c.deleted_at IS NULL")
	if filter.DepartmentID != nil {
		w.add("c.department_id = $%d", *filter.DepartmentID)
	}
	if filter.ClinicianID != nil {
		w.add("c.id = $%d", *filter.ClinicianID)
	}

	if err = sqlx.GetContext(ctx, r.conn(ctx), &total, `SELECT COUNT(*) FROM clinicians c`+w.String(), w.args...); err != nil {
		return nil, 0, translate(err, "count clinicians")
	}

	limit, args := w.paginate(filter.Page)
	query := `
		SELECT c.id AS "clinician.id", c.name AS "clinician.name", c.department_id,
		       COUNT(DISTINCT pa.id) AS patient_count
		FROM clinicians c
		LEFT JOIN patient_clinicians pc
		       ON pc.clinician_id = c.id AND pc.relationship_end IS NULL AND pc.deleted_at IS NULL
		LEFT JOIN patients pa
		       ON pa.id = pc.patient_id AND pa.deleted_at IS NULL` + w.String() + `
		GROUP BY c.id, c.name, c.department_id
		ORDER BY c.name, c.id` + limit

	counts := []*model.ClinicianPatientCount{}
	if err = sqlx.SelectContext(ctx, r.conn(ctx), &counts, query, args...); err != nil {
		return nil, 0, translate(err, "count patients per clinician")
	}
	return counts, total, nil
}

// ScheduledPatients lists open procedures of one type whose scheduled_at
// falls on a UTC calendar day within [DateFrom, DateTo].
func (r *reportRepository) ScheduledPatients(ctx context.Context, filter model.ScheduledPatientsFilter) (_ []*model.ScheduledPatient, total int, err error) {
	defer r.observe("reports.scheduled_patients", time.Now(), &err)

	w := &where{}
	w.add("pr.procedure_type_id = $%d", filter.ProcedureTypeID)
	w.raw("pr.status IN ('PLANNED', 'SCHEDULED')")
	w.raw("pr.deleted_at IS NULL")
	w.raw("pa.deleted_at IS NULL")
	w.raw("c.deleted_at IS NULL")
	if filter.DateFrom != nil {
		w.add("pr.scheduled_at >= $%d", startOfDay(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		w.add("pr.scheduled_at < $%d", startOfDay(*filter.DateTo).AddDate(0, 0, 1))
	}
	if filter.DepartmentID != nil {
		w.add("c.department_id = $%d", *filter.DepartmentID)
	}
	if filter.ClinicianID != nil {
		w.add("pr.clinician_id = $%d", *filter.ClinicianID)
	}

	from := `
		FROM procedures pr
		JOIN patients pa ON pa.id = pr.patient_id
		JOIN clinicians c ON c.id = pr.clinician_id` + w.String()

	if err = sqlx.GetContext(ctx, r.conn(ctx), &total, `SELECT COUNT(*)`+from, w.args...); err != nil {
		return nil, 0, translate(err, "count scheduled patients")
	}

	limit, args := w.paginate(filter.Page)
	query := `
		SELECT pr.id AS "procedure.id", pr.status AS "procedure.status",
		       pr.scheduled_at AS "procedure.scheduled_at", pr.duration_minutes AS "procedure.duration_minutes",
		       pa.id AS "patient.id", pa.name AS "patient.name", pa.gender AS "patient.gender",
		       c.id AS "clinician.id", c.name AS "clinician.name"` + from + `
		ORDER BY pr.scheduled_at, pr.id` + limit

	rows := []*model.ScheduledPatient{}
	if err = sqlx.SelectContext(ctx, r.conn(ctx), &rows, query, args...); err != nil {
		return nil, 0, translate(err, "list scheduled patients")
	}
	return rows, total, nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
