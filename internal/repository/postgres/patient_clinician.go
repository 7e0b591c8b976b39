package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/repository"
)

const patientClinicianColumns = `pc.id, pc.patient_id, pc.clinician_id, pc.is_primary, pc.relationship_start,
	pc.relationship_end, pc.notes, pc.created_at, pc.updated_at, pc.deleted_at`

type patientClinicianRepository struct {
	BaseRepository
}

func NewPatientClinicianRepository(base BaseRepository) repository.PatientClinicianRepository {
	return &patientClinicianRepository{BaseRepository: base}
}

func (r *patientClinicianRepository) Create(ctx context.Context, link *model.PatientClinician) (err error) {
	defer r.observe("patient_clinicians.create", time.Now(), &err)

	query := `
		INSERT INTO patient_clinicians (patient_id, clinician_id, is_primary, relationship_start, relationship_end, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err = r.conn(ctx).QueryRowxContext(ctx, query,
		link.PatientID,
		link.ClinicianID,
		link.IsPrimary,
		link.RelationshipStart,
		link.RelationshipEnd,
		link.Notes,
	).Scan(&link.ID, &link.CreatedAt, &link.UpdatedAt)
	return translate(err, "create patient clinician")
}

func (r *patientClinicianRepository) GetByID(ctx context.Context, id int64, scope model.Scope) (_ *model.PatientClinician, err error) {
	defer r.observe("patient_clinicians.get", time.Now(), &err)

	w := &where{}
	w.add("pc.id = $%d", id)
	w.scope("pc", scope)

	var link model.PatientClinician
	query := `SELECT ` + patientClinicianColumns + ` FROM patient_clinicians pc` + w.String()
	if err = sqlx.GetContext(ctx, r.conn(ctx), &link, query, w.args...); err != nil {
		return nil, translate(err, "get patient clinician")
	}
	return &link, nil
}

func (r *patientClinicianRepository) Update(ctx context.Context, link *model.PatientClinician) (err error) {
	defer r.observe("patient_clinicians.update", time.Now(), &err)

	query := `
		UPDATE patient_clinicians
		SET is_primary = $1, relationship_end = $2, notes = $3, updated_at = NOW()
		WHERE id = $4 AND deleted_at IS NULL
		RETURNING updated_at`

	err = r.conn(ctx).QueryRowxContext(ctx, query, link.IsPrimary, link.RelationshipEnd, link.Notes, link.ID).
		Scan(&link.UpdatedAt)
	return translate(err, "update patient clinician")
}

func (r *patientClinicianRepository) SoftDelete(ctx context.Context, id int64) (err error) {
	defer r.observe("patient_clinicians.delete", time.Now(), &err)

	res, err := r.conn(ctx).ExecContext(ctx,
		`UPDATE patient_clinicians SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return translate(err, "delete patient clinician")
	}
	return affected(res, "delete patient clinician")
}

func (r *patientClinicianRepository) List(ctx context.Context, filter model.PatientClinicianFilter) (_ []*model.PatientClinician, total int, err error) {
	defer r.observe("patient_clinicians.list", time.Now(), &err)

	w := &where{}
	w.scope("pc", filter.Scope)
	if filter.PatientID != nil {
		w.add("pc.patient_id = $%d", *filter.PatientID)
	}
	if filter.ClinicianID != nil {
		w.add("pc.clinician_id = $%d", *filter.ClinicianID)
	}
	if filter.ActiveOnly {
		w.raw("pc.relationship_end IS NULL")
	}

	if err = sqlx.GetContext(ctx, r.conn(ctx), &total, `SELECT COUNT(*) FROM patient_clinicians pc`+w.String(), w.args...); err != nil {
		return nil, 0, translate(err, "count patient clinicians")
	}

	limit, args := w.paginate(filter.Page)
	links := []*model.PatientClinician{}
	query := `SELECT ` + patientClinicianColumns + ` FROM patient_clinicians pc` + w.String() +
		` ORDER BY pc.relationship_start DESC, pc.id DESC` + limit
	if err = sqlx.SelectContext(ctx, r.conn(ctx), &links, query, args...); err != nil {
		return nil, 0, translate(err, "list patient clinicians")
	}
	return links, total, nil
}

func (r *patientClinicianRepository) HasActiveLink(ctx context.Context, patientID, clinicianID int64) (_ bool, err error) {
	defer r.observe("patient_clinicians.has_active", time.Now(), &err)

	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM patient_clinicians
			WHERE patient_id = $1 AND clinician_id = $2
			  AND relationship_end IS NULL AND deleted_at IS NULL)`
	if err = sqlx.GetContext(ctx, r.conn(ctx), &exists, query, patientID, clinicianID); err != nil {
		return false, translate(err, "check patient clinician link")
	}
	return exists, nil
}

func (r *patientClinicianRepository) DemotePrimary(ctx context.Context, patientID, keepID int64) (err error) {
	defer r.observe("patient_clinicians.demote_primary", time.Now(), &err)

	query := `
		UPDATE patient_clinicians
		SET is_primary = FALSE, updated_at = NOW()
		WHERE patient_id = $1 AND id <> $2 AND is_primary
		  AND relationship_end IS NULL AND deleted_at IS NULL`
	if _, err = r.conn(ctx).ExecContext(ctx, query, patientID, keepID); err != nil {
		return translate(err, "demote primary clinician")
	}
	return nil
}
