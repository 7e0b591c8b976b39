package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/repository"
)

const patientColumns = `p.id, p.user_id, p.name, p.gender, p.email, p.date_of_birth, p.created_at, p.updated_at, p.deleted_at`

type patientRepository struct {
	BaseRepository
}

func NewPatientRepository(base BaseRepository) repository.PatientRepository {
	return &patientRepository{BaseRepository: base}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) (err error) {
	defer r.observe("patients.create", time.Now(), &err)

	query := `
		INSERT INTO patients (user_id, name, gender, email, date_of_birth)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err = r.conn(ctx).QueryRowxContext(ctx, query,
		patient.UserID,
		patient.Name,
		patient.Gender,
		patient.Email,
		patient.DateOfBirth,
	).Scan(&patient.ID, &patient.CreatedAt, &patient.UpdatedAt)
	return translate(err, "create patient")
}

func (r *patientRepository) GetByID(ctx context.Context, id int64, scope model.Scope) (_ *model.Patient, err error) {
	defer r.observe("patients.get", time.Now(), &err)

	w := &where{}
	w.add("p.id = $%d", id)
	w.scope("p", scope)

	var patient model.Patient
	query := `SELECT ` + patientColumns + ` FROM patients p` + w.String()
	if err = sqlx.GetContext(ctx, r.conn(ctx), &patient, query, w.args...); err != nil {
		return nil, translate(err, "get patient")
	}
	return &patient, nil
}

func (r *patientRepository) GetByEmail(ctx context.Context, email string) (_ *model.Patient, err error) {
	defer r.observe("patients.get_by_email", time.Now(), &err)

	var patient model.Patient
	query := `SELECT ` + patientColumns + ` FROM patients p WHERE LOWER(p.email) = LOWER($1) AND p.deleted_at IS NULL`
	if err = sqlx.GetContext(ctx, r.conn(ctx), &patient, query, email); err != nil {
		return nil, translate(err, "get patient by email")
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) (err error) {
	defer r.observe("patients.update", time.Now(), &err)

	query := `
		UPDATE patients
		SET user_id = $1, name = $2, gender = $3, email = $4, date_of_birth = $5, updated_at = NOW()
		WHERE id = $6 AND deleted_at IS NULL
		RETURNING updated_at`

	err = r.conn(ctx).QueryRowxContext(ctx, query,
		patient.UserID,
		patient.Name,
		patient.Gender,
		patient.Email,
		patient.DateOfBirth,
		patient.ID,
	).Scan(&patient.UpdatedAt)
	return translate(err, "update patient")
}

func (r *patientRepository) SoftDelete(ctx context.Context, id int64) (err error) {
	defer r.observe("patients.delete", time.Now(), &err)

	res, err := r.conn(ctx).ExecContext(ctx,
		`UPDATE patients SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return translate(err, "delete patient")
	}
	return affected(res, "delete patient")
}

func (r *patientRepository) List(ctx context.Context, filter model.PatientFilter) (_ []*model.Patient, total int, err error) {
	defer r.observe("patients.list", time.Now(), &err)

	w := &where{}
	w.scope("p", filter.Scope)
	if filter.Search != "" {
		w.add(`(p.name ILIKE $%[1]d OR p.email ILIKE $%[1]d)`, likePattern(filter.Search))
	}
	if filter.LinkedClinicianID != nil {
		w.add(`EXISTS (
			SELECT 1 FROM patient_clinicians pc
			WHERE pc.patient_id = p.id AND pc.clinician_id = $%d
			  AND pc.relationship_end IS NULL AND pc.deleted_at IS NULL)`, *filter.LinkedClinicianID)
	}

	if err = sqlx.GetContext(ctx, r.conn(ctx), &total, `SELECT COUNT(*) FROM patients p`+w.String(), w.args...); err != nil {
		return nil, 0, translate(err, "count patients")
	}

	limit, args := w.paginate(filter.Page)
	patients := []*model.Patient{}
	query := `SELECT ` + patientColumns + ` FROM patients p` + w.String() + ` ORDER BY p.name, p.id` + limit
	if err = sqlx.SelectContext(ctx, r.conn(ctx), &patients, query, args...); err != nil {
		return nil, 0, translate(err, "list patients")
	}
	return patients, total, nil
}
