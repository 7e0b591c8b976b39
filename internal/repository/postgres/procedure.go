package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/repository"
)

const procedureSelect = `
	SELECT pr.id, pr.procedure_type_id, pr.patient_id, pr.clinician_id, pr.name, pr.scheduled_at,
	       pr.duration_minutes, pr.status, pr.notes, pr.created_at, pr.updated_at, pr.deleted_at,
	       pt.id AS "procedure_type.id", pt.name AS "procedure_type.name",
	       pa.id AS "patient.id", pa.name AS "patient.name",
	       c.id AS "clinician.id", c.name AS "clinician.name"
	FROM procedures pr
	JOIN procedure_types pt ON pt.id = pr.procedure_type_id
	JOIN patients pa ON pa.id = pr.patient_id
	JOIN clinicians c ON c.id = pr.clinician_id`

type procedureRepository struct {
	BaseRepository
}

func NewProcedureRepository(base BaseRepository) repository.ProcedureRepository {
	return &procedureRepository{BaseRepository: base}
}

func (r *procedureRepository) Create(ctx context.Context, p *model.Procedure) (err error) {
	defer r.observe("procedures.create", time.Now(), &err)

	query := `
		INSERT INTO procedures (procedure_type_id, patient_id, clinician_id, name, scheduled_at, duration_minutes, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err = r.conn(ctx).QueryRowxContext(ctx, query,
		p.ProcedureTypeID,
		p.PatientID,
		p.ClinicianID,
		p.Name,
		p.ScheduledAt,
		p.DurationMinutes,
		p.Status,
		p.Notes,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return translate(err, "create procedure")
}

func (r *procedureRepository) GetByID(ctx context.Context, id int64, scope model.Scope) (_ *model.Procedure, err error) {
	defer r.observe("procedures.get", time.Now(), &err)

	w := &where{}
	w.add("pr.id = $%d", id)
	w.scope("pr", scope)

	var p model.Procedure
	if err = sqlx.GetContext(ctx, r.conn(ctx), &p, procedureSelect+w.String(), w.args...); err != nil {
		return nil, translate(err, "get procedure")
	}
	return &p, nil
}

func (r *procedureRepository) Update(ctx context.Context, p *model.Procedure) (err error) {
	defer r.observe("procedures.update", time.Now(), &err)

	query := `
		UPDATE procedures
		SET name = $1, scheduled_at = $2, duration_minutes = $3, status = $4, notes = $5, updated_at = NOW()
		WHERE id = $6 AND deleted_at IS NULL
		RETURNING updated_at`

	err = r.conn(ctx).QueryRowxContext(ctx, query,
		p.Name,
		p.ScheduledAt,
		p.DurationMinutes,
		p.Status,
		p.Notes,
		p.ID,
	).Scan(&p.UpdatedAt)
	return translate(err, "update procedure")
}

func (r *procedureRepository) SoftDelete(ctx context.Context, id int64) (err error) {
	defer r.observe("procedures.delete", time.Now(), &err)

	res, err := r.conn(ctx).ExecContext(ctx,
		`UPDATE procedures SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return translate(err, "delete procedure")
	}
	return affected(res, "delete procedure")
}

func (r *procedureRepository) List(ctx context.Context, filter model.ProcedureFilter) (_ []*model.Procedure, total int, err error) {
	defer r.observe("procedures.list", time.Now(), &err)

	w := &where{}
	w.scope("pr", filter.Scope)
	if filter.PatientID != nil {
		w.add("pr.patient_id = $%d", *filter.PatientID)
	}
	if filter.ClinicianID != nil {
		w.add("pr.clinician_id = $%d", *filter.ClinicianID)
	}
	if filter.ProcedureTypeID != nil {
		w.add("pr.procedure_type_id = $%d", *filter.ProcedureTypeID)
	}
	if filter.Status != "" {
		w.add("pr.status = $%d", filter.Status)
	}

	if err = sqlx.GetContext(ctx, r.conn(ctx), &total, `SELECT COUNT(*) FROM procedures pr`+w.String(), w.args...); err != nil {
		return nil, 0, translate(err, "count procedures")
	}

	limit, args := w.paginate(filter.Page)
	procedures := []*model.Procedure{}
	query := procedureSelect + w.String() + ` ORDER BY pr.scheduled_at DESC, pr.id DESC` + limit
	if err = sqlx.SelectContext(ctx, r.conn(ctx), &procedures, query, args...); err != nil {
		return nil, 0, translate(err, "list procedures")
	}
	return procedures, total, nil
}
