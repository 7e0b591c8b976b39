package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/repository"
)

const clinicianColumns = `c.id, c.user_id, c.department_id, c.name, c.created_at, c.updated_at, c.deleted_at`

type clinicianRepository struct {
	BaseRepository
}

func NewClinicianRepository(base BaseRepository) repository.ClinicianRepository {
	return &clinicianRepository{BaseRepository: base}
}

func (r *clinicianRepository) Create(ctx context.Context, clinician *model.Clinician) (err error) {
	defer r.observe("clinicians.create", time.Now(), &err)

	query := `
		INSERT INTO clinicians (user_id, department_id, name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err = r.conn(ctx).QueryRowxContext(ctx, query, clinician.UserID, clinician.DepartmentID, clinician.Name).
		Scan(&clinician.ID, &clinician.CreatedAt, &clinician.UpdatedAt)
	return translate(err, "create clinician")
}

func (r *clinicianRepository) GetByID(ctx context.Context, id int64, scope model.Scope) (_ *model.Clinician, err error) {
	defer r.observe("clinicians.get", time.Now(), &err)

	w := &where{}
	w.add("c.id = $%d", id)
	w.scope("c", scope)

	var clinician model.Clinician
	query := `SELECT ` + clinicianColumns + ` FROM clinicians c` + w.String()
	if err = sqlx.GetContext(ctx, r.conn(ctx), &clinician, query, w.args...); err != nil {
		return nil, translate(err, "get clinician")
	}
	return &clinician, nil
}

func (r *clinicianRepository) GetByUserID(ctx context.Context, userID int64) (_ *model.Clinician, err error) {
	defer r.observe("clinicians.get_by_user", time.Now(), &err)

	var clinician model.Clinician
	query := `SELECT ` + clinicianColumns + ` FROM clinicians c WHERE c.user_id = $1 AND c.deleted_at IS NULL`
	if err = sqlx.GetContext(ctx, r.conn(ctx), &clinician, query, userID); err != nil {
		return nil, translate(err, "get clinician by user")
	}
	return &clinician, nil
}

func (r *clinicianRepository) Update(ctx context.Context, clinician *model.Clinician) (err error) {
	defer r.observe("clinicians.update", time.Now(), &err)

	query := `
		UPDATE clinicians
		SET department_id = $1, name = $2, updated_at = NOW()
		WHERE id = $3 AND deleted_at IS NULL
		RETURNING updated_at`

	err = r.conn(ctx).QueryRowxContext(ctx, query, clinician.DepartmentID, clinician.Name, clinician.ID).
		Scan(&clinician.UpdatedAt)
	return translate(err, "update clinician")
}

func (r *clinicianRepository) SoftDelete(ctx context.Context, id int64) (err error) {
	defer r.observe("clinicians.delete", time.Now(), &err)

	res, err := r.conn(ctx).ExecContext(ctx,
		`UPDATE clinicians SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return translate(err, "delete clinician")
	}
	return affected(res, "delete clinician")
}

func (r *clinicianRepository) List(ctx context.Context, filter model.ClinicianFilter) (_ []*model.Clinician, total int, err error) {
	defer r.observe("clinicians.list", time.Now(), &err)

	w := &where{}
	w.scope("c", filter.Scope)
	if filter.DepartmentID != nil {
		w.add("c.department_id = $%d", *filter.DepartmentID)
	}

	if err = sqlx.GetContext(ctx, r.conn(ctx), &total, `SELECT COUNT(*) FROM clinicians c`+w.String(), w.args...); err != nil {
		return nil, 0, translate(err, "count clinicians")
	}

	limit, args := w.paginate(filter.Page)
	clinicians := []*model.Clinician{}
	query := `SELECT ` + clinicianColumns + ` FROM clinicians c` + w.String() + ` ORDER BY c.name, c.id` + limit
	if err = sqlx.SelectContext(ctx, r.conn(ctx), &clinicians, query, args...); err != nil {
		return nil, 0, translate(err, "list clinicians")
	}
	return clinicians, total, nil
}
