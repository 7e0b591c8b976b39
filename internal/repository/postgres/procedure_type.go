package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/repository"
)

const procedureTypeColumns = `id, name, code, default_duration_minutes, department_id, is_active, created_at, updated_at`

type procedureTypeRepository struct {
	BaseRepository
}

func NewProcedureTypeRepository(base BaseRepository) repository.ProcedureTypeRepository {
	return &procedureTypeRepository{BaseRepository: base}
}

func (r *procedureTypeRepository) Create(ctx context.Context, pt *model.ProcedureType) (err error) {
	defer r.observe("procedure_types.create", time.Now(), &err)

	query := `
		INSERT INTO procedure_types (name, code, default_duration_minutes, department_id, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err = r.conn(ctx).QueryRowxContext(ctx, query,
		pt.Name,
		pt.Code,
		pt.DefaultDurationMinutes,
		pt.DepartmentID,
		pt.IsActive,
	).Scan(&pt.ID, &pt.CreatedAt, &pt.UpdatedAt)
	return translate(err, "create procedure type")
}

func (r *procedureTypeRepository) GetByID(ctx context.Context, id int64) (_ *model.ProcedureType, err error) {
	defer r.observe("procedure_types.get", time.Now(), &err)

	var pt model.ProcedureType
	query := `SELECT ` + procedureTypeColumns + ` FROM procedure_types WHERE id = $1`
	if err = sqlx.GetContext(ctx, r.conn(ctx), &pt, query, id); err != nil {
		return nil, translate(err, "get procedure type")
	}
	return &pt, nil
}

func (r *procedureTypeRepository) GetByCode(ctx context.Context, code string) (_ *model.ProcedureType, err error) {
	defer r.observe("procedure_types.get_by_code", time.Now(), &err)

	var pt model.ProcedureType
	query := `SELECT ` + procedureTypeColumns + ` FROM procedure_types WHERE code = $1`
	if err = sqlx.GetContext(ctx, r.conn(ctx), &pt, query, code); err != nil {
		return nil, translate(err, "get procedure type by code")
	}
	return &pt, nil
}

func (r *procedureTypeRepository) Update(ctx context.Context, pt *model.ProcedureType) (err error) {
	defer r.observe("procedure_types.update", time.Now(), &err)

	query := `
		UPDATE procedure_types
		SET name = $1, code = $2, default_duration_minutes = $3, department_id = $4, is_active = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at`

	err = r.conn(ctx).QueryRowxContext(ctx, query,
		pt.Name,
		pt.Code,
		pt.DefaultDurationMinutes,
		pt.DepartmentID,
		pt.IsActive,
		pt.ID,
	).Scan(&pt.UpdatedAt)
	return translate(err, "update procedure type")
}

func (r *procedureTypeRepository) List(ctx context.Context, filter model.ProcedureTypeFilter) (_ []*model.ProcedureType, total int, err error) {
	defer r.observe("procedure_types.list", time.Now(), &err)

	w := &where{}
	if filter.DepartmentID != nil {
		w.add("department_id = $%d", *filter.DepartmentID)
	}
	if filter.ActiveOnly {
		w.raw("is_active")
	}

	if err = sqlx.GetContext(ctx, r.conn(ctx), &total, `SELECT COUNT(*) FROM procedure_types`+w.String(), w.args...); err != nil {
		return nil, 0, translate(err, "count procedure types")
	}

	limit, args := w.paginate(filter.Page)
	types := []*model.ProcedureType{}
	query := `SELECT ` + procedureTypeColumns + ` FROM procedure_types` + w.String() + ` ORDER BY name, id` + limit
	if err = sqlx.SelectContext(ctx, r.conn(ctx), &types, query, args...); err != nil {
		return nil, 0, translate(err, "list procedure types")
	}
	return types, total, nil
}
