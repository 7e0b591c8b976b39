package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/repository"
)

const departmentColumns = `id, name, description, is_active, created_at, updated_at`

type departmentRepository struct {
	BaseRepository
}

func NewDepartmentRepository(base BaseRepository) repository.DepartmentRepository {
	return &departmentRepository{BaseRepository: base}
}

func (r *departmentRepository) Create(ctx context.Context, dept *model.Department) (err error) {
	defer r.observe("departments.create", time.Now(), &err)

	query := `
		INSERT INTO departments (name, description, is_active)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err = r.conn(ctx).QueryRowxContext(ctx, query, dept.Name, dept.Description, dept.IsActive).
		Scan(&dept.ID, &dept.CreatedAt, &dept.UpdatedAt)
	return translate(err, "create department")
}

func (r *departmentRepository) GetByID(ctx context.Context, id int64) (_ *model.Department, err error) {
	defer r.observe("departments.get", time.Now(), &err)

	var dept model.Department
	query := `SELECT ` + departmentColumns + ` FROM departments WHERE id = $1`
	if err = sqlx.GetContext(ctx, r.conn(ctx), &dept, query, id); err != nil {
		return nil, translate(err, "get department")
	}
	return &dept, nil
}

func (r *departmentRepository) GetByName(ctx context.Context, name string) (_ *model.Department, err error) {
	defer r.observe("departments.get_by_name", time.Now(), &err)

	var dept model.Department
	query := `SELECT ` + departmentColumns + ` FROM departments WHERE name = $1`
	if err = sqlx.GetContext(ctx, r.conn(ctx), &dept, query, name); err != nil {
		return nil, translate(err, "get department by name")
	}
	return &dept, nil
}

func (r *departmentRepository) Update(ctx context.Context, dept *model.Department) (err error) {
	defer r.observe("departments.update", time.Now(), &err)

	query := `
		UPDATE departments
		SET name = $1, description = $2, is_active = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at`

	err = r.conn(ctx).QueryRowxContext(ctx, query, dept.Name, dept.Description, dept.IsActive, dept.ID).
		Scan(&dept.UpdatedAt)
	return translate(err, "update department")
}

func (r *departmentRepository) List(ctx context.Context, filter model.DepartmentFilter) (_ []*model.Department, total int, err error) {
	defer r.observe("departments.list", time.Now(), &err)

	w := &where{}
	if filter.ActiveOnly {
		w.raw("is_active")
	}

	if err = sqlx.GetContext(ctx, r.conn(ctx), &total, `SELECT COUNT(*) FROM departments`+w.String(), w.args...); err != nil {
		return nil, 0, translate(err, "count departments")
	}

	limit, args := w.paginate(filter.Page)
	depts := []*model.Department{}
	query := `SELECT ` + departmentColumns + ` FROM departments` + w.String() + ` ORDER BY name, id` + limit
	if err = sqlx.SelectContext(ctx, r.conn(ctx), &depts, query, args...); err != nil {
		return nil, 0, translate(err, "list departments")
	}
	return depts, total, nil
}
