package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/repository"
)

const userColumns = `id, email, password_hash, is_admin, is_active, created_at, updated_at`

type userRepository struct {
	BaseRepository
}

func NewUserRepository(base BaseRepository) repository.UserRepository {
	return &userRepository{BaseRepository: base}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) (err error) {
	defer r.observe("users.create", time.Now(), &err)

	query := `
		INSERT INTO users (email, password_hash, is_admin, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err = r.conn(ctx).QueryRowxContext(ctx, query,
		user.Email,
		user.PasswordHash,
		user.IsAdmin,
		user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	return translate(err, "create user")
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (_ *model.User, err error) {
	defer r.observe("users.get", time.Now(), &err)

	var user model.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err = sqlx.GetContext(ctx, r.conn(ctx), &user, query, id); err != nil {
		return nil, translate(err, "get user")
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (_ *model.User, err error) {
	defer r.observe("users.get_by_email", time.Now(), &err)

	var user model.User
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	if err = sqlx.GetContext(ctx, r.conn(ctx), &user, query, email); err != nil {
		return nil, translate(err, "get user by email")
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, page model.Page) (_ []*model.User, total int, err error) {
	defer r.observe("users.list", time.Now(), &err)

	if err = sqlx.GetContext(ctx, r.conn(ctx), &total, `SELECT COUNT(*) FROM users`); err != nil {
		return nil, 0, translate(err, "count users")
	}

	users := []*model.User{}
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT $1 OFFSET $2`
	if err = sqlx.SelectContext(ctx, r.conn(ctx), &users, query, page.Limit, page.Offset); err != nil {
		return nil, 0, translate(err, "list users")
	}
	return users, total, nil
}
