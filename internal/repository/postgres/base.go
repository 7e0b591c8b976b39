package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/repository"
	"github.com/jwalitptl/hospital-scheduling/pkg/metrics"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db      *sqlx.DB
	metrics *metrics.Metrics
}

// NewBaseRepository creates a new base repository. m may be nil.
func NewBaseRepository(db *sqlx.DB, m *metrics.Metrics) BaseRepository {
	return BaseRepository{db: db, metrics: m}
}

// GetDB returns the database instance
func (r BaseRepository) GetDB() *sqlx.DB {
	return r.db
}

type txKey struct{}

// WithinTx executes fn within a transaction. Nested calls join the outer one.
func (r BaseRepository) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	defer r.observe("tx", time.Now(), &err)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// conn returns the transaction bound to ctx, or the pool.
func (r BaseRepository) conn(ctx context.Context) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return r.db
}

func (r BaseRepository) observe(op string, start time.Time, errp *error) {
	if r.metrics == nil {
		return
	}
	status := "ok"
	if errp != nil && *errp != nil && !errors.Is(*errp, repository.ErrNotFound) {
		status = "error"
	}
	r.metrics.DatabaseOperations.WithLabelValues(op, status).Inc()
	r.metrics.DatabaseLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// where accumulates AND-ed predicates with positional arguments.
// Clauses use %d (or %[1]d) where the next placeholder number goes.
type where struct {
	clauses []string
	args    []interface{}
}

func (w *where) add(clause string, arg interface{}) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, fmt.Sprintf(clause, len(w.args)))
}

func (w *where) raw(clause string) {
	w.clauses = append(w.clauses, clause)
}

func (w *where) scope(alias string, scope model.Scope) {
	if !scope.IncludeDeleted {
		w.raw(alias + ".deleted_at IS NULL")
	}
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// paginate appends LIMIT/OFFSET placeholders and returns the full arg list.
func (w *where) paginate(page model.Page) (string, []interface{}) {
	n := len(w.args)
	args := append(append([]interface{}{}, w.args...), page.Limit, page.Offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2), args
}

func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
