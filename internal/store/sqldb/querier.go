package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/dropDatabas3/adminhub/internal/domain/repository"
	"github.com/dropDatabas3/adminhub/internal/observability/logger"
)

// Querier ejecuta builders de squirrel contra la DB o una transacción.
type Querier interface {
	Select(ctx context.Context, dest any, b sq.Sqlizer) error
	Get(ctx context.Context, dest any, b sq.Sqlizer) error
	Exec(ctx context.Context, b sq.Sqlizer) (sql.Result, error)
	// Insert ejecuta el INSERT y devuelve el id generado.
	Insert(ctx context.Context, b sq.InsertBuilder) (int64, error)
	Builder() sq.StatementBuilderType
	Type() repository.DbType
	Now() time.Time
}

type runner struct {
	db  *DB
	ext sqlx.ExtContext
}

func (r *runner) Builder() sq.StatementBuilderType { return r.db.builder }
func (r *runner) Type() repository.DbType          { return r.db.typ }
func (r *runner) Now() time.Time                   { return r.db.Now() }

func (r *runner) build(ctx context.Context, b sq.Sqlizer) (string, []any, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("sqldb: build sql: %w", err)
	}
	if r.db.monitor {
		logger.From(ctx).Debug("sql",
			logger.Component("sqldb"), logger.Key(r.db.name), logger.SQL(query), logger.Args(args))
	}
	return query, args, nil
}

func (r *runner) Select(ctx context.Context, dest any, b sq.Sqlizer) error {
	query, args, err := r.build(ctx, b)
	if err != nil {
		return err
	}
	return MapError(sqlx.SelectContext(ctx, r.ext, dest, query, args...))
}

func (r *runner) Get(ctx context.Context, dest any, b sq.Sqlizer) error {
	query, args, err := r.build(ctx, b)
	if err != nil {
		return err
	}
	return MapError(sqlx.GetContext(ctx, r.ext, dest, query, args...))
}

func (r *runner) Exec(ctx context.Context, b sq.Sqlizer) (sql.Result, error) {
	query, args, err := r.build(ctx, b)
	if err != nil {
		return nil, err
	}
	res, err := r.ext.ExecContext(ctx, query, args...)
	return res, MapError(err)
}

func (r *runner) Insert(ctx context.Context, b sq.InsertBuilder) (int64, error) {
	// pgx no implementa LastInsertId; en postgres se usa RETURNING.
	if r.db.typ == repository.DbTypePostgreSQL {
		var id int64
		if err := r.Get(ctx, &id, b.Suffix("RETURNING id")); err != nil {
			return 0, err
		}
		return id, nil
	}
	res, err := r.Exec(ctx, b)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
