package sqlrepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/dropDatabas3/adminhub/internal/domain/repository"
	"github.com/dropDatabas3/adminhub/internal/store/sqldb"
)

// table describe una tabla de entidad.
type table struct {
	name    string
	entity  string
	columns []string // columnas propias, sin las de EntityBase
	// tenantScoped indica que la tabla tiene tenant_id y admite filtro.
	tenantScoped bool
	orderBy      []string
}

func (t table) selectColumns() []string {
	cols := make([]string, 0, len(repository.BaseColumns)+len(t.columns))
	cols = append(cols, repository.BaseColumns...)
	return append(cols, t.columns...)
}

// base es la parte común de todos los repositorios.
type base[T any] struct {
	db    *sqldb.DB
	q     sqldb.Querier
	scope Scope
	tbl   table
}

func newBase[T any](db *sqldb.DB, scope Scope, tbl table) base[T] {
	return base[T]{db: db, q: db.Querier(), scope: scope, tbl: tbl}
}

// withQuerier devuelve una copia que ejecuta sobre q (una transacción).
func (b base[T]) withQuerier(q sqldb.Querier) base[T] {
	b.q = q
	return b
}

// visible: no eliminados y, si corresponde, del tenant del scope.
func (b base[T]) visible() sq.And {
	preds := sq.And{sq.Eq{"is_deleted": false}}
	if p := b.tenantPred(); p != nil {
		preds = append(preds, p)
	}
	return preds
}

func (b base[T]) tenantPred() sq.Sqlizer {
	if !b.tbl.tenantScoped || !b.scope.FilterTenant {
		return nil
	}
	if b.scope.TenantID == nil {
		return sq.Eq{"tenant_id": nil}
	}
	return sq.Eq{"tenant_id": *b.scope.TenantID}
}

func (b base[T]) selectVisible() sq.SelectBuilder {
	return b.q.Builder().Select(b.tbl.selectColumns()...).From(b.tbl.name).Where(b.visible())
}

func (b base[T]) get(ctx context.Context, id int64) (*T, error) {
	var out T
	if err := b.q.Get(ctx, &out, b.selectVisible().Where(sq.Eq{"id": id})); err != nil {
		return nil, fmt.Errorf("%s %d: %w", b.tbl.entity, id, err)
	}
	return &out, nil
}

func (b base[T]) list(ctx context.Context, where sq.Sqlizer) ([]T, error) {
	sb := b.selectVisible().OrderBy(b.tbl.orderBy...)
	if where != nil {
		sb = sb.Where(where)
	}
	out := []T{}
	if err := b.q.Select(ctx, &out, sb); err != nil {
		return nil, fmt.Errorf("list %s: %w", b.tbl.entity, err)
	}
	return out, nil
}

func (b base[T]) page(ctx context.Context, where sq.Sqlizer, currentPage, pageSize int) (*repository.PageResult[T], error) {
	pq := repository.PageQuery[struct{}]{CurrentPage: currentPage, PageSize: pageSize}.Normalize()

	count := b.q.Builder().Select("COUNT(*)").From(b.tbl.name).Where(b.visible())
	sb := b.selectVisible().OrderBy(b.tbl.orderBy...).
		Limit(uint64(pq.PageSize)).Offset(pq.Offset())
	if where != nil {
		count = count.Where(where)
		sb = sb.Where(where)
	}

	res := &repository.PageResult[T]{List: []T{}}
	if err := b.q.Get(ctx, &res.Total, count); err != nil {
		return nil, fmt.Errorf("count %s: %w", b.tbl.entity, err)
	}
	if res.Total == 0 {
		return res, nil
	}
	if err := b.q.Select(ctx, &res.List, sb); err != nil {
		return nil, fmt.Errorf("page %s: %w", b.tbl.entity, err)
	}
	return res, nil
}

// exists indica si hay filas visibles que cumplan where, excluyendo exceptID.
func (b base[T]) exists(ctx context.Context, where sq.Sqlizer, exceptID int64) (bool, error) {
	sb := b.q.Builder().Select("COUNT(*)").From(b.tbl.name).Where(b.visible()).Where(where)
	if exceptID > 0 {
		sb = sb.Where(sq.NotEq{"id": exceptID})
	}
	var n int64
	if err := b.q.Get(ctx, &n, sb); err != nil {
		return false, err
	}
	return n > 0, nil
}

// insert estampa auditoría en e, agrega tenant_id si corresponde y asigna e.ID.
// Con FilterTenant y sin tenant en el scope no inserta: la fila quedaría huérfana.
func (b base[T]) insert(ctx context.Context, e *repository.EntityBase, tenantID **int64, values map[string]any) error {
	if b.tbl.tenantScoped && b.scope.FilterTenant && b.scope.TenantID == nil {
		return fmt.Errorf("insert %s sin tenant: %w", b.tbl.entity, repository.ErrInvalidInput)
	}
	now := b.q.Now()
	e.Version = 0
	e.IsDeleted = false
	e.CreatedUserID, e.CreatedUserName, e.CreatedTime = b.scope.UserID, b.scope.UserName, &now
	e.ModifiedUserID, e.ModifiedUserName, e.ModifiedTime = nil, "", nil

	if b.tbl.tenantScoped {
		if b.scope.FilterTenant {
			*tenantID = b.scope.TenantID
		}
		values["tenant_id"] = *tenantID
	}
	values["version"] = e.Version
	values["is_deleted"] = false
	values["created_user_id"] = e.CreatedUserID
	values["created_user_name"] = e.CreatedUserName
	values["created_time"] = now

	id, err := b.q.Insert(ctx, b.q.Builder().Insert(b.tbl.name).SetMap(values))
	if err != nil {
		return fmt.Errorf("insert %s: %w", b.tbl.entity, err)
	}
	e.ID = id
	b.db.LogCurd(ctx, "insert", b.tbl.entity, 1, id)
	return nil
}

// update aplica values con control optimista de versión.
// Si no se actualiza ninguna fila distingue entre inexistente y versión vieja.
func (b base[T]) update(ctx context.Context, e *repository.EntityBase, values map[string]any) error {
	now := b.q.Now()
	values["version"] = sq.Expr("version + 1")
	values["modified_user_id"] = b.scope.UserID
	values["modified_user_name"] = b.scope.UserName
	values["modified_time"] = now

	ub := b.q.Builder().Update(b.tbl.name).SetMap(values).
		Where(b.visible()).
		Where(sq.Eq{"id": e.ID, "version": e.Version})
	res, err := b.q.Exec(ctx, ub)
	if err != nil {
		return fmt.Errorf("update %s %d: %w", b.tbl.entity, e.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		found, err := b.exists(ctx, sq.Eq{"id": e.ID}, 0)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%s %d: %w", b.tbl.entity, e.ID, repository.ErrNotFound)
		}
		return fmt.Errorf("%s %d version %d: %w", b.tbl.entity, e.ID, e.Version, repository.ErrPreconditionFailed)
	}
	e.Version++
	e.ModifiedUserID, e.ModifiedUserName, e.ModifiedTime = b.scope.UserID, b.scope.UserName, &now
	b.db.LogCurd(ctx, "update", b.tbl.entity, n, e.ID)
	return nil
}

// softDelete marca ids como eliminados y devuelve la cantidad afectada.
func (b base[T]) softDelete(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ub := b.q.Builder().Update(b.tbl.name).
		Set("is_deleted", true).
		Set("version", sq.Expr("version + 1")).
		Set("modified_user_id", b.scope.UserID).
		Set("modified_user_name", b.scope.UserName).
		Set("modified_time", b.q.Now()).
		Where(b.visible()).
		Where(sq.Eq{"id": ids})
	res, err := b.q.Exec(ctx, ub)
	if err != nil {
		return 0, fmt.Errorf("soft delete %s: %w", b.tbl.entity, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	b.db.LogCurd(ctx, "soft_delete", b.tbl.entity, n, ids...)
	return n, nil
}

// keyLike arma (col1 LIKE %key% OR col2 LIKE %key% ...); ILIKE en postgres.
func keyLike(t repository.DbType, key string, cols ...string) sq.Sqlizer {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	pattern := "%" + key + "%"
	or := sq.Or{}
	for _, c := range cols {
		if t == repository.DbTypePostgreSQL {
			or = append(or, sq.ILike{c: pattern})
		} else {
			or = append(or, sq.Like{c: pattern})
		}
	}
	return or
}

// and combina predicados ignorando los nil.
func and(preds ...sq.Sqlizer) sq.Sqlizer {
	out := sq.And{}
	for _, p := range preds {
		if p != nil {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func timeValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func intPtrValue(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}
