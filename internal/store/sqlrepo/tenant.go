package sqlrepo

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/dropDatabas3/adminhub/internal/domain/repository"
	"github.com/dropDatabas3/adminhub/internal/store/sqldb"
)

var tenantTable = table{
	name:   "ad_tenant",
	entity: "tenant",
	columns: []string{
		"name", "code", "real_name", "phone", "email", "db_type", "connection_string",
		"idle_time", "data_isolation_type", "enabled", "description",
	},
	orderBy: []string{"id DESC"},
}

type tenantRepo struct{ base[repository.Tenant] }

// NewTenantRepo crea el repositorio de tenants. Siempre sobre la DB principal,
// nunca filtrado por tenant.
func NewTenantRepo(db *sqldb.DB, scope Scope) repository.TenantRepository {
	return &tenantRepo{newBase[repository.Tenant](db, scope.Platform(), tenantTable)}
}

func (r *tenantRepo) Get(ctx context.Context, id int64) (*repository.Tenant, error) {
	return r.get(ctx, id)
}

func (r *tenantRepo) GetConnection(ctx context.Context, id int64) (*repository.TenantConnection, error) {
	var out repository.TenantConnection
	sb := r.q.Builder().
		Select("id", "db_type", "connection_string", "idle_time", "data_isolation_type", "enabled").
		From(tenantTable.name).
		Where(sq.Eq{"id": id, "is_deleted": false})
	if err := r.q.Get(ctx, &out, sb); err != nil {
		return nil, fmt.Errorf("tenant %d connection: %w", id, err)
	}
	return &out, nil
}

func (r *tenantRepo) where(f repository.TenantFilter) sq.Sqlizer {
	return keyLike(r.q.Type(), f.Key, "name", "code")
}

func (r *tenantRepo) List(ctx context.Context, f repository.TenantFilter) ([]repository.Tenant, error) {
	return r.list(ctx, r.where(f))
}

func (r *tenantRepo) Page(ctx context.Context, q repository.PageQuery[repository.TenantFilter]) (*repository.PageResult[repository.Tenant], error) {
	return r.page(ctx, r.where(q.Filter), q.CurrentPage, q.PageSize)
}

func (r *tenantRepo) checkCode(ctx context.Context, t *repository.Tenant) error {
	dup, err := r.exists(ctx, sq.Eq{"code": t.Code}, t.ID)
	if err != nil {
		return err
	}
	if dup {
		return fmt.Errorf("tenant code %q: %w", t.Code, repository.ErrConflict)
	}
	return nil
}

func (r *tenantRepo) values(t *repository.Tenant) map[string]any {
	return map[string]any{
		"name":                t.Name,
		"code":                strings.TrimSpace(t.Code),
		"real_name":           t.RealName,
		"phone":               t.Phone,
		"email":               t.Email,
		"db_type":             string(t.DbType),
		"connection_string":   t.ConnectionString,
		"idle_time":           intPtrValue(t.IdleTime),
		"data_isolation_type": string(t.DataIsolationType),
		"enabled":             t.Enabled,
		"description":         t.Description,
	}
}

func (r *tenantRepo) Create(ctx context.Context, t *repository.Tenant) error {
	if err := r.checkCode(ctx, t); err != nil {
		return err
	}
	var noTenant *int64
	return r.insert(ctx, &t.EntityBase, &noTenant, r.values(t))
}

func (r *tenantRepo) Update(ctx context.Context, t *repository.Tenant) error {
	if err := r.checkCode(ctx, t); err != nil {
		return err
	}
	return r.update(ctx, &t.EntityBase, r.values(t))
}

func (r *tenantRepo) SoftDelete(ctx context.Context, ids ...int64) (int64, error) {
	return r.softDelete(ctx, ids)
}
