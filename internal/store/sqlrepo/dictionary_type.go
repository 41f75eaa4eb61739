package sqlrepo

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/dropDatabas3/adminhub/internal/domain/repository"
	"github.com/dropDatabas3/adminhub/internal/store/sqldb"
)

var dictionaryTypeTable = table{
	name:         "ad_dictionary_type",
	entity:       "dictionary_type",
	columns:      []string{"tenant_id", "name", "code", "description", "enabled", "sort"},
	tenantScoped: true,
	orderBy:      []string{"sort ASC", "id ASC"},
}

type dictionaryTypeRepo struct {
	base[repository.DictionaryType]
}

// NewDictionaryTypeRepo crea el repositorio de tipos de diccionario sobre db.
func NewDictionaryTypeRepo(db *sqldb.DB, scope Scope) repository.DictionaryTypeRepository {
	return &dictionaryTypeRepo{newBase[repository.DictionaryType](db, scope, dictionaryTypeTable)}
}

func (r *dictionaryTypeRepo) Get(ctx context.Context, id int64) (*repository.DictionaryType, error) {
	return r.get(ctx, id)
}

func (r *dictionaryTypeRepo) where(f repository.DictionaryTypeFilter) sq.Sqlizer {
	var enabled sq.Sqlizer
	if f.OnlyEnabled {
		enabled = sq.Eq{"enabled": true}
	}
	return and(keyLike(r.q.Type(), f.Key, "name", "code"), enabled)
}

func (r *dictionaryTypeRepo) List(ctx context.Context, f repository.DictionaryTypeFilter) ([]repository.DictionaryType, error) {
	return r.list(ctx, r.where(f))
}

func (r *dictionaryTypeRepo) Page(ctx context.Context, q repository.PageQuery[repository.DictionaryTypeFilter]) (*repository.PageResult[repository.DictionaryType], error) {
	return r.page(ctx, r.where(q.Filter), q.CurrentPage, q.PageSize)
}

// checkCode valida unicidad del código dentro del tenant (filas no eliminadas).
func (r *dictionaryTypeRepo) checkCode(ctx context.Context, d *repository.DictionaryType) error {
	code := strings.TrimSpace(d.Code)
	if code == "" {
		return nil
	}
	preds := sq.And{sq.Eq{"code": code}}
	if !r.scope.FilterTenant {
		if d.TenantID == nil {
			preds = append(preds, sq.Eq{"tenant_id": nil})
		} else {
			preds = append(preds, sq.Eq{"tenant_id": *d.TenantID})
		}
	}
	dup, err := r.exists(ctx, preds, d.ID)
	if err != nil {
		return err
	}
	if dup {
		return fmt.Errorf("dictionary type code %q: %w", code, repository.ErrConflict)
	}
	return nil
}

func (r *dictionaryTypeRepo) values(d *repository.DictionaryType) map[string]any {
	return map[string]any{
		"name":        d.Name,
		"code":        strings.TrimSpace(d.Code),
		"description": d.Description,
		"enabled":     d.Enabled,
		"sort":        int64(d.Sort),
	}
}

func (r *dictionaryTypeRepo) Create(ctx context.Context, d *repository.DictionaryType) error {
	if r.scope.FilterTenant {
		d.TenantID = r.scope.TenantID
	}
	if err := r.checkCode(ctx, d); err != nil {
		return err
	}
	return r.insert(ctx, &d.EntityBase, &d.TenantID, r.values(d))
}

func (r *dictionaryTypeRepo) Update(ctx context.Context, d *repository.DictionaryType) error {
	if !r.scope.FilterTenant {
		cur, err := r.get(ctx, d.ID)
		if err != nil {
			return err
		}
		d.TenantID = cur.TenantID
	}
	if err := r.checkCode(ctx, d); err != nil {
		return err
	}
	return r.update(ctx, &d.EntityBase, r.values(d))
}

func (r *dictionaryTypeRepo) SoftDelete(ctx context.Context, ids ...int64) (int64, error) {
	return r.softDelete(ctx, ids)
}
