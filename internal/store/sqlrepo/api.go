package sqlrepo

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/dropDatabas3/adminhub/internal/domain/repository"
	"github.com/dropDatabas3/adminhub/internal/store/sqldb"
)

var apiTable = table{
	name:    "ad_api",
	entity:  "api",
	columns: []string{"parent_id", "name", "label", "path", "http_methods", "description", "sort", "enabled"},
	orderBy: []string{"sort ASC", "id ASC"},
}

type apiRepo struct{ base[repository.Api] }

// NewApiRepo crea el repositorio de APIs. Opera sobre la DB principal sin filtro por tenant.
func NewApiRepo(db *sqldb.DB, scope Scope) repository.ApiRepository {
	return &apiRepo{newBase[repository.Api](db, scope.Platform(), apiTable)}
}

func (r *apiRepo) Get(ctx context.Context, id int64) (*repository.Api, error) {
	return r.get(ctx, id)
}

func (r *apiRepo) GetByPath(ctx context.Context, path string) (*repository.Api, error) {
	var out repository.Api
	if err := r.q.Get(ctx, &out, r.selectVisible().Where(sq.Eq{"path": path})); err != nil {
		return nil, fmt.Errorf("api %q: %w", path, err)
	}
	return &out, nil
}

func (r *apiRepo) where(f repository.ApiFilter) sq.Sqlizer {
	return keyLike(r.q.Type(), f.Key, "name", "label", "path")
}

func (r *apiRepo) List(ctx context.Context, f repository.ApiFilter) ([]repository.Api, error) {
	return r.list(ctx, r.where(f))
}

func (r *apiRepo) Page(ctx context.Context, q repository.PageQuery[repository.ApiFilter]) (*repository.PageResult[repository.Api], error) {
	return r.page(ctx, r.where(q.Filter), q.CurrentPage, q.PageSize)
}

func (r *apiRepo) checkPath(ctx context.Context, a *repository.Api) error {
	dup, err := r.exists(ctx, sq.Eq{"path": a.Path}, a.ID)
	if err != nil {
		return err
	}
	if dup {
		return fmt.Errorf("api path %q: %w", a.Path, repository.ErrConflict)
	}
	return nil
}

func (r *apiRepo) values(a *repository.Api) map[string]any {
	return map[string]any{
		"parent_id":    a.ParentID,
		"name":         a.Name,
		"label":        a.Label,
		"path":         a.Path,
		"http_methods": a.HttpMethods,
		"description":  a.Description,
		"sort":         int64(a.Sort),
		"enabled":      a.Enabled,
	}
}

func (r *apiRepo) Create(ctx context.Context, a *repository.Api) error {
	if err := r.checkPath(ctx, a); err != nil {
		return err
	}
	var noTenant *int64
	return r.insert(ctx, &a.EntityBase, &noTenant, r.values(a))
}

func (r *apiRepo) Update(ctx context.Context, a *repository.Api) error {
	if err := r.checkPath(ctx, a); err != nil {
		return err
	}
	return r.update(ctx, &a.EntityBase, r.values(a))
}

func (r *apiRepo) SoftDelete(ctx context.Context, ids ...int64) (int64, error) {
	return r.softDelete(ctx, ids)
}

// Sync hace upsert por path en una transacción: crea las nuevas, actualiza y
// habilita las existentes, resuelve parent_id por ParentPath y deshabilita
// las que no vinieron.
func (r *apiRepo) Sync(ctx context.Context, items []repository.ApiSyncItem) (*repository.ApiSyncResult, error) {
	items = append([]repository.ApiSyncItem(nil), items...)
	seen := make(map[string]struct{}, len(items))
	for i := range items {
		items[i].Path = strings.TrimSpace(items[i].Path)
		items[i].ParentPath = strings.TrimSpace(items[i].ParentPath)
		p := items[i].Path
		if p == "" {
			return nil, fmt.Errorf("api sync: item %d sin path: %w", i, repository.ErrInvalidInput)
		}
		if _, dup := seen[p]; dup {
			return nil, fmt.Errorf("api sync: path %q duplicado: %w", p, repository.ErrInvalidInput)
		}
		seen[p] = struct{}{}
	}

	res := &repository.ApiSyncResult{}
	err := r.db.InTx(ctx, func(q sqldb.Querier) error {
		tx := &apiRepo{r.withQuerier(q)}
		existing, err := tx.list(ctx, nil)
		if err != nil {
			return err
		}
		byPath := make(map[string]*repository.Api, len(existing))
		for i := range existing {
			byPath[existing[i].Path] = &existing[i]
		}

		for i, it := range items {
			cur, ok := byPath[it.Path]
			if !ok {
				a := &repository.Api{
					Name:        it.Label,
					Label:       it.Label,
					Path:        it.Path,
					HttpMethods: it.HttpMethods,
					Description: it.Description,
					Sort:        i + 1,
					Enabled:     true,
				}
				var noTenant *int64
				if err := tx.insert(ctx, &a.EntityBase, &noTenant, tx.values(a)); err != nil {
					return err
				}
				byPath[a.Path] = a
				res.Added++
				continue
			}
			if cur.Label == it.Label && cur.HttpMethods == it.HttpMethods &&
				cur.Description == it.Description && cur.Enabled {
				continue
			}
			cur.Label, cur.HttpMethods, cur.Description, cur.Enabled = it.Label, it.HttpMethods, it.Description, true
			if cur.Name == "" {
				cur.Name = it.Label
			}
			if err := tx.update(ctx, &cur.EntityBase, tx.values(cur)); err != nil {
				return err
			}
			res.Updated++
		}

		// parent_id se resuelve después de crear todas para admitir cualquier orden.
		for _, it := range items {
			var parentID int64
			if it.ParentPath != "" {
				if p, ok := byPath[it.ParentPath]; ok {
					parentID = p.ID
				}
			}
			cur := byPath[it.Path]
			if cur.ParentID == parentID {
				continue
			}
			cur.ParentID = parentID
			if err := tx.update(ctx, &cur.EntityBase, tx.values(cur)); err != nil {
				return err
			}
		}

		for path, cur := range byPath {
			if _, ok := seen[path]; ok || !cur.Enabled {
				continue
			}
			cur.Enabled = false
			if err := tx.update(ctx, &cur.EntityBase, tx.values(cur)); err != nil {
				return err
			}
			res.Disabled++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
