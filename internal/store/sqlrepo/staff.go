package sqlrepo

import (
	"context"

	"github.com/dropDatabas3/adminhub/internal/domain/repository"
	"github.com/dropDatabas3/adminhub/internal/store/sqldb"
)

var staffTable = table{
	name:         "ad_staff",
	entity:       "staff",
	columns:      []string{"tenant_id", "position", "job_number", "sex", "entry_time", "introduce"},
	tenantScoped: true,
	orderBy:      []string{"id DESC"},
}

type staffRepo struct{ base[repository.Staff] }

// NewStaffRepo crea el repositorio de empleados sobre db.
func NewStaffRepo(db *sqldb.DB, scope Scope) repository.StaffRepository {
	return &staffRepo{newBase[repository.Staff](db, scope, staffTable)}
}

func (r *staffRepo) Get(ctx context.Context, id int64) (*repository.Staff, error) {
	return r.get(ctx, id)
}

func (r *staffRepo) List(ctx context.Context, f repository.StaffFilter) ([]repository.Staff, error) {
	return r.list(ctx, keyLike(r.q.Type(), f.Key, "position", "job_number", "introduce"))
}

func (r *staffRepo) Page(ctx context.Context, q repository.PageQuery[repository.StaffFilter]) (*repository.PageResult[repository.Staff], error) {
	return r.page(ctx, keyLike(r.q.Type(), q.Filter.Key, "position", "job_number", "introduce"), q.CurrentPage, q.PageSize)
}

func (r *staffRepo) values(s *repository.Staff) map[string]any {
	var sex any
	if s.Sex != nil {
		sex = int64(*s.Sex)
	}
	return map[string]any{
		"position":   s.Position,
		"job_number": s.JobNumber,
		"sex":        sex,
		"entry_time": timeValue(s.EntryTime),
		"introduce":  s.Introduce,
	}
}

func (r *staffRepo) Create(ctx context.Context, s *repository.Staff) error {
	return r.insert(ctx, &s.EntityBase, &s.TenantID, r.values(s))
}

func (r *staffRepo) Update(ctx context.Context, s *repository.Staff) error {
	return r.update(ctx, &s.EntityBase, r.values(s))
}

func (r *staffRepo) SoftDelete(ctx context.Context, ids ...int64) (int64, error) {
	return r.softDelete(ctx, ids)
}
