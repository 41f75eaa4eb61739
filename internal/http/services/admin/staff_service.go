package admin

import (
	"context"
	"strings"

	"github.com/dropDatabas3/adminhub/internal/audit"
	"github.com/dropDatabas3/adminhub/internal/domain/repository"
	dto "github.com/dropDatabas3/adminhub/internal/http/dto/admin"
	"github.com/dropDatabas3/adminhub/internal/observability/logger"
	"github.com/dropDatabas3/adminhub/internal/store"
	"github.com/dropDatabas3/adminhub/internal/validation"
)

// StaffService define las operaciones sobre empleados del tenant actual.
type StaffService interface {
	Get(ctx context.Context, tda store.TenantDataAccess, id int64) (*repository.Staff, error)
	List(ctx context.Context, tda store.TenantDataAccess, f repository.StaffFilter) ([]repository.Staff, error)
	Page(ctx context.Context, tda store.TenantDataAccess, q repository.PageQuery[repository.StaffFilter]) (*repository.PageResult[repository.Staff], error)
	Create(ctx context.Context, tda store.TenantDataAccess, req dto.StaffRequest) (*repository.Staff, error)
	Update(ctx context.Context, tda store.TenantDataAccess, id int64, req dto.StaffRequest) (*repository.Staff, error)
	Delete(ctx context.Context, tda store.TenantDataAccess, id int64) error
	BatchDelete(ctx context.Context, tda store.TenantDataAccess, ids []int64) (int64, error)
}

type staffService struct{}

func NewStaffService() StaffService { return staffService{} }

func (staffService) Get(ctx context.Context, tda store.TenantDataAccess, id int64) (*repository.Staff, error) {
	return tda.Staff().Get(ctx, id)
}

func (staffService) List(ctx context.Context, tda store.TenantDataAccess, f repository.StaffFilter) ([]repository.Staff, error) {
	return tda.Staff().List(ctx, f)
}

func (staffService) Page(ctx context.Context, tda store.TenantDataAccess, q repository.PageQuery[repository.StaffFilter]) (*repository.PageResult[repository.Staff], error) {
	return tda.Staff().Page(ctx, q.Normalize())
}

// applyStaff valida req y lo vuelca sobre s.
func applyStaff(s *repository.Staff, req dto.StaffRequest) error {
	req.JobNumber = strings.TrimSpace(req.JobNumber)
	if !validation.MaxLen(req.JobNumber, repository.StaffJobNumberMaxLen) {
		return invalid("job_number", "máximo %d caracteres", repository.StaffJobNumberMaxLen)
	}
	if !validation.MaxLen(req.Introduce, repository.StaffIntroduceMaxLen) {
		return invalid("introduce", "máximo %d caracteres", repository.StaffIntroduceMaxLen)
	}
	if !validation.MaxLen(req.Position, 50) {
		return invalid("position", "máximo 50 caracteres")
	}
	s.Sex = nil
	if req.Sex != nil {
		sex := repository.Sex(*req.Sex)
		if !sex.Valid() {
			return invalid("sex", "valor %d fuera de rango (0, 1, 2)", *req.Sex)
		}
		s.Sex = &sex
	}
	s.Position = strings.TrimSpace(req.Position)
	s.JobNumber = req.JobNumber
	s.EntryTime = req.EntryTime
	s.Introduce = req.Introduce
	return nil
}

func (staffService) Create(ctx context.Context, tda store.TenantDataAccess, req dto.StaffRequest) (*repository.Staff, error) {
	s := &repository.Staff{}
	if err := applyStaff(s, req); err != nil {
		return nil, err
	}
	if err := tda.Staff().Create(ctx, s); err != nil {
		return nil, err
	}
	audit.Log(ctx, audit.EventCreate, "staff", logger.EntityID(s.ID))
	return s, nil
}

func (staffService) Update(ctx context.Context, tda store.TenantDataAccess, id int64, req dto.StaffRequest) (*repository.Staff, error) {
	s, err := tda.Staff().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyStaff(s, req); err != nil {
		return nil, err
	}
	s.Version = req.Version
	if err := tda.Staff().Update(ctx, s); err != nil {
		return nil, err
	}
	audit.Log(ctx, audit.EventUpdate, "staff", logger.EntityID(s.ID))
	return s, nil
}

func (staffService) Delete(ctx context.Context, tda store.TenantDataAccess, id int64) error {
	n, err := tda.Staff().SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if err := deletedOne("staff", id, n); err != nil {
		return err
	}
	audit.Log(ctx, audit.EventDelete, "staff", logger.EntityID(id))
	return nil
}

func (staffService) BatchDelete(ctx context.Context, tda store.TenantDataAccess, ids []int64) (int64, error) {
	if err := requireIDs(ids); err != nil {
		return 0, err
	}
	n, err := tda.Staff().SoftDelete(ctx, ids...)
	if err != nil {
		return 0, err
	}
	audit.Log(ctx, audit.EventDelete, "staff", logger.Count(len(ids)), logger.Affected(n))
	return n, nil
}
