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

// DictionaryTypeService define las operaciones sobre tipos de diccionario del tenant actual.
type DictionaryTypeService interface {
	Get(ctx context.Context, tda store.TenantDataAccess, id int64) (*repository.DictionaryType, error)
	List(ctx context.Context, tda store.TenantDataAccess, f repository.DictionaryTypeFilter) ([]repository.DictionaryType, error)
	Page(ctx context.Context, tda store.TenantDataAccess, q repository.PageQuery[repository.DictionaryTypeFilter]) (*repository.PageResult[repository.DictionaryType], error)
	Create(ctx context.Context, tda store.TenantDataAccess, req dto.DictionaryTypeRequest) (*repository.DictionaryType, error)
	Update(ctx context.Context, tda store.TenantDataAccess, id int64, req dto.DictionaryTypeRequest) (*repository.DictionaryType, error)
	Delete(ctx context.Context, tda store.TenantDataAccess, id int64) error
	BatchDelete(ctx context.Context, tda store.TenantDataAccess, ids []int64) (int64, error)
}

type dictionaryTypeService struct{}

func NewDictionaryTypeService() DictionaryTypeService { return dictionaryTypeService{} }

func (dictionaryTypeService) Get(ctx context.Context, tda store.TenantDataAccess, id int64) (*repository.DictionaryType, error) {
	return tda.DictionaryTypes().Get(ctx, id)
}

func (dictionaryTypeService) List(ctx context.Context, tda store.TenantDataAccess, f repository.DictionaryTypeFilter) ([]repository.DictionaryType, error) {
	return tda.DictionaryTypes().List(ctx, f)
}

func (dictionaryTypeService) Page(ctx context.Context, tda store.TenantDataAccess, q repository.PageQuery[repository.DictionaryTypeFilter]) (*repository.PageResult[repository.DictionaryType], error) {
	return tda.DictionaryTypes().Page(ctx, q.Normalize())
}

func applyDictionaryType(d *repository.DictionaryType, req dto.DictionaryTypeRequest) error {
	name := strings.TrimSpace(req.Name)
	code := strings.TrimSpace(req.Code)
	switch {
	case name == "":
		return invalid("name", "requerido")
	case !validation.MaxLen(name, 50):
		return invalid("name", "máximo 50 caracteres")
	case !validation.ValidCode(code):
		return invalid("code", "formato inválido %q", code)
	case !validation.MaxLen(req.Description, 500):
		return invalid("description", "máximo 500 caracteres")
	}
	d.Name = name
	d.Code = code
	d.Description = req.Description
	d.Sort = req.Sort
	if req.Enabled != nil {
		d.Enabled = *req.Enabled
	}
	return nil
}

func (dictionaryTypeService) Create(ctx context.Context, tda store.TenantDataAccess, req dto.DictionaryTypeRequest) (*repository.DictionaryType, error) {
	d := &repository.DictionaryType{Enabled: true}
	if err := applyDictionaryType(d, req); err != nil {
		return nil, err
	}
	if err := tda.DictionaryTypes().Create(ctx, d); err != nil {
		return nil, err
	}
	audit.Log(ctx, audit.EventCreate, "dictionary_type", logger.EntityID(d.ID), logger.Key(d.Code))
	return d, nil
}

func (dictionaryTypeService) Update(ctx context.Context, tda store.TenantDataAccess, id int64, req dto.DictionaryTypeRequest) (*repository.DictionaryType, error) {
	d, err := tda.DictionaryTypes().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyDictionaryType(d, req); err != nil {
		return nil, err
	}
	d.Version = req.Version
	if err := tda.DictionaryTypes().Update(ctx, d); err != nil {
		return nil, err
	}
	audit.Log(ctx, audit.EventUpdate, "dictionary_type", logger.EntityID(d.ID))
	return d, nil
}

func (dictionaryTypeService) Delete(ctx context.Context, tda store.TenantDataAccess, id int64) error {
	n, err := tda.DictionaryTypes().SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if err := deletedOne("dictionary type", id, n); err != nil {
		return err
	}
	audit.Log(ctx, audit.EventDelete, "dictionary_type", logger.EntityID(id))
	return nil
}

func (dictionaryTypeService) BatchDelete(ctx context.Context, tda store.TenantDataAccess, ids []int64) (int64, error) {
	if err := requireIDs(ids); err != nil {
		return 0, err
	}
	n, err := tda.DictionaryTypes().SoftDelete(ctx, ids...)
	if err != nil {
		return 0, err
	}
	audit.Log(ctx, audit.EventDelete, "dictionary_type", logger.Count(len(ids)), logger.Affected(n))
	return n, nil
}
