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

// ApiService define las operaciones sobre APIs de la plataforma.
type ApiService interface {
	Get(ctx context.Context, id int64) (*repository.Api, error)
	List(ctx context.Context, f repository.ApiFilter) ([]repository.Api, error)
	Page(ctx context.Context, q repository.PageQuery[repository.ApiFilter]) (*repository.PageResult[repository.Api], error)
	Create(ctx context.Context, req dto.ApiRequest) (*repository.Api, error)
	Update(ctx context.Context, id int64, req dto.ApiRequest) (*repository.Api, error)
	Delete(ctx context.Context, id int64) error
	BatchDelete(ctx context.Context, ids []int64) (int64, error)
	Sync(ctx context.Context, items []dto.ApiSyncItem) (*repository.ApiSyncResult, error)
}

type apiService struct {
	dal store.DataAccessLayer
}

func NewApiService(dal store.DataAccessLayer) ApiService {
	return &apiService{dal: dal}
}

func (s *apiService) repo(ctx context.Context) repository.ApiRepository {
	return s.dal.Platform(currentUser(ctx)).Apis()
}

func (s *apiService) Get(ctx context.Context, id int64) (*repository.Api, error) {
	return s.repo(ctx).Get(ctx, id)
}

func (s *apiService) List(ctx context.Context, f repository.ApiFilter) ([]repository.Api, error) {
	return s.repo(ctx).List(ctx, f)
}

func (s *apiService) Page(ctx context.Context, q repository.PageQuery[repository.ApiFilter]) (*repository.PageResult[repository.Api], error) {
	return s.repo(ctx).Page(ctx, q.Normalize())
}

func applyApi(a *repository.Api, req dto.ApiRequest) error {
	path := strings.TrimSpace(req.Path)
	if !validation.ValidApiPath(path) {
		return invalid("path", "path inválido %q", path)
	}
	methods, ok := validation.NormalizeHttpMethods(req.HttpMethods)
	if !ok {
		return invalid("http_methods", "método desconocido en %q", req.HttpMethods)
	}
	if req.ParentID < 0 {
		return invalid("parent_id", "no puede ser negativo")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = path
	}
	if !validation.MaxLen(name, 100) || !validation.MaxLen(req.Label, 100) {
		return invalid("name", "name y label admiten hasta 100 caracteres")
	}
	a.ParentID = req.ParentID
	a.Name = name
	a.Label = strings.TrimSpace(req.Label)
	a.Path = path
	a.HttpMethods = methods
	a.Description = req.Description
	a.Sort = req.Sort
	if req.Enabled != nil {
		a.Enabled = *req.Enabled
	}
	return nil
}

func (s *apiService) Create(ctx context.Context, req dto.ApiRequest) (*repository.Api, error) {
	a := &repository.Api{Enabled: true}
	if err := applyApi(a, req); err != nil {
		return nil, err
	}
	if err := s.repo(ctx).Create(ctx, a); err != nil {
		return nil, err
	}
	audit.Log(ctx, audit.EventCreate, "api", logger.EntityID(a.ID), logger.Path(a.Path))
	return a, nil
}

func (s *apiService) Update(ctx context.Context, id int64, req dto.ApiRequest) (*repository.Api, error) {
	repo := s.repo(ctx)
	a, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyApi(a, req); err != nil {
		return nil, err
	}
	if a.ParentID == a.ID {
		return nil, invalid("parent_id", "una API no puede ser su propio padre")
	}
	a.Version = req.Version
	if err := repo.Update(ctx, a); err != nil {
		return nil, err
	}
	audit.Log(ctx, audit.EventUpdate, "api", logger.EntityID(a.ID))
	return a, nil
}

func (s *apiService) Delete(ctx context.Context, id int64) error {
	n, err := s.repo(ctx).SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if err := deletedOne("api", id, n); err != nil {
		return err
	}
	audit.Log(ctx, audit.EventDelete, "api", logger.EntityID(id))
	return nil
}

func (s *apiService) BatchDelete(ctx context.Context, ids []int64) (int64, error) {
	if err := requireIDs(ids); err != nil {
		return 0, err
	}
	n, err := s.repo(ctx).SoftDelete(ctx, ids...)
	if err != nil {
		return 0, err
	}
	audit.Log(ctx, audit.EventDelete, "api", logger.Count(len(ids)), logger.Affected(n))
	return n, nil
}

// Sync valida y normaliza la lista declarada y la sincroniza contra ad_api.
// Una lista vacía deshabilita todas las APIs.
func (s *apiService) Sync(ctx context.Context, items []dto.ApiSyncItem) (*repository.ApiSyncResult, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("admin.api"), logger.Op("Sync"))

	out := make([]repository.ApiSyncItem, 0, len(items))
	for i, it := range items {
		path := strings.TrimSpace(it.Path)
		if !validation.ValidApiPath(path) {
			return nil, invalid("apis", "item %d: path inválido %q", i, it.Path)
		}
		parent := strings.TrimSpace(it.ParentPath)
		if parent != "" && !validation.ValidApiPath(parent) {
			return nil, invalid("apis", "item %d: parent_path inválido %q", i, it.ParentPath)
		}
		methods, ok := validation.NormalizeHttpMethods(it.HttpMethods)
		if !ok {
			return nil, invalid("apis", "item %d: http_methods inválido %q", i, it.HttpMethods)
		}
		out = append(out, repository.ApiSyncItem{
			Path:        path,
			Label:       strings.TrimSpace(it.Label),
			ParentPath:  parent,
			HttpMethods: methods,
			Description: it.Description,
		})
	}

	res, err := s.repo(ctx).Sync(ctx, out)
	if err != nil {
		log.Warn("api sync failed", logger.Count(len(out)), logger.Err(err))
		return nil, err
	}
	log.Info("api sync done",
		logger.Count(len(out)),
		logger.Any("added", res.Added),
		logger.Any("updated", res.Updated),
		logger.Any("disabled", res.Disabled),
	)
	audit.Log(ctx, audit.EventSync, "api", logger.Count(len(out)))
	return res, nil
}
