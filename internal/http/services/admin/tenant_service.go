package admin

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dropDatabas3/adminhub/internal/audit"
	"github.com/dropDatabas3/adminhub/internal/domain/repository"
	dto "github.com/dropDatabas3/adminhub/internal/http/dto/admin"
	"github.com/dropDatabas3/adminhub/internal/observability/logger"
	"github.com/dropDatabas3/adminhub/internal/security/secretbox"
	"github.com/dropDatabas3/adminhub/internal/store"
	"github.com/dropDatabas3/adminhub/internal/store/sqldb"
	"github.com/dropDatabas3/adminhub/internal/validation"
)

// TenantService define las operaciones sobre tenants.
// Los tenants retornados llevan el connection string descifrado; quien los
// exponga debe enmascararlo (ver dto.ToTenantResponse).
type TenantService interface {
	Get(ctx context.Context, id int64) (*repository.Tenant, error)
	List(ctx context.Context, f repository.TenantFilter) ([]repository.Tenant, error)
	Page(ctx context.Context, q repository.PageQuery[repository.TenantFilter]) (*repository.PageResult[repository.Tenant], error)
	Create(ctx context.Context, req dto.TenantRequest) (*repository.Tenant, error)
	Update(ctx context.Context, id int64, req dto.TenantRequest) (*repository.Tenant, error)
	Delete(ctx context.Context, id int64) error
	BatchDelete(ctx context.Context, ids []int64) (int64, error)
	Migrate(ctx context.Context, id int64) (*sqldb.MigrationResult, error)
}

type tenantService struct {
	dal        store.DataAccessLayer
	secrets    *secretbox.Box
	migrations MigrationRecorder
}

func NewTenantService(dal store.DataAccessLayer, secrets *secretbox.Box, migrations MigrationRecorder) TenantService {
	return &tenantService{dal: dal, secrets: secrets, migrations: migrations}
}

func (s *tenantService) repo(ctx context.Context) repository.TenantRepository {
	return s.dal.Platform(currentUser(ctx)).Tenants()
}

// view descifra el connection string para la respuesta. Si no se puede
// descifrar (master key rotada) se omite.
func (s *tenantService) view(ctx context.Context, t *repository.Tenant) *repository.Tenant {
	if t.ConnectionString == "" {
		return t
	}
	plain, err := s.secrets.Decrypt(t.ConnectionString)
	if err != nil {
		logger.From(ctx).Warn("tenant connection string decrypt failed",
			logger.Component("admin.tenant"), logger.TenantID(t.ID), logger.Err(err))
		plain = ""
	}
	t.ConnectionString = plain
	return t
}

func (s *tenantService) Get(ctx context.Context, id int64) (*repository.Tenant, error) {
	t, err := s.repo(ctx).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, t), nil
}

func (s *tenantService) List(ctx context.Context, f repository.TenantFilter) ([]repository.Tenant, error) {
	list, err := s.repo(ctx).List(ctx, f)
	if err != nil {
		return nil, err
	}
	for i := range list {
		s.view(ctx, &list[i])
	}
	return list, nil
}

func (s *tenantService) Page(ctx context.Context, q repository.PageQuery[repository.TenantFilter]) (*repository.PageResult[repository.Tenant], error) {
	res, err := s.repo(ctx).Page(ctx, q.Normalize())
	if err != nil {
		return nil, err
	}
	for i := range res.List {
		s.view(ctx, &res.List[i])
	}
	return res, nil
}

// apply valida req y lo vuelca sobre t. current es el connection string
// cifrado vigente (vacío en el alta).
func (s *tenantService) apply(t *repository.Tenant, req dto.TenantRequest, current string) error {
	name := strings.TrimSpace(req.Name)
	code := strings.TrimSpace(req.Code)
	switch {
	case name == "":
		return invalid("name", "requerido")
	case !validation.MaxLen(name, 100):
		return invalid("name", "máximo 100 caracteres")
	case !validation.ValidCode(code):
		return invalid("code", "formato inválido %q", code)
	}

	iso := repository.IsolationShareDb
	if v := strings.TrimSpace(req.DataIsolationType); v != "" {
		iso = repository.DataIsolationType(strings.ToLower(v))
		if !iso.Valid() {
			return invalid("data_isolation_type", "valor %q no soportado (share_db, own_db)", v)
		}
	}

	var dbType repository.DbType
	if v := strings.TrimSpace(req.DbType); v != "" {
		dt, err := repository.ParseDbType(v)
		if err != nil {
			return invalid("db_type", "motor %q no soportado", v)
		}
		dbType = dt
	}

	conn := current
	if cs := strings.TrimSpace(req.ConnectionString); cs != "" {
		enc, err := s.secrets.Encrypt(cs)
		if err != nil {
			return err
		}
		conn = enc
	}

	if iso == repository.IsolationOwnDb {
		if dbType == "" {
			return invalid("db_type", "requerido con own_db")
		}
		if conn == "" {
			return invalid("connection_string", "requerido con own_db")
		}
	}
	if req.IdleTime != nil && *req.IdleTime < 0 {
		return invalid("idle_time", "no puede ser negativo")
	}

	t.Name = name
	t.Code = code
	t.RealName = strings.TrimSpace(req.RealName)
	t.Phone = strings.TrimSpace(req.Phone)
	t.Email = strings.TrimSpace(req.Email)
	t.DbType = dbType
	t.ConnectionString = conn
	t.IdleTime = req.IdleTime
	t.DataIsolationType = iso
	t.Description = req.Description
	if req.Enabled != nil {
		t.Enabled = *req.Enabled
	}
	return nil
}

func (s *tenantService) Create(ctx context.Context, req dto.TenantRequest) (*repository.Tenant, error) {
	t := &repository.Tenant{Enabled: true}
	if err := s.apply(t, req, ""); err != nil {
		return nil, err
	}
	if err := s.repo(ctx).Create(ctx, t); err != nil {
		return nil, err
	}
	audit.Log(ctx, audit.EventCreate, "tenant", logger.EntityID(t.ID), logger.Key(t.Code),
		logger.Isolation(string(t.DataIsolationType)))
	return s.view(ctx, t), nil
}

func (s *tenantService) Update(ctx context.Context, id int64, req dto.TenantRequest) (*repository.Tenant, error) {
	repo := s.repo(ctx)
	t, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(t, req, t.ConnectionString); err != nil {
		return nil, err
	}
	t.Version = req.Version
	if err := repo.Update(ctx, t); err != nil {
		return nil, err
	}
	s.refresh(ctx, id)
	audit.Log(ctx, audit.EventUpdate, "tenant", logger.EntityID(t.ID))
	return s.view(ctx, t), nil
}

// refresh descarta la conexión cacheada. Un fallo al cerrar la DB vieja no
// revierte la operación ya persistida.
func (s *tenantService) refresh(ctx context.Context, ids ...int64) {
	for _, id := range ids {
		if err := s.dal.RefreshTenant(ctx, id); err != nil {
			logger.From(ctx).Warn("tenant refresh failed",
				logger.Component("admin.tenant"), logger.TenantID(id), logger.Err(err))
		}
	}
}

func (s *tenantService) Delete(ctx context.Context, id int64) error {
	n, err := s.repo(ctx).SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if err := deletedOne("tenant", id, n); err != nil {
		return err
	}
	s.refresh(ctx, id)
	audit.Log(ctx, audit.EventDelete, "tenant", logger.EntityID(id))
	return nil
}

func (s *tenantService) BatchDelete(ctx context.Context, ids []int64) (int64, error) {
	if err := requireIDs(ids); err != nil {
		return 0, err
	}
	n, err := s.repo(ctx).SoftDelete(ctx, ids...)
	if err != nil {
		return 0, err
	}
	s.refresh(ctx, ids...)
	audit.Log(ctx, audit.EventDelete, "tenant", logger.Count(len(ids)), logger.Affected(n))
	return n, nil
}

func (s *tenantService) Migrate(ctx context.Context, id int64) (*sqldb.MigrationResult, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("admin.tenant"), logger.Op("Migrate"), logger.TenantID(id))

	start := time.Now()
	res, err := s.dal.MigrateTenant(ctx, id)
	if s.migrations != nil && !errors.Is(err, repository.ErrNotFound) {
		s.migrations.RecordTenantMigration(err, time.Since(start))
	}
	if err != nil {
		log.Warn("tenant migration failed", logger.Err(err))
		return nil, err
	}
	log.Info("tenant migrated", logger.Count(len(res.Applied)), logger.Any("version", res.Version))
	audit.Log(ctx, audit.EventMigrate, "tenant", logger.EntityID(id), logger.Count(len(res.Applied)))
	return res, nil
}
