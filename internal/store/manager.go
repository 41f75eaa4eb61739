package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/adminhub/internal/cache"
	"github.com/dropDatabas3/adminhub/internal/claims"
	"github.com/dropDatabas3/adminhub/internal/domain/repository"
	"github.com/dropDatabas3/adminhub/internal/observability/logger"
	"github.com/dropDatabas3/adminhub/internal/security/secretbox"
	"github.com/dropDatabas3/adminhub/internal/store/idlebus"
	"github.com/dropDatabas3/adminhub/internal/store/sqldb"
	"github.com/dropDatabas3/adminhub/internal/store/sqlrepo"
)

// Observer recibe eventos del ciclo de vida de las DBs de tenants (métricas).
type Observer interface {
	TenantDBOpened(key string)
	TenantDBReleased(key string, reason string)
}

// ManagerConfig configuración para crear un Manager.
type ManagerConfig struct {
	// Main es la DB principal, ya abierta. El Manager pasa a ser su dueño.
	Main *sqldb.DB

	// MultiTenant corresponde a app.tenant.
	MultiTenant bool

	SweepInterval time.Duration
	// TenantAutoMigrate migra cada DB de tenant al abrirla.
	TenantAutoMigrate bool
	MonitorCommand    bool
	Curd              bool
	TenantMaxOpen     int
	TenantMaxIdle     int

	// Cache guarda los datos de conexión de los tenants por LookupTTL.
	Cache     cache.Client
	LookupTTL time.Duration

	// Secrets descifra connection strings. nil si no hay master key.
	Secrets *secretbox.Box

	Observer Observer

	// Open permite reemplazar sqldb.Open en tests.
	Open func(ctx context.Context, cfg sqldb.DBConfig) (*sqldb.DB, error)
}

// Manager implementa DataAccessLayer.
type Manager struct {
	cfg  ManagerConfig
	main *sqldb.DB
	bus  *idlebus.Bus[*sqldb.DB]
	// lookups deduplica las lecturas del tenant cuando la clave aún no está registrada.
	lookups singleflight.Group
}

// NewManager crea el Manager y arranca el sweeper del bus.
func NewManager(cfg ManagerConfig) (*Manager, error) {
	if cfg.Main == nil {
		return nil, errors.New("store: main db requerida")
	}
	if cfg.Open == nil {
		cfg.Open = sqldb.Open
	}
	if cfg.LookupTTL <= 0 {
		cfg.LookupTTL = time.Minute
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.NewMemory("", cfg.LookupTTL)
	}
	m := &Manager{cfg: cfg, main: cfg.Main}
	m.bus = idlebus.New(idlebus.Options[*sqldb.DB]{
		SweepInterval: cfg.SweepInterval,
		Close:         func(db *sqldb.DB) error { return db.Close() },
		OnCreate: func(key string) {
			if cfg.Observer != nil {
				cfg.Observer.TenantDBOpened(key)
			}
		},
		OnRelease: func(key string, reason idlebus.ReleaseReason, err error) {
			log := logger.L().With(logger.Component("store"), logger.Key(key), logger.Op(string(reason)))
			if err != nil {
				log.Warn("tenant db close failed", logger.Err(err))
			} else {
				log.Info("tenant db released")
			}
			if cfg.Observer != nil {
				cfg.Observer.TenantDBReleased(key, string(reason))
			}
		},
	})
	return m, nil
}

// Main retorna la DB principal.
func (m *Manager) Main() *sqldb.DB { return m.main }

// MultiTenant indica si app.tenant está activo.
func (m *Manager) MultiTenant() bool { return m.cfg.MultiTenant }

func (m *Manager) ForUser(ctx context.Context, u claims.User) (TenantDataAccess, error) {
	scope := sqlrepo.ScopeFor(u, m.cfg.MultiTenant)
	shared := &tenantAccess{tenantID: u.Tenant(), db: m.main, scope: scope}
	if !m.cfg.MultiTenant {
		return shared, nil
	}
	// Con app.tenant los datos de tenant siempre llevan tenant_id.
	if !u.HasTenant() {
		return nil, fmt.Errorf("user %d sin tenant: %w", u.ID, repository.ErrUnauthorized)
	}

	conn, err := m.connection(ctx, u.Tenant())
	if err != nil {
		return nil, fmt.Errorf("tenant %d: %w", u.Tenant(), err)
	}
	if !conn.Enabled {
		return nil, fmt.Errorf("tenant %d: %w", u.Tenant(), repository.ErrTenantDisabled)
	}
	if !u.OwnDB() {
		return shared, nil
	}

	db, ownDB, err := m.tenantDB(ctx, u.Tenant())
	if err != nil {
		return nil, err
	}
	if !ownDB {
		return shared, nil
	}
	return &tenantAccess{tenantID: u.Tenant(), ownDB: true, db: db, scope: scope}, nil
}

func (m *Manager) Platform(u claims.User) PlatformAccess {
	return &platformAccess{db: m.main, scope: sqlrepo.ScopeFor(u, false)}
}

// tenantDB devuelve la DB propia del tenant, registrándola en el bus si hace
// falta. ownDB es false si el tenant (según la DB principal) comparte la DB.
func (m *Manager) tenantDB(ctx context.Context, tenantID int64) (*sqldb.DB, bool, error) {
	key := TenantKey(tenantID)
	if !m.bus.Exists(key) {
		_, err, _ := m.lookups.Do(key, func() (any, error) {
			if m.bus.Exists(key) {
				return nil, nil
			}
			// El resultado se comparte con todos los que esperan: no depende
			// de la cancelación del primero.
			return nil, m.register(context.WithoutCancel(ctx), tenantID)
		})
		if errors.Is(err, errSharedTenant) {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
	}
	db, err := m.bus.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("tenant %d: %w", tenantID, err)
	}
	return db, true, nil
}

var errSharedTenant = errors.New("tenant uses shared db")

func (m *Manager) register(ctx context.Context, tenantID int64) error {
	conn, err := m.connection(ctx, tenantID)
	if err != nil {
		return err
	}
	if !conn.Enabled {
		return fmt.Errorf("tenant %d: %w", tenantID, repository.ErrTenantDisabled)
	}
	if conn.DataIsolationType != repository.IsolationOwnDb {
		return errSharedTenant
	}
	dsn, err := m.cfg.Secrets.Decrypt(conn.ConnectionString)
	if err != nil {
		return fmt.Errorf("tenant %d: connection string: %w", tenantID, err)
	}
	if strings.TrimSpace(dsn) == "" || conn.DbType == "" {
		return fmt.Errorf("tenant %d: %w", tenantID, repository.ErrNoDatabase)
	}

	key := TenantKey(tenantID)
	dbCfg := sqldb.DBConfig{
		Name:           key,
		Type:           conn.DbType,
		DSN:            dsn,
		MaxOpenConns:   m.cfg.TenantMaxOpen,
		MaxIdleConns:   m.cfg.TenantMaxIdle,
		MonitorCommand: m.cfg.MonitorCommand,
		Curd:           m.cfg.Curd,
		AutoMigrate:    m.cfg.TenantAutoMigrate,
	}
	idle := IdleDuration(conn.IdleTime)
	m.bus.TryRegister(key, func(ctx context.Context) (*sqldb.DB, error) {
		return m.cfg.Open(ctx, dbCfg)
	}, idle)

	logger.From(ctx).Info("tenant db registered",
		logger.Component("store"), logger.TenantID(tenantID), logger.DbType(string(conn.DbType)),
		logger.Duration(idle))
	return nil
}

// IdleDuration convierte idle_time (minutos) a duración; nil o <=0 es 0 (sin expiración).
func IdleDuration(minutes *int) time.Duration {
	if minutes == nil || *minutes <= 0 {
		return 0
	}
	return time.Duration(*minutes) * time.Minute
}

func connectionCacheKey(tenantID int64) string { return "tenantconn:" + TenantKey(tenantID) }

// connection lee los datos de conexión del tenant (cache → DB principal).
func (m *Manager) connection(ctx context.Context, tenantID int64) (*repository.TenantConnection, error) {
	ck := connectionCacheKey(tenantID)
	if raw, err := m.cfg.Cache.Get(ctx, ck); err == nil {
		var c repository.TenantConnection
		if json.Unmarshal([]byte(raw), &c) == nil {
			return &c, nil
		}
	}

	conn, err := sqlrepo.NewTenantRepo(m.main, sqlrepo.Scope{}).GetConnection(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(conn); err == nil {
		if err := m.cfg.Cache.Set(ctx, ck, string(b), m.cfg.LookupTTL); err != nil {
			logger.From(ctx).Warn("tenant connection cache set failed", logger.TenantID(tenantID), logger.Err(err))
		}
	}
	return conn, nil
}

func (m *Manager) RefreshTenant(ctx context.Context, tenantID int64) error {
	if err := m.cfg.Cache.Delete(ctx, connectionCacheKey(tenantID)); err != nil {
		logger.From(ctx).Warn("tenant connection cache delete failed", logger.TenantID(tenantID), logger.Err(err))
	}
	err := m.bus.Remove(TenantKey(tenantID))
	if err != nil && !errors.Is(err, idlebus.ErrNotRegistered) {
		return fmt.Errorf("refresh tenant %d: %w", tenantID, err)
	}
	return nil
}

func (m *Manager) MigrateTenant(ctx context.Context, tenantID int64) (*sqldb.MigrationResult, error) {
	db, ownDB, err := m.tenantDB(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !ownDB {
		return nil, fmt.Errorf("tenant %d usa la DB principal: %w", tenantID, repository.ErrNoDatabase)
	}
	return sqldb.Migrate(ctx, db)
}

func (m *Manager) Ping(ctx context.Context) error { return m.main.Ping(ctx) }

// Stats resume el estado de la DB principal y del bus de tenants.
type Stats struct {
	MainOpenConnections int           `json:"main_open_connections"`
	MainInUse           int           `json:"main_in_use"`
	MainIdle            int           `json:"main_idle"`
	TenantDBs           idlebus.Stats `json:"tenant_dbs"`
}

func (m *Manager) Stats() Stats {
	s := m.main.Stats()
	return Stats{
		MainOpenConnections: s.OpenConnections,
		MainInUse:           s.InUse,
		MainIdle:            s.Idle,
		TenantDBs:           m.bus.Stats(),
	}
}

// SweepIdle libera ya las DBs de tenants ociosas (además del sweeper periódico).
func (m *Manager) SweepIdle() int { return m.bus.Sweep() }

func (m *Manager) Close() error {
	return errors.Join(m.bus.Close(), m.main.Close())
}

var _ DataAccessLayer = (*Manager)(nil)
