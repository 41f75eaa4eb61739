// Package store es el punto de entrada al acceso a datos.
//
// Los datos de plataforma (tenants, APIs) viven siempre en la DB principal.
// Los datos de tenant (staff, tipos de diccionario) viven en la DB que el
// Manager resuelve para el usuario actual: la propia del tenant si la
// multi-tenencia está activa y el tenant usa own_db, o la principal filtrada
// por tenant_id en cualquier otro caso.
//
//	services → store.DataAccessLayer → sqlrepo → sqldb.DB
//	                      │
//	                      └─ idlebus.Bus[*sqldb.DB] ("tenant_<id>")
package store

import (
	"context"
	"strconv"

	"github.com/dropDatabas3/adminhub/internal/claims"
	"github.com/dropDatabas3/adminhub/internal/domain/repository"
	"github.com/dropDatabas3/adminhub/internal/store/sqldb"
	"github.com/dropDatabas3/adminhub/internal/store/sqlrepo"
)

// DataAccessLayer es el punto de entrada principal para acceso a datos.
// Implementado por Manager.
type DataAccessLayer interface {
	// ForUser retorna los repositorios de datos de tenant para u.
	ForUser(ctx context.Context, u claims.User) (TenantDataAccess, error)

	// Platform retorna los repositorios de plataforma, auditados como u.
	Platform(u claims.User) PlatformAccess

	// RefreshTenant descarta la conexión cacheada del tenant (update/delete).
	RefreshTenant(ctx context.Context, tenantID int64) error

	// MigrateTenant aplica migraciones sobre la DB propia del tenant.
	MigrateTenant(ctx context.Context, tenantID int64) (*sqldb.MigrationResult, error)

	Ping(ctx context.Context) error
	Stats() Stats
	Close() error
}

// TenantDataAccess agrupa los repositorios de datos de un tenant.
type TenantDataAccess interface {
	// TenantID es 0 para usuarios de plataforma.
	TenantID() int64
	// OwnDB indica si los repositorios apuntan a la DB propia del tenant.
	OwnDB() bool
	DB() *sqldb.DB

	Staff() repository.StaffRepository
	DictionaryTypes() repository.DictionaryTypeRepository
}

// PlatformAccess agrupa los repositorios de plataforma (DB principal).
type PlatformAccess interface {
	DB() *sqldb.DB
	Tenants() repository.TenantRepository
	Apis() repository.ApiRepository
}

// TenantKey es la clave del bus para la DB propia de un tenant.
func TenantKey(tenantID int64) string {
	return "tenant_" + strconv.FormatInt(tenantID, 10)
}

type tenantAccess struct {
	tenantID int64
	ownDB    bool
	db       *sqldb.DB
	scope    sqlrepo.Scope
}

func (t *tenantAccess) TenantID() int64 { return t.tenantID }
func (t *tenantAccess) OwnDB() bool     { return t.ownDB }
func (t *tenantAccess) DB() *sqldb.DB   { return t.db }

func (t *tenantAccess) Staff() repository.StaffRepository {
	return sqlrepo.NewStaffRepo(t.db, t.scope)
}

func (t *tenantAccess) DictionaryTypes() repository.DictionaryTypeRepository {
	return sqlrepo.NewDictionaryTypeRepo(t.db, t.scope)
}

type platformAccess struct {
	db    *sqldb.DB
	scope sqlrepo.Scope
}

func (p *platformAccess) DB() *sqldb.DB { return p.db }

func (p *platformAccess) Tenants() repository.TenantRepository {
	return sqlrepo.NewTenantRepo(p.db, p.scope)
}

func (p *platformAccess) Apis() repository.ApiRepository {
	return sqlrepo.NewApiRepo(p.db, p.scope)
}
