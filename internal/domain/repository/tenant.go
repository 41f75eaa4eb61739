package repository

import (
	"context"
	"strings"
)

// DbType identifica el motor de base de datos de un tenant.
type DbType string

const (
	DbTypePostgreSQL DbType = "postgresql"
	DbTypeMySQL      DbType = "mysql"
	DbTypeSQLite     DbType = "sqlite"
)

// ParseDbType normaliza alias comunes ("pg", "postgres", "sqlite3", ...).
// Retorna ErrInvalidInput si el tipo no está soportado.
func ParseDbType(s string) (DbType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pg", "postgres", "postgresql":
		return DbTypePostgreSQL, nil
	case "mysql", "mariadb":
		return DbTypeMySQL, nil
	case "sqlite", "sqlite3":
		return DbTypeSQLite, nil
	default:
		return "", ErrInvalidInput
	}
}

// DataIsolationType define cómo se aíslan los datos de un tenant.
type DataIsolationType string

const (
	// IsolationShareDb comparte la DB principal, filtrando por tenant_id.
	IsolationShareDb DataIsolationType = "share_db"
	// IsolationOwnDb usa una base de datos propia del tenant.
	IsolationOwnDb DataIsolationType = "own_db"
)

// Valid indica si el tipo de aislamiento es conocido.
func (d DataIsolationType) Valid() bool {
	return d == IsolationShareDb || d == IsolationOwnDb
}

// Tenant representa un arrendatario del sistema (plataforma, vive en la DB principal).
type Tenant struct {
	EntityBase
	Name              string            `db:"name"`
	Code              string            `db:"code"`
	RealName          string            `db:"real_name"`
	Phone             string            `db:"phone"`
	Email             string            `db:"email"`
	DbType            DbType            `db:"db_type"`
	ConnectionString  string            `db:"connection_string"` // cifrado si hay master key
	IdleTime          *int              `db:"idle_time"`         // minutos; <=0 o nil = sin expiración
	DataIsolationType DataIsolationType `db:"data_isolation_type"`
	Enabled           bool              `db:"enabled"`
	Description       string            `db:"description"`
}

// TenantConnection es la información mínima para abrir la DB propia de un tenant.
type TenantConnection struct {
	TenantID          int64             `db:"id"`
	DbType            DbType            `db:"db_type"`
	ConnectionString  string            `db:"connection_string"`
	IdleTime          *int              `db:"idle_time"`
	DataIsolationType DataIsolationType `db:"data_isolation_type"`
	Enabled           bool              `db:"enabled"`
}

// TenantFilter filtra el listado de tenants.
type TenantFilter struct {
	// Key busca por nombre o código.
	Key string
}

// TenantRepository define operaciones sobre tenants.
// Opera siempre sobre la DB principal y nunca aplica filtro por tenant.
type TenantRepository interface {
	// Get busca un tenant por ID.
	Get(ctx context.Context, id int64) (*Tenant, error)

	// GetConnection retorna la información de conexión de un tenant no eliminado.
	GetConnection(ctx context.Context, id int64) (*TenantConnection, error)

	// List retorna los tenants que coinciden con el filtro.
	List(ctx context.Context, f TenantFilter) ([]Tenant, error)

	// Page retorna una página de tenants.
	Page(ctx context.Context, q PageQuery[TenantFilter]) (*PageResult[Tenant], error)

	// Create crea un tenant. Retorna ErrConflict si el código ya existe.
	Create(ctx context.Context, t *Tenant) error

	// Update actualiza un tenant. Retorna ErrPreconditionFailed si la versión no coincide.
	Update(ctx context.Context, t *Tenant) error

	// SoftDelete marca tenants como eliminados y retorna cuántos fueron afectados.
	SoftDelete(ctx context.Context, ids ...int64) (int64, error)
}
