// Package sqlrepo implementa los repositorios del dominio sobre SQL
// (squirrel para construir, sqlx para escanear).
//
// Cada repositorio recibe un Scope con el usuario actual: de ahí salen los
// campos de auditoría y, si FilterTenant está activo, el predicado por
// tenant_id que se agrega a todas las lecturas y escrituras.
package sqlrepo

import "github.com/dropDatabas3/adminhub/internal/claims"

// Scope es el contexto de datos de un repositorio.
type Scope struct {
	UserID   *int64
	UserName string
	// TenantID es el tenant del usuario (nil para usuarios de plataforma).
	TenantID *int64
	// FilterTenant agrega tenant_id = TenantID en tablas con tenant.
	FilterTenant bool
}

// ScopeFor construye el Scope de u. multiTenant corresponde a app.tenant.
func ScopeFor(u claims.User, multiTenant bool) Scope {
	s := Scope{UserName: u.Name, FilterTenant: multiTenant}
	if u.ID > 0 {
		id := u.ID
		s.UserID = &id
	}
	if u.HasTenant() {
		tid := *u.TenantID
		s.TenantID = &tid
	}
	return s
}

// Platform devuelve una copia del scope sin filtro por tenant.
func (s Scope) Platform() Scope {
	s.FilterTenant = false
	return s
}
