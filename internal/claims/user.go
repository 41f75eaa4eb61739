// Package claims define el usuario actual que viaja en el contexto del request.
package claims

import (
	"context"

	"github.com/dropDatabas3/adminhub/internal/domain/repository"
)

// User es el usuario autenticado. TenantID nil identifica a un usuario de
// plataforma (sin tenant).
type User struct {
	ID                int64
	Name              string
	TenantID          *int64
	DataIsolationType repository.DataIsolationType
}

// Tenant devuelve el id del tenant o 0 si el usuario es de plataforma.
func (u User) Tenant() int64 {
	if u.TenantID == nil {
		return 0
	}
	return *u.TenantID
}

// HasTenant indica si el usuario pertenece a un tenant.
func (u User) HasTenant() bool { return u.TenantID != nil && *u.TenantID > 0 }

// OwnDB indica si los datos del tenant viven en su propia base.
func (u User) OwnDB() bool {
	return u.HasTenant() && u.DataIsolationType == repository.IsolationOwnDb
}

type ctxKey struct{}

// WithUser guarda u en ctx.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// FromContext retorna el usuario del contexto.
func FromContext(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(ctxKey{}).(User)
	return u, ok
}
