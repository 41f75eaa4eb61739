package middlewares

import (
	"context"

	"github.com/dropDatabas3/adminhub/internal/store"
)

type ctxKey string

const (
	ctxTenantKey    ctxKey = "tenant"
	ctxRequestIDKey ctxKey = "request_id"
)

// WithTenant inyecta TenantDataAccess en el contexto.
func WithTenant(ctx context.Context, tda store.TenantDataAccess) context.Context {
	return context.WithValue(ctx, ctxTenantKey, tda)
}

func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// GetTenant obtiene el TenantDataAccess del contexto.
// Retorna nil si el middleware de tenant no se aplicó a la ruta.
func GetTenant(ctx context.Context) store.TenantDataAccess {
	if tda, ok := ctx.Value(ctxTenantKey).(store.TenantDataAccess); ok {
		return tda
	}
	return nil
}

// GetRequestID obtiene el request ID del contexto.
func GetRequestID(ctx context.Context) string {
	s, _ := ctx.Value(ctxRequestIDKey).(string)
	return s
}
