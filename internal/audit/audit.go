// Package audit registra eventos administrativos (altas, bajas, sync,
// migraciones) en un logger dedicado "audit".
package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/dropDatabas3/adminhub/internal/claims"
	"github.com/dropDatabas3/adminhub/internal/observability/logger"
)

// Eventos conocidos.
const (
	EventCreate  = "create"
	EventUpdate  = "update"
	EventDelete  = "soft_delete"
	EventSync    = "api_sync"
	EventMigrate = "tenant_migrate"
)

// Log escribe un evento de auditoría con el usuario del contexto.
func Log(ctx context.Context, event, entity string, fields ...zap.Field) {
	base := []zap.Field{zap.String("event", event), logger.Entity(entity)}
	if u, ok := claims.FromContext(ctx); ok {
		base = append(base, logger.UserID(u.ID), zap.String("user_name", u.Name), logger.TenantID(u.Tenant()))
	}
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok && rid != "" {
		base = append(base, logger.RequestID(rid))
	}
	logger.Named("audit").Info("audit", append(base, fields...)...)
}

type requestIDKey struct{}

// WithRequestID asocia el request ID a los eventos emitidos con ctx.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}
