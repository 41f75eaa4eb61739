package middlewares

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/adminhub/internal/claims"
	"github.com/dropDatabas3/adminhub/internal/domain/repository"
	httperrors "github.com/dropDatabas3/adminhub/internal/http/errors"
	"github.com/dropDatabas3/adminhub/internal/observability/logger"
	"github.com/dropDatabas3/adminhub/internal/store"
)

// WithTenantData resuelve el acceso a datos del usuario actual (DB principal
// o DB propia del tenant) y lo deja en el contexto. Debe ir después de RequireAuth.
func WithTenantData(dal store.DataAccessLayer) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			u, ok := claims.FromContext(ctx)
			if !ok {
				httperrors.WriteError(w, httperrors.ErrUnauthorized)
				return
			}

			tda, err := dal.ForUser(ctx, u)
			if err != nil {
				logger.From(ctx).Warn("tenant data access failed",
					logger.Component("middleware"), logger.TenantID(u.Tenant()), logger.Err(err))
				httperrors.WriteError(w, tenantError(err))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithTenant(ctx, tda)))
		})
	}
}

func tenantError(err error) *httperrors.AppError {
	switch {
	case errors.Is(err, repository.ErrTenantDisabled):
		return httperrors.ErrTenantDisabled.WithCause(err)
	case errors.Is(err, repository.ErrNotFound):
		return httperrors.ErrForbidden.WithDetail("tenant inexistente").WithCause(err)
	case errors.Is(err, repository.ErrUnauthorized):
		return httperrors.ErrForbidden.WithDetail("requiere un usuario de tenant").WithCause(err)
	default:
		return httperrors.ErrTenantDBUnavailable.WithCause(err)
	}
}
