package middlewares

import (
	"net/http"
	"strings"

	"github.com/dropDatabas3/adminhub/internal/claims"
	httperrors "github.com/dropDatabas3/adminhub/internal/http/errors"
	jwtx "github.com/dropDatabas3/adminhub/internal/jwt"
	"github.com/dropDatabas3/adminhub/internal/observability/logger"
)

// AnonymousUser es el usuario de plataforma usado cuando auth.enabled=false.
var AnonymousUser = claims.User{ID: 0, Name: "anonymous"}

// RequireAuth valida Authorization: Bearer <JWT> y guarda el usuario en el
// contexto. Con issuer nil (auth deshabilitada) inyecta AnonymousUser.
func RequireAuth(issuer *jwtx.Issuer) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := AnonymousUser
			if issuer != nil {
				ah := strings.TrimSpace(r.Header.Get("Authorization"))
				if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
					w.Header().Set("WWW-Authenticate", `Bearer realm="admin", error="invalid_token", error_description="missing bearer token"`)
					httperrors.WriteError(w, httperrors.ErrTokenMissing)
					return
				}
				parsed, err := issuer.Parse(strings.TrimSpace(ah[len("Bearer "):]))
				if err != nil {
					w.Header().Set("WWW-Authenticate", `Bearer realm="admin", error="invalid_token"`)
					httperrors.WriteError(w, httperrors.ErrTokenInvalid.WithDetail(err.Error()))
					return
				}
				u = parsed
			}

			ctx := claims.WithUser(r.Context(), u)
			ctx = logger.With(ctx, logger.UserID(u.ID), logger.TenantID(u.Tenant()))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePlatformUser rechaza usuarios que pertenecen a un tenant.
// Debe usarse después de RequireAuth.
func RequirePlatformUser() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := claims.FromContext(r.Context())
			if !ok {
				httperrors.WriteError(w, httperrors.ErrUnauthorized)
				return
			}
			if u.HasTenant() {
				httperrors.WriteError(w, httperrors.ErrForbidden.WithDetail("requiere un usuario de plataforma"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
