// Package router arma el árbol de rutas HTTP (chi) del servicio.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/adminhub/internal/http/controllers/admin"
	"github.com/dropDatabas3/adminhub/internal/http/controllers/health"
	httperrors "github.com/dropDatabas3/adminhub/internal/http/errors"
	mw "github.com/dropDatabas3/adminhub/internal/http/middlewares"
	jwtx "github.com/dropDatabas3/adminhub/internal/jwt"
	"github.com/dropDatabas3/adminhub/internal/metrics"
	"github.com/dropDatabas3/adminhub/internal/rate"
	"github.com/dropDatabas3/adminhub/internal/store"
)

// AdminPrefix es el prefijo de todas las rutas administrativas.
const AdminPrefix = "/api/admin"

// Deps contiene las dependencias del router.
type Deps struct {
	DAL store.DataAccessLayer
	// Issuer nil deshabilita la autenticación (todos los requests como AnonymousUser).
	Issuer *jwtx.Issuer
	// Limiter nil deshabilita el rate limiting.
	Limiter            rate.Limiter
	Metrics            *metrics.Metrics
	CORSAllowedOrigins []string

	Admin  *admin.Controllers
	Health *health.HealthController
}

// New crea el router completo.
func New(d Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithMetrics(d.Metrics),
		mw.WithCORS(d.CORSAllowedOrigins),
	)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	// Sin auth ni logging (muy frecuentes)
	r.Get("/healthz", d.Health.Healthz)
	r.Get("/readyz", d.Health.Readyz)
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	r.Route(AdminPrefix, func(r chi.Router) {
		r.Use(
			mw.WithLogging(),
			mw.RequireAuth(d.Issuer),
			mw.WithRateLimit(mw.RateLimitConfig{Limiter: d.Limiter}),
		)
		registerAdminRoutes(r, d)
	})
	return r
}

func registerAdminRoutes(r chi.Router, d Deps) {
	c := d.Admin

	// Datos de tenant: resuelven la DB del usuario antes del controller.
	r.Route("/staff", func(r chi.Router) {
		r.Use(mw.WithTenantData(d.DAL))
		r.Get("/", c.Staff.List)
		r.Post("/", c.Staff.Create)
		r.Post("/page", c.Staff.Page)
		r.Put("/batch-soft-delete", c.Staff.BatchDelete)
		r.Get("/{id}", c.Staff.Get)
		r.Put("/{id}", c.Staff.Update)
		r.Delete("/{id}", c.Staff.Delete)
	})

	r.Route("/dictionary-types", func(r chi.Router) {
		r.Use(mw.WithTenantData(d.DAL))
		r.Get("/", c.DictionaryTypes.List)
		r.Post("/", c.DictionaryTypes.Create)
		r.Post("/page", c.DictionaryTypes.Page)
		r.Get("/export", c.DictionaryTypes.Export)
		r.Put("/batch-soft-delete", c.DictionaryTypes.BatchDelete)
		r.Get("/{id}", c.DictionaryTypes.Get)
		r.Put("/{id}", c.DictionaryTypes.Update)
		r.Delete("/{id}", c.DictionaryTypes.Delete)
	})

	// Plataforma: DB principal. Los tenants solo leen el catálogo.
	r.Route("/apis", func(r chi.Router) {
		r.Get("/", c.Apis.List)
		r.Post("/page", c.Apis.Page)
		r.Get("/{id}", c.Apis.Get)

		r.Group(func(r chi.Router) {
			r.Use(mw.RequirePlatformUser())
			r.Post("/", c.Apis.Create)
			r.Post("/sync", c.Apis.Sync)
			r.Put("/batch-soft-delete", c.Apis.BatchDelete)
			r.Put("/{id}", c.Apis.Update)
			r.Delete("/{id}", c.Apis.Delete)
		})
	})

	r.Route("/tenants", func(r chi.Router) {
		r.Use(mw.RequirePlatformUser())
		r.Get("/", c.Tenants.List)
		r.Post("/", c.Tenants.Create)
		r.Post("/page", c.Tenants.Page)
		r.Put("/batch-soft-delete", c.Tenants.BatchDelete)
		r.Get("/{id}", c.Tenants.Get)
		r.Put("/{id}", c.Tenants.Update)
		r.Delete("/{id}", c.Tenants.Delete)
		r.Post("/{id}/migrate", c.Tenants.Migrate)
	})
}
