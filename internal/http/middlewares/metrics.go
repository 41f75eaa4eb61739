package middlewares

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/adminhub/internal/metrics"
)

// WithMetrics instrumenta requests con Prometheus. La ruta se etiqueta con el
// patrón de chi (ej: /api/admin/staff/{id}) para acotar la cardinalidad.
func WithMetrics(m *metrics.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.InflightInc()
			defer m.InflightDec()
			start := time.Now()

			rec := newRecorder(w)
			next.ServeHTTP(rec, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			m.ObserveRequest(strings.ToUpper(r.Method), route, rec.status, time.Since(start))
		})
	}
}
