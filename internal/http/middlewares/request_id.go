package middlewares

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dropDatabas3/adminhub/internal/audit"
)

// HeaderRequestID es el header de correlación.
const HeaderRequestID = "X-Request-ID"

// WithRequestID propaga X-Request-ID o genera un UUID nuevo. El ID se expone
// en la respuesta y se inyecta en el contexto.
func WithRequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := strings.TrimSpace(r.Header.Get(HeaderRequestID))
			if rid == "" || len(rid) > 128 {
				rid = uuid.NewString()
			}
			w.Header().Set(HeaderRequestID, rid)
			ctx := audit.WithRequestID(setRequestID(r.Context(), rid), rid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
