package middlewares

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/adminhub/internal/claims"
	"github.com/dropDatabas3/adminhub/internal/domain/repository"
	jwtx "github.com/dropDatabas3/adminhub/internal/jwt"
	"github.com/dropDatabas3/adminhub/internal/rate"
	"github.com/dropDatabas3/adminhub/internal/store"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func code(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	serve(Chain(okHandler(), mark("a"), mark("b"), mark("c")), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestWithRequestID(t *testing.T) {
	var seen string
	h := WithRequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(HeaderRequestID, "abc-123")
	rec := serve(h, r)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get(HeaderRequestID))
}

func TestWithRecover(t *testing.T) {
	h := WithRecover()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", code(t, rec))
}

func TestWithCORS(t *testing.T) {
	h := WithCORS([]string{"https://panel.example.com/"})(okHandler())

	r := httptest.NewRequest(http.MethodOptions, "/api/admin/staff", nil)
	r.Header.Set("Origin", "https://panel.example.com")
	r.Header.Set("Access-Control-Request-Method", "PUT")
	rec := serve(h, r)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://panel.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Origin", "https://evil.example.com")
	rec = serve(h, r)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestWithRateLimit(t *testing.T) {
	h := WithRateLimit(RateLimitConfig{Limiter: rate.NewMemoryLimiter(1, time.Minute)})(okHandler())

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, http.StatusOK, serve(h, r).Code)

	rec := serve(h, r)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", code(t, rec))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "10.0.0.2:5555"
	assert.Equal(t, http.StatusOK, serve(h, other).Code)
}

func TestRequireAuth(t *testing.T) {
	var got claims.User
	capture := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got, _ = claims.FromContext(r.Context())
	})

	// sin issuer: usuario anónimo de plataforma
	serve(RequireAuth(nil)(capture), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, AnonymousUser, got)

	issuer := jwtx.NewIssuer("test", "0123456789abcdef", time.Hour)
	tid := int64(4)
	tok, err := issuer.Sign(claims.User{ID: 9, Name: "op", TenantID: &tid, DataIsolationType: repository.IsolationOwnDb})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	rec := serve(RequireAuth(issuer)(capture), r)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(9), got.ID)
	assert.True(t, got.OwnDB())

	rec = serve(RequireAuth(issuer)(capture), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_MISSING", code(t, rec))
}

func TestRequirePlatformUser(t *testing.T) {
	h := RequirePlatformUser()(okHandler())
	tid := int64(1)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(claims.WithUser(r.Context(), claims.User{ID: 2, TenantID: &tid}))
	assert.Equal(t, http.StatusForbidden, serve(h, r).Code)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(claims.WithUser(r.Context(), AnonymousUser))
	assert.Equal(t, http.StatusOK, serve(h, r).Code)

	assert.Equal(t, http.StatusUnauthorized, serve(h, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}

// fakeDAL solo implementa ForUser; el resto no se usa en estos tests.
type fakeDAL struct {
	store.DataAccessLayer
	err error
}

func (f fakeDAL) ForUser(context.Context, claims.User) (store.TenantDataAccess, error) {
	return nil, f.err
}

func TestWithTenantData_Errors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{repository.ErrTenantDisabled, http.StatusForbidden, "TENANT_DISABLED"},
		{repository.ErrNotFound, http.StatusForbidden, "FORBIDDEN"},
		{fmt.Errorf("user 1 sin tenant: %w", repository.ErrUnauthorized), http.StatusForbidden, "FORBIDDEN"},
		{errors.New("dial tcp: refused"), http.StatusServiceUnavailable, "TENANT_DB_UNAVAILABLE"},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			h := WithTenantData(fakeDAL{err: tt.err})(okHandler())
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r = r.WithContext(claims.WithUser(r.Context(), claims.User{ID: 1}))
			rec := serve(h, r)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, code(t, rec))
		})
	}
}
