package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/adminhub/internal/claims"
	"github.com/dropDatabas3/adminhub/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DB.DSN = "file:" + filepath.Join(t.TempDir(), "main.db") + "?_foreign_keys=on"
	cfg.DB.AutoMigrate = true
	cfg.App.Tenant = true
	cfg.App.SyncApis = true
	cfg.Rate.Enabled = true
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestNew_WiresRouterAndSyncsApis(t *testing.T) {
	a, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// auth deshabilitada: usuario anónimo de plataforma
	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/tenants", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Remaining"))

	api, err := a.DAL.Platform(claims.User{}).Apis().GetByPath(context.Background(), "/api/admin/apis/sync")
	require.NoError(t, err)
	assert.Equal(t, "POST", api.HttpMethods)
}

func TestNew_InvalidMasterKey(t *testing.T) {
	cfg := testConfig(t)
	cfg.Security.SecretboxMasterKey = "not-a-key"
	_, err := New(context.Background(), cfg)
	require.Error(t, err)
}
