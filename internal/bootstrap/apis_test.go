package bootstrap

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/adminhub/internal/claims"
	svc "github.com/dropDatabas3/adminhub/internal/http/services/admin"
	"github.com/dropDatabas3/adminhub/internal/store"
	"github.com/dropDatabas3/adminhub/internal/store/sqldb/sqldbtest"
)

func TestSyncDeclaredApis(t *testing.T) {
	mgr, err := store.NewManager(store.ManagerConfig{Main: sqldbtest.Open(t, "main")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mgr.Close() })

	noop := func(http.ResponseWriter, *http.Request) {}
	r := chi.NewRouter()
	r.Get("/healthz", noop)
	r.Route("/api/admin", func(r chi.Router) {
		r.Route("/staff", func(r chi.Router) {
			r.Get("/", noop)
			r.Post("/", noop)
			r.Get("/{id}", noop)
			r.Put("/{id}", noop)
		})
	})

	apis := svc.NewApiService(mgr)
	res, err := SyncDeclaredApis(context.Background(), r, apis)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Added)

	repo := mgr.Platform(claims.User{}).Apis()
	parent, err := repo.GetByPath(context.Background(), "/api/admin/staff")
	require.NoError(t, err)
	assert.Equal(t, "GET,POST", parent.HttpMethods)
	assert.Equal(t, "system", parent.CreatedUserName)

	child, err := repo.GetByPath(context.Background(), "/api/admin/staff/{id}")
	require.NoError(t, err)
	assert.Equal(t, parent.ID, child.ParentID)
	assert.Equal(t, "GET,PUT", child.HttpMethods)

	_, err = repo.GetByPath(context.Background(), "/healthz")
	require.Error(t, err)

	// segunda corrida sin cambios
	res, err = SyncDeclaredApis(context.Background(), r, apis)
	require.NoError(t, err)
	assert.Zero(t, res.Added+res.Updated+res.Disabled)
}
