package admin

import (
	"context"
	"encoding/base64"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/adminhub/internal/claims"
	"github.com/dropDatabas3/adminhub/internal/domain/repository"
	dto "github.com/dropDatabas3/adminhub/internal/http/dto/admin"
	"github.com/dropDatabas3/adminhub/internal/security/secretbox"
	"github.com/dropDatabas3/adminhub/internal/store"
	"github.com/dropDatabas3/adminhub/internal/store/sqldb/sqldbtest"
)

type fakeRecorder struct {
	calls int
	last  error
}

func (r *fakeRecorder) RecordTenantMigration(err error, _ time.Duration) {
	r.calls++
	r.last = err
}

type env struct {
	svc Services
	mgr *store.Manager
	box *secretbox.Box
	rec *fakeRecorder
	ctx context.Context
	dir string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	box, err := secretbox.New(base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 32))))
	require.NoError(t, err)
	mgr, err := store.NewManager(store.ManagerConfig{
		Main:              sqldbtest.Open(t, "main"),
		MultiTenant:       true,
		TenantAutoMigrate: true,
		Secrets:           box,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mgr.Close() })

	rec := &fakeRecorder{}
	return &env{
		svc: NewServices(Deps{DAL: mgr, Secrets: box, Migrations: rec}),
		mgr: mgr,
		box: box,
		rec: rec,
		ctx: claims.WithUser(context.Background(), claims.User{ID: 1, Name: "root"}),
		dir: t.TempDir(),
	}
}

func (e *env) tenantData(t *testing.T, tenantID int64, iso repository.DataIsolationType) store.TenantDataAccess {
	t.Helper()
	u := claims.User{ID: 7, Name: "op", TenantID: &tenantID, DataIsolationType: iso}
	tda, err := e.mgr.ForUser(claims.WithUser(context.Background(), u), u)
	require.NoError(t, err)
	return tda
}

// sharedTenantData crea un tenant share_db y devuelve su acceso a datos.
func (e *env) sharedTenantData(t *testing.T, code string) store.TenantDataAccess {
	t.Helper()
	tn, err := e.svc.Tenants.Create(e.ctx, dto.TenantRequest{Name: code, Code: code})
	require.NoError(t, err)
	return e.tenantData(t, tn.ID, repository.IsolationShareDb)
}

func TestStaffService_CreateGetUpdate(t *testing.T) {
	e := newEnv(t)
	tn, err := e.svc.Tenants.Create(e.ctx, dto.TenantRequest{Name: "Acme", Code: "acme"})
	require.NoError(t, err)
	tda := e.tenantData(t, tn.ID, repository.IsolationShareDb)

	sex := 2
	s, err := e.svc.Staff.Create(e.ctx, tda, dto.StaffRequest{Position: " dev ", JobNumber: "A-1", Sex: &sex})
	require.NoError(t, err)
	assert.Equal(t, "dev", s.Position)
	assert.Equal(t, int64(0), s.Version)

	got, err := e.svc.Staff.Get(e.ctx, tda, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "A-1", got.JobNumber)
	require.NotNil(t, got.Sex)
	assert.Equal(t, repository.SexFemale, *got.Sex)
	assert.Equal(t, "root", got.CreatedUserName)

	up, err := e.svc.Staff.Update(e.ctx, tda, s.ID, dto.StaffRequest{Version: 0, Position: "lead", JobNumber: "A-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), up.Version)
	assert.Nil(t, up.Sex)

	_, err = e.svc.Staff.Update(e.ctx, tda, s.ID, dto.StaffRequest{Version: 0, Position: "stale"})
	require.ErrorIs(t, err, repository.ErrPreconditionFailed)
}

func TestStaffService_Validation(t *testing.T) {
	e := newEnv(t)
	tda := e.sharedTenantData(t, "acme")

	bad := 5
	cases := map[string]dto.StaffRequest{
		"sex":        {Sex: &bad},
		"job_number": {JobNumber: strings.Repeat("9", repository.StaffJobNumberMaxLen+1)},
		"introduce":  {Introduce: strings.Repeat("é", repository.StaffIntroduceMaxLen+1)},
	}
	for field, req := range cases {
		t.Run(field, func(t *testing.T) {
			_, err := e.svc.Staff.Create(e.ctx, tda, req)
			require.ErrorIs(t, err, repository.ErrInvalidInput)
			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, field, fe.Field)
		})
	}

	// límite exacto en runas
	_, err := e.svc.Staff.Create(e.ctx, tda, dto.StaffRequest{Introduce: strings.Repeat("é", repository.StaffIntroduceMaxLen)})
	require.NoError(t, err)
}

func TestStaffService_Delete(t *testing.T) {
	e := newEnv(t)
	tda := e.sharedTenantData(t, "acme")

	a, err := e.svc.Staff.Create(e.ctx, tda, dto.StaffRequest{Position: "a"})
	require.NoError(t, err)
	b, err := e.svc.Staff.Create(e.ctx, tda, dto.StaffRequest{Position: "b"})
	require.NoError(t, err)

	require.NoError(t, e.svc.Staff.Delete(e.ctx, tda, a.ID))
	require.ErrorIs(t, e.svc.Staff.Delete(e.ctx, tda, a.ID), repository.ErrNotFound)
	_, err = e.svc.Staff.Get(e.ctx, tda, a.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = e.svc.Staff.BatchDelete(e.ctx, tda, nil)
	require.ErrorIs(t, err, repository.ErrInvalidInput)

	n, err := e.svc.Staff.BatchDelete(e.ctx, tda, []int64{a.ID, b.ID, 999})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	list, err := e.svc.Staff.List(e.ctx, tda, repository.StaffFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDictionaryTypeService(t *testing.T) {
	e := newEnv(t)
	tda := e.sharedTenantData(t, "globex")

	d, err := e.svc.DictionaryTypes.Create(e.ctx, tda, dto.DictionaryTypeRequest{Name: "Sexo", Code: "sex"})
	require.NoError(t, err)
	assert.True(t, d.Enabled)

	_, err = e.svc.DictionaryTypes.Create(e.ctx, tda, dto.DictionaryTypeRequest{Name: "Otro", Code: "sex"})
	require.ErrorIs(t, err, repository.ErrConflict)

	_, err = e.svc.DictionaryTypes.Create(e.ctx, tda, dto.DictionaryTypeRequest{Name: "x", Code: "1bad"})
	require.ErrorIs(t, err, repository.ErrInvalidInput)

	off := false
	up, err := e.svc.DictionaryTypes.Update(e.ctx, tda, d.ID, dto.DictionaryTypeRequest{Name: "Sexo", Code: "sex", Enabled: &off})
	require.NoError(t, err)
	assert.False(t, up.Enabled)

	page, err := e.svc.DictionaryTypes.Page(e.ctx, tda, repository.PageQuery[repository.DictionaryTypeFilter]{
		Filter: repository.DictionaryTypeFilter{OnlyEnabled: true},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)
}

func TestApiService_Sync(t *testing.T) {
	e := newEnv(t)

	_, err := e.svc.Apis.Create(e.ctx, dto.ApiRequest{Path: "/legacy", HttpMethods: "get"})
	require.NoError(t, err)

	res, err := e.svc.Apis.Sync(e.ctx, []dto.ApiSyncItem{
		{Path: "/api/admin", Label: "admin"},
		{Path: "/api/admin/staff", ParentPath: "/api/admin", HttpMethods: "get, post,GET"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Added)
	assert.Equal(t, 1, res.Disabled)

	staff, err := e.mgr.Platform(claims.User{}).Apis().GetByPath(context.Background(), "/api/admin/staff")
	require.NoError(t, err)
	assert.Equal(t, "GET,POST", staff.HttpMethods)
	assert.NotZero(t, staff.ParentID)

	_, err = e.svc.Apis.Sync(e.ctx, []dto.ApiSyncItem{{Path: "no-slash"}})
	require.ErrorIs(t, err, repository.ErrInvalidInput)
	_, err = e.svc.Apis.Sync(e.ctx, []dto.ApiSyncItem{{Path: "/x", HttpMethods: "FETCH"}})
	require.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestApiService_UpdateSelfParent(t *testing.T) {
	e := newEnv(t)
	a, err := e.svc.Apis.Create(e.ctx, dto.ApiRequest{Path: "/a"})
	require.NoError(t, err)
	assert.Equal(t, "/a", a.Name)

	_, err = e.svc.Apis.Update(e.ctx, a.ID, dto.ApiRequest{Path: "/a", ParentID: a.ID})
	require.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestTenantService_ConnectionString(t *testing.T) {
	e := newEnv(t)
	dsn := "file:" + filepath.Join(e.dir, "acme.db") + "?_foreign_keys=on"

	_, err := e.svc.Tenants.Create(e.ctx, dto.TenantRequest{Name: "Acme", Code: "acme", DataIsolationType: "own_db"})
	require.ErrorIs(t, err, repository.ErrInvalidInput)

	tn, err := e.svc.Tenants.Create(e.ctx, dto.TenantRequest{
		Name: "Acme", Code: "acme", DataIsolationType: "own_db", DbType: "sqlite3", ConnectionString: dsn,
	})
	require.NoError(t, err)
	assert.Equal(t, dsn, tn.ConnectionString)
	assert.Equal(t, repository.DbTypeSQLite, tn.DbType)
	assert.True(t, tn.Enabled)

	raw, err := e.mgr.Platform(claims.User{}).Tenants().Get(context.Background(), tn.ID)
	require.NoError(t, err)
	assert.True(t, secretbox.IsEncrypted(raw.ConnectionString))

	// connection string vacío conserva el actual
	up, err := e.svc.Tenants.Update(e.ctx, tn.ID, dto.TenantRequest{
		Version: tn.Version, Name: "Acme SA", Code: "acme", DataIsolationType: "own_db", DbType: "sqlite",
	})
	require.NoError(t, err)
	assert.Equal(t, dsn, up.ConnectionString)
	assert.Equal(t, "Acme SA", up.Name)

	_, err = e.svc.Tenants.Update(e.ctx, tn.ID, dto.TenantRequest{Version: 0, Name: "x", Code: "acme"})
	require.ErrorIs(t, err, repository.ErrPreconditionFailed)
}

func TestTenantService_DisableRefreshesConnection(t *testing.T) {
	e := newEnv(t)
	dsn := "file:" + filepath.Join(e.dir, "t.db") + "?_foreign_keys=on"
	tn, err := e.svc.Tenants.Create(e.ctx, dto.TenantRequest{
		Name: "T", Code: "t", DataIsolationType: "own_db", DbType: "sqlite", ConnectionString: dsn,
	})
	require.NoError(t, err)

	e.tenantData(t, tn.ID, repository.IsolationOwnDb)
	assert.Equal(t, 1, e.mgr.Stats().TenantDBs.Registered)

	off := false
	_, err = e.svc.Tenants.Update(e.ctx, tn.ID, dto.TenantRequest{
		Version: tn.Version, Name: "T", Code: "t", DataIsolationType: "own_db", DbType: "sqlite", Enabled: &off,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, e.mgr.Stats().TenantDBs.Registered)

	id := tn.ID
	u := claims.User{ID: 7, TenantID: &id, DataIsolationType: repository.IsolationOwnDb}
	_, err = e.mgr.ForUser(context.Background(), u)
	require.ErrorIs(t, err, repository.ErrTenantDisabled)
}

func TestTenantService_Migrate(t *testing.T) {
	e := newEnv(t)
	dsn := "file:" + filepath.Join(e.dir, "m.db") + "?_foreign_keys=on"
	own, err := e.svc.Tenants.Create(e.ctx, dto.TenantRequest{
		Name: "M", Code: "m", DataIsolationType: "own_db", DbType: "sqlite", ConnectionString: dsn,
	})
	require.NoError(t, err)
	shared, err := e.svc.Tenants.Create(e.ctx, dto.TenantRequest{Name: "S", Code: "s"})
	require.NoError(t, err)
	assert.Equal(t, repository.IsolationShareDb, shared.DataIsolationType)

	res, err := e.svc.Tenants.Migrate(e.ctx, own.ID)
	require.NoError(t, err)
	assert.Positive(t, res.Version)
	assert.Equal(t, 1, e.rec.calls)
	assert.NoError(t, e.rec.last)

	_, err = e.svc.Tenants.Migrate(e.ctx, shared.ID)
	require.ErrorIs(t, err, repository.ErrNoDatabase)
	assert.Equal(t, 2, e.rec.calls)

	_, err = e.svc.Tenants.Migrate(e.ctx, 4242)
	require.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, 2, e.rec.calls)
}
