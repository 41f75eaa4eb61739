package sqlrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/adminhub/internal/domain/repository"
	"github.com/dropDatabas3/adminhub/internal/store/sqldb/sqldbtest"
	"github.com/dropDatabas3/adminhub/internal/store/sqlrepo"
)

func tenantScope(tenantID int64) sqlrepo.Scope {
	uid := int64(100 + tenantID)
	return sqlrepo.Scope{UserID: &uid, UserName: "user", TenantID: &tenantID, FilterTenant: true}
}

func sexPtr(s repository.Sex) *repository.Sex { return &s }

func TestStaff_CreateGet(t *testing.T) {
	db := sqldbtest.Open(t, "main")
	ctx := context.Background()
	repo := sqlrepo.NewStaffRepo(db, tenantScope(1))

	entry := time.Date(2023, 5, 1, 9, 0, 0, 0, time.UTC)
	s := &repository.Staff{Position: "dev", JobNumber: "A-001", Sex: sexPtr(repository.SexFemale), EntryTime: &entry, Introduce: "hola"}
	require.NoError(t, repo.Create(ctx, s))
	require.Positive(t, s.ID)
	require.NotNil(t, s.TenantID)
	assert.Equal(t, int64(1), *s.TenantID)
	require.NotNil(t, s.CreatedTime)
	assert.Equal(t, "user", s.CreatedUserName)

	got, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "dev", got.Position)
	assert.Equal(t, "A-001", got.JobNumber)
	require.NotNil(t, got.Sex)
	assert.Equal(t, repository.SexFemale, *got.Sex)
	require.NotNil(t, got.EntryTime)
	assert.True(t, entry.Equal(*got.EntryTime))
	assert.Equal(t, int64(0), got.Version)
	assert.False(t, got.IsDeleted)
	require.NotNil(t, got.CreatedUserID)
	assert.Equal(t, int64(101), *got.CreatedUserID)
}

func TestStaff_SoftDeleteExcluded(t *testing.T) {
	db := sqldbtest.Open(t, "main")
	ctx := context.Background()
	repo := sqlrepo.NewStaffRepo(db, tenantScope(1))

	a := &repository.Staff{Position: "a"}
	b := &repository.Staff{Position: "b"}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	n, err := repo.SoftDelete(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.Get(ctx, a.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	list, err := repo.List(ctx, repository.StaffFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	page, err := repo.Page(ctx, repository.PageQuery[repository.StaffFilter]{CurrentPage: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	// borrar de nuevo no afecta filas
	n, err = repo.SoftDelete(ctx, a.ID, 9999)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStaff_TenantIsolation(t *testing.T) {
	db := sqldbtest.Open(t, "main")
	ctx := context.Background()
	repoA := sqlrepo.NewStaffRepo(db, tenantScope(1))
	repoB := sqlrepo.NewStaffRepo(db, tenantScope(2))

	sa := &repository.Staff{Position: "de A"}
	require.NoError(t, repoA.Create(ctx, sa))
	require.NoError(t, repoB.Create(ctx, &repository.Staff{Position: "de B"}))

	_, err := repoB.Get(ctx, sa.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	listB, err := repoB.List(ctx, repository.StaffFilter{})
	require.NoError(t, err)
	require.Len(t, listB, 1)
	assert.Equal(t, "de B", listB[0].Position)

	// B no puede modificar ni borrar filas de A
	n, err := repoB.SoftDelete(ctx, sa.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
	sa.Position = "hack"
	require.ErrorIs(t, repoB.Update(ctx, sa), repository.ErrNotFound)

	// sin multi-tenant se ve todo
	all, err := sqlrepo.NewStaffRepo(db, sqlrepo.Scope{}).List(ctx, repository.StaffFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestInsert_TenantScopeWithoutTenant(t *testing.T) {
	db := sqldbtest.Open(t, "main")
	ctx := context.Background()
	uid := int64(1)
	scope := sqlrepo.Scope{UserID: &uid, UserName: "root", FilterTenant: true}

	err := sqlrepo.NewStaffRepo(db, scope).Create(ctx, &repository.Staff{Position: "x"})
	require.ErrorIs(t, err, repository.ErrInvalidInput)
	err = sqlrepo.NewDictionaryTypeRepo(db, scope).Create(ctx, &repository.DictionaryType{Name: "x", Code: "x"})
	require.ErrorIs(t, err, repository.ErrInvalidInput)

	var n int
	q := db.Querier()
	require.NoError(t, q.Get(ctx, &n, q.Builder().Select("COUNT(*)").From("ad_staff")))
	assert.Zero(t, n)

	// las tablas de plataforma no llevan tenant_id
	require.NoError(t, sqlrepo.NewApiRepo(db, scope).Create(ctx, &repository.Api{Path: "/ok"}))
}

func TestStaff_UpdateVersion(t *testing.T) {
	db := sqldbtest.Open(t, "main")
	ctx := context.Background()
	repo := sqlrepo.NewStaffRepo(db, tenantScope(1))

	s := &repository.Staff{Position: "junior"}
	require.NoError(t, repo.Create(ctx, s))

	s.Position = "senior"
	require.NoError(t, repo.Update(ctx, s))
	assert.Equal(t, int64(1), s.Version)
	require.NotNil(t, s.ModifiedTime)

	stale := *s
	stale.Version = 0
	stale.Position = "lead"
	require.ErrorIs(t, repo.Update(ctx, &stale), repository.ErrPreconditionFailed)

	got, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "senior", got.Position)
	assert.Equal(t, int64(1), got.Version)
}

func TestStaff_PageAndKey(t *testing.T) {
	db := sqldbtest.Open(t, "main")
	ctx := context.Background()
	repo := sqlrepo.NewStaffRepo(db, tenantScope(1))

	for _, p := range []string{"backend", "frontend", "qa", "backend lead", "ops"} {
		require.NoError(t, repo.Create(ctx, &repository.Staff{Position: p}))
	}

	page, err := repo.Page(ctx, repository.PageQuery[repository.StaffFilter]{CurrentPage: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Len(t, page.List, 2)

	page, err = repo.Page(ctx, repository.PageQuery[repository.StaffFilter]{Filter: repository.StaffFilter{Key: "backend"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	list, err := repo.List(ctx, repository.StaffFilter{Key: "nada"})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDictionaryType_CodeUniquePerTenant(t *testing.T) {
	db := sqldbtest.Open(t, "main")
	ctx := context.Background()
	repoA := sqlrepo.NewDictionaryTypeRepo(db, tenantScope(1))
	repoB := sqlrepo.NewDictionaryTypeRepo(db, tenantScope(2))

	d := &repository.DictionaryType{Name: "Estado", Code: "status", Enabled: true}
	require.NoError(t, repoA.Create(ctx, d))

	err := repoA.Create(ctx, &repository.DictionaryType{Name: "Otro", Code: "status"})
	require.ErrorIs(t, err, repository.ErrConflict)

	require.NoError(t, repoB.Create(ctx, &repository.DictionaryType{Name: "Estado", Code: "status"}))

	// liberar el código al borrar
	_, err = repoA.SoftDelete(ctx, d.ID)
	require.NoError(t, err)
	require.NoError(t, repoA.Create(ctx, &repository.DictionaryType{Name: "Nuevo", Code: "status"}))
}

func TestDictionaryType_OnlyEnabled(t *testing.T) {
	db := sqldbtest.Open(t, "main")
	ctx := context.Background()
	repo := sqlrepo.NewDictionaryTypeRepo(db, tenantScope(1))

	require.NoError(t, repo.Create(ctx, &repository.DictionaryType{Name: "b", Code: "b", Enabled: true, Sort: 2}))
	require.NoError(t, repo.Create(ctx, &repository.DictionaryType{Name: "a", Code: "a", Enabled: true, Sort: 1}))
	require.NoError(t, repo.Create(ctx, &repository.DictionaryType{Name: "off", Code: "off", Enabled: false}))

	list, err := repo.List(ctx, repository.DictionaryTypeFilter{OnlyEnabled: true})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Code)
	assert.Equal(t, "b", list[1].Code)
}

func TestTenant_CRUDAndConnection(t *testing.T) {
	db := sqldbtest.Open(t, "main")
	ctx := context.Background()
	repo := sqlrepo.NewTenantRepo(db, tenantScope(1))

	idle := 10
	tn := &repository.Tenant{
		Name: "Acme", Code: "acme", DbType: repository.DbTypeSQLite,
		ConnectionString: "file:acme.db", IdleTime: &idle,
		DataIsolationType: repository.IsolationOwnDb, Enabled: true,
	}
	require.NoError(t, repo.Create(ctx, tn))

	err := repo.Create(ctx, &repository.Tenant{Name: "Acme 2", Code: "acme"})
	require.ErrorIs(t, err, repository.ErrConflict)

	conn, err := repo.GetConnection(ctx, tn.ID)
	require.NoError(t, err)
	assert.Equal(t, tn.ID, conn.TenantID)
	assert.Equal(t, repository.DbTypeSQLite, conn.DbType)
	assert.Equal(t, repository.IsolationOwnDb, conn.DataIsolationType)
	require.NotNil(t, conn.IdleTime)
	assert.Equal(t, 10, *conn.IdleTime)
	assert.True(t, conn.Enabled)

	_, err = repo.SoftDelete(ctx, tn.ID)
	require.NoError(t, err)
	_, err = repo.GetConnection(ctx, tn.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestApi_Sync(t *testing.T) {
	db := sqldbtest.Open(t, "main")
	ctx := context.Background()
	repo := sqlrepo.NewApiRepo(db, sqlrepo.Scope{})

	res, err := repo.Sync(ctx, []repository.ApiSyncItem{
		{Path: "/api/admin/staff/{id}", Label: "Get staff", ParentPath: "/api/admin/staff", HttpMethods: "GET"},
		{Path: "/api/admin/staff", Label: "Staff"},
		{Path: "/api/admin/legacy", Label: "Legacy", HttpMethods: "GET"},
	})
	require.NoError(t, err)
	assert.Equal(t, repository.ApiSyncResult{Added: 3}, *res)

	parent, err := repo.GetByPath(ctx, "/api/admin/staff")
	require.NoError(t, err)
	child, err := repo.GetByPath(ctx, "/api/admin/staff/{id}")
	require.NoError(t, err)
	assert.Equal(t, parent.ID, child.ParentID)

	// segunda pasada: legacy desaparece, staff/{id} cambia, nueva api
	res, err = repo.Sync(ctx, []repository.ApiSyncItem{
		{Path: "/api/admin/staff", Label: "Staff"},
		{Path: "/api/admin/staff/{id}", Label: "Get staff", ParentPath: "/api/admin/staff", HttpMethods: "GET,PUT"},
		{Path: "/api/admin/tenants", Label: "Tenants"},
	})
	require.NoError(t, err)
	assert.Equal(t, repository.ApiSyncResult{Added: 1, Updated: 1, Disabled: 1}, *res)

	legacy, err := repo.GetByPath(ctx, "/api/admin/legacy")
	require.NoError(t, err)
	assert.False(t, legacy.Enabled)

	// vuelve legacy: se rehabilita
	res, err = repo.Sync(ctx, []repository.ApiSyncItem{
		{Path: "/api/admin/staff", Label: "Staff"},
		{Path: "/api/admin/staff/{id}", Label: "Get staff", ParentPath: "/api/admin/staff", HttpMethods: "GET,PUT"},
		{Path: "/api/admin/tenants", Label: "Tenants"},
		{Path: "/api/admin/legacy", Label: "Legacy", HttpMethods: "GET"},
	})
	require.NoError(t, err)
	assert.Equal(t, repository.ApiSyncResult{Updated: 1}, *res)
	legacy, err = repo.GetByPath(ctx, "/api/admin/legacy")
	require.NoError(t, err)
	assert.True(t, legacy.Enabled)
}

func TestApi_SyncRejectsDuplicates(t *testing.T) {
	db := sqldbtest.Open(t, "main")
	repo := sqlrepo.NewApiRepo(db, sqlrepo.Scope{})
	_, err := repo.Sync(context.Background(), []repository.ApiSyncItem{{Path: "/a"}, {Path: "/a"}})
	require.ErrorIs(t, err, repository.ErrInvalidInput)

	list, err := repo.List(context.Background(), repository.ApiFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestApi_PathConflict(t *testing.T) {
	db := sqldbtest.Open(t, "main")
	ctx := context.Background()
	repo := sqlrepo.NewApiRepo(db, sqlrepo.Scope{})

	require.NoError(t, repo.Create(ctx, &repository.Api{Path: "/x", Name: "x", Enabled: true}))
	require.ErrorIs(t, repo.Create(ctx, &repository.Api{Path: "/x"}), repository.ErrConflict)
}

// sanity: la auditoría usa el reloj de la DB.
func TestAuditUsesDBClock(t *testing.T) {
	db := sqldbtest.Open(t, "main")
	repo := sqlrepo.NewApiRepo(db, sqlrepo.Scope{})
	a := &repository.Api{Path: "/clock"}
	require.NoError(t, repo.Create(context.Background(), a))
	require.NotNil(t, a.CreatedTime)
	assert.WithinDuration(t, db.Now(), *a.CreatedTime, 2*time.Second)
}
