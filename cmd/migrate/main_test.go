package main

import (
	"bytes"
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/adminhub/internal/bootstrap"
	"github.com/dropDatabas3/adminhub/internal/domain/repository"
	"github.com/dropDatabas3/adminhub/internal/store"
	"github.com/dropDatabas3/adminhub/internal/store/sqldb"
	"github.com/dropDatabas3/adminhub/internal/store/sqldb/sqldbtest"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--env-file", ""))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func seedTenant(t *testing.T, mainDSN string, tn repository.Tenant) int64 {
	t.Helper()
	ctx := context.Background()
	db, err := sqldb.Open(ctx, sqldb.DBConfig{Name: "main", Type: repository.DbTypeSQLite, DSN: mainDSN})
	require.NoError(t, err)
	dal, err := store.NewManager(store.ManagerConfig{Main: db})
	require.NoError(t, err)
	defer dal.Close()
	require.NoError(t, dal.Platform(bootstrap.SystemUser).Tenants().Create(ctx, &tn))
	return tn.ID
}

func TestMigrate_MainThenTenants(t *testing.T) {
	dir := t.TempDir()
	mainDSN := sqldbtest.DSN(dir, "main")
	t.Setenv("ADMINHUB_DB_TYPE", "sqlite")
	t.Setenv("ADMINHUB_DB_DSN", mainDSN)
	t.Setenv("ADMINHUB_SECURITY_SECRETBOX_MASTER_KEY", "")

	out, err := run(t, "main")
	require.NoError(t, err)
	assert.Contains(t, out, "main:")

	out, err = run(t, "tenants")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to migrate")

	own := seedTenant(t, mainDSN, repository.Tenant{
		Name: "Own", Code: "own", Enabled: true,
		DataIsolationType: repository.IsolationOwnDb,
		DbType:            repository.DbTypeSQLite,
		ConnectionString:  sqldbtest.DSN(dir, "own"),
	})
	shared := seedTenant(t, mainDSN, repository.Tenant{
		Name: "Shared", Code: "shared", Enabled: true,
		DataIsolationType: repository.IsolationShareDb,
	})

	out, err = run(t, "tenants", "--parallel", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "(own):")
	assert.NotContains(t, out, "(shared)")

	// idempotente: la segunda corrida no aplica nada
	out, err = run(t, "tenants", "--id", strconv.FormatInt(own, 10))
	require.NoError(t, err)
	assert.Contains(t, out, "0 applied")

	_, err = run(t, "tenants", "--id", strconv.FormatInt(shared, 10))
	require.ErrorIs(t, err, repository.ErrNoDatabase)
}

func TestMigrate_BrokenTenantReported(t *testing.T) {
	dir := t.TempDir()
	mainDSN := sqldbtest.DSN(dir, "main")
	t.Setenv("ADMINHUB_DB_TYPE", "sqlite")
	t.Setenv("ADMINHUB_DB_DSN", mainDSN)

	_, err := run(t, "main")
	require.NoError(t, err)
	seedTenant(t, mainDSN, repository.Tenant{
		Name: "Broken", Code: "broken", Enabled: true,
		DataIsolationType: repository.IsolationOwnDb,
		DbType:            repository.DbTypeSQLite,
		ConnectionString:  "file:" + dir + "/missing/dir/x.db?mode=ro",
	})

	out, err := run(t, "tenants")
	require.Error(t, err)
	assert.Contains(t, out, "FAILED")
}
