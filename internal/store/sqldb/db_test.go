package sqldb_test

import (
	"context"
	"errors"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/adminhub/internal/domain/repository"
	"github.com/dropDatabas3/adminhub/internal/store/sqldb"
	"github.com/dropDatabas3/adminhub/internal/store/sqldb/sqldbtest"
)

func TestOpen_SQLiteMigratesAndSyncsClock(t *testing.T) {
	db := sqldbtest.Open(t, "main")

	assert.Equal(t, repository.DbTypeSQLite, db.Type())
	assert.Less(t, db.ClockOffset().Abs(), 2*time.Second)
	assert.WithinDuration(t, time.Now().UTC(), db.Now(), 2*time.Second)

	var n int
	require.NoError(t, db.Querier().Get(context.Background(), &n,
		sq.Select("COUNT(*)").From("sqlite_master").Where(sq.Eq{"type": "table", "name": []string{
			"ad_tenant", "ad_api", "ad_staff", "ad_dictionary_type",
		}})))
	assert.Equal(t, 4, n)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := sqldbtest.Open(t, "main")
	res, err := sqldb.Migrate(context.Background(), db)
	require.NoError(t, err)
	assert.Empty(t, res.Applied)
	assert.Equal(t, int64(2), res.Version)
}

// Un INSERT que saltea las validaciones del repo choca contra los índices
// únicos de filas vivas y llega como ErrConflict.
func TestMigrate_UniqueActiveRows(t *testing.T) {
	db := sqldbtest.Open(t, "main")
	ctx := context.Background()
	q := db.Querier()

	tenant := func(code string) error {
		_, err := q.Insert(ctx, q.Builder().Insert("ad_tenant").Columns("name", "code").Values(code, code))
		return err
	}
	require.NoError(t, tenant("acme"))
	require.ErrorIs(t, tenant("acme"), repository.ErrConflict)

	// el soft delete libera el código
	_, err := q.Exec(ctx, q.Builder().Update("ad_tenant").Set("is_deleted", true).Where(sq.Eq{"code": "acme"}))
	require.NoError(t, err)
	require.NoError(t, tenant("acme"))

	api := func(path string) error {
		_, err := q.Insert(ctx, q.Builder().Insert("ad_api").Columns("path").Values(path))
		return err
	}
	require.NoError(t, api("/x"))
	require.ErrorIs(t, api("/x"), repository.ErrConflict)

	dict := func(tenantID any, code string) error {
		_, err := q.Insert(ctx, q.Builder().Insert("ad_dictionary_type").
			Columns("tenant_id", "name", "code").Values(tenantID, "d", code))
		return err
	}
	require.NoError(t, dict(1, "sex"))
	require.ErrorIs(t, dict(1, "sex"), repository.ErrConflict)
	require.NoError(t, dict(2, "sex"))
	require.NoError(t, dict(nil, "sex"))
	require.ErrorIs(t, dict(nil, "sex"), repository.ErrConflict)
	// sin código no hay unicidad
	require.NoError(t, dict(1, ""))
	require.NoError(t, dict(1, ""))
}

func TestOpen_BadDSN(t *testing.T) {
	_, err := sqldb.Open(context.Background(), sqldb.DBConfig{
		Name: "bad",
		Type: repository.DbTypeSQLite,
		DSN:  "file:/nonexistent-dir/x/y.db?mode=ro",
	})
	require.Error(t, err)
}

func TestInsertAndGet(t *testing.T) {
	db := sqldbtest.Open(t, "main")
	ctx := context.Background()
	q := db.Querier()

	id, err := q.Insert(ctx, q.Builder().Insert("ad_api").Columns("path", "name").Values("/a", "a"))
	require.NoError(t, err)
	assert.Positive(t, id)

	var path string
	require.NoError(t, q.Get(ctx, &path, q.Builder().Select("path").From("ad_api").Where(sq.Eq{"id": id})))
	assert.Equal(t, "/a", path)

	err = q.Get(ctx, &path, q.Builder().Select("path").From("ad_api").Where(sq.Eq{"id": id + 100}))
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestInTx_RollbackOnError(t *testing.T) {
	db := sqldbtest.Open(t, "main")
	ctx := context.Background()
	boom := errors.New("boom")

	err := db.InTx(ctx, func(q sqldb.Querier) error {
		_, err := q.Insert(ctx, q.Builder().Insert("ad_api").Columns("path").Values("/tx"))
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	var n int
	q := db.Querier()
	require.NoError(t, q.Get(ctx, &n, q.Builder().Select("COUNT(*)").From("ad_api")))
	assert.Zero(t, n)

	require.NoError(t, db.InTx(ctx, func(q sqldb.Querier) error {
		_, err := q.Insert(ctx, q.Builder().Insert("ad_api").Columns("path").Values("/tx"))
		return err
	}))
	require.NoError(t, q.Get(ctx, &n, q.Builder().Select("COUNT(*)").From("ad_api")))
	assert.Equal(t, 1, n)
}
