// Package sqldbtest abre bases sqlite migradas en directorios temporales para tests.
package sqldbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/adminhub/internal/domain/repository"
	"github.com/dropDatabas3/adminhub/internal/store/sqldb"
)

// DSN devuelve un DSN sqlite para un archivo name dentro de dir.
func DSN(dir, name string) string {
	return "file:" + filepath.Join(dir, name+".db") + "?_foreign_keys=on&_busy_timeout=5000"
}

// Open abre una sqlite nueva en t.TempDir(), migrada, y la cierra al terminar el test.
func Open(t testing.TB, name string) *sqldb.DB {
	t.Helper()
	db, err := sqldb.Open(context.Background(), sqldb.DBConfig{
		Name:        name,
		Type:        repository.DbTypeSQLite,
		DSN:         DSN(t.TempDir(), name),
		AutoMigrate: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
