package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/adminhub/internal/config"
	"github.com/dropDatabas3/adminhub/internal/store/sqldb/sqldbtest"
)

func TestSeed_Idempotent(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.DB.DSN = sqldbtest.DSN(dir, "main")
	cfg.DB.AutoMigrate = true

	sex := 1
	f := seedFile{Tenants: []seedTenant{
		{
			Name: "Acme", Code: "acme", Isolation: "share_db",
			DictionaryTypes: []seedDict{{Name: "Género", Code: "gender"}, {Name: "Cargo", Code: "position"}},
			Staff:           []seedStaff{{JobNumber: "A-001", Position: "Gerente", Sex: &sex}},
		},
		{
			Name: "Globex", Code: "globex", Isolation: "own_db", DbType: "sqlite",
			ConnectionString: sqldbtest.DSN(dir, "globex"),
			DictionaryTypes:  []seedDict{{Name: "Estado", Code: "status"}},
			Staff:            []seedStaff{{JobNumber: "G-001"}, {JobNumber: "G-002"}},
		},
	}}

	var out bytes.Buffer
	sum, err := seed(context.Background(), cfg, f, &out)
	require.NoError(t, err)
	assert.Equal(t, summary{Tenants: 2, DictionaryTypes: 3, Staff: 3}, sum)
	assert.Contains(t, out.String(), "tenant globex")
	assert.FileExists(t, filepath.Join(dir, "globex.db"))

	sum, err = seed(context.Background(), cfg, f, &out)
	require.NoError(t, err)
	assert.Equal(t, summary{Skipped: 2 + 3 + 3}, sum)
}

func TestSeed_InvalidStaffAborts(t *testing.T) {
	cfg := config.Default()
	cfg.DB.DSN = sqldbtest.DSN(t.TempDir(), "main")
	cfg.DB.AutoMigrate = true

	bad := 9
	f := seedFile{Tenants: []seedTenant{{
		Name: "Acme", Code: "acme",
		Staff: []seedStaff{{JobNumber: "A-1", Sex: &bad}},
	}}}
	_, err := seed(context.Background(), cfg, f, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "staff A-1")
}

func TestLoadSeed_ExampleFile(t *testing.T) {
	f, err := loadSeed(filepath.Join("..", "..", "configs", "seed.example.yaml"))
	require.NoError(t, err)
	require.Len(t, f.Tenants, 2)
	assert.Equal(t, "own_db", f.Tenants[1].Isolation)
	require.NotNil(t, f.Tenants[1].IdleTime)
	assert.Equal(t, 10, *f.Tenants[1].IdleTime)

	p := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(p, []byte("tenants: {"), 0o600))
	_, err = loadSeed(p)
	require.Error(t, err)
}
