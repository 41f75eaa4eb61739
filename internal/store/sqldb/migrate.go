package sqldb

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/dropDatabas3/adminhub/internal/observability/logger"
	"github.com/dropDatabas3/adminhub/migrations"
)

// MigrationResult resume una corrida de migraciones.
type MigrationResult struct {
	Applied []string `json:"applied"`
	Version int64    `json:"version"`
}

// Migrate aplica las migraciones embebidas del dialecto de db.
// Usa un goose.Provider por llamada, sin estado global, para poder migrar
// varias DBs de tenants en paralelo.
func Migrate(ctx context.Context, db *DB) (*MigrationResult, error) {
	fsys, err := migrations.Dir(migrationsDir(db.typ))
	if err != nil {
		return nil, err
	}
	p, err := goose.NewProvider(gooseDialect(db.typ), db.x.DB, fsys)
	if err != nil {
		return nil, fmt.Errorf("sqldb: goose provider %s: %w", db.name, err)
	}
	results, err := p.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("sqldb: migrate %s: %w", db.name, err)
	}
	out := &MigrationResult{Applied: make([]string, 0, len(results))}
	for _, r := range results {
		out.Applied = append(out.Applied, r.Source.Path)
	}
	if out.Version, err = p.GetDBVersion(ctx); err != nil {
		return nil, fmt.Errorf("sqldb: migrate version %s: %w", db.name, err)
	}
	logger.From(ctx).Info("migrations applied",
		logger.Component("sqldb"), logger.Key(db.name), logger.Count(len(out.Applied)))
	return out, nil
}
