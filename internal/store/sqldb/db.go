// Package sqldb abre y envuelve las bases SQL (principal y de tenants):
// drivers, reloj alineado al servidor, logging de sentencias y migraciones.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib" // driver "pgx"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // driver "sqlite3"
	"go.uber.org/zap"

	"github.com/dropDatabas3/adminhub/internal/domain/repository"
	"github.com/dropDatabas3/adminhub/internal/observability/logger"
)

// DBConfig describe cómo abrir una base de datos (principal o de tenant).
type DBConfig struct {
	// Name identifica la conexión en logs y métricas ("main", "tenant_12").
	Name            string
	Type            repository.DbType
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	// MonitorCommand loguea cada sentencia en debug.
	MonitorCommand bool
	// Curd loguea altas, modificaciones y bajas en info.
	Curd bool
	// AutoMigrate aplica las migraciones embebidas al abrir.
	AutoMigrate bool
}

// DB es un pool database/sql con el reloj alineado al servidor.
type DB struct {
	x       *sqlx.DB
	name    string
	typ     repository.DbType
	offset  time.Duration
	monitor bool
	curd    bool
	builder sq.StatementBuilderType
}

// Open abre el pool, verifica conectividad, calcula el desfasaje de reloj
// contra el servidor y opcionalmente migra.
func Open(ctx context.Context, cfg DBConfig) (*DB, error) {
	dsn, err := normalizeDSN(cfg.Type, cfg.DSN)
	if err != nil {
		return nil, err
	}
	x, err := sqlx.Open(driverName(cfg.Type), dsn)
	if err != nil {
		return nil, fmt.Errorf("sqldb: open %s: %w", cfg.Name, err)
	}
	db := wrap(x, cfg)

	if err := x.PingContext(ctx); err != nil {
		_ = x.Close()
		return nil, fmt.Errorf("sqldb: ping %s: %w", cfg.Name, err)
	}
	if err := db.syncClock(ctx); err != nil {
		_ = x.Close()
		return nil, err
	}
	if cfg.AutoMigrate {
		if _, err := Migrate(ctx, db); err != nil {
			_ = x.Close()
			return nil, err
		}
	}

	logger.From(ctx).Info("database opened",
		logger.Component("sqldb"), logger.Key(db.name), logger.DbType(string(db.typ)),
		zap.Duration("clock_offset", db.offset))
	return db, nil
}

// NewFromSQLX envuelve un *sqlx.DB existente sin ping ni sincronizar reloj (tests con sqlmock).
func NewFromSQLX(x *sqlx.DB, cfg DBConfig) *DB { return wrap(x, cfg) }

func wrap(x *sqlx.DB, cfg DBConfig) *DB {
	if cfg.Type == "" {
		cfg.Type = repository.DbTypeSQLite
	}
	if cfg.Type == repository.DbTypeSQLite {
		// sqlite serializa escrituras; una sola conexión evita SQLITE_BUSY.
		x.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			x.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			x.SetMaxIdleConns(cfg.MaxIdleConns)
		}
	}
	if cfg.ConnMaxLifetime > 0 {
		x.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		x.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
	return &DB{
		x:       x,
		name:    cfg.Name,
		typ:     cfg.Type,
		monitor: cfg.MonitorCommand,
		curd:    cfg.Curd,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholder(cfg.Type)),
	}
}

// syncClock calcula la diferencia entre la hora del servidor y la local (UTC).
func (db *DB) syncClock(ctx context.Context) error {
	var raw any
	local := time.Now().UTC()
	if err := db.x.QueryRowContext(ctx, nowQuery(db.typ)).Scan(&raw); err != nil {
		return fmt.Errorf("sqldb: server time %s: %w", db.name, err)
	}
	server, err := parseServerTime(raw)
	if err != nil {
		return err
	}
	db.offset = server.Sub(local).Round(time.Millisecond)
	return nil
}

func (db *DB) Name() string                     { return db.name }
func (db *DB) Type() repository.DbType          { return db.typ }
func (db *DB) ClockOffset() time.Duration       { return db.offset }
func (db *DB) Builder() sq.StatementBuilderType { return db.builder }
func (db *DB) SQLX() *sqlx.DB                   { return db.x }
func (db *DB) Ping(ctx context.Context) error   { return db.x.PingContext(ctx) }
func (db *DB) Close() error                     { return db.x.Close() }
func (db *DB) Stats() sql.DBStats               { return db.x.Stats() }
func (db *DB) Now() time.Time                   { return time.Now().UTC().Add(db.offset) }
func (db *DB) querier() *runner                 { return &runner{db: db, ext: db.x} }
func (db *DB) Querier() Querier                 { return db.querier() }
func (db *DB) withTx(tx *sqlx.Tx) *runner       { return &runner{db: db, ext: tx} }
func (db *DB) CurdEnabled() bool                { return db.curd }
func (db *DB) MonitorEnabled() bool             { return db.monitor }

// InTx ejecuta fn en una transacción; cualquier error hace rollback.
func (db *DB) InTx(ctx context.Context, fn func(q Querier) error) (err error) {
	tx, err := db.x.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqldb: begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()
	return fn(db.withTx(tx))
}

// LogCurd registra una operación de escritura si db.curd está habilitado.
func (db *DB) LogCurd(ctx context.Context, op, entity string, affected int64, ids ...int64) {
	if !db.curd {
		return
	}
	logger.From(ctx).Info("curd",
		logger.Component("sqldb"), logger.Key(db.name), logger.Op(op),
		logger.Entity(entity), logger.Affected(affected), zap.Int64s("ids", ids))
}
