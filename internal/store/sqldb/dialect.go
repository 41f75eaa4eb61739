package sqldb

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
	"github.com/pressly/goose/v3"

	"github.com/dropDatabas3/adminhub/internal/domain/repository"
)

// driverName retorna el nombre del driver database/sql registrado para t.
func driverName(t repository.DbType) string {
	switch t {
	case repository.DbTypePostgreSQL:
		return "pgx"
	case repository.DbTypeMySQL:
		return "mysql"
	default:
		return "sqlite3"
	}
}

func placeholder(t repository.DbType) sq.PlaceholderFormat {
	if t == repository.DbTypePostgreSQL {
		return sq.Dollar
	}
	return sq.Question
}

func gooseDialect(t repository.DbType) goose.Dialect {
	switch t {
	case repository.DbTypePostgreSQL:
		return goose.DialectPostgres
	case repository.DbTypeMySQL:
		return goose.DialectMySQL
	default:
		return goose.DialectSQLite3
	}
}

// migrationsDir es el subdirectorio de migrations/ para t.
func migrationsDir(t repository.DbType) string {
	switch t {
	case repository.DbTypePostgreSQL:
		return "postgres"
	case repository.DbTypeMySQL:
		return "mysql"
	default:
		return "sqlite"
	}
}

// nowQuery devuelve la hora del servidor de base de datos en UTC.
func nowQuery(t repository.DbType) string {
	switch t {
	case repository.DbTypePostgreSQL:
		return "SELECT (now() AT TIME ZONE 'UTC')::text"
	case repository.DbTypeMySQL:
		return "SELECT UTC_TIMESTAMP(3)"
	default:
		return "SELECT strftime('%Y-%m-%d %H:%M:%f', 'now')"
	}
}

var serverTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999-07",
	time.RFC3339Nano,
}

func parseServerTime(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x.UTC(), nil
	case []byte:
		return parseServerTime(string(x))
	case string:
		for _, layout := range serverTimeLayouts {
			if t, err := time.Parse(layout, x); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("sqldb: formato de hora no reconocido %q", x)
	default:
		return time.Time{}, fmt.Errorf("sqldb: tipo de hora no soportado %T", v)
	}
}

// normalizeDSN ajusta el DSN para que los timestamps se escaneen como time.Time en UTC.
func normalizeDSN(t repository.DbType, dsn string) (string, error) {
	switch t {
	case repository.DbTypeMySQL:
		c, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", fmt.Errorf("sqldb: mysql dsn: %w", err)
		}
		c.ParseTime = true
		c.Loc = time.UTC
		return c.FormatDSN(), nil
	case repository.DbTypeSQLite:
		if strings.Contains(dsn, "_loc=") {
			return dsn, nil
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return dsn + sep + "_loc=" + url.QueryEscape("UTC"), nil
	default:
		return dsn, nil
	}
}
