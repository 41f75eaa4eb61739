// Package migrations embebe los scripts SQL (formato goose) por dialecto.
//
// La misma serie de migraciones se aplica a la DB principal y a las DBs propias
// de cada tenant (own_db).
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed postgres/*.sql mysql/*.sql sqlite/*.sql
var embedded embed.FS

// Dir devuelve el sub-filesystem con las migraciones del dialecto indicado
// ("postgres", "mysql" o "sqlite").
func Dir(dialect string) (fs.FS, error) {
	switch dialect {
	case "postgres", "mysql", "sqlite":
		return fs.Sub(embedded, dialect)
	default:
		return nil, fmt.Errorf("migrations: unsupported dialect %q", dialect)
	}
}
