package repository

import "time"

// EntityBase agrupa los campos comunes de todas las entidades persistidas:
// clave, versión, soft delete y auditoría.
type EntityBase struct {
	ID               int64      `db:"id"`
	Version          int64      `db:"version"`
	IsDeleted        bool       `db:"is_deleted"`
	CreatedUserID    *int64     `db:"created_user_id"`
	CreatedUserName  string     `db:"created_user_name"`
	CreatedTime      *time.Time `db:"created_time"`
	ModifiedUserID   *int64     `db:"modified_user_id"`
	ModifiedUserName string     `db:"modified_user_name"`
	ModifiedTime     *time.Time `db:"modified_time"`
}

// BaseColumns lista las columnas de EntityBase en el orden usado por los SELECT.
var BaseColumns = []string{
	"id", "version", "is_deleted",
	"created_user_id", "created_user_name", "created_time",
	"modified_user_id", "modified_user_name", "modified_time",
}

const (
	// DefaultPageSize se usa cuando el request no especifica tamaño de página.
	DefaultPageSize = 20
	// MaxPageSize acota el tamaño de página aceptado.
	MaxPageSize = 500
)

// PageQuery describe una consulta paginada con un filtro específico de la entidad.
type PageQuery[F any] struct {
	CurrentPage int
	PageSize    int
	Filter      F
}

// Normalize aplica defaults y límites a la paginación.
func (q PageQuery[F]) Normalize() PageQuery[F] {
	if q.CurrentPage < 1 {
		q.CurrentPage = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return q
}

// Offset retorna el desplazamiento de la página actual (asume Normalize).
func (q PageQuery[F]) Offset() uint64 {
	return uint64((q.CurrentPage - 1) * q.PageSize)
}

// PageResult es una página de resultados con el total sin paginar.
type PageResult[T any] struct {
	Total int64
	List  []T
}
