package repository

import "context"

// DictionaryType es un tipo de diccionario de datos del tenant (tabla ad_dictionary_type).
type DictionaryType struct {
	EntityBase
	TenantID    *int64 `db:"tenant_id"`
	Name        string `db:"name"`
	Code        string `db:"code"`
	Description string `db:"description"`
	Enabled     bool   `db:"enabled"`
	Sort        int    `db:"sort"`
}

// DictionaryTypeFilter filtra el listado de tipos de diccionario.
type DictionaryTypeFilter struct {
	// Key busca por nombre o código.
	Key string
	// OnlyEnabled restringe a los tipos habilitados.
	OnlyEnabled bool
}

// DictionaryTypeRepository define operaciones sobre tipos de diccionario.
// Create/Update retornan ErrConflict si el código ya existe en el tenant.
type DictionaryTypeRepository interface {
	Get(ctx context.Context, id int64) (*DictionaryType, error)
	List(ctx context.Context, f DictionaryTypeFilter) ([]DictionaryType, error)
	Page(ctx context.Context, q PageQuery[DictionaryTypeFilter]) (*PageResult[DictionaryType], error)
	Create(ctx context.Context, d *DictionaryType) error
	Update(ctx context.Context, d *DictionaryType) error
	SoftDelete(ctx context.Context, ids ...int64) (int64, error)
}
