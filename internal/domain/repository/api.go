package repository

import "context"

// Api es un endpoint registrado en la plataforma (tabla ad_api).
type Api struct {
	EntityBase
	ParentID    int64  `db:"parent_id"`
	Name        string `db:"name"`
	Label       string `db:"label"`
	Path        string `db:"path"`
	HttpMethods string `db:"http_methods"`
	Description string `db:"description"`
	Sort        int    `db:"sort"`
	Enabled     bool   `db:"enabled"`
}

// ApiFilter filtra el listado de APIs.
type ApiFilter struct {
	// Key busca por nombre, label o path.
	Key string
}

// ApiSyncItem es una API declarada por un servicio al sincronizar.
type ApiSyncItem struct {
	Path        string
	Label       string
	ParentPath  string
	HttpMethods string
	Description string
}

// ApiSyncResult resume el resultado de una sincronización.
type ApiSyncResult struct {
	Added    int
	Updated  int
	Disabled int
}

// ApiRepository define operaciones sobre APIs (plataforma, DB principal).
type ApiRepository interface {
	Get(ctx context.Context, id int64) (*Api, error)
	GetByPath(ctx context.Context, path string) (*Api, error)
	List(ctx context.Context, f ApiFilter) ([]Api, error)
	Page(ctx context.Context, q PageQuery[ApiFilter]) (*PageResult[Api], error)
	Create(ctx context.Context, a *Api) error
	Update(ctx context.Context, a *Api) error
	SoftDelete(ctx context.Context, ids ...int64) (int64, error)

	// Sync hace upsert por path de las APIs recibidas en una transacción.
	// Las APIs existentes que no vienen en la lista quedan deshabilitadas.
	Sync(ctx context.Context, items []ApiSyncItem) (*ApiSyncResult, error)
}
