// Package admin contiene los DTOs de la API /api/admin.
package admin

import (
	"time"

	"github.com/dropDatabas3/adminhub/internal/domain/repository"
)

// PageRequest es el body de POST /{resource}/page.
type PageRequest[F any] struct {
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
	Filter      F   `json:"filter"`
}

// Query convierte el request al PageQuery del repositorio (normalizado).
func (p PageRequest[F]) Query() repository.PageQuery[F] {
	return repository.PageQuery[F]{CurrentPage: p.CurrentPage, PageSize: p.PageSize, Filter: p.Filter}.Normalize()
}

// PageResponse es una página de resultados.
type PageResponse[T any] struct {
	Total int64 `json:"total"`
	List  []T   `json:"list"`
}

// KeyFilter es el filtro por palabra clave común a todos los recursos.
type KeyFilter struct {
	Key string `json:"key"`
}

// IDsRequest es el body de PUT /{resource}/batch-soft-delete.
type IDsRequest struct {
	IDs []int64 `json:"ids"`
}

// IDResponse se devuelve al crear.
type IDResponse struct {
	ID int64 `json:"id"`
}

// AffectedResponse se devuelve en bajas.
type AffectedResponse struct {
	Affected int64 `json:"affected"`
}

// AuditResponse expone los campos comunes de EntityBase.
type AuditResponse struct {
	ID               int64      `json:"id"`
	Version          int64      `json:"version"`
	CreatedUserID    *int64     `json:"created_user_id,omitempty"`
	CreatedUserName  string     `json:"created_user_name,omitempty"`
	CreatedTime      *time.Time `json:"created_time,omitempty"`
	ModifiedUserID   *int64     `json:"modified_user_id,omitempty"`
	ModifiedUserName string     `json:"modified_user_name,omitempty"`
	ModifiedTime     *time.Time `json:"modified_time,omitempty"`
}

// ToAudit mapea EntityBase a su representación JSON.
func ToAudit(e repository.EntityBase) AuditResponse {
	return AuditResponse{
		ID:               e.ID,
		Version:          e.Version,
		CreatedUserID:    e.CreatedUserID,
		CreatedUserName:  e.CreatedUserName,
		CreatedTime:      e.CreatedTime,
		ModifiedUserID:   e.ModifiedUserID,
		ModifiedUserName: e.ModifiedUserName,
		ModifiedTime:     e.ModifiedTime,
	}
}

// MapList aplica f a cada elemento; nunca devuelve nil (serializa como []).
func MapList[S, T any](in []S, f func(S) T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}

// ToPage mapea un PageResult del repositorio.
func ToPage[S, T any](p *repository.PageResult[S], f func(S) T) PageResponse[T] {
	return PageResponse[T]{Total: p.Total, List: MapList(p.List, f)}
}
