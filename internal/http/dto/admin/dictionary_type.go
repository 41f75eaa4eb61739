package admin

import "github.com/dropDatabas3/adminhub/internal/domain/repository"

// DictionaryTypeRequest es el body de alta y modificación.
// Enabled nil en el alta equivale a true.
type DictionaryTypeRequest struct {
	Version     int64  `json:"version"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Enabled     *bool  `json:"enabled"`
	Sort        int    `json:"sort"`
}

// DictionaryTypeFilter es el filtro de página y listado.
type DictionaryTypeFilter struct {
	Key         string `json:"key"`
	OnlyEnabled bool   `json:"only_enabled"`
}

type DictionaryTypeResponse struct {
	AuditResponse
	TenantID    *int64 `json:"tenant_id,omitempty"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
	Sort        int    `json:"sort"`
}

func ToDictionaryTypeResponse(d repository.DictionaryType) DictionaryTypeResponse {
	return DictionaryTypeResponse{
		AuditResponse: ToAudit(d.EntityBase),
		TenantID:      d.TenantID,
		Name:          d.Name,
		Code:          d.Code,
		Description:   d.Description,
		Enabled:       d.Enabled,
		Sort:          d.Sort,
	}
}
