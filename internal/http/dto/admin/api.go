package admin

import "github.com/dropDatabas3/adminhub/internal/domain/repository"

// ApiRequest es el body de alta y modificación de APIs.
type ApiRequest struct {
	Version     int64  `json:"version"`
	ParentID    int64  `json:"parent_id"`
	Name        string `json:"name"`
	Label       string `json:"label"`
	Path        string `json:"path"`
	HttpMethods string `json:"http_methods"`
	Description string `json:"description"`
	Sort        int    `json:"sort"`
	Enabled     *bool  `json:"enabled"`
}

type ApiResponse struct {
	AuditResponse
	ParentID    int64  `json:"parent_id"`
	Name        string `json:"name"`
	Label       string `json:"label"`
	Path        string `json:"path"`
	HttpMethods string `json:"http_methods"`
	Description string `json:"description"`
	Sort        int    `json:"sort"`
	Enabled     bool   `json:"enabled"`
}

func ToApiResponse(a repository.Api) ApiResponse {
	return ApiResponse{
		AuditResponse: ToAudit(a.EntityBase),
		ParentID:      a.ParentID,
		Name:          a.Name,
		Label:         a.Label,
		Path:          a.Path,
		HttpMethods:   a.HttpMethods,
		Description:   a.Description,
		Sort:          a.Sort,
		Enabled:       a.Enabled,
	}
}

// ApiSyncItem es una API declarada por un servicio.
type ApiSyncItem struct {
	Path        string `json:"path"`
	Label       string `json:"label"`
	ParentPath  string `json:"parent_path"`
	HttpMethods string `json:"http_methods"`
	Description string `json:"description"`
}

// ApiSyncRequest es el body de POST /apis/sync.
type ApiSyncRequest struct {
	Apis []ApiSyncItem `json:"apis"`
}

type ApiSyncResponse struct {
	Added    int `json:"added"`
	Updated  int `json:"updated"`
	Disabled int `json:"disabled"`
}
