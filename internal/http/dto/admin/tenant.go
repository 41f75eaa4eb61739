package admin

import (
	"github.com/dropDatabas3/adminhub/internal/domain/repository"
	"github.com/dropDatabas3/adminhub/internal/util"
)

// TenantRequest es el body de alta y modificación de tenants.
// En la modificación un ConnectionString vacío conserva el actual.
type TenantRequest struct {
	Version           int64  `json:"version"`
	Name              string `json:"name"`
	Code              string `json:"code"`
	RealName          string `json:"real_name"`
	Phone             string `json:"phone"`
	Email             string `json:"email"`
	DbType            string `json:"db_type"`
	ConnectionString  string `json:"connection_string"`
	IdleTime          *int   `json:"idle_time"`
	DataIsolationType string `json:"data_isolation_type"`
	Enabled           *bool  `json:"enabled"`
	Description       string `json:"description"`
}

// TenantResponse nunca expone el connection string completo.
type TenantResponse struct {
	AuditResponse
	Name              string `json:"name"`
	Code              string `json:"code"`
	RealName          string `json:"real_name"`
	Phone             string `json:"phone"`
	Email             string `json:"email"`
	DbType            string `json:"db_type,omitempty"`
	ConnectionString  string `json:"connection_string,omitempty"`
	IdleTime          *int   `json:"idle_time,omitempty"`
	DataIsolationType string `json:"data_isolation_type"`
	Enabled           bool   `json:"enabled"`
	Description       string `json:"description"`
}

// ToTenantResponse mapea un tenant (con el connection string en claro) y
// enmascara las credenciales.
func ToTenantResponse(t repository.Tenant) TenantResponse {
	return TenantResponse{
		AuditResponse:     ToAudit(t.EntityBase),
		Name:              t.Name,
		Code:              t.Code,
		RealName:          t.RealName,
		Phone:             t.Phone,
		Email:             t.Email,
		DbType:            string(t.DbType),
		ConnectionString:  util.MaskDSN(t.ConnectionString),
		IdleTime:          t.IdleTime,
		DataIsolationType: string(t.DataIsolationType),
		Enabled:           t.Enabled,
		Description:       t.Description,
	}
}

// MigrationResponse es el resultado de POST /tenants/{id}/migrate.
type MigrationResponse struct {
	Applied []string `json:"applied"`
	Version int64    `json:"version"`
}
