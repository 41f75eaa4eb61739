package admin

import (
	"net/http"

	"github.com/dropDatabas3/adminhub/internal/domain/repository"
	dto "github.com/dropDatabas3/adminhub/internal/http/dto/admin"
	httperrors "github.com/dropDatabas3/adminhub/internal/http/errors"
	"github.com/dropDatabas3/adminhub/internal/http/helpers"
	svc "github.com/dropDatabas3/adminhub/internal/http/services/admin"
	"github.com/dropDatabas3/adminhub/internal/observability/logger"
)

// TenantsController maneja las rutas /api/admin/tenants (solo usuarios de plataforma).
type TenantsController struct {
	service svc.TenantService
}

func NewTenantsController(service svc.TenantService) *TenantsController {
	return &TenantsController{service: service}
}

// Get maneja GET /api/admin/tenants/{id}
func (c *TenantsController) Get(w http.ResponseWriter, r *http.Request) {
	log := controllerLog(r, "TenantsController.Get")
	id, err := helpers.PathID(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	t, err := c.service.Get(r.Context(), id)
	if err != nil {
		fail(w, log, "get failed", err)
		return
	}
	httperrors.WriteOK(w, http.StatusOK, dto.ToTenantResponse(*t))
}

// List maneja GET /api/admin/tenants?key=
func (c *TenantsController) List(w http.ResponseWriter, r *http.Request) {
	log := controllerLog(r, "TenantsController.List")
	list, err := c.service.List(r.Context(), repository.TenantFilter{Key: r.URL.Query().Get("key")})
	if err != nil {
		fail(w, log, "list failed", err)
		return
	}
	httperrors.WriteOK(w, http.StatusOK, dto.MapList(list, dto.ToTenantResponse))
}

// Page maneja POST /api/admin/tenants/page
func (c *TenantsController) Page(w http.ResponseWriter, r *http.Request) {
	log := controllerLog(r, "TenantsController.Page")
	var req dto.PageRequest[dto.KeyFilter]
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	q := req.Query()
	res, err := c.service.Page(r.Context(), repository.PageQuery[repository.TenantFilter]{
		CurrentPage: q.CurrentPage,
		PageSize:    q.PageSize,
		Filter:      repository.TenantFilter{Key: q.Filter.Key},
	})
	if err != nil {
		fail(w, log, "page failed", err)
		return
	}
	httperrors.WriteOK(w, http.StatusOK, dto.ToPage(res, dto.ToTenantResponse))
}

// Create maneja POST /api/admin/tenants
func (c *TenantsController) Create(w http.ResponseWriter, r *http.Request) {
	log := controllerLog(r, "TenantsController.Create")
	var req dto.TenantRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	t, err := c.service.Create(r.Context(), req)
	if err != nil {
		fail(w, log, "create failed", err)
		return
	}
	log.Info("tenant created", logger.TenantID(t.ID), logger.Isolation(string(t.DataIsolationType)))
	httperrors.WriteOK(w, http.StatusCreated, dto.ToTenantResponse(*t))
}

// Update maneja PUT /api/admin/tenants/{id}
func (c *TenantsController) Update(w http.ResponseWriter, r *http.Request) {
	log := controllerLog(r, "TenantsController.Update")
	id, err := helpers.PathID(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	var req dto.TenantRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	t, err := c.service.Update(r.Context(), id, req)
	if err != nil {
		fail(w, log, "update failed", err)
		return
	}
	httperrors.WriteOK(w, http.StatusOK, dto.ToTenantResponse(*t))
}

// Delete maneja DELETE /api/admin/tenants/{id}
func (c *TenantsController) Delete(w http.ResponseWriter, r *http.Request) {
	log := controllerLog(r, "TenantsController.Delete")
	id, err := helpers.PathID(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	if err := c.service.Delete(r.Context(), id); err != nil {
		fail(w, log, "delete failed", err)
		return
	}
	httperrors.WriteOK(w, http.StatusOK, dto.AffectedResponse{Affected: 1})
}

// BatchDelete maneja PUT /api/admin/tenants/batch-soft-delete
func (c *TenantsController) BatchDelete(w http.ResponseWriter, r *http.Request) {
	log := controllerLog(r, "TenantsController.BatchDelete")
	var req dto.IDsRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}
	n, err := c.service.BatchDelete(r.Context(), req.IDs)
	if err != nil {
		fail(w, log, "batch delete failed", err)
		return
	}
	httperrors.WriteOK(w, http.StatusOK, dto.AffectedResponse{Affected: n})
}

// Migrate maneja POST /api/admin/tenants/{id}/migrate
func (c *TenantsController) Migrate(w http.ResponseWriter, r *http.Request) {
	log := controllerLog(r, "TenantsController.Migrate")
	id, err := helpers.PathID(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	res, err := c.service.Migrate(r.Context(), id)
	if err != nil {
		fail(w, log, "migrate failed", err)
		return
	}
	applied := res.Applied
	if applied == nil {
		applied = []string{}
	}
	httperrors.WriteOK(w, http.StatusOK, dto.MigrationResponse{Applied: applied, Version: res.Version})
}
