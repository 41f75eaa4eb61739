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

// ApisController maneja las rutas /api/admin/apis
type ApisController struct {
	service svc.ApiService
}

func NewApisController(service svc.ApiService) *ApisController {
	return &ApisController{service: service}
}

// Get maneja GET /api/admin/apis/{id}
func (c *ApisController) Get(w http.ResponseWriter, r *http.Request) {
	log := controllerLog(r, "ApisController.Get")
	id, err := helpers.PathID(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	a, err := c.service.Get(r.Context(), id)
	if err != nil {
		fail(w, log, "get failed", err)
		return
	}
	httperrors.WriteOK(w, http.StatusOK, dto.ToApiResponse(*a))
}

// List maneja GET /api/admin/apis?key=
func (c *ApisController) List(w http.ResponseWriter, r *http.Request) {
	log := controllerLog(r, "ApisController.List")
	list, err := c.service.List(r.Context(), repository.ApiFilter{Key: r.URL.Query().Get("key")})
	if err != nil {
		fail(w, log, "list failed", err)
		return
	}
	httperrors.WriteOK(w, http.StatusOK, dto.MapList(list, dto.ToApiResponse))
}

// Page maneja POST /api/admin/apis/page
func (c *ApisController) Page(w http.ResponseWriter, r *http.Request) {
	log := controllerLog(r, "ApisController.Page")
	var req dto.PageRequest[dto.KeyFilter]
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	q := req.Query()
	res, err := c.service.Page(r.Context(), repository.PageQuery[repository.ApiFilter]{
		CurrentPage: q.CurrentPage,
		PageSize:    q.PageSize,
		Filter:      repository.ApiFilter{Key: q.Filter.Key},
	})
	if err != nil {
		fail(w, log, "page failed", err)
		return
	}
	httperrors.WriteOK(w, http.StatusOK, dto.ToPage(res, dto.ToApiResponse))
}

// Create maneja POST /api/admin/apis
func (c *ApisController) Create(w http.ResponseWriter, r *http.Request) {
	log := controllerLog(r, "ApisController.Create")
	var req dto.ApiRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	a, err := c.service.Create(r.Context(), req)
	if err != nil {
		fail(w, log, "create failed", err)
		return
	}
	log.Info("api created", logger.EntityID(a.ID), logger.Path(a.Path))
	httperrors.WriteOK(w, http.StatusCreated, dto.ToApiResponse(*a))
}

// Update maneja PUT /api/admin/apis/{id}
func (c *ApisController) Update(w http.ResponseWriter, r *http.Request) {
	log := controllerLog(r, "ApisController.Update")
	id, err := helpers.PathID(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	var req dto.ApiRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	a, err := c.service.Update(r.Context(), id, req)
	if err != nil {
		fail(w, log, "update failed", err)
		return
	}
	httperrors.WriteOK(w, http.StatusOK, dto.ToApiResponse(*a))
}

// Delete maneja DELETE /api/admin/apis/{id}
func (c *ApisController) Delete(w http.ResponseWriter, r *http.Request) {
	log := controllerLog(r, "ApisController.Delete")
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

// BatchDelete maneja PUT /api/admin/apis/batch-soft-delete
func (c *ApisController) BatchDelete(w http.ResponseWriter, r *http.Request) {
	log := controllerLog(r, "ApisController.BatchDelete")
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

// Sync maneja POST /api/admin/apis/sync
func (c *ApisController) Sync(w http.ResponseWriter, r *http.Request) {
	log := controllerLog(r, "ApisController.Sync")
	var req dto.ApiSyncRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	res, err := c.service.Sync(r.Context(), req.Apis)
	if err != nil {
		fail(w, log, "sync failed", err)
		return
	}
	httperrors.WriteOK(w, http.StatusOK, dto.ApiSyncResponse{
		Added:    res.Added,
		Updated:  res.Updated,
		Disabled: res.Disabled,
	})
}
