package admin

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dropDatabas3/adminhub/internal/domain/repository"
	"github.com/dropDatabas3/adminhub/internal/export"
	dto "github.com/dropDatabas3/adminhub/internal/http/dto/admin"
	httperrors "github.com/dropDatabas3/adminhub/internal/http/errors"
	"github.com/dropDatabas3/adminhub/internal/http/helpers"
	svc "github.com/dropDatabas3/adminhub/internal/http/services/admin"
	"github.com/dropDatabas3/adminhub/internal/observability/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DictionaryTypesController maneja las rutas /api/admin/dictionary-types
type DictionaryTypesController struct {
	service svc.DictionaryTypeService
}

func NewDictionaryTypesController(service svc.DictionaryTypeService) *DictionaryTypesController {
	return &DictionaryTypesController{service: service}
}

func queryFilter(r *http.Request) repository.DictionaryTypeFilter {
	return repository.DictionaryTypeFilter{
		Key:         r.URL.Query().Get("key"),
		OnlyEnabled: helpers.QueryBool(r, "only_enabled"),
	}
}

// Get maneja GET /api/admin/dictionary-types/{id}
func (c *DictionaryTypesController) Get(w http.ResponseWriter, r *http.Request) {
	log := controllerLog(r, "DictionaryTypesController.Get")
	tda, ok := tenantData(w, r)
	if !ok {
		return
	}
	id, err := helpers.PathID(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	d, err := c.service.Get(r.Context(), tda, id)
	if err != nil {
		fail(w, log, "get failed", err)
		return
	}
	httperrors.WriteOK(w, http.StatusOK, dto.ToDictionaryTypeResponse(*d))
}

// List maneja GET /api/admin/dictionary-types?key=&only_enabled=
func (c *DictionaryTypesController) List(w http.ResponseWriter, r *http.Request) {
	log := controllerLog(r, "DictionaryTypesController.List")
	tda, ok := tenantData(w, r)
	if !ok {
		return
	}

	list, err := c.service.List(r.Context(), tda, queryFilter(r))
	if err != nil {
		fail(w, log, "list failed", err)
		return
	}
	httperrors.WriteOK(w, http.StatusOK, dto.MapList(list, dto.ToDictionaryTypeResponse))
}

// Page maneja POST /api/admin/dictionary-types/page
func (c *DictionaryTypesController) Page(w http.ResponseWriter, r *http.Request) {
	log := controllerLog(r, "DictionaryTypesController.Page")
	tda, ok := tenantData(w, r)
	if !ok {
		return
	}
	var req dto.PageRequest[dto.DictionaryTypeFilter]
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	q := req.Query()
	res, err := c.service.Page(r.Context(), tda, repository.PageQuery[repository.DictionaryTypeFilter]{
		CurrentPage: q.CurrentPage,
		PageSize:    q.PageSize,
		Filter:      repository.DictionaryTypeFilter{Key: q.Filter.Key, OnlyEnabled: q.Filter.OnlyEnabled},
	})
	if err != nil {
		fail(w, log, "page failed", err)
		return
	}
	httperrors.WriteOK(w, http.StatusOK, dto.ToPage(res, dto.ToDictionaryTypeResponse))
}

// Create maneja POST /api/admin/dictionary-types
func (c *DictionaryTypesController) Create(w http.ResponseWriter, r *http.Request) {
	log := controllerLog(r, "DictionaryTypesController.Create")
	tda, ok := tenantData(w, r)
	if !ok {
		return
	}
	var req dto.DictionaryTypeRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	d, err := c.service.Create(r.Context(), tda, req)
	if err != nil {
		fail(w, log, "create failed", err)
		return
	}
	log.Info("dictionary type created", logger.EntityID(d.ID))
	httperrors.WriteOK(w, http.StatusCreated, dto.ToDictionaryTypeResponse(*d))
}

// Update maneja PUT /api/admin/dictionary-types/{id}
func (c *DictionaryTypesController) Update(w http.ResponseWriter, r *http.Request) {
	log := controllerLog(r, "DictionaryTypesController.Update")
	tda, ok := tenantData(w, r)
	if !ok {
		return
	}
	id, err := helpers.PathID(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	var req dto.DictionaryTypeRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	d, err := c.service.Update(r.Context(), tda, id, req)
	if err != nil {
		fail(w, log, "update failed", err)
		return
	}
	httperrors.WriteOK(w, http.StatusOK, dto.ToDictionaryTypeResponse(*d))
}

// Delete maneja DELETE /api/admin/dictionary-types/{id}
func (c *DictionaryTypesController) Delete(w http.ResponseWriter, r *http.Request) {
	log := controllerLog(r, "DictionaryTypesController.Delete")
	tda, ok := tenantData(w, r)
	if !ok {
		return
	}
	id, err := helpers.PathID(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	if err := c.service.Delete(r.Context(), tda, id); err != nil {
		fail(w, log, "delete failed", err)
		return
	}
	httperrors.WriteOK(w, http.StatusOK, dto.AffectedResponse{Affected: 1})
}

// BatchDelete maneja PUT /api/admin/dictionary-types/batch-soft-delete
func (c *DictionaryTypesController) BatchDelete(w http.ResponseWriter, r *http.Request) {
	log := controllerLog(r, "DictionaryTypesController.BatchDelete")
	tda, ok := tenantData(w, r)
	if !ok {
		return
	}
	var req dto.IDsRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	n, err := c.service.BatchDelete(r.Context(), tda, req.IDs)
	if err != nil {
		fail(w, log, "batch delete failed", err)
		return
	}
	httperrors.WriteOK(w, http.StatusOK, dto.AffectedResponse{Affected: n})
}

// Export maneja GET /api/admin/dictionary-types/export (xlsx, mismos filtros que List)
func (c *DictionaryTypesController) Export(w http.ResponseWriter, r *http.Request) {
	log := controllerLog(r, "DictionaryTypesController.Export")
	tda, ok := tenantData(w, r)
	if !ok {
		return
	}

	list, err := c.service.List(r.Context(), tda, queryFilter(r))
	if err != nil {
		fail(w, log, "export list failed", err)
		return
	}
	b, err := export.DictionaryTypes(list)
	if err != nil {
		fail(w, log, "export build failed", err)
		return
	}

	name := "dictionary_types_" + time.Now().Format("20060102150405") + ".xlsx"
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
	log.Info("dictionary types exported", logger.Count(len(list)), logger.Bytes(len(b)))
}
