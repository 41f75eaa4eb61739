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

// StaffController maneja las rutas /api/admin/staff
type StaffController struct {
	service svc.StaffService
}

func NewStaffController(service svc.StaffService) *StaffController {
	return &StaffController{service: service}
}

// Get maneja GET /api/admin/staff/{id}
func (c *StaffController) Get(w http.ResponseWriter, r *http.Request) {
	log := controllerLog(r, "StaffController.Get")
	tda, ok := tenantData(w, r)
	if !ok {
		return
	}
	id, err := helpers.PathID(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	s, err := c.service.Get(r.Context(), tda, id)
	if err != nil {
		fail(w, log, "get failed", err)
		return
	}
	httperrors.WriteOK(w, http.StatusOK, dto.ToStaffResponse(*s))
}

// List maneja GET /api/admin/staff?key=
func (c *StaffController) List(w http.ResponseWriter, r *http.Request) {
	log := controllerLog(r, "StaffController.List")
	tda, ok := tenantData(w, r)
	if !ok {
		return
	}

	list, err := c.service.List(r.Context(), tda, repository.StaffFilter{Key: r.URL.Query().Get("key")})
	if err != nil {
		fail(w, log, "list failed", err)
		return
	}
	httperrors.WriteOK(w, http.StatusOK, dto.MapList(list, dto.ToStaffResponse))
}

// Page maneja POST /api/admin/staff/page
func (c *StaffController) Page(w http.ResponseWriter, r *http.Request) {
	log := controllerLog(r, "StaffController.Page")
	tda, ok := tenantData(w, r)
	if !ok {
		return
	}
	var req dto.PageRequest[dto.KeyFilter]
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	q := req.Query()
	res, err := c.service.Page(r.Context(), tda, repository.PageQuery[repository.StaffFilter]{
		CurrentPage: q.CurrentPage,
		PageSize:    q.PageSize,
		Filter:      repository.StaffFilter{Key: q.Filter.Key},
	})
	if err != nil {
		fail(w, log, "page failed", err)
		return
	}
	httperrors.WriteOK(w, http.StatusOK, dto.ToPage(res, dto.ToStaffResponse))
}

// Create maneja POST /api/admin/staff
func (c *StaffController) Create(w http.ResponseWriter, r *http.Request) {
	log := controllerLog(r, "StaffController.Create")
	tda, ok := tenantData(w, r)
	if !ok {
		return
	}
	var req dto.StaffRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	s, err := c.service.Create(r.Context(), tda, req)
	if err != nil {
		fail(w, log, "create failed", err)
		return
	}
	log.Info("staff created", logger.EntityID(s.ID))
	httperrors.WriteOK(w, http.StatusCreated, dto.ToStaffResponse(*s))
}

// Update maneja PUT /api/admin/staff/{id}
func (c *StaffController) Update(w http.ResponseWriter, r *http.Request) {
	log := controllerLog(r, "StaffController.Update")
	tda, ok := tenantData(w, r)
	if !ok {
		return
	}
	id, err := helpers.PathID(r, "id")
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	var req dto.StaffRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	s, err := c.service.Update(r.Context(), tda, id, req)
	if err != nil {
		fail(w, log, "update failed", err)
		return
	}
	httperrors.WriteOK(w, http.StatusOK, dto.ToStaffResponse(*s))
}

// Delete maneja DELETE /api/admin/staff/{id}
func (c *StaffController) Delete(w http.ResponseWriter, r *http.Request) {
	log := controllerLog(r, "StaffController.Delete")
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

// BatchDelete maneja PUT /api/admin/staff/batch-soft-delete
func (c *StaffController) BatchDelete(w http.ResponseWriter, r *http.Request) {
	log := controllerLog(r, "StaffController.BatchDelete")
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
