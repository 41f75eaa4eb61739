// Package admin contiene los controllers de /api/admin.
package admin

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/dropDatabas3/adminhub/internal/domain/repository"
	httperrors "github.com/dropDatabas3/adminhub/internal/http/errors"
	mw "github.com/dropDatabas3/adminhub/internal/http/middlewares"
	svc "github.com/dropDatabas3/adminhub/internal/http/services/admin"
	"github.com/dropDatabas3/adminhub/internal/observability/logger"
	"github.com/dropDatabas3/adminhub/internal/store"
)

// Controllers agrupa todos los controllers del dominio admin.
type Controllers struct {
	Staff           *StaffController
	Apis            *ApisController
	DictionaryTypes *DictionaryTypesController
	Tenants         *TenantsController
}

// NewControllers crea el agregador de controllers admin.
func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Staff:           NewStaffController(s.Staff),
		Apis:            NewApisController(s.Apis),
		DictionaryTypes: NewDictionaryTypesController(s.DictionaryTypes),
		Tenants:         NewTenantsController(s.Tenants),
	}
}

// mapError traduce los errores de dominio al catálogo HTTP.
func mapError(err error) *httperrors.AppError {
	var appErr *httperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var fe *svc.FieldError
	switch {
	case errors.As(err, &fe):
		return httperrors.ErrValidation.WithDetail(fe.Error()).WithCause(err)
	case errors.Is(err, repository.ErrInvalidInput):
		return httperrors.ErrValidation.WithDetail(err.Error()).WithCause(err)
	case errors.Is(err, repository.ErrNotFound):
		return httperrors.ErrNotFound.WithDetail(err.Error()).WithCause(err)
	case errors.Is(err, repository.ErrConflict):
		return httperrors.ErrConflict.WithDetail(err.Error()).WithCause(err)
	case errors.Is(err, repository.ErrPreconditionFailed):
		return httperrors.ErrPreconditionFailed.WithCause(err)
	case errors.Is(err, repository.ErrTenantDisabled):
		return httperrors.ErrTenantDisabled.WithCause(err)
	case errors.Is(err, repository.ErrNoDatabase):
		return httperrors.ErrTenantDBUnavailable.WithDetail(err.Error()).WithCause(err)
	case errors.Is(err, repository.ErrUnauthorized):
		return httperrors.ErrForbidden.WithCause(err)
	default:
		return httperrors.ErrInternalServerError.WithCause(err)
	}
}

// fail loguea y escribe err. Los 5xx van a error, el resto a debug.
func fail(w http.ResponseWriter, log *zap.Logger, msg string, err error) {
	appErr := mapError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		log.Error(msg, logger.Err(err))
	} else {
		log.Debug(msg, logger.Status(appErr.HTTPStatus), logger.Err(err))
	}
	httperrors.WriteError(w, appErr)
}

// tenantData obtiene el acceso a datos que dejó WithTenantData.
func tenantData(w http.ResponseWriter, r *http.Request) (store.TenantDataAccess, bool) {
	tda := mw.GetTenant(r.Context())
	if tda == nil {
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithDetail("tenant data access no resuelto"))
		return nil, false
	}
	return tda, true
}

func controllerLog(r *http.Request, op string) *zap.Logger {
	return logger.From(r.Context()).With(logger.Layer("controller"), logger.Op(op))
}
