// Package bootstrap contiene tareas que corren una vez al arrancar el servicio.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/adminhub/internal/claims"
	"github.com/dropDatabas3/adminhub/internal/domain/repository"
	"github.com/dropDatabas3/adminhub/internal/http/router"
	svc "github.com/dropDatabas3/adminhub/internal/http/services/admin"
	"github.com/dropDatabas3/adminhub/internal/observability/logger"
)

// SystemUser es el usuario con el que se auditan las tareas de arranque.
var SystemUser = claims.User{ID: 0, Name: "system"}

// SyncDeclaredApis registra en ad_api las rutas /api/admin declaradas en
// routes. Las APIs que ya no existen quedan deshabilitadas.
func SyncDeclaredApis(ctx context.Context, routes chi.Routes, apis svc.ApiService) (*repository.ApiSyncResult, error) {
	items, err := router.Declared(routes)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: walk routes: %w", err)
	}
	ctx = claims.WithUser(ctx, SystemUser)
	res, err := apis.Sync(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: sync apis: %w", err)
	}
	logger.From(ctx).Info("declared apis synced",
		logger.Component("bootstrap"),
		logger.Count(len(items)),
		logger.Any("added", res.Added),
		logger.Any("updated", res.Updated),
		logger.Any("disabled", res.Disabled),
	)
	return res, nil
}
