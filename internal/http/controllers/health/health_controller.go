// Package health contiene el controller para health checks.
package health

import (
	"context"
	"net/http"
	"time"

	httperrors "github.com/dropDatabas3/adminhub/internal/http/errors"
	"github.com/dropDatabas3/adminhub/internal/observability/logger"
	"github.com/dropDatabas3/adminhub/internal/store"
)

// Checker es lo que necesita /readyz del store.
type Checker interface {
	Ping(ctx context.Context) error
	Stats() store.Stats
}

// ReadyResponse es el cuerpo de /readyz.
type ReadyResponse struct {
	Status  string      `json:"status"`
	Version string      `json:"version,omitempty"`
	Store   store.Stats `json:"store"`
	Error   string      `json:"error,omitempty"`
}

// HealthController maneja las rutas de health check.
type HealthController struct {
	checker     Checker
	version     string
	pingTimeout time.Duration
}

// NewHealthController crea un nuevo controller de health check.
func NewHealthController(checker Checker, version string) *HealthController {
	return &HealthController{checker: checker, version: version, pingTimeout: 2 * time.Second}
}

// Healthz maneja GET /healthz (liveness, no toca la DB).
func (c *HealthController) Healthz(w http.ResponseWriter, r *http.Request) {
	httperrors.WriteOK(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz maneja GET /readyz
func (c *HealthController) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("HealthController.Readyz"))

	pctx, cancel := context.WithTimeout(ctx, c.pingTimeout)
	defer cancel()

	resp := ReadyResponse{Status: "ready", Version: c.version, Store: c.checker.Stats()}
	if err := c.checker.Ping(pctx); err != nil {
		log.Warn("main db ping failed", logger.Err(err))
		resp.Status = "unavailable"
		resp.Error = err.Error()
		httperrors.WriteOK(w, http.StatusServiceUnavailable, resp)
		return
	}

	log.Debug("health check completed", logger.Any("tenant_dbs_live", resp.Store.TenantDBs.Live))
	httperrors.WriteOK(w, http.StatusOK, resp)
}
