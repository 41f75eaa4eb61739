// Package app arma el servicio completo a partir de la configuración:
// DB principal, store, cache, métricas, auth, services, controllers y router.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	rdb "github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/adminhub/internal/bootstrap"
	"github.com/dropDatabas3/adminhub/internal/cache"
	"github.com/dropDatabas3/adminhub/internal/config"
	"github.com/dropDatabas3/adminhub/internal/domain/repository"
	adminctrl "github.com/dropDatabas3/adminhub/internal/http/controllers/admin"
	healthctrl "github.com/dropDatabas3/adminhub/internal/http/controllers/health"
	"github.com/dropDatabas3/adminhub/internal/http/router"
	svc "github.com/dropDatabas3/adminhub/internal/http/services/admin"
	jwtx "github.com/dropDatabas3/adminhub/internal/jwt"
	"github.com/dropDatabas3/adminhub/internal/metrics"
	"github.com/dropDatabas3/adminhub/internal/observability/logger"
	"github.com/dropDatabas3/adminhub/internal/rate"
	"github.com/dropDatabas3/adminhub/internal/security/secretbox"
	"github.com/dropDatabas3/adminhub/internal/store"
	"github.com/dropDatabas3/adminhub/internal/store/sqldb"
)

// App es el servicio cableado.
type App struct {
	Config   *config.Config
	DAL      *store.Manager
	Metrics  *metrics.Metrics
	Services svc.Services
	Router   chi.Router
	Server   *http.Server

	cache   cache.Client
	closers []func() error
}

// OpenMain abre la DB principal según cfg.DB.
func OpenMain(ctx context.Context, cfg *config.Config) (*sqldb.DB, error) {
	typ, err := repository.ParseDbType(cfg.DB.Type)
	if err != nil {
		return nil, fmt.Errorf("db.type %q: %w", cfg.DB.Type, err)
	}
	return sqldb.Open(ctx, sqldb.DBConfig{
		Name:            "main",
		Type:            typ,
		DSN:             cfg.DB.DSN,
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
		MonitorCommand:  cfg.DB.MonitorCommand,
		Curd:            cfg.DB.Curd,
		AutoMigrate:     cfg.DB.AutoMigrate,
	})
}

// New crea y cablea la aplicación. Si falla a mitad de camino libera lo ya abierto.
func New(ctx context.Context, cfg *config.Config) (_ *App, err error) {
	a := &App{Config: cfg}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	// 1. Infra
	box, err := secretbox.New(cfg.Security.SecretboxMasterKey)
	if err != nil {
		return nil, fmt.Errorf("security.secretbox_master_key: %w", err)
	}
	if a.Metrics, err = metrics.New(); err != nil {
		return nil, err
	}
	if a.cache, err = cache.New(ctx, cache.Config{
		Kind:          cfg.Cache.Kind,
		DefaultTTL:    cfg.Cache.DefaultTTL,
		RedisAddr:     cfg.Cache.Redis.Addr,
		RedisPassword: cfg.Cache.Redis.Password,
		RedisDB:       cfg.Cache.Redis.DB,
		Prefix:        cfg.Cache.Redis.Prefix,
	}); err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	a.closers = append(a.closers, a.cache.Close)

	mainDB, err := OpenMain(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// 2. Store (dueño de main a partir de acá)
	a.DAL, err = store.NewManager(store.ManagerConfig{
		Main:              mainDB,
		MultiTenant:       cfg.App.Tenant,
		SweepInterval:     cfg.TenantDB.SweepInterval,
		TenantAutoMigrate: cfg.TenantDB.AutoMigrate,
		MonitorCommand:    cfg.DB.MonitorCommand,
		Curd:              cfg.DB.Curd,
		TenantMaxOpen:     cfg.DB.MaxOpenConns,
		TenantMaxIdle:     cfg.DB.MaxIdleConns,
		Cache:             a.cache,
		LookupTTL:         cfg.TenantDB.LookupTTL,
		Secrets:           box,
		Observer:          a.Metrics,
	})
	if err != nil {
		_ = mainDB.Close()
		return nil, err
	}
	a.closers = append([]func() error{a.DAL.Close}, a.closers...)
	if err := a.Metrics.RegisterStoreCollector(a.DAL.Stats); err != nil {
		return nil, err
	}

	// 3. Auth + rate limit
	var issuer *jwtx.Issuer
	if cfg.Auth.Enabled {
		issuer = jwtx.NewIssuer(cfg.Auth.Issuer, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	} else {
		logger.L().Warn("auth disabled: all requests run as the anonymous platform user", logger.Component("app"))
	}
	limiter := a.newLimiter(cfg)

	// 4. Services → controllers → router
	a.Services = svc.NewServices(svc.Deps{DAL: a.DAL, Secrets: box, Migrations: a.Metrics})
	a.Router = router.New(router.Deps{
		DAL:                a.DAL,
		Issuer:             issuer,
		Limiter:            limiter,
		Metrics:            a.Metrics,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		Admin:              adminctrl.NewControllers(a.Services),
		Health:             healthctrl.NewHealthController(a.DAL, cfg.App.Version),
	})

	if cfg.App.SyncApis {
		if _, err := bootstrap.SyncDeclaredApis(ctx, a.Router, a.Services.Apis); err != nil {
			return nil, err
		}
	}

	a.Server = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           a.Router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}
	return a, nil
}

// newLimiter usa redis si el cache es redis (compartido entre réplicas), si no memoria.
func (a *App) newLimiter(cfg *config.Config) rate.Limiter {
	if !cfg.Rate.Enabled {
		return nil
	}
	if cfg.Cache.Kind == "redis" && cfg.Cache.Redis.Addr != "" {
		client := rdb.NewClient(&rdb.Options{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		a.closers = append(a.closers, client.Close)
		return rate.NewRedisLimiter(client, cfg.Cache.Redis.Prefix+"rl:", cfg.Rate.MaxRequests, cfg.Rate.Window)
	}
	return rate.NewMemoryLimiter(cfg.Rate.MaxRequests, cfg.Rate.Window)
}

// Run sirve HTTP hasta que ctx se cancela y luego hace shutdown ordenado.
func (a *App) Run(ctx context.Context) error {
	log := logger.L().With(logger.Component("app"))
	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", logger.Any("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()
	if err := a.Server.Shutdown(sctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return <-errCh
}

// Close libera store, cache y clientes externos.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}
