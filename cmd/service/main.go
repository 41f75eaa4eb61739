package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dropDatabas3/adminhub/internal/app"
	"github.com/dropDatabas3/adminhub/internal/config"
	"github.com/dropDatabas3/adminhub/internal/observability/logger"
)

func main() {
	var (
		flagConfigPath = flag.String("config", os.Getenv("ADMINHUB_CONFIG"), "ruta a config.yaml (vacío = defaults + env)")
		flagEnvFile    = flag.String("env-file", ".env", "ruta a .env")
	)
	flag.Parse()

	if *flagEnvFile != "" {
		_ = godotenv.Load(*flagEnvFile)
	}

	path := *flagConfigPath
	if path == "" && fileExists("configs/config.yaml") {
		path = "configs/config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ServiceName: "adminhub"})
	defer func() { _ = logger.Sync() }()
	lg := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		lg.Fatal("app init failed", logger.Err(err))
	}
	defer func() {
		if err := a.Close(); err != nil {
			lg.Warn("close", logger.Err(err))
		}
	}()

	lg.Info("adminhub starting",
		logger.Any("env", cfg.App.Env),
		logger.Any("multi_tenant", cfg.App.Tenant),
		logger.DbType(cfg.DB.Type),
		logger.Any("cache", cfg.Cache.Kind),
	)
	if err := a.Run(ctx); err != nil {
		lg.Error("server stopped with error", logger.Err(err))
		return
	}
	lg.Info("bye")
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}
