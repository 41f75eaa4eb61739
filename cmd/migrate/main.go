// Command migrate aplica las migraciones embebidas (goose) a la DB principal
// y a las bases propias de los tenants own_db.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/adminhub/internal/app"
	"github.com/dropDatabas3/adminhub/internal/bootstrap"
	"github.com/dropDatabas3/adminhub/internal/config"
	"github.com/dropDatabas3/adminhub/internal/domain/repository"
	"github.com/dropDatabas3/adminhub/internal/observability/logger"
	"github.com/dropDatabas3/adminhub/internal/security/secretbox"
	"github.com/dropDatabas3/adminhub/internal/store"
	"github.com/dropDatabas3/adminhub/internal/store/sqldb"
)

type tenantOpts struct {
	ids      []int64
	parallel int
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		envFile    string
		cfg        *config.Config
		opts       tenantOpts
	)

	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Migraciones de la DB principal y de las DBs de tenants",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envFile != "" {
				_ = godotenv.Load(envFile)
			}
			c, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			logger.Init(logger.Config{Env: c.App.Env, Level: c.Log.Level, ServiceName: "adminhub-migrate"})
			cfg = c
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("ADMINHUB_CONFIG"), "ruta a config.yaml (vacío = defaults + env)")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "ruta a .env")

	mainCmd := &cobra.Command{
		Use:   "main",
		Short: "Migra la DB principal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrateMain(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	tenantsCmd := &cobra.Command{
		Use:   "tenants",
		Short: "Migra las DBs propias de los tenants habilitados",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrateTenants(cmd.Context(), cfg, opts, cmd.OutOrStdout())
		},
	}
	tenantsCmd.Flags().Int64SliceVar(&opts.ids, "id", nil, "Solo estos tenants (repetible)")
	tenantsCmd.Flags().IntVar(&opts.parallel, "parallel", 4, "Migraciones concurrentes")

	allCmd := &cobra.Command{
		Use:   "all",
		Short: "Migra la DB principal y luego todos los tenants own_db",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := migrateMain(cmd.Context(), cfg, cmd.OutOrStdout()); err != nil {
				return err
			}
			return migrateTenants(cmd.Context(), cfg, opts, cmd.OutOrStdout())
		},
	}
	allCmd.Flags().IntVar(&opts.parallel, "parallel", 4, "Migraciones concurrentes")

	root.AddCommand(mainCmd, tenantsCmd, allCmd)
	return root
}

func openMain(ctx context.Context, cfg *config.Config) (*sqldb.DB, error) {
	c := *cfg
	// la migración la corre este comando, no el Open
	c.DB.AutoMigrate = false
	return app.OpenMain(ctx, &c)
}

func migrateMain(ctx context.Context, cfg *config.Config, w io.Writer) error {
	db, err := openMain(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := sqldb.Migrate(ctx, db)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "main: %d applied, version %d\n", len(res.Applied), res.Version)
	return nil
}

func migrateTenants(ctx context.Context, cfg *config.Config, opts tenantOpts, w io.Writer) error {
	box, err := secretbox.New(cfg.Security.SecretboxMasterKey)
	if err != nil {
		return fmt.Errorf("security.secretbox_master_key: %w", err)
	}
	db, err := openMain(ctx, cfg)
	if err != nil {
		return err
	}
	dal, err := store.NewManager(store.ManagerConfig{
		Main:          db,
		MultiTenant:   true,
		SweepInterval: cfg.TenantDB.SweepInterval,
		TenantMaxOpen: cfg.DB.MaxOpenConns,
		TenantMaxIdle: cfg.DB.MaxIdleConns,
		Secrets:       box,
	})
	if err != nil {
		_ = db.Close()
		return err
	}
	defer dal.Close()

	targets, err := ownDBTenants(ctx, dal, opts.ids)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		fmt.Fprintln(w, "tenants: nothing to migrate")
		return nil
	}

	type outcome struct {
		res *sqldb.MigrationResult
		err error
	}
	results := make([]outcome, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	if opts.parallel > 0 {
		g.SetLimit(opts.parallel)
	}
	for i, t := range targets {
		g.Go(func() error {
			res, err := dal.MigrateTenant(gctx, t.ID)
			results[i] = outcome{res: res, err: err}
			// un tenant roto no frena al resto
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for i, t := range targets {
		r := results[i]
		if r.err != nil {
			fmt.Fprintf(w, "tenant %d (%s): FAILED %v\n", t.ID, t.Code, r.err)
			errs = append(errs, fmt.Errorf("tenant %d: %w", t.ID, r.err))
			continue
		}
		fmt.Fprintf(w, "tenant %d (%s): %d applied, version %d\n", t.ID, t.Code, len(r.res.Applied), r.res.Version)
	}
	return errors.Join(errs...)
}

// ownDBTenants devuelve los tenants habilitados con base propia. Con ids
// explícitos, un id desconocido o no own_db es error.
func ownDBTenants(ctx context.Context, dal *store.Manager, ids []int64) ([]repository.Tenant, error) {
	repo := dal.Platform(bootstrap.SystemUser).Tenants()
	if len(ids) > 0 {
		out := make([]repository.Tenant, 0, len(ids))
		for _, id := range ids {
			t, err := repo.Get(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("tenant %d: %w", id, err)
			}
			if t.DataIsolationType != repository.IsolationOwnDb {
				return nil, fmt.Errorf("tenant %d: %w", id, repository.ErrNoDatabase)
			}
			out = append(out, *t)
		}
		return out, nil
	}
	all, err := repo.List(ctx, repository.TenantFilter{})
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, t := range all {
		if t.Enabled && t.DataIsolationType == repository.IsolationOwnDb {
			out = append(out, t)
		}
	}
	return out, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		stop()
		os.Exit(1)
	}
}
