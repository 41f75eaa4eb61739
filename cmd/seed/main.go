// Command seed carga datos de ejemplo (tenants, tipos de diccionario y staff)
// desde un YAML. Es idempotente: lo que ya existe por código se saltea.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dropDatabas3/adminhub/internal/app"
	"github.com/dropDatabas3/adminhub/internal/claims"
	"github.com/dropDatabas3/adminhub/internal/config"
	"github.com/dropDatabas3/adminhub/internal/domain/repository"
	dto "github.com/dropDatabas3/adminhub/internal/http/dto/admin"
	svc "github.com/dropDatabas3/adminhub/internal/http/services/admin"
	"github.com/dropDatabas3/adminhub/internal/observability/logger"
	"github.com/dropDatabas3/adminhub/internal/security/secretbox"
	"github.com/dropDatabas3/adminhub/internal/store"
)

// ---------- formato del archivo ----------

type seedFile struct {
	Tenants []seedTenant `yaml:"tenants"`
}

type seedTenant struct {
	Name             string      `yaml:"name"`
	Code             string      `yaml:"code"`
	RealName         string      `yaml:"real_name"`
	Email            string      `yaml:"email"`
	Isolation        string      `yaml:"isolation"`
	DbType           string      `yaml:"db_type"`
	ConnectionString string      `yaml:"connection_string"`
	IdleTime         *int        `yaml:"idle_time"`
	DictionaryTypes  []seedDict  `yaml:"dictionary_types"`
	Staff            []seedStaff `yaml:"staff"`
}

type seedDict struct {
	Name        string `yaml:"name"`
	Code        string `yaml:"code"`
	Description string `yaml:"description"`
	Sort        int    `yaml:"sort"`
}

type seedStaff struct {
	JobNumber string     `yaml:"job_number"`
	Position  string     `yaml:"position"`
	Sex       *int       `yaml:"sex"`
	EntryTime *time.Time `yaml:"entry_time"`
	Introduce string     `yaml:"introduce"`
}

// seedUser audita todo lo que crea el seed.
var seedUser = claims.User{ID: 0, Name: "seed"}

type summary struct {
	Tenants, DictionaryTypes, Staff, Skipped int
}

type seeder struct {
	dal *store.Manager
	svc svc.Services
	out io.Writer
}

func (s *seeder) run(ctx context.Context, f seedFile) (summary, error) {
	var sum summary
	ctx = claims.WithUser(ctx, seedUser)
	for _, st := range f.Tenants {
		t, created, err := s.tenant(ctx, st)
		if err != nil {
			return sum, fmt.Errorf("tenant %s: %w", st.Code, err)
		}
		if created {
			sum.Tenants++
		} else {
			sum.Skipped++
		}

		if t.DataIsolationType == repository.IsolationOwnDb {
			if _, err := s.svc.Tenants.Migrate(ctx, t.ID); err != nil {
				return sum, fmt.Errorf("tenant %s: migrate: %w", st.Code, err)
			}
		}

		id := t.ID
		u := claims.User{ID: seedUser.ID, Name: seedUser.Name, TenantID: &id, DataIsolationType: t.DataIsolationType}
		tda, err := s.dal.ForUser(ctx, u)
		if err != nil {
			return sum, fmt.Errorf("tenant %s: %w", st.Code, err)
		}
		tctx := claims.WithUser(ctx, u)

		for _, d := range st.DictionaryTypes {
			_, err := s.svc.DictionaryTypes.Create(tctx, tda, dto.DictionaryTypeRequest{
				Name: d.Name, Code: d.Code, Description: d.Description, Sort: d.Sort,
			})
			switch {
			case errors.Is(err, repository.ErrConflict):
				sum.Skipped++
			case err != nil:
				return sum, fmt.Errorf("tenant %s: dictionary type %s: %w", st.Code, d.Code, err)
			default:
				sum.DictionaryTypes++
			}
		}

		for _, p := range st.Staff {
			exists, err := s.staffExists(tctx, tda, p.JobNumber)
			if err != nil {
				return sum, err
			}
			if exists {
				sum.Skipped++
				continue
			}
			if _, err := s.svc.Staff.Create(tctx, tda, dto.StaffRequest{
				JobNumber: p.JobNumber, Position: p.Position, Sex: p.Sex, EntryTime: p.EntryTime, Introduce: p.Introduce,
			}); err != nil {
				return sum, fmt.Errorf("tenant %s: staff %s: %w", st.Code, p.JobNumber, err)
			}
			sum.Staff++
		}
		fmt.Fprintf(s.out, "tenant %s (id=%d, %s) ok\n", t.Code, t.ID, t.DataIsolationType)
	}
	return sum, nil
}

// tenant crea el tenant o devuelve el existente con el mismo código.
func (s *seeder) tenant(ctx context.Context, st seedTenant) (*repository.Tenant, bool, error) {
	t, err := s.svc.Tenants.Create(ctx, dto.TenantRequest{
		Name:              st.Name,
		Code:              st.Code,
		RealName:          st.RealName,
		Email:             st.Email,
		DataIsolationType: st.Isolation,
		DbType:            st.DbType,
		ConnectionString:  st.ConnectionString,
		IdleTime:          st.IdleTime,
	})
	if err == nil {
		return t, true, nil
	}
	if !errors.Is(err, repository.ErrConflict) {
		return nil, false, err
	}
	list, err := s.svc.Tenants.List(ctx, repository.TenantFilter{Key: st.Code})
	if err != nil {
		return nil, false, err
	}
	for i := range list {
		if strings.EqualFold(list[i].Code, st.Code) {
			return &list[i], false, nil
		}
	}
	return nil, false, fmt.Errorf("code %s en conflicto pero no encontrado", st.Code)
}

func (s *seeder) staffExists(ctx context.Context, tda store.TenantDataAccess, jobNumber string) (bool, error) {
	if jobNumber == "" {
		return false, nil
	}
	list, err := s.svc.Staff.List(ctx, tda, repository.StaffFilter{Key: jobNumber})
	if err != nil {
		return false, err
	}
	for _, p := range list {
		if p.JobNumber == jobNumber {
			return true, nil
		}
	}
	return false, nil
}

func loadSeed(path string) (seedFile, error) {
	var f seedFile
	b, err := os.ReadFile(path)
	if err != nil {
		return f, err
	}
	if err := yaml.Unmarshal(b, &f); err != nil {
		return f, fmt.Errorf("parse %s: %w", path, err)
	}
	return f, nil
}

func main() {
	var (
		flagConfigPath = flag.String("config", os.Getenv("ADMINHUB_CONFIG"), "ruta a config.yaml (vacío = defaults + env)")
		flagEnvFile    = flag.String("env-file", ".env", "ruta a .env")
		flagFile       = flag.String("file", "configs/seed.example.yaml", "archivo YAML con los datos")
	)
	flag.Parse()

	if *flagEnvFile != "" {
		_ = godotenv.Load(*flagEnvFile)
	}
	cfg, err := config.Load(*flagConfigPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ServiceName: "adminhub-seed"})
	defer func() { _ = logger.Sync() }()

	f, err := loadSeed(*flagFile)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	sum, err := seed(context.Background(), cfg, f, os.Stdout)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	fmt.Printf("tenants=%d dictionary_types=%d staff=%d skipped=%d\n", sum.Tenants, sum.DictionaryTypes, sum.Staff, sum.Skipped)
}

func seed(ctx context.Context, cfg *config.Config, f seedFile, out io.Writer) (summary, error) {
	box, err := secretbox.New(cfg.Security.SecretboxMasterKey)
	if err != nil {
		return summary{}, fmt.Errorf("security.secretbox_master_key: %w", err)
	}
	db, err := app.OpenMain(ctx, cfg)
	if err != nil {
		return summary{}, err
	}
	dal, err := store.NewManager(store.ManagerConfig{
		Main:              db,
		MultiTenant:       true,
		TenantAutoMigrate: cfg.TenantDB.AutoMigrate,
		Secrets:           box,
	})
	if err != nil {
		_ = db.Close()
		return summary{}, err
	}
	defer dal.Close()

	s := &seeder{dal: dal, svc: svc.NewServices(svc.Deps{DAL: dal, Secrets: box}), out: out}
	return s.run(ctx, f)
}
