package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix es el prefijo de todas las variables de entorno que pisan el YAML.
const EnvPrefix = "ADMINHUB_"

type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
		// Tenant habilita multi-tenancy (filtro por tenant_id y ruteo own_db).
		Tenant bool `yaml:"tenant"`
		// SyncApis registra las rutas /api/admin en ad_api al arrancar.
		SyncApis bool   `yaml:"sync_apis"`
		Version  string `yaml:"version"`
	} `yaml:"app"`

	Server struct {
		Addr               string        `yaml:"addr"`
		CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
		ReadTimeout        time.Duration `yaml:"read_timeout"`
		WriteTimeout       time.Duration `yaml:"write_timeout"`
		ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	DB struct {
		// postgresql | mysql | sqlite
		Type string `yaml:"type"`
		DSN  string `yaml:"dsn"`
		// MonitorCommand loguea cada sentencia SQL en debug.
		MonitorCommand bool `yaml:"monitor_command"`
		// Curd loguea altas/bajas/modificaciones a nivel info.
		Curd            bool          `yaml:"curd"`
		AutoMigrate     bool          `yaml:"auto_migrate"`
		MaxOpenConns    int           `yaml:"max_open_conns"`
		MaxIdleConns    int           `yaml:"max_idle_conns"`
		ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	} `yaml:"db"`

	TenantDB struct {
		SweepInterval time.Duration `yaml:"sweep_interval"`
		AutoMigrate   bool          `yaml:"auto_migrate"`
		// LookupTTL es el TTL del cache de datos de conexión del tenant.
		LookupTTL time.Duration `yaml:"lookup_ttl"`
	} `yaml:"tenant_db"`

	Cache struct {
		// memory | redis | ristretto | tiered
		Kind       string        `yaml:"kind"`
		DefaultTTL time.Duration `yaml:"default_ttl"`
		Redis      struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	Auth struct {
		Enabled   bool          `yaml:"enabled"`
		JWTSecret string        `yaml:"jwt_secret"`
		Issuer    string        `yaml:"issuer"`
		TokenTTL  time.Duration `yaml:"token_ttl"`
	} `yaml:"auth"`

	Rate struct {
		Enabled     bool          `yaml:"enabled"`
		Window      time.Duration `yaml:"window"`
		MaxRequests int           `yaml:"max_requests"`
	} `yaml:"rate"`

	Security struct {
		// Base64 de 32 bytes; vacío deja los connection strings en claro.
		SecretboxMasterKey string `yaml:"secretbox_master_key"`
	} `yaml:"security"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default retorna la configuración con todos los defaults aplicados.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load lee el YAML en path (si path es vacío solo usa defaults + env),
// aplica defaults, pisa con ADMINHUB_* y valida.
func Load(path string) (*Config, error) {
	c := &Config{}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	c.applyDefaults()
	c.applyEnvOverrides()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.DB.Type == "" {
		c.DB.Type = "sqlite"
	}
	if c.DB.DSN == "" && c.DB.Type == "sqlite" {
		c.DB.DSN = "file:adminhub.db?_foreign_keys=on"
	}
	if c.DB.MaxOpenConns == 0 {
		c.DB.MaxOpenConns = 20
	}
	if c.DB.MaxIdleConns == 0 {
		c.DB.MaxIdleConns = 5
	}
	if c.DB.ConnMaxLifetime == 0 {
		c.DB.ConnMaxLifetime = 30 * time.Minute
	}
	if c.TenantDB.SweepInterval == 0 {
		c.TenantDB.SweepInterval = 30 * time.Second
	}
	if c.TenantDB.LookupTTL == 0 {
		c.TenantDB.LookupTTL = time.Minute
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.DefaultTTL == 0 {
		c.Cache.DefaultTTL = 2 * time.Minute
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "adminhub:"
	}
	if c.Auth.Issuer == "" {
		c.Auth.Issuer = "adminhub"
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = 12 * time.Hour
	}
	if c.Rate.Window == 0 {
		c.Rate.Window = time.Minute
	}
	if c.Rate.MaxRequests == 0 {
		c.Rate.MaxRequests = 120
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(EnvPrefix + key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}

func getEnvDur(key string) (time.Duration, bool) {
	if s, ok := getEnvStr(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
			return d, true
		}
	}
	return 0, false
}

func getEnvCSV(key string) ([]string, bool) {
	s, ok := getEnvStr(key)
	if !ok {
		return nil, false
	}
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, true
}

// applyEnvOverrides pisa el YAML con ADMINHUB_<BLOQUE>_<CAMPO>.
func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvBool("APP_TENANT"); ok {
		c.App.Tenant = v
	}
	if v, ok := getEnvBool("APP_SYNC_APIS"); ok {
		c.App.SyncApis = v
	}

	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvCSV("SERVER_CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}

	if v, ok := getEnvStr("DB_TYPE"); ok {
		c.DB.Type = v
	}
	if v, ok := getEnvStr("DB_DSN"); ok {
		c.DB.DSN = v
	}
	if v, ok := getEnvBool("DB_MONITOR_COMMAND"); ok {
		c.DB.MonitorCommand = v
	}
	if v, ok := getEnvBool("DB_CURD"); ok {
		c.DB.Curd = v
	}
	if v, ok := getEnvBool("DB_AUTO_MIGRATE"); ok {
		c.DB.AutoMigrate = v
	}
	if v, ok := getEnvInt("DB_MAX_OPEN_CONNS"); ok {
		c.DB.MaxOpenConns = v
	}
	if v, ok := getEnvInt("DB_MAX_IDLE_CONNS"); ok {
		c.DB.MaxIdleConns = v
	}

	if v, ok := getEnvDur("TENANT_DB_SWEEP_INTERVAL"); ok {
		c.TenantDB.SweepInterval = v
	}
	if v, ok := getEnvBool("TENANT_DB_AUTO_MIGRATE"); ok {
		c.TenantDB.AutoMigrate = v
	}
	if v, ok := getEnvDur("TENANT_DB_LOOKUP_TTL"); ok {
		c.TenantDB.LookupTTL = v
	}

	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = strings.ToLower(v)
	}
	if v, ok := getEnvStr("CACHE_REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvStr("CACHE_REDIS_PASSWORD"); ok {
		c.Cache.Redis.Password = v
	}
	if v, ok := getEnvInt("CACHE_REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}

	if v, ok := getEnvBool("AUTH_ENABLED"); ok {
		c.Auth.Enabled = v
	}
	if v, ok := getEnvStr("AUTH_JWT_SECRET"); ok {
		c.Auth.JWTSecret = v
	}
	if v, ok := getEnvStr("AUTH_ISSUER"); ok {
		c.Auth.Issuer = v
	}

	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvDur("RATE_WINDOW"); ok {
		c.Rate.Window = v
	}
	if v, ok := getEnvInt("RATE_MAX_REQUESTS"); ok {
		c.Rate.MaxRequests = v
	}

	if v, ok := getEnvStr("SECURITY_SECRETBOX_MASTER_KEY"); ok {
		c.Security.SecretboxMasterKey = v
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
}

// Validate chequea combinaciones que impedirían arrancar.
func (c *Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.DB.Type) {
	case "postgresql", "postgres", "pg", "mysql", "mariadb", "sqlite", "sqlite3":
	default:
		errs = append(errs, fmt.Errorf("db.type %q no soportado", c.DB.Type))
	}
	if strings.TrimSpace(c.DB.DSN) == "" {
		errs = append(errs, errors.New("db.dsn requerido"))
	}
	switch c.Cache.Kind {
	case "memory", "ristretto", "tiered":
	case "redis":
		if c.Cache.Redis.Addr == "" {
			errs = append(errs, errors.New("cache.redis.addr requerido con cache.kind=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.kind %q no soportado", c.Cache.Kind))
	}
	if c.Auth.Enabled && len(c.Auth.JWTSecret) < 16 {
		errs = append(errs, errors.New("auth.jwt_secret debe tener al menos 16 caracteres"))
	}
	if c.Rate.Enabled && c.Rate.MaxRequests <= 0 {
		errs = append(errs, errors.New("rate.max_requests debe ser > 0"))
	}
	return errors.Join(errs...)
}

// IsProd indica si app.env es prod.
func (c *Config) IsProd() bool { return strings.EqualFold(c.App.Env, "prod") }
