// Package cache provee abstracciones para caching con soporte multi-backend.
//
// Soporta:
//   - memory: go-cache in-process (desarrollo/testing, single node)
//   - redis: distribuido
//   - ristretto: in-process con admisión TinyLFU
//   - tiered: ristretto como L1 y redis (o memory) como L2
//
// El broker de conexiones lo usa para cachear los datos de conexión de cada tenant.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Client define las operaciones de cache.
type Client interface {
	// Get obtiene un valor. Retorna ErrNotFound si no existe.
	Get(ctx context.Context, key string) (string, error)

	// Set guarda un valor con TTL. Si ttl es 0 usa el default del backend.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error

	Close() error

	Stats(ctx context.Context) (Stats, error)
}

// Stats contiene estadísticas del cache.
type Stats struct {
	Driver string `json:"driver"`
	Keys   int64  `json:"keys"`
	Hits   int64  `json:"hits"`
	Misses int64  `json:"misses"`
}

// Config configuración para crear un cliente de cache.
type Config struct {
	Kind          string // memory | redis | ristretto | tiered
	DefaultTTL    time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Prefix        string
}

// ErrNotFound indica que la key no existe o expiró.
var ErrNotFound = errors.New("cache: key not found")

// IsNotFound verifica si el error es porque la key no existe.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// New crea un cliente de cache según la configuración.
func New(ctx context.Context, cfg Config) (Client, error) {
	switch cfg.Kind {
	case "memory", "":
		return NewMemory(cfg.Prefix, cfg.DefaultTTL), nil
	case "redis":
		return NewRedis(ctx, cfg)
	case "ristretto":
		return NewRistretto(cfg.DefaultTTL, 0)
	case "tiered":
		l1, err := NewRistretto(cfg.DefaultTTL, 0)
		if err != nil {
			return nil, err
		}
		var l2 Client = NewMemory(cfg.Prefix, cfg.DefaultTTL)
		if cfg.RedisAddr != "" {
			r, err := NewRedis(ctx, cfg)
			if err != nil {
				_ = l1.Close()
				return nil, err
			}
			l2 = r
		}
		return NewTiered(l1, l2, cfg.DefaultTTL/2), nil
	default:
		return nil, fmt.Errorf("cache: kind %q no soportado", cfg.Kind)
	}
}
