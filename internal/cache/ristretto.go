package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

const defaultRistrettoCost = 64 << 20

// ristrettoClient es un cache in-process con admisión TinyLFU.
type ristrettoClient struct {
	c          *ristretto.Cache[string, string]
	defaultTTL time.Duration
	hits       atomic.Int64
	misses     atomic.Int64
}

// NewRistretto crea un cache ristretto. maxCostBytes <= 0 usa 64MiB.
func NewRistretto(defaultTTL time.Duration, maxCostBytes int64) (Client, error) {
	if maxCostBytes <= 0 {
		maxCostBytes = defaultRistrettoCost
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, string]{
		NumCounters: maxCostBytes / 100 * 10,
		MaxCost:     maxCostBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &ristrettoClient{c: c, defaultTTL: defaultTTL}, nil
}

func (r *ristrettoClient) Get(_ context.Context, key string) (string, error) {
	v, ok := r.c.Get(key)
	if !ok {
		r.misses.Add(1)
		return "", ErrNotFound
	}
	r.hits.Add(1)
	return v, nil
}

func (r *ristrettoClient) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = r.defaultTTL
	}
	r.c.SetWithTTL(key, value, int64(len(key)+len(value)), ttl)
	// Las escrituras son asíncronas; Wait las hace visibles al próximo Get.
	r.c.Wait()
	return nil
}

func (r *ristrettoClient) Delete(_ context.Context, key string) error {
	r.c.Del(key)
	return nil
}

func (r *ristrettoClient) Ping(context.Context) error { return nil }

func (r *ristrettoClient) Close() error {
	r.c.Close()
	return nil
}

func (r *ristrettoClient) Stats(context.Context) (Stats, error) {
	return Stats{Driver: "ristretto", Hits: r.hits.Load(), Misses: r.misses.Load(), Keys: -1}, nil
}
