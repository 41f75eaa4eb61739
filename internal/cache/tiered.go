package cache

import (
	"context"
	"errors"
	"time"
)

// tieredClient combina un L1 in-process con un L2 (redis o memory).
// Get consulta L1 y luego L2, rellenando L1 ante un hit en L2.
type tieredClient struct {
	l1       Client
	l2       Client
	l1Expire time.Duration
}

// NewTiered crea un cache de dos niveles. l1Expire es el TTL de los
// rellenos de L1 provenientes de L2.
func NewTiered(l1, l2 Client, l1Expire time.Duration) Client {
	return &tieredClient{l1: l1, l2: l2, l1Expire: l1Expire}
}

func (t *tieredClient) Get(ctx context.Context, key string) (string, error) {
	v, err := t.l1.Get(ctx, key)
	if err == nil {
		return v, nil
	}
	if !IsNotFound(err) {
		return "", err
	}
	v, err = t.l2.Get(ctx, key)
	if err != nil {
		return "", err
	}
	_ = t.l1.Set(ctx, key, v, t.l1Expire)
	return v, nil
}

func (t *tieredClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := t.l1.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	return t.l2.Set(ctx, key, value, ttl)
}

func (t *tieredClient) Delete(ctx context.Context, key string) error {
	if err := t.l1.Delete(ctx, key); err != nil {
		return err
	}
	return t.l2.Delete(ctx, key)
}

func (t *tieredClient) Ping(ctx context.Context) error { return t.l2.Ping(ctx) }

func (t *tieredClient) Close() error {
	return errors.Join(t.l1.Close(), t.l2.Close())
}

func (t *tieredClient) Stats(ctx context.Context) (Stats, error) {
	s1, _ := t.l1.Stats(ctx)
	s2, err := t.l2.Stats(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Driver: "tiered/" + s2.Driver, Keys: s2.Keys, Hits: s1.Hits + s2.Hits, Misses: s2.Misses}, nil
}
