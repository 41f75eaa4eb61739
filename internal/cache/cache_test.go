package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewRedis(context.Background(), Config{RedisAddr: mr.Addr(), Prefix: "test:", DefaultTTL: time.Minute})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return mr, c
}

func exerciseClient(t *testing.T, c Client) {
	t.Helper()
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	require.True(t, IsNotFound(err))

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	v, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.Ping(ctx))
}

func TestMemory(t *testing.T) {
	c := NewMemory("p:", time.Minute)
	exerciseClient(t, c)

	st, err := c.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "memory", st.Driver)
	assert.Equal(t, int64(1), st.Hits)
	assert.Equal(t, int64(2), st.Misses)
}

func TestMemory_Expires(t *testing.T) {
	c := NewMemory("", time.Minute)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", "v", 20*time.Millisecond))
	time.Sleep(40 * time.Millisecond)
	_, err := c.Get(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRedis(t *testing.T) {
	mr, c := newMiniRedis(t)
	exerciseClient(t, c)

	require.NoError(t, c.Set(context.Background(), "ttl", "x", 0))
	assert.True(t, mr.Exists("test:ttl"))
	assert.Equal(t, time.Minute, mr.TTL("test:ttl"))
}

func TestRedis_PingFails(t *testing.T) {
	_, err := NewRedis(context.Background(), Config{RedisAddr: "127.0.0.1:1"})
	require.Error(t, err)
}

func TestRistretto(t *testing.T) {
	c, err := NewRistretto(time.Minute, 1<<20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	exerciseClient(t, c)
}

func TestTiered_BackfillsL1(t *testing.T) {
	mr, l2 := newMiniRedis(t)
	l1 := NewMemory("", time.Minute)
	c := NewTiered(l1, l2, time.Minute)
	ctx := context.Background()

	require.NoError(t, mr.Set("test:only-l2", "remote"))

	v, err := c.Get(ctx, "only-l2")
	require.NoError(t, err)
	assert.Equal(t, "remote", v)

	v, err = l1.Get(ctx, "only-l2")
	require.NoError(t, err)
	assert.Equal(t, "remote", v)

	require.NoError(t, c.Delete(ctx, "only-l2"))
	assert.False(t, mr.Exists("test:only-l2"))
}

func TestNew_Kinds(t *testing.T) {
	ctx := context.Background()
	for _, kind := range []string{"", "memory", "ristretto", "tiered"} {
		c, err := New(ctx, Config{Kind: kind, DefaultTTL: time.Minute})
		require.NoError(t, err, kind)
		exerciseClient(t, c)
		require.NoError(t, c.Close())
	}
	_, err := New(ctx, Config{Kind: "memcached"})
	require.Error(t, err)
}
