package persist_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mineq-data/internal/persist"
)

func newRedisKV(t *testing.T) (*persist.RedisKV, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return persist.NewRedisKV(client), mr
}

func TestRedisKV_GetSetDel(t *testing.T) {
	ctx := context.Background()
	kv, _ := newRedisKV(t)

	_, err := kv.Get(ctx, "missing")
	assert.ErrorIs(t, err, persist.ErrMiss)

	require.NoError(t, kv.Set(ctx, "mineq:users", `[]`, 0))
	val, err := kv.Get(ctx, "mineq:users")
	require.NoError(t, err)
	assert.Equal(t, `[]`, val)

	require.NoError(t, kv.Del(ctx, "mineq:users"))
	_, err = kv.Get(ctx, "mineq:users")
	assert.ErrorIs(t, err, persist.ErrMiss)
}

func TestRedisKV_TTL(t *testing.T) {
	ctx := context.Background()
	kv, mr := newRedisKV(t)

	require.NoError(t, kv.Set(ctx, "temp", "v", time.Minute))
	mr.FastForward(2 * time.Minute)
	_, err := kv.Get(ctx, "temp")
	assert.ErrorIs(t, err, persist.ErrMiss)

	// ttl=0 永不过期
	require.NoError(t, kv.Set(ctx, "forever", "v", 0))
	mr.FastForward(24 * time.Hour)
	val, err := kv.Get(ctx, "forever")
	require.NoError(t, err)
	assert.Equal(t, "v", val)
}

func TestKVBackend_OverRedis(t *testing.T) {
	ctx := context.Background()
	kv, _ := newRedisKV(t)
	b := persist.NewKVBackend(kv, zap.NewNop())

	cols, err := b.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, cols.Users, 2)
}
