package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRedis returns a Redis cache backed by an in-process server
func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	r := NewRedisClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { r.Close() })
	return r, mr
}

func Test_Redis_SetGetMiss(t *testing.T) {
	ctx := context.Background()
	r, mr := newTestRedis(t)

	_, ok, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Set(ctx, "k", []byte(`{"a":1}`), time.Minute))
	got, ok, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`{"a":1}`), got)

	assert.True(t, mr.Exists(keyPrefix+"k"))
	assert.False(t, mr.Exists("k"))
}

func Test_Redis_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	r, mr := newTestRedis(t)

	require.NoError(t, r.Set(ctx, "k", []byte("v"), time.Minute))
	assert.Equal(t, time.Minute, mr.TTL(keyPrefix+"k"))

	mr.FastForward(2 * time.Minute)
	_, ok, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func Test_Redis_NegativeTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	r, mr := newTestRedis(t)

	require.NoError(t, r.Set(ctx, "k", []byte("v"), -time.Second))
	assert.Equal(t, time.Duration(0), mr.TTL(keyPrefix+"k"))

	mr.FastForward(time.Hour)
	_, ok, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func Test_Redis_Delete(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRedis(t)

	require.NoError(t, r.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, r.Delete(ctx, "k"))
	_, ok, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, r.Delete(ctx, "absent"))
}

func Test_Redis_ClearKeepsForeignKeys(t *testing.T) {
	ctx := context.Background()
	r, mr := newTestRedis(t)

	for i := 0; i < 2*scanBatch+50; i++ {
		require.NoError(t, r.Set(ctx, fmt.Sprintf("k%d", i), []byte("v"), 0))
	}
	require.NoError(t, mr.Set("session:42", "keep"))
	require.NoError(t, mr.Set("algolearn:other", "keep"))

	require.NoError(t, r.Clear(ctx))

	assert.Equal(t, []string{"algolearn:other", "session:42"}, mr.Keys())
	assert.Equal(t, int64(0), r.Stats(ctx).Entries)
}

func Test_Redis_Stats(t *testing.T) {
	ctx := context.Background()
	r, mr := newTestRedis(t)
	require.NoError(t, mr.Set("unrelated", "x"))

	require.NoError(t, r.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, r.Set(ctx, "b", []byte("2"), 0))
	_, _, _ = r.Get(ctx, "a")
	_, _, _ = r.Get(ctx, "a")
	_, _, _ = r.Get(ctx, "missing")

	s := r.Stats(ctx)
	assert.Equal(t, BackendRedis, s.Backend)
	assert.Equal(t, int64(2), s.Hits)
	assert.Equal(t, int64(1), s.Misses)
	assert.Equal(t, int64(2), s.Entries)
	assert.InDelta(t, 2.0/3.0, s.HitRate, 1e-9)
}

func Test_Redis_Unreachable(t *testing.T) {
	ctx := context.Background()
	r, mr := newTestRedis(t)
	mr.Close()

	_, ok, err := r.Get(ctx, "k")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, r.Set(ctx, "k", []byte("v"), 0))

	assert.Equal(t, int64(-1), r.Stats(ctx).Entries)
}

func Test_Redis_JSONHelpers(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRedis(t)

	type payload struct {
		Query string `json:"query"`
		Total int    `json:"total"`
	}
	require.NoError(t, SetJSON(ctx, r, "key", payload{Query: "graphs", Total: 3}, time.Minute))

	var got payload
	ok, err := GetJSON(ctx, r, "key", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, payload{Query: "graphs", Total: 3}, got)
}
