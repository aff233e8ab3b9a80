package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestMemory() (*Memory, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := NewMemory()
	m.now = clock.now
	return m, clock
}

func Test_Memory_SetGet(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMemory()

	_, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Minute))
	got, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), got)
}

func Test_Memory_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMemory()

	buf := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", buf, 0))
	buf[0] = 'x'

	got, _, _ := m.Get(ctx, "k")
	assert.Equal(t, "abc", string(got))
	got[1] = 'y'

	again, _, _ := m.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func Test_Memory_Expiry(t *testing.T) {
	ctx := context.Background()
	m, clock := newTestMemory()

	require.NoError(t, m.Set(ctx, "short", []byte("1"), time.Minute))
	require.NoError(t, m.Set(ctx, "forever", []byte("2"), 0))

	clock.t = clock.t.Add(time.Minute)

	_, ok, _ := m.Get(ctx, "short")
	assert.False(t, ok)
	_, ok, _ = m.Get(ctx, "forever")
	assert.True(t, ok)
	assert.Equal(t, int64(1), m.Stats(ctx).Entries)
}

func Test_Memory_DeleteAndClear(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMemory()

	require.NoError(t, m.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, m.Set(ctx, "b", []byte("2"), 0))

	require.NoError(t, m.Delete(ctx, "a"))
	_, ok, _ := m.Get(ctx, "a")
	assert.False(t, ok)

	require.NoError(t, m.Clear(ctx))
	assert.Zero(t, m.Stats(ctx).Entries)
}

func Test_Memory_Stats(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMemory()

	require.NoError(t, m.Set(ctx, "k", []byte("v"), 0))
	m.Get(ctx, "k")
	m.Get(ctx, "k")
	m.Get(ctx, "k")
	m.Get(ctx, "missing")

	s := m.Stats(ctx)
	assert.Equal(t, BackendMemory, s.Backend)
	assert.Equal(t, int64(3), s.Hits)
	assert.Equal(t, int64(1), s.Misses)
	assert.InDelta(t, 0.75, s.HitRate, 1e-9)
}

func Test_JSONHelpers(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	type payload struct {
		Query string   `json:"query"`
		IDs   []string `json:"ids"`
	}
	in := payload{Query: "graphs", IDs: []string{"a", "b"}}

	require.NoError(t, SetJSON(ctx, m, "k", in, time.Minute))

	var out payload
	ok, err := GetJSON(ctx, m, "k", &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, in, out)

	require.NoError(t, m.Set(ctx, "garbage", []byte("{"), 0))
	ok, err = GetJSON(ctx, m, "garbage", &out)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(1), m.Stats(ctx).Entries)
}

func Test_GenerateKey(t *testing.T) {
	opts := map[string]interface{}{"sort": "title", "limit": 5}

	k1, err := GenerateKey("fp", "graphs", opts)
	require.NoError(t, err)
	k2, _ := GenerateKey("fp", "graphs", opts)
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 64)

	k3, _ := GenerateKey("fp2", "graphs", opts)
	k4, _ := GenerateKey("fp", "trees", opts)
	k5, _ := GenerateKey("fp", "graphs", map[string]interface{}{"sort": "date", "limit": 5})
	assert.NotEqual(t, k1, k3)
	assert.NotEqual(t, k1, k4)
	assert.NotEqual(t, k1, k5)

	_, err = GenerateKey("fp", "q", func() {})
	assert.Error(t, err)
}

func Test_New(t *testing.T) {
	c, err := New(Config{})
	require.NoError(t, err)
	assert.IsType(t, Nop{}, c)

	c, err = New(Config{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, c)

	c, err = New(Config{Backend: BackendRedis, RedisURL: "redis://localhost:6379/2"})
	require.NoError(t, err)
	assert.IsType(t, &Redis{}, c)
	assert.NoError(t, c.Close())

	_, err = New(Config{Backend: BackendRedis, RedisURL: "http://nope"})
	assert.Error(t, err)

	_, err = New(Config{Backend: "memcached"})
	assert.Error(t, err)
}

func Test_Nop(t *testing.T) {
	ctx := context.Background()
	var c Cache = Nop{}

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	_, ok, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, BackendNone, c.Stats(ctx).Backend)
}
