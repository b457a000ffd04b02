package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCmdable implements the three commands the cache issues.
type memCmdable struct {
	goredis.Cmdable
	data map[string]string
	ttl  map[string]time.Duration
}

func newMem() *memCmdable {
	return &memCmdable{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (m *memCmdable) Get(ctx context.Context, key string) *goredis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(v, nil)
}

func (m *memCmdable) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd {
	m.data[key] = string(value.([]byte))
	m.ttl[key] = expiration
	return goredis.NewStatusResult("OK", nil)
}

func (m *memCmdable) Del(ctx context.Context, keys ...string) *goredis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
	}
	return goredis.NewIntResult(n, nil)
}

type menuRow struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestCache_SetGetInvalidate(t *testing.T) {
	ctx := context.Background()
	mem := newMem()
	c := NewCache(mem)

	var got []menuRow
	hit, err := c.Get(ctx, "menuitems", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "menuitems", []menuRow{{1, "Burger Meal"}}, time.Minute))
	assert.Equal(t, time.Minute, mem.ttl["pos:menuitems"])

	hit, err = c.Get(ctx, "menuitems", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []menuRow{{1, "Burger Meal"}}, got)

	require.NoError(t, c.Invalidate(ctx, "menuitems", "fooditems"))
	hit, _ = c.Get(ctx, "menuitems", &got)
	assert.False(t, hit)
}

func TestCache_CorruptValue(t *testing.T) {
	mem := newMem()
	mem.data["pos:menuitems"] = "{"

	var got []menuRow
	_, err := NewCache(mem).Get(context.Background(), "menuitems", &got)
	assert.Error(t, err)
}

func TestNoopCache(t *testing.T) {
	c := NewNoopCache()
	require.NoError(t, c.Set(context.Background(), "k", 1, time.Second))

	var v int
	hit, err := c.Get(context.Background(), "k", &v)
	assert.NoError(t, err)
	assert.False(t, hit)
}
