package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCacheSetGet(t *testing.T) {
	ctx := context.Background()
	c := New(Config{DefaultTTL: time.Minute, CleanupInterval: time.Minute, MaxItems: 10})
	defer c.Close()

	c.Set(ctx, "k", []byte("v"))
	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	require.Equal(t, []byte("v"), got)

	_, ok = c.Get(ctx, "missing")
	require.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := New(Config{DefaultTTL: 10 * time.Millisecond, CleanupInterval: time.Minute, MaxItems: 10})
	defer c.Close()

	c.Set(ctx, "k", []byte("v"))
	time.Sleep(30 * time.Millisecond)
	_, ok := c.Get(ctx, "k")
	require.False(t, ok)
}

func TestCacheDelete(t *testing.T) {
	ctx := context.Background()
	c := New(Config{DefaultTTL: time.Minute, CleanupInterval: time.Minute, MaxItems: 10})
	defer c.Close()

	c.Set(ctx, "k", []byte("v"))
	c.Delete(ctx, "k")
	_, ok := c.Get(ctx, "k")
	require.False(t, ok)
}

func TestCacheMaxItemsBound(t *testing.T) {
	ctx := context.Background()
	c := New(Config{DefaultTTL: time.Minute, CleanupInterval: time.Minute, MaxItems: 2})
	defer c.Close()

	c.Set(ctx, "a", []byte("1"))
	c.Set(ctx, "b", []byte("2"))
	c.Set(ctx, "c", []byte("3"))

	count := 0
	for _, key := range []string{"a", "b", "c"} {
		if _, ok := c.Get(ctx, key); ok {
			count++
		}
	}
	require.LessOrEqual(t, count, 2)
}
