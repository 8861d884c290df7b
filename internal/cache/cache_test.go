package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUCache(t *testing.T) {
	ctx := context.Background()
	c := NewLRUCache(100)

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "dashboard:all", []byte("v1"), time.Minute))

		val, err := c.Get(ctx, "dashboard:all")
		require.NoError(t, err)
		assert.Equal(t, "v1", string(val))
	})

	t.Run("miss returns nil", func(t *testing.T) {
		val, err := c.Get(ctx, "nonexistent")
		require.NoError(t, err)
		assert.Nil(t, val)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "k", []byte("a"), time.Minute))
		require.NoError(t, c.Set(ctx, "k", []byte("b"), time.Minute))

		val, _ := c.Get(ctx, "k")
		assert.Equal(t, "b", string(val))
	})

	t.Run("ttl expiration", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "expiring", []byte("temp"), 10*time.Millisecond))

		val, _ := c.Get(ctx, "expiring")
		assert.NotNil(t, val)

		time.Sleep(20 * time.Millisecond)

		val, _ = c.Get(ctx, "expiring")
		assert.Nil(t, val)
	})

	t.Run("delete prefix", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "dashboard:2024-01", []byte("1"), time.Minute))
		require.NoError(t, c.Set(ctx, "dashboard:2024-02", []byte("2"), time.Minute))
		require.NoError(t, c.Set(ctx, "other", []byte("3"), time.Minute))

		require.NoError(t, c.DeletePrefix(ctx, "dashboard:"))

		val, _ := c.Get(ctx, "dashboard:2024-01")
		assert.Nil(t, val)
		val, _ = c.Get(ctx, "dashboard:2024-02")
		assert.Nil(t, val)
		val, _ = c.Get(ctx, "other")
		assert.Equal(t, "3", string(val))
	})
}

func TestLRUCache_Eviction(t *testing.T) {
	ctx := context.Background()
	c := NewLRUCache(3)

	_ = c.Set(ctx, "a", []byte("1"), time.Minute)
	_ = c.Set(ctx, "b", []byte("2"), time.Minute)
	_ = c.Set(ctx, "c", []byte("3"), time.Minute)

	// touch a so b becomes the least recently used
	_, _ = c.Get(ctx, "a")
	_ = c.Set(ctx, "d", []byte("4"), time.Minute)

	assert.Equal(t, 3, c.Len())
	val, _ := c.Get(ctx, "b")
	assert.Nil(t, val, "b should be evicted")
	val, _ = c.Get(ctx, "a")
	assert.Equal(t, "1", string(val))
}

func TestLRUCache_Concurrent(t *testing.T) {
	ctx := context.Background()
	c := NewLRUCache(50)

	done := make(chan struct{})
	for g := 0; g < 8; g++ {
		go func(g int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", (g*200+i)%80)
				_ = c.Set(ctx, key, []byte("v"), time.Minute)
				_, _ = c.Get(ctx, key)
				if i%50 == 0 {
					_ = c.DeletePrefix(ctx, "k1")
				}
			}
		}(g)
	}
	for g := 0; g < 8; g++ {
		<-done
	}
	assert.LessOrEqual(t, c.Len(), 50)
}

func TestNew(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		c, err := New(Config{Backend: "memory", MaxEntries: 10})
		require.NoError(t, err)
		assert.IsType(t, &LRUCache{}, c)
	})

	t.Run("none", func(t *testing.T) {
		c, err := New(Config{Backend: "none"})
		require.NoError(t, err)
		require.NoError(t, c.Set(context.Background(), "k", []byte("v"), time.Minute))
		val, err := c.Get(context.Background(), "k")
		require.NoError(t, err)
		assert.Nil(t, val)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := New(Config{Backend: "memcached"})
		assert.Error(t, err)
	})
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if testing.Short() || addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	c, err := NewRedisCache(addr, os.Getenv("REDIS_PASSWORD"), 0)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	prefix := fmt.Sprintf("test-%d:", time.Now().UnixNano())

	require.NoError(t, c.Set(ctx, prefix+"a", []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, prefix+"b", []byte("2"), time.Minute))

	val, err := c.Get(ctx, prefix+"a")
	require.NoError(t, err)
	assert.Equal(t, "1", string(val))

	require.NoError(t, c.DeletePrefix(ctx, prefix))

	val, err = c.Get(ctx, prefix+"b")
	require.NoError(t, err)
	assert.Nil(t, val)
}
