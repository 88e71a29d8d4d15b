package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elieez/PricePilot/config"
)

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache()

	require.NoError(t, c.Set("block:shop.example", []byte("1"), 0))

	val, err := c.Get("block:shop.example")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), val)
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache()

	_, err := c.Get("absent")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()

	require.NoError(t, c.Set("block:shop.example", []byte("1"), 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	_, err := c.Get("block:shop.example")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheDelete(t *testing.T) {
	c := NewMemoryCache()

	require.NoError(t, c.Set("block:shop.example", []byte("1"), 0))
	require.NoError(t, c.Delete("block:shop.example"))

	_, err := c.Get("block:shop.example")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestNewDefaultsToMemory(t *testing.T) {
	svc := New(config.CacheConfig{})
	assert.IsType(t, &MemoryCache{}, svc)

	svc = New(config.CacheConfig{Backend: "memory"})
	assert.IsType(t, &MemoryCache{}, svc)
}
