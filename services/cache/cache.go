package cache

import (
	"time"

	"github.com/Elieez/PricePilot/config"
)

// CacheService represents a generic TTL cache. The pipeline uses it to block
// re-fetching a host for a while after a rate-limited response.
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}

// New constructs the cache backend named by the configuration. The in-process
// memory cache is the default; memcache shares block state across processes.
func New(cfg config.CacheConfig) CacheService {
	if cfg.Backend == "memcache" {
		return NewMemcacheService(cfg.MemcacheAddr)
	}
	return NewMemoryCache()
}
