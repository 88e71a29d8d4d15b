// Package state persists, per monitor, the set of canonical offer URLs
// already processed.
package state

import (
	"fmt"

	"github.com/Elieez/PricePilot/config"
	errs "github.com/Elieez/PricePilot/pkg/errors"
)

// Store is the dedup state repository. The persisted list for a slug is
// ordered, duplicate-free, and only ever grows: once a canonical URL is
// recorded (notified or filtered out) it is never re-notified.
type Store interface {
	// LoadSeen returns the seen URLs for a monitor, empty if none persisted
	LoadSeen(slug string) ([]string, error)

	// SaveSeen rewrites the seen URLs for a monitor
	SaveSeen(slug string, urls []string) error

	// Close releases backend resources
	Close() error
}

// New constructs the store backend named by the configuration
func New(cfg config.StateConfig) (Store, error) {
	switch cfg.Backend {
	case "", "file":
		return NewFileStore(cfg.Dir), nil
	case "redis":
		return NewRedisStore(cfg.RedisAddr, cfg.RedisDB), nil
	case "sqlite":
		return NewSQLiteStore(cfg.SQLitePath)
	default:
		return nil, errs.NewConfiguration(fmt.Sprintf("unknown state backend %q", cfg.Backend), nil)
	}
}
