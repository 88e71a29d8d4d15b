package adapter

import (
	"fmt"
	"sort"

	"github.com/Elieez/PricePilot/config"
	errs "github.com/Elieez/PricePilot/pkg/errors"
)

// Constructor builds an adapter from a monitor definition
type Constructor func(cfg config.MonitorConfig, deps Deps) (Adapter, error)

// registry maps adapter names to constructors. Variant selection is a
// configuration-driven lookup, not a type switch.
var registry = map[string]Constructor{
	"asos":   newAsos,
	"static": newStatic,
}

// New constructs the adapter variant named by the monitor definition
func New(cfg config.MonitorConfig, deps Deps) (Adapter, error) {
	ctor, ok := registry[cfg.Adapter]
	if !ok {
		return nil, errs.NewConfiguration(
			fmt.Sprintf("unknown adapter %q for monitor %q (known: %v)", cfg.Adapter, cfg.Slug, Names()), nil)
	}
	return ctor(cfg, deps)
}

// Names returns the registered adapter names, sorted
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
