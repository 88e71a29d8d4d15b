package worker

import (
	"strings"

	"github.com/Elieez/PricePilot/config"
)

// FilterSpec is the merged filter criteria applied to each offer
type FilterSpec struct {
	// IncludeBrands, when non-empty, is the only set of brands accepted
	IncludeBrands []string
	// ExcludeBrands are always rejected
	ExcludeBrands []string
	// RequireDiscountPct is the minimum discount; zero or less disables the check
	RequireDiscountPct int
}

// MergeFilters combines the global and monitor-level filter specs: brand sets
// are the case-insensitive union of both, and the discount threshold is the
// monitor-level override when set, else the global one, else zero.
func MergeFilters(global, monitor config.FilterConfig) FilterSpec {
	spec := FilterSpec{
		IncludeBrands: mergeBrands(global.IncludeBrands, monitor.IncludeBrands),
		ExcludeBrands: mergeBrands(global.ExcludeBrands, monitor.ExcludeBrands),
	}
	switch {
	case monitor.RequireDiscountPct != nil:
		spec.RequireDiscountPct = *monitor.RequireDiscountPct
	case global.RequireDiscountPct != nil:
		spec.RequireDiscountPct = *global.RequireDiscountPct
	}
	return spec
}

// mergeBrands lowercases and deduplicates the union, preserving first-seen order
func mergeBrands(global, monitor []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, b := range append(append([]string{}, global...), monitor...) {
		b = strings.ToLower(strings.TrimSpace(b))
		if b == "" || seen[b] {
			continue
		}
		seen[b] = true
		out = append(out, b)
	}
	return out
}

// PassesBrand checks the offer's brand (empty when unknown) against the
// exclude and include sets. Comparison is case-insensitive.
func (f FilterSpec) PassesBrand(brand string) bool {
	b := strings.ToLower(strings.TrimSpace(brand))
	for _, excluded := range f.ExcludeBrands {
		if b == excluded {
			return false
		}
	}
	if len(f.IncludeBrands) == 0 {
		return true
	}
	for _, included := range f.IncludeBrands {
		if b == included {
			return true
		}
	}
	return false
}

// PassesDiscount checks the discount threshold. An unknown current price
// blocks the offer; an unknown previous price passes, since "was" prices
// are often missing from product pages.
func (f FilterSpec) PassesDiscount(priceCents, prevPriceCents int64) bool {
	if f.RequireDiscountPct <= 0 {
		return true
	}
	if priceCents <= 0 {
		return false
	}
	if prevPriceCents <= 0 {
		return true
	}
	if prevPriceCents <= priceCents {
		return false
	}
	drop := float64(prevPriceCents-priceCents) / float64(prevPriceCents) * 100
	return drop >= float64(f.RequireDiscountPct)
}
