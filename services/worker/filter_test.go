package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Elieez/PricePilot/config"
)

func intPtr(v int) *int { return &v }

func TestMergeFiltersBrandUnion(t *testing.T) {
	spec := MergeFilters(
		config.FilterConfig{
			IncludeBrands: []string{"Nike", "Adidas"},
			ExcludeBrands: []string{"Shein"},
		},
		config.FilterConfig{
			IncludeBrands: []string{"adidas", "Puma"},
			ExcludeBrands: []string{"Temu"},
		},
	)

	assert.Equal(t, []string{"nike", "adidas", "puma"}, spec.IncludeBrands)
	assert.Equal(t, []string{"shein", "temu"}, spec.ExcludeBrands)
}

func TestMergeFiltersDiscountOverride(t *testing.T) {
	global := config.FilterConfig{RequireDiscountPct: intPtr(15)}

	spec := MergeFilters(global, config.FilterConfig{})
	assert.Equal(t, 15, spec.RequireDiscountPct)

	spec = MergeFilters(global, config.FilterConfig{RequireDiscountPct: intPtr(30)})
	assert.Equal(t, 30, spec.RequireDiscountPct)

	// an explicit zero at monitor level disables the global threshold
	spec = MergeFilters(global, config.FilterConfig{RequireDiscountPct: intPtr(0)})
	assert.Equal(t, 0, spec.RequireDiscountPct)

	spec = MergeFilters(config.FilterConfig{}, config.FilterConfig{})
	assert.Equal(t, 0, spec.RequireDiscountPct)
}

func TestPassesBrand(t *testing.T) {
	spec := FilterSpec{
		IncludeBrands: []string{"nike", "adidas"},
		ExcludeBrands: []string{"shein"},
	}

	assert.True(t, spec.PassesBrand("Nike"))
	assert.True(t, spec.PassesBrand("ADIDAS"))
	assert.False(t, spec.PassesBrand("Puma"))
	assert.False(t, spec.PassesBrand("Shein"))
	assert.False(t, spec.PassesBrand(""), "unknown brand cannot satisfy an include list")

	// exclude wins even when the brand is also included
	both := FilterSpec{
		IncludeBrands: []string{"nike"},
		ExcludeBrands: []string{"nike"},
	}
	assert.False(t, both.PassesBrand("nike"))

	// no include list means everything not excluded passes
	open := FilterSpec{ExcludeBrands: []string{"shein"}}
	assert.True(t, open.PassesBrand("Puma"))
	assert.True(t, open.PassesBrand(""))
}

func TestPassesDiscount(t *testing.T) {
	tests := []struct {
		name       string
		require    int
		price      int64
		prev       int64
		wantPassed bool
	}{
		{"no threshold passes everything", 0, 9999, 0, true},
		{"drop meets threshold", 15, 8000, 10000, true},
		{"drop below threshold", 15, 9000, 10000, false},
		{"drop exactly at threshold", 20, 8000, 10000, true},
		{"missing previous price passes", 15, 8000, 0, true},
		{"missing current price fails", 15, 0, 10000, false},
		{"price went up", 15, 12000, 10000, false},
		{"price unchanged", 15, 10000, 10000, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spec := FilterSpec{RequireDiscountPct: tc.require}
			assert.Equal(t, tc.wantPassed, spec.PassesDiscount(tc.price, tc.prev))
		})
	}
}
