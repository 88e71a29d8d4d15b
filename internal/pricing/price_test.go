package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToMinorUnits(t *testing.T) {
	testCases := []struct {
		input    string
		expected int64
	}{
		// European convention: "." thousands, "," decimal
		{"1.234,56", 123456},
		// US convention: "," thousands, "." decimal
		{"1,234.56", 123456},
		// single comma is the decimal separator
		{"19,99", 1999},
		{"89.99", 8999},
		{"100", 10000},
		{"0", 0},
		// surrounding and embedded whitespace
		{" 1 234,56 ", 123456},
		// one fraction digit means tenths
		{"7.5", 750},
		// extra fraction digits round half-up
		{"1.239", 124},
		{"1.231", 123},
	}

	for _, tc := range testCases {
		got, err := ToMinorUnits(tc.input)
		assert.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.expected, got, "input %q", tc.input)
	}
}

func TestToMinorUnitsUnparseable(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"abc",
		"12a.50",
		// lone separator with no digits on one side
		".",
		",",
		".50",
		"12.",
		// repeated decimal separator
		"1.2.3",
		"1,2,3.45.6",
		// negative amounts are never valid prices
		"-19.99",
	}

	for _, input := range inputs {
		_, err := ToMinorUnits(input)
		assert.ErrorIs(t, err, ErrUnparseable, "input %q", input)
	}
}

func TestToMinorUnitsNeverNegative(t *testing.T) {
	inputs := []string{"1.234,56", "0,01", "999999.99", "3", "0"}
	for _, input := range inputs {
		got, err := ToMinorUnits(input)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, got, int64(0), "input %q", input)
	}
}
