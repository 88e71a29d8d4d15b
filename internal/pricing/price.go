// Package pricing normalizes locale-ambiguous price strings into exact
// integer minor-unit amounts.
package pricing

import (
	"errors"
	"strconv"
	"strings"
)

// ErrUnparseable is returned when a string cannot be read as a price
var ErrUnparseable = errors.New("unparseable price")

// ToMinorUnits converts a free-form numeric string into an integer count of
// minor currency units (cents). Both European ("1.234,56") and US
// ("1,234.56") separator conventions are accepted: when both separators are
// present, the one occurring last is the decimal separator; when only one is
// present, it is the decimal separator. Rounding of extra fraction digits is
// half-up, away from zero. Any failure yields ErrUnparseable.
func ToMinorUnits(s string) (int64, error) {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, ErrUnparseable
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			// European convention: "." thousands, "," decimal
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
			// any comma left means the decimal separator repeated
			if strings.Contains(s, ",") {
				return 0, ErrUnparseable
			}
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		s = strings.ReplaceAll(s, ",", ".")
	}

	intPart := s
	fracPart := ""
	if i := strings.Index(s, "."); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
		// a lone separator with no digits on one side is unparseable,
		// as is a second separator in the fraction
		if intPart == "" || fracPart == "" || strings.Contains(fracPart, ".") {
			return 0, ErrUnparseable
		}
	}

	if !isDigits(intPart) || (fracPart != "" && !isDigits(fracPart)) {
		return 0, ErrUnparseable
	}

	units, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrUnparseable
	}

	cents := units * 100
	switch {
	case len(fracPart) == 1:
		cents += int64(fracPart[0]-'0') * 10
	case len(fracPart) >= 2:
		cents += int64(fracPart[0]-'0')*10 + int64(fracPart[1]-'0')
		if len(fracPart) > 2 && fracPart[2] >= '5' {
			cents++
		}
	}
	return cents, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
