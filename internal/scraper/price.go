package scraper

import (
	"math"
	"strconv"
	"strings"
)

// ParsePrice extracts a numeric value from a raw price string such as
// "$1,299.99" or "Now only 49.90 EUR". Every character except digits, "."
// and "," is dropped, then commas are stripped as thousands separators.
// Locales that use "," as the decimal mark will misparse; that limitation is
// inherited deliberately and should only change together with per-site locale
// data. Returns nil when no usable number remains.
func ParsePrice(raw string) *float64 {
	if raw == "" {
		return nil
	}

	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}

	value, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil
	}
	return &value
}
