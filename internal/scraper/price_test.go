package scraper_test

import (
	"fmt"
	"strings"
	"testing"

	"pricehawk/internal/scraper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// formatUSD renders v the way a US storefront would, e.g. 1299.99 ->
// "$1,299.99".
func formatUSD(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	dot := strings.Index(s, ".")
	intPart := s[:dot]
	for i := len(intPart) - 3; i > 0; i -= 3 {
		intPart = intPart[:i] + "," + intPart[i:]
	}
	return "$" + intPart + s[dot:]
}

func TestParsePriceRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 0.99, 5, 19.99, 1299.99, 54321.01, 1234567.89} {
		raw := formatUSD(v)
		got := scraper.ParsePrice(raw)
		require.NotNilf(t, got, "ParsePrice(%q)", raw)
		assert.InDeltaf(t, v, *got, 1e-9, "ParsePrice(%q)", raw)
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *float64
	}{
		{name: "empty", raw: "", want: nil},
		{name: "no digits", raw: "no digits here", want: nil},
		{name: "only separators", raw: "$.,", want: nil},
		{name: "plain number", raw: "49.90", want: ptr(49.90)},
		{name: "currency symbol", raw: "€89.99", want: ptr(89.99)},
		{name: "surrounding text", raw: "Now only $49.90!", want: ptr(49.90)},
		{name: "thousands separator", raw: "$1,299.99", want: ptr(1299.99)},
		{name: "comma without decimals", raw: "1,299", want: ptr(1299)},
		{name: "whitespace", raw: "  $ 12.50 ", want: ptr(12.50)},
		// commas are always treated as grouping, so EU-style decimals misparse
		{name: "comma decimal locale", raw: "1.299,99", want: ptr(1.29999)},
		{name: "multiple dots", raw: "1.2.3", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scraper.ParsePrice(tt.raw)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func ptr(v float64) *float64 { return &v }
