package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockRadar/internal/config"
)

func testNormalizer() *Normalizer {
	return NewNormalizer([]config.ExchangeRule{
		{Exchange: "SH", Prefixes: []string{"6", "9"}},
		{Exchange: "SZ", Prefixes: []string{"0", "2", "3"}},
	})
}

func TestNormalizeFormats(t *testing.T) {
	n := testNormalizer()

	cases := []struct {
		sym    string
		format Format
		want   string
	}{
		{"600000", FormatCanonical, "600000"},
		{"600000", FormatSecID, "1.600000"},
		{"000001", FormatSecID, "0.000001"},
		{"600000", FormatPrefixed, "sh600000"},
		{"000001", FormatPrefixed, "sz000001"},
		{"600000", FormatSuffixed, "600000.SH"},
		{"300750", FormatSuffixed, "300750.SZ"},
	}
	for _, tc := range cases {
		got, err := n.Normalize(tc.sym, tc.format)
		require.NoError(t, err, "%s as %s", tc.sym, tc.format)
		assert.Equal(t, tc.want, got)
	}
}

func TestUnsupportedSymbols(t *testing.T) {
	n := testNormalizer()

	for _, sym := range []string{"", "60000", "6000000", "60000a", "AAPL", "500000"} {
		err := n.Validate(sym)
		require.Error(t, err, "symbol %q", sym)

		var unsupported *UnsupportedSymbolError
		require.ErrorAs(t, err, &unsupported)
		assert.Equal(t, sym, unsupported.Symbol)
		assert.Equal(t, "SYMBOL_UNSUPPORTED", unsupported.Code())
	}
}

func TestExchangeLookup(t *testing.T) {
	n := testNormalizer()

	ex, err := n.Exchange("900901")
	require.NoError(t, err)
	assert.Equal(t, "SH", ex)

	ex, err = n.Exchange("200001")
	require.NoError(t, err)
	assert.Equal(t, "SZ", ex)
}
