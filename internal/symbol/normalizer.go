// Package symbol maps canonical 6-digit A-share codes into the identifier
// format each upstream provider expects. Provider-specific forms never leave
// the provider layer; everything else keys on the canonical code.
package symbol

import (
	"fmt"
	"strings"

	"StockRadar/internal/config"
)

// Format names the rendering style a provider requires.
type Format string

const (
	// FormatCanonical returns the bare 6-digit code.
	FormatCanonical Format = "canonical"
	// FormatSecID renders eastmoney secids: "1.600000" (SH) / "0.000001" (SZ).
	FormatSecID Format = "secid"
	// FormatPrefixed renders sina/qqstock codes: "sh600000" / "sz000001".
	FormatPrefixed Format = "prefixed"
	// FormatSuffixed renders tushare ts_codes: "600000.SH" / "000001.SZ".
	FormatSuffixed Format = "suffixed"
)

// UnsupportedSymbolError reports a symbol that is not a recognizable exchange
// code. It is surfaced to callers verbatim and never retried.
type UnsupportedSymbolError struct {
	Symbol string
}

func (e *UnsupportedSymbolError) Error() string {
	return fmt.Sprintf("unsupported symbol %q: want a 6-digit exchange code", e.Symbol)
}

// Code returns the stable error code for caller branching.
func (e *UnsupportedSymbolError) Code() string { return "SYMBOL_UNSUPPORTED" }

// Normalizer renders canonical symbols into provider-specific forms using a
// configured exchange-prefix table.
type Normalizer struct {
	rules []config.ExchangeRule
}

// NewNormalizer builds a Normalizer from the configured prefix rules.
func NewNormalizer(rules []config.ExchangeRule) *Normalizer {
	return &Normalizer{rules: rules}
}

// Exchange returns the exchange code ("SH"/"SZ") for a canonical symbol.
func (n *Normalizer) Exchange(sym string) (string, error) {
	if len(sym) != 6 {
		return "", &UnsupportedSymbolError{Symbol: sym}
	}
	for _, r := range sym {
		if r < '0' || r > '9' {
			return "", &UnsupportedSymbolError{Symbol: sym}
		}
	}
	for _, rule := range n.rules {
		for _, p := range rule.Prefixes {
			if strings.HasPrefix(sym, p) {
				return rule.Exchange, nil
			}
		}
	}
	return "", &UnsupportedSymbolError{Symbol: sym}
}

// Validate reports whether sym is a recognizable canonical symbol.
func (n *Normalizer) Validate(sym string) error {
	_, err := n.Exchange(sym)
	return err
}

// Normalize renders a canonical symbol in the requested provider format.
func (n *Normalizer) Normalize(sym string, f Format) (string, error) {
	ex, err := n.Exchange(sym)
	if err != nil {
		return "", err
	}
	switch f {
	case FormatCanonical:
		return sym, nil
	case FormatSecID:
		if ex == "SH" {
			return "1." + sym, nil
		}
		return "0." + sym, nil
	case FormatPrefixed:
		return strings.ToLower(ex) + sym, nil
	case FormatSuffixed:
		return sym + "." + ex, nil
	default:
		return "", fmt.Errorf("unknown symbol format %q", f)
	}
}
