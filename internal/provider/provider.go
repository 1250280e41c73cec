// Package provider contains the upstream data-source adapters. Each adapter
// fetches raw daily OHLCV rows for one provider and hands back cleaned,
// date-ascending bars; provider-specific symbol forms stay inside this package.
package provider

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"time"

	"StockRadar/internal/model"
)

// Provider is the capability set every upstream adapter implements.
// Adapters are stateless and safe to call concurrently for different symbols.
type Provider interface {
	Name() string
	// FetchHistory returns daily bars for the canonical symbol over
	// [start, end], strictly date-ascending with duplicates and malformed
	// rows dropped. Calendar gaps are expected and not an error.
	FetchHistory(ctx context.Context, sym string, start, end time.Time) ([]model.PriceBar, error)
	// IsAvailable reports whether the upstream currently answers at all.
	IsAvailable(ctx context.Context) bool
}

// UnavailableError reports a transient upstream failure (network, auth,
// rate limit, timeout). It triggers failover and is never fatal on its own.
type UnavailableError struct {
	Provider string
	Err      error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("provider %s unavailable: %v", e.Provider, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Code returns the stable error code for caller branching.
func (e *UnavailableError) Code() string { return "PROVIDER_UNAVAILABLE" }

// EmptyResultError reports that the upstream answered but returned no rows
// for a symbol it should know.
type EmptyResultError struct {
	Provider string
	Symbol   string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("provider %s returned no data for %s", e.Provider, e.Symbol)
}

// Code returns the stable error code for caller branching.
func (e *EmptyResultError) Code() string { return "PROVIDER_EMPTY" }

// newHTTPClient builds the shared client shape: bounded timeout plus optional
// proxy, matching every adapter's outbound policy.
func newHTTPClient(timeout time.Duration, proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

// cleanBars enforces the adapter return contract: finite fields only, no
// duplicate dates, strictly ascending order. Rows are dropped, never patched.
func cleanBars(bars []model.PriceBar) []model.PriceBar {
	out := make([]model.PriceBar, 0, len(bars))
	for _, b := range bars {
		if !finite(b.Open) || !finite(b.High) || !finite(b.Low) || !finite(b.Close) || !finite(b.Volume) {
			continue
		}
		if b.Volume < 0 || b.Date.IsZero() {
			continue
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	dedup := out[:0]
	var last time.Time
	for _, b := range out {
		if !last.IsZero() && !b.Date.After(last) {
			continue
		}
		dedup = append(dedup, b)
		last = b.Date
	}
	return dedup
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
