package indicator

import "math"

// TrueRange returns the per-bar true range. The first bar, lacking a previous
// close, uses its own high-low span.
func TrueRange(highs, lows, closes []float64) []float64 {
	tr := make([]float64, len(closes))
	for i := range closes {
		hl := highs[i] - lows[i]
		if i == 0 {
			tr[i] = hl
			continue
		}
		hc := math.Abs(highs[i] - closes[i-1])
		lc := math.Abs(lows[i] - closes[i-1])
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}
	return tr
}

// ATR computes the EMA-smoothed average true range, defined from index
// period-1 onward.
func ATR(highs, lows, closes []float64, period int) []Value {
	return EMA(TrueRange(highs, lows, closes), period)
}
