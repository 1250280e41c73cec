package indicator

// KDJ computes the stochastic K/D/J lines. RSV looks back over the trailing
// period high/low range inclusive of the current bar; K and D are smoothed
// recursively with weight 1/smooth on the new value, both chains seeded at 50.
// A zero high-low range yields RSV 50 (price pinned mid-range).
func KDJ(highs, lows, closes []float64, period, smooth int) (k, d, j []Value) {
	n := len(closes)
	k = undefinedSeries(n)
	d = undefinedSeries(n)
	j = undefinedSeries(n)
	if period <= 0 || smooth <= 0 || n < period {
		return k, d, j
	}

	prevK, prevD := 50.0, 50.0
	w := 1.0 / float64(smooth)
	for i := period - 1; i < n; i++ {
		hi, lo := highs[i], lows[i]
		for x := i - period + 1; x < i; x++ {
			if highs[x] > hi {
				hi = highs[x]
			}
			if lows[x] < lo {
				lo = lows[x]
			}
		}
		rsv := 50.0
		if hi > lo {
			rsv = (closes[i] - lo) / (hi - lo) * 100
		}
		prevK = prevK*(1-w) + rsv*w
		prevD = prevD*(1-w) + prevK*w
		k[i] = Defined(prevK)
		d[i] = Defined(prevD)
		j[i] = Defined(3*prevK - 2*prevD)
	}
	return k, d, j
}
