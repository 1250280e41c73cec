package indicator

// MACD computes the MACD line (fast EMA − slow EMA), its signal line (EMA of
// the MACD line) and the histogram (MACD − signal). The MACD line is defined
// from index slow-1; the signal line needs a further signal-1 values.
func MACD(closes []float64, fast, slow, signal int) (macd, sig, hist []Value) {
	n := len(closes)
	macd = undefinedSeries(n)
	fastEMA := EMA(closes, fast)
	slowEMA := EMA(closes, slow)
	for i := 0; i < n; i++ {
		f, okF := fastEMA[i].Float()
		s, okS := slowEMA[i].Float()
		if okF && okS {
			macd[i] = Defined(f - s)
		}
	}

	sig = emaOfValues(macd, signal)

	hist = undefinedSeries(n)
	for i := 0; i < n; i++ {
		m, okM := macd[i].Float()
		s, okS := sig[i].Float()
		if okM && okS {
			hist[i] = Defined(m - s)
		}
	}
	return macd, sig, hist
}
