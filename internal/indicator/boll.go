package indicator

import "math"

// Boll computes Bollinger bands: a period simple moving average of closes
// plus/minus stdFactor sample standard deviations. Defined from index
// period-1 onward.
func Boll(closes []float64, period int, stdFactor float64) (upper, mid, lower []Value) {
	n := len(closes)
	upper = undefinedSeries(n)
	lower = undefinedSeries(n)
	mid = SMA(closes, period)
	if period <= 1 {
		return upper, mid, lower
	}

	for i := period - 1; i < n; i++ {
		m, ok := mid[i].Float()
		if !ok {
			continue
		}
		var sq float64
		for x := i - period + 1; x <= i; x++ {
			d := closes[x] - m
			sq += d * d
		}
		std := math.Sqrt(sq / float64(period-1))
		upper[i] = Defined(m + stdFactor*std)
		lower[i] = Defined(m - stdFactor*std)
	}
	return upper, mid, lower
}
