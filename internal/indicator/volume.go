package indicator

// OBV computes on-balance volume: a running total that adds the day's volume
// when the close rises and subtracts it when the close falls.
func OBV(closes, volumes []float64) []Value {
	out := undefinedSeries(len(closes))
	if len(closes) == 0 {
		return out
	}
	total := 0.0
	out[0] = Defined(0)
	for i := 1; i < len(closes); i++ {
		switch {
		case closes[i] > closes[i-1]:
			total += volumes[i]
		case closes[i] < closes[i-1]:
			total -= volumes[i]
		}
		out[i] = Defined(total)
	}
	return out
}
