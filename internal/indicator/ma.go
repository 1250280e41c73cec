package indicator

// SMA computes the simple moving average of values over the trailing window,
// inclusive of the current index. Defined from index period-1 onward.
func SMA(values []float64, period int) []Value {
	out := undefinedSeries(len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = Defined(sum / float64(period))
		}
	}
	return out
}

// EMA computes the exponential moving average with multiplier 2/(period+1).
// The first defined value at index period-1 is seeded with the simple average
// of the first period values.
func EMA(values []float64, period int) []Value {
	out := undefinedSeries(len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	seed := 0.0
	for i := 0; i < period; i++ {
		seed += values[i]
	}
	prev := seed / float64(period)
	out[period-1] = Defined(prev)

	k := 2.0 / float64(period+1)
	for i := period; i < len(values); i++ {
		prev = values[i]*k + prev*(1-k)
		out[i] = Defined(prev)
	}
	return out
}

// emaOfValues runs an EMA over an already-aligned Value series, starting from
// its first defined index. Used for the MACD signal line.
func emaOfValues(values []Value, period int) []Value {
	out := undefinedSeries(len(values))
	start := -1
	for i, v := range values {
		if v.Defined() {
			start = i
			break
		}
	}
	if start < 0 || len(values)-start < period {
		return out
	}

	nums := make([]float64, 0, len(values)-start)
	for _, v := range values[start:] {
		nums = append(nums, v.Must())
	}
	for i, v := range EMA(nums, period) {
		out[start+i] = v
	}
	return out
}
