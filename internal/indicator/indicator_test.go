package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constant(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func ascending(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

func TestSMAConstantSeries(t *testing.T) {
	out := SMA(constant(10, 12), 5)
	require.Len(t, out, 12)

	for i := 0; i < 4; i++ {
		assert.False(t, out[i].Defined(), "index %d inside warm-up", i)
	}
	for i := 4; i < 12; i++ {
		v, ok := out[i].Float()
		require.True(t, ok, "index %d", i)
		assert.InDelta(t, 10.0, v, 1e-12)
	}
}

func TestSMASlidingWindow(t *testing.T) {
	out := SMA([]float64{1, 2, 3, 4, 5, 6}, 3)
	assert.InDelta(t, 2.0, out[2].Must(), 1e-12)
	assert.InDelta(t, 5.0, out[5].Must(), 1e-12)
}

func TestSMAShortSeries(t *testing.T) {
	for _, v := range SMA([]float64{1, 2}, 5) {
		assert.False(t, v.Defined())
	}
}

func TestEMASeededWithSimpleAverage(t *testing.T) {
	values := ascending(10, 1, 20)
	out := EMA(values, 5)

	assert.False(t, out[3].Defined())
	assert.InDelta(t, 12.0, out[4].Must(), 1e-12) // mean of first five

	// Constant input keeps the EMA pinned at the input.
	flat := EMA(constant(7, 20), 5)
	assert.InDelta(t, 7.0, flat[19].Must(), 1e-12)
}

func TestMACDWarmup(t *testing.T) {
	closes := ascending(10, 0.1, 60)
	macd, sig, hist := MACD(closes, 12, 26, 9)

	assert.False(t, macd[24].Defined())
	assert.True(t, macd[25].Defined())
	assert.False(t, sig[32].Defined())
	assert.True(t, sig[33].Defined())
	assert.False(t, hist[32].Defined())
	assert.True(t, hist[33].Defined())

	m := macd[59].Must()
	s := sig[59].Must()
	assert.InDelta(t, m-s, hist[59].Must(), 1e-12)
}

func TestRSIAllGainsIs100(t *testing.T) {
	out := RSI(ascending(10, 0.5, 30), 14)

	assert.False(t, out[13].Defined())
	for i := 14; i < 30; i++ {
		assert.InDelta(t, 100.0, out[i].Must(), 1e-12, "index %d", i)
	}
}

func TestRSIBounded(t *testing.T) {
	closes := make([]float64, 60)
	price := 10.0
	for i := range closes {
		if i%2 == 0 {
			price *= 1.013
		} else {
			price *= 0.99
		}
		closes[i] = price
	}
	out := RSI(closes, 14)
	for i := 14; i < len(out); i++ {
		v := out[i].Must()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
		assert.Less(t, v, 100.0, "mixed gains and losses must stay below 100")
	}
}

func TestKDJZeroRangePinsAt50(t *testing.T) {
	n := 20
	k, d, j := KDJ(constant(10, n), constant(10, n), constant(10, n), 9, 3)

	assert.False(t, k[7].Defined())
	for i := 8; i < n; i++ {
		assert.InDelta(t, 50.0, k[i].Must(), 1e-12)
		assert.InDelta(t, 50.0, d[i].Must(), 1e-12)
		assert.InDelta(t, 50.0, j[i].Must(), 1e-12)
	}
}

func TestKDJIdentity(t *testing.T) {
	highs := ascending(11, 0.2, 30)
	lows := ascending(9, 0.2, 30)
	closes := ascending(10, 0.2, 30)
	k, d, j := KDJ(highs, lows, closes, 9, 3)

	for i := 8; i < 30; i++ {
		assert.InDelta(t, 3*k[i].Must()-2*d[i].Must(), j[i].Must(), 1e-9)
	}
}

func TestBollConstantSeriesCollapses(t *testing.T) {
	upper, mid, lower := Boll(constant(10, 25), 20, 2)
	assert.False(t, mid[18].Defined())
	assert.InDelta(t, 10.0, upper[24].Must(), 1e-12)
	assert.InDelta(t, 10.0, mid[24].Must(), 1e-12)
	assert.InDelta(t, 10.0, lower[24].Must(), 1e-12)
}

func TestBollOrdering(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 10 + float64(i%5)
	}
	upper, mid, lower := Boll(closes, 20, 2)
	for i := 19; i < 40; i++ {
		assert.Greater(t, upper[i].Must(), mid[i].Must())
		assert.Less(t, lower[i].Must(), mid[i].Must())
	}
}

func TestATRConstantRange(t *testing.T) {
	n := 30
	out := ATR(constant(11, n), constant(9, n), constant(10, n), 20)
	assert.False(t, out[18].Defined())
	for i := 19; i < n; i++ {
		assert.InDelta(t, 2.0, out[i].Must(), 1e-9)
	}
}

func TestOBVRunningTotal(t *testing.T) {
	out := OBV([]float64{10, 11, 10.5, 10.5}, []float64{100, 200, 300, 400})
	assert.InDelta(t, 0.0, out[0].Must(), 1e-12)
	assert.InDelta(t, 200.0, out[1].Must(), 1e-12)
	assert.InDelta(t, -100.0, out[2].Must(), 1e-12)
	assert.InDelta(t, -100.0, out[3].Must(), 1e-12)
}
