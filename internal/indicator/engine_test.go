package indicator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockRadar/internal/config"
	"StockRadar/internal/model"
)

func testIndicatorConfig() config.IndicatorConfig {
	return config.IndicatorConfig{
		MAPeriods:     []int{5, 10, 20, 60},
		VolMAPeriods:  []int{5, 10},
		MACDFast:      12,
		MACDSlow:      26,
		MACDSignal:    9,
		RSIPeriod:     14,
		KDJPeriod:     9,
		KDJSmooth:     3,
		BollPeriod:    20,
		BollStdFactor: 2,
	}
}

func trendingSeries(n int) *model.PriceSeries {
	series := &model.PriceSeries{Symbol: "600000"}
	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	price := 10.0
	for i := 0; i < n; i++ {
		price *= 1.002
		series.Bars = append(series.Bars, model.PriceBar{
			Date:   day,
			Open:   price * 0.998,
			High:   price * 1.004,
			Low:    price * 0.995,
			Close:  price,
			Volume: 1_000_000 + 1000*float64(i),
		})
		day = day.AddDate(0, 0, 1)
	}
	return series
}

func TestComputeWarmupBoundaries(t *testing.T) {
	set := Compute(trendingSeries(120), testIndicatorConfig())
	require.Equal(t, 120, set.Len())

	cases := []struct {
		column       string
		firstDefined int
	}{
		{"ma5", 4},
		{"ma10", 9},
		{"ma20", 19},
		{"ma60", 59},
		{"vol_ma5", 4},
		{"macd", 25},
		{"macd_signal", 33},
		{"macd_hist", 33},
		{"rsi", 14},
		{"kdj_k", 8},
		{"kdj_d", 8},
		{"kdj_j", 8},
		{"boll_upper", 19},
		{"boll_mid", 19},
		{"boll_lower", 19},
		{"obv", 0},
	}
	for _, tc := range cases {
		col := set.Column(tc.column)
		require.NotNil(t, col, tc.column)
		if tc.firstDefined > 0 {
			assert.False(t, col[tc.firstDefined-1].Defined(),
				"%s must be undefined at %d", tc.column, tc.firstDefined-1)
		}
		assert.True(t, col[tc.firstDefined].Defined(),
			"%s must be defined at %d", tc.column, tc.firstDefined)
	}
}

func TestComputeLatestAllDefined(t *testing.T) {
	set := Compute(trendingSeries(120), testIndicatorConfig())
	latest := set.Latest()
	require.NotEmpty(t, latest)
	for name, v := range latest {
		assert.True(t, v.Defined(), "column %s", name)
	}
}

func TestSetAtOutOfRange(t *testing.T) {
	set := Compute(trendingSeries(30), testIndicatorConfig())
	assert.False(t, set.At("ma5", -1).Defined())
	assert.False(t, set.At("ma5", 30).Defined())
	assert.False(t, set.At("nope", 10).Defined())
}

func TestComputeIsDeterministic(t *testing.T) {
	series := trendingSeries(80)
	cfg := testIndicatorConfig()
	a := Compute(series, cfg).Latest()
	b := Compute(series, cfg).Latest()
	assert.Equal(t, a, b)
}
