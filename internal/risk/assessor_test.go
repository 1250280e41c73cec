package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockRadar/internal/config"
	"StockRadar/internal/model"
)

func riskConfig() config.RiskConfig {
	return config.RiskConfig{
		VolatilityWindow:    20,
		VolatilityReference: 0.8,
		VolumeSpikeRatio:    2.0,
		PriceMoveThreshold:  0.07,
		VolatilityWeight:    0.5,
		VolumeWeight:        0.25,
		PriceWeight:         0.25,
		MediumScore:         33,
		HighScore:           67,
	}
}

func buildSeries(closes, volumes []float64) *model.PriceSeries {
	series := &model.PriceSeries{Symbol: "000001"}
	day := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		series.Bars = append(series.Bars, model.PriceBar{
			Date: day, Open: c, High: c * 1.002, Low: c * 0.998, Close: c, Volume: volumes[i],
		})
		day = day.AddDate(0, 0, 1)
	}
	return series
}

func calmSeries(n int) *model.PriceSeries {
	closes := make([]float64, n)
	volumes := make([]float64, n)
	price := 10.0
	for i := range closes {
		if i%2 == 0 {
			price *= 1.001
		} else {
			price *= 0.999
		}
		closes[i] = price
		volumes[i] = 1_000_000
	}
	return buildSeries(closes, volumes)
}

func TestCalmSeriesIsLowRisk(t *testing.T) {
	a := NewAssessor(riskConfig())
	out := a.Assess(calmSeries(60))

	assert.Equal(t, LevelLow, out.Level)
	assert.Less(t, out.Score, 33.0)
	assert.False(t, out.VolumeSpike)
	assert.False(t, out.PriceAnomaly)
	assert.NotEmpty(t, out.Recommendations)
}

func TestVolumeSpikeDetected(t *testing.T) {
	series := calmSeries(60)
	series.Bars[59].Volume = 10_000_000 // 10x the trailing mean

	a := NewAssessor(riskConfig())
	out := a.Assess(series)

	assert.True(t, out.VolumeSpike)
	assert.Contains(t, out.Warnings, "成交量异常放大，注意资金动向")
	assert.GreaterOrEqual(t, out.Score, 25.0*0.9)
}

func TestPriceAnomalyAndLevelEscalation(t *testing.T) {
	series := calmSeries(60)
	last := &series.Bars[59]
	last.Close = series.Bars[58].Close * 1.10 // 10% single-day move
	last.Volume = 10_000_000

	a := NewAssessor(riskConfig())
	out := a.Assess(series)

	assert.True(t, out.PriceAnomaly)
	assert.True(t, out.VolumeSpike)
	// Volume and price contributions alone give 50 points.
	assert.GreaterOrEqual(t, out.Score, 50.0)
	assert.NotEqual(t, LevelLow, out.Level)
}

func TestScoreBoundedAndLevelConsistent(t *testing.T) {
	// Violent alternating series pushes volatility to the cap.
	closes := make([]float64, 40)
	volumes := make([]float64, 40)
	price := 10.0
	for i := range closes {
		if i%2 == 0 {
			price *= 1.2
		} else {
			price *= 0.8
		}
		closes[i] = price
		volumes[i] = 1_000_000
	}
	a := NewAssessor(riskConfig())
	out := a.Assess(buildSeries(closes, volumes))

	assert.GreaterOrEqual(t, out.Score, 0.0)
	assert.LessOrEqual(t, out.Score, 100.0)
	require.Contains(t, []string{LevelLow, LevelMedium, LevelHigh}, out.Level)
	assert.NotEmpty(t, out.Warnings)
}

func TestAssessIsDeterministic(t *testing.T) {
	series := calmSeries(60)
	a := NewAssessor(riskConfig())
	first := a.Assess(series)
	second := a.Assess(series)
	assert.Equal(t, first, second)
}

func TestTooShortSeriesDegrades(t *testing.T) {
	a := NewAssessor(riskConfig())
	out := a.Assess(buildSeries([]float64{10}, []float64{100}))

	assert.Equal(t, LevelLow, out.Level)
	assert.Zero(t, out.Score)
	assert.NotEmpty(t, out.Warnings)
}
