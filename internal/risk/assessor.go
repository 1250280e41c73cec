// Package risk scores a price series on volatility, volume and price
// anomalies.
package risk

import (
	"fmt"
	"math"

	"StockRadar/internal/config"
	"StockRadar/internal/model"
)

// Levels thresholded from the composite score.
const (
	LevelLow    = "low"
	LevelMedium = "medium"
	LevelHigh   = "high"
)

// Assessment is the composite risk verdict for one series. Warnings and
// recommendations are ordered and fully determined by the input series.
type Assessment struct {
	Score           float64
	Level           string
	Volatility      float64 // annualized
	VolumeSpike     bool
	PriceAnomaly    bool
	Warnings        []string
	Recommendations []string
}

type Assessor struct {
	cfg config.RiskConfig
}

func NewAssessor(cfg config.RiskConfig) *Assessor {
	return &Assessor{cfg: cfg}
}

// Assess computes the weighted composite risk score for the series. Series
// shorter than the volatility window degrade to whatever returns are
// available rather than failing.
func (a *Assessor) Assess(series *model.PriceSeries) *Assessment {
	out := &Assessment{Level: LevelLow}
	closes := series.Closes()
	volumes := series.Volumes()
	n := len(closes)
	if n < 2 {
		out.Warnings = append(out.Warnings, "历史数据不足，无法评估风险")
		return out
	}

	out.Volatility = annualizedVolatility(closes, a.cfg.VolatilityWindow)
	volScore := out.Volatility / a.cfg.VolatilityReference * 100
	if volScore > 100 {
		volScore = 100
	}

	volumeScore := 0.0
	if mean := trailingMean(volumes[:n-1], a.cfg.VolatilityWindow); mean > 0 {
		if volumes[n-1] > a.cfg.VolumeSpikeRatio*mean {
			out.VolumeSpike = true
			volumeScore = 100
		}
	}

	priceScore := 0.0
	lastMove := closes[n-1]/closes[n-2] - 1
	if math.Abs(lastMove) > a.cfg.PriceMoveThreshold {
		out.PriceAnomaly = true
		priceScore = 100
	}

	score := a.cfg.VolatilityWeight*volScore +
		a.cfg.VolumeWeight*volumeScore +
		a.cfg.PriceWeight*priceScore
	out.Score = clamp(score, 0, 100)

	switch {
	case out.Score >= a.cfg.HighScore:
		out.Level = LevelHigh
	case out.Score >= a.cfg.MediumScore:
		out.Level = LevelMedium
	default:
		out.Level = LevelLow
	}

	a.annotate(out, lastMove)
	return out
}

func (a *Assessor) annotate(out *Assessment, lastMove float64) {
	if out.Volatility > a.cfg.VolatilityReference/2 {
		out.Warnings = append(out.Warnings,
			fmt.Sprintf("年化波动率偏高: %.1f%%", out.Volatility*100))
	}
	if out.VolumeSpike {
		out.Warnings = append(out.Warnings, "成交量异常放大，注意资金动向")
	}
	if out.PriceAnomaly {
		out.Warnings = append(out.Warnings,
			fmt.Sprintf("单日涨跌幅异常: %+.1f%%", lastMove*100))
	}

	switch out.Level {
	case LevelHigh:
		out.Recommendations = append(out.Recommendations, "风险较高，建议降低仓位或观望")
	case LevelMedium:
		out.Recommendations = append(out.Recommendations, "风险中等，建议控制仓位，设置止损")
	default:
		out.Recommendations = append(out.Recommendations, "风险较低，可按计划操作")
	}
}

// annualizedVolatility computes the standard deviation of the trailing window
// of daily log returns, scaled by sqrt(252).
func annualizedVolatility(closes []float64, window int) float64 {
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] <= 0 || closes[i] <= 0 {
			continue
		}
		returns = append(returns, math.Log(closes[i]/closes[i-1]))
	}
	if len(returns) > window {
		returns = returns[len(returns)-window:]
	}
	if len(returns) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))
	var sq float64
	for _, r := range returns {
		d := r - mean
		sq += d * d
	}
	daily := math.Sqrt(sq / float64(len(returns)-1))
	return daily * math.Sqrt(252)
}

func trailingMean(values []float64, window int) float64 {
	if len(values) == 0 {
		return 0
	}
	if len(values) > window {
		values = values[len(values)-window:]
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
