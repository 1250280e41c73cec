// Package turtle implements a dual-system breakout strategy with ATR-based
// stops and position sizing.
package turtle

import (
	"math"

	"StockRadar/internal/config"
	"StockRadar/internal/indicator"
	"StockRadar/internal/model"
)

// Signal states of one breakout system and of the combined verdict.
const (
	SignalBuy  = "BUY"
	SignalSell = "SELL"
	SignalExit = "EXIT"
	SignalHold = "HOLD"
	SignalNone = "NONE" // insufficient history
)

// SystemState is one breakout system's view of the last bar.
type SystemState struct {
	EntryWindow int
	ExitWindow  int
	Signal      string

	// Channel bounds: highest high and lowest low over the trailing window,
	// current bar excluded.
	EntryHigh float64
	EntryLow  float64
	ExitHigh  float64
	ExitLow   float64
}

// Metrics are supplementary risk figures for the advisory output.
type Metrics struct {
	Volatility  float64 // annualized, from daily log returns
	ATRPercent  float64 // ATR relative to the last close
	MaxDrawdown float64 // worst peak-to-trough close decline, fraction
	Trend       string  // "up", "down" or "flat" from the fast vs slow trend MA
}

// Result is the strategy verdict for the last bar of a series.
type Result struct {
	System1  SystemState
	System2  SystemState
	Combined string

	ATR          indicator.Value
	StopLoss     indicator.Value // defined only for BUY/SELL verdicts
	PositionSize float64         // fraction of notional, capped
	Confidence   float64         // 0..1, breakout magnitude plus volume backing
	Risk         Metrics
}

type Engine struct {
	cfg config.TurtleConfig
}

func NewEngine(cfg config.TurtleConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Evaluate runs both breakout systems on the last bar of the series.
func (e *Engine) Evaluate(series *model.PriceSeries) *Result {
	closes := series.Closes()
	highs := series.Highs()
	lows := series.Lows()
	i := len(closes) - 1

	res := &Result{
		System1:  evalSystem(highs, lows, closes, i, e.cfg.System1Entry, e.cfg.System1Exit),
		System2:  evalSystem(highs, lows, closes, i, e.cfg.System2Entry, e.cfg.System2Exit),
		Combined: SignalNone,
	}
	if i < 0 {
		return res
	}

	res.Combined = e.combine(res.System1.Signal, res.System2.Signal)

	atrSeries := indicator.ATR(highs, lows, closes, e.cfg.ATRPeriod)
	res.ATR = atrSeries[i]
	price := closes[i]

	if atr, ok := res.ATR.Float(); ok && price > 0 {
		switch res.Combined {
		case SignalBuy:
			res.StopLoss = indicator.Defined(price - e.cfg.StopATRMultiple*atr)
		case SignalSell:
			res.StopLoss = indicator.Defined(price + e.cfg.StopATRMultiple*atr)
		}
		res.PositionSize = positionSize(e.cfg.RiskPerTrade, e.cfg.StopATRMultiple, atr, price, e.cfg.MaxPosition)
		res.Risk.ATRPercent = atr / price
	}

	res.Risk.Volatility = annualizedVolatility(closes)
	res.Risk.MaxDrawdown = maxDrawdown(closes)
	res.Risk.Trend = trend(closes, e.cfg.TrendFastMA, e.cfg.TrendSlowMA)
	res.Confidence = confidence(res, closes, series.Volumes())

	return res
}

// evalSystem reads the last close against the trailing entry channel, then
// the exit channel. NONE until the entry window has enough history.
func evalSystem(highs, lows, closes []float64, i, entryWindow, exitWindow int) SystemState {
	st := SystemState{EntryWindow: entryWindow, ExitWindow: exitWindow, Signal: SignalNone}
	if i < entryWindow {
		return st
	}
	st.EntryHigh, st.EntryLow = channel(highs, lows, i, entryWindow)
	st.ExitHigh, st.ExitLow = channel(highs, lows, i, exitWindow)

	price := closes[i]
	switch {
	case price > st.EntryHigh:
		st.Signal = SignalBuy
	case price < st.EntryLow:
		st.Signal = SignalSell
	case price < st.ExitLow || price > st.ExitHigh:
		st.Signal = SignalExit
	default:
		st.Signal = SignalHold
	}
	return st
}

// channel returns the highest high and lowest low over the window bars
// before index i.
func channel(highs, lows []float64, i, window int) (hi, lo float64) {
	start := i - window
	if start < 0 {
		start = 0
	}
	hi, lo = highs[start], lows[start]
	for x := start; x < i; x++ {
		if highs[x] > hi {
			hi = highs[x]
		}
		if lows[x] < lo {
			lo = lows[x]
		}
	}
	return hi, lo
}

// combine resolves the two systems into one verdict. When both are live and
// disagree, the configured precedence side wins (longer horizon by default).
func (e *Engine) combine(s1, s2 string) string {
	if s1 == SignalNone && s2 == SignalNone {
		return SignalHold
	}
	if s1 == SignalNone {
		return s2
	}
	if s2 == SignalNone {
		return s1
	}
	if s1 == s2 {
		return s1
	}
	if e.cfg.Precedence == "shorter" {
		return s1
	}
	return s2
}

// positionSize computes risk-per-trade divided by the stop distance as a
// fraction of price, capped at the configured maximum.
func positionSize(riskPerTrade, stopMultiple, atr, price, maxPosition float64) float64 {
	if atr <= 0 || price <= 0 {
		return maxPosition
	}
	size := riskPerTrade / (stopMultiple * atr / price)
	if size > maxPosition {
		size = maxPosition
	}
	if size < 0 {
		size = 0
	}
	return size
}

// confidence scores an entry signal by how far price cleared the channel and
// how much volume backed the move. Non-entry verdicts sit at the 0.5 midline.
func confidence(res *Result, closes, volumes []float64) float64 {
	if res.System1.Signal == SignalNone && res.System2.Signal == SignalNone {
		return 0
	}
	if res.Combined != SignalBuy && res.Combined != SignalSell {
		return 0.5
	}

	i := len(closes) - 1
	price := closes[i]
	st := res.System2
	if st.Signal != res.Combined {
		st = res.System1
	}

	var magnitude float64
	switch {
	case res.Combined == SignalBuy && st.EntryHigh > 0:
		magnitude = (price - st.EntryHigh) / st.EntryHigh
	case res.Combined == SignalSell && st.EntryLow > 0:
		magnitude = (st.EntryLow - price) / st.EntryLow
	}

	c := 0.5 + math.Min(magnitude*5, 0.25)
	if mean := meanTail(volumes[:i], 20); mean > 0 {
		if boost := (volumes[i]/mean - 1) * 0.5; boost > 0 {
			c += math.Min(boost, 0.25)
		}
	}
	return math.Min(c, 1)
}

func meanTail(values []float64, window int) float64 {
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

func annualizedVolatility(closes []float64) float64 {
	var returns []float64
	for i := 1; i < len(closes); i++ {
		if closes[i-1] <= 0 || closes[i] <= 0 {
			continue
		}
		returns = append(returns, math.Log(closes[i]/closes[i-1]))
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
	return math.Sqrt(sq/float64(len(returns)-1)) * math.Sqrt(252)
}

func maxDrawdown(closes []float64) float64 {
	peak, worst := 0.0, 0.0
	for _, c := range closes {
		if c > peak {
			peak = c
		}
		if peak > 0 {
			if dd := 1 - c/peak; dd > worst {
				worst = dd
			}
		}
	}
	return worst
}

func trend(closes []float64, fastMA, slowMA int) string {
	fast := indicator.SMA(closes, fastMA)
	slow := indicator.SMA(closes, slowMA)
	i := len(closes) - 1
	if i < 0 {
		return "flat"
	}
	short, ok1 := fast[i].Float()
	long, ok2 := slow[i].Float()
	if !ok1 || !ok2 {
		return "flat"
	}
	switch {
	case short > long:
		return "up"
	case short < long:
		return "down"
	default:
		return "flat"
	}
}
