// Package signal detects cross and threshold events between two consecutive
// dates of an indicator set.
package signal

import (
	"fmt"

	"StockRadar/internal/config"
	"StockRadar/internal/indicator"
)

// Set maps signal name to whether it fired between the previous and current
// date. Signals whose inputs were undefined on either date are absent from
// the map, not false.
type Set map[string]bool

// Fired reports whether the named signal was evaluated and triggered.
func (s Set) Fired(name string) bool { return s[name] }

// Detector evaluates cross/threshold signals from indicator columns.
type Detector struct {
	cfg config.SignalConfig
}

func NewDetector(cfg config.SignalConfig) *Detector {
	return &Detector{cfg: cfg}
}

// DetectAt evaluates every signal at date index i of the set, comparing
// against index i-1. closes must be aligned with the set's dates.
func (d *Detector) DetectAt(set *indicator.Set, closes []float64, i int) Set {
	out := make(Set)
	if i < 1 || i >= set.Len() {
		return out
	}

	fast := fmt.Sprintf("ma%d", d.cfg.FastMA)
	slow := fmt.Sprintf("ma%d", d.cfg.SlowMA)
	cross(out, "golden_cross", "death_cross",
		set.At(fast, i-1), set.At(slow, i-1), set.At(fast, i), set.At(slow, i))

	cross(out, "macd_golden_cross", "macd_death_cross",
		set.At("macd", i-1), set.At("macd_signal", i-1), set.At("macd", i), set.At("macd_signal", i))

	cross(out, "kdj_golden_cross", "kdj_death_cross",
		set.At("kdj_k", i-1), set.At("kdj_d", i-1), set.At("kdj_k", i), set.At("kdj_d", i))

	if prev, okP := set.At("rsi", i-1).Float(); okP {
		if cur, okC := set.At("rsi", i).Float(); okC {
			out["rsi_overbought"] = prev <= d.cfg.RSIOverbought && cur > d.cfg.RSIOverbought
			out["rsi_oversold"] = prev >= d.cfg.RSIOversold && cur < d.cfg.RSIOversold
		}
	}

	if i < len(closes) {
		if up0, ok := set.At("boll_upper", i-1).Float(); ok {
			if up1, ok := set.At("boll_upper", i).Float(); ok {
				out["boll_break_upper"] = closes[i-1] <= up0 && closes[i] > up1
			}
		}
		if lo0, ok := set.At("boll_lower", i-1).Float(); ok {
			if lo1, ok := set.At("boll_lower", i).Float(); ok {
				out["boll_break_lower"] = closes[i-1] >= lo0 && closes[i] < lo1
			}
		}
	}
	return out
}

// Detect evaluates the signals on the last date of the set.
func (d *Detector) Detect(set *indicator.Set, closes []float64) Set {
	return d.DetectAt(set, closes, set.Len()-1)
}

// cross records a golden/death cross pair: golden when fast moves from at or
// below slow to strictly above, death is the mirror. Skipped entirely when
// any of the four inputs is undefined.
func cross(out Set, golden, death string, prevFast, prevSlow, curFast, curSlow indicator.Value) {
	pf, ok1 := prevFast.Float()
	ps, ok2 := prevSlow.Float()
	cf, ok3 := curFast.Float()
	cs, ok4 := curSlow.Float()
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return
	}
	out[golden] = pf <= ps && cf > cs
	out[death] = pf >= ps && cf < cs
}
