package indicator

import (
	"fmt"
	"time"

	"StockRadar/internal/config"
	"StockRadar/internal/model"
)

// Set is the date-aligned indicator table for one price series. Column names
// follow the usual shorthand: ma5, macd, macd_signal, macd_hist, rsi, kdj_k,
// kdj_d, kdj_j, boll_upper, boll_mid, boll_lower, vol_ma5, obv.
type Set struct {
	Dates   []time.Time
	columns map[string][]Value
}

// Column returns the named column aligned with Dates, or nil when the engine
// did not compute it.
func (s *Set) Column(name string) []Value {
	return s.columns[name]
}

// At returns the named value on the given date index. Unknown columns and
// out-of-range indexes read as undefined.
func (s *Set) At(name string, i int) Value {
	col := s.columns[name]
	if col == nil || i < 0 || i >= len(col) {
		return Undefined()
	}
	return col[i]
}

// Latest returns a snapshot of every column's value on the last date.
func (s *Set) Latest() map[string]Value {
	out := make(map[string]Value, len(s.columns))
	last := len(s.Dates) - 1
	for name := range s.columns {
		out[name] = s.At(name, last)
	}
	return out
}

func (s *Set) Len() int { return len(s.Dates) }

// Compute derives the full indicator set from a price series. Pure: the same
// series and config always produce the same table.
func Compute(series *model.PriceSeries, cfg config.IndicatorConfig) *Set {
	closes := series.Closes()
	highs := series.Highs()
	lows := series.Lows()
	volumes := series.Volumes()

	set := &Set{
		Dates:   make([]time.Time, len(series.Bars)),
		columns: make(map[string][]Value),
	}
	for i, b := range series.Bars {
		set.Dates[i] = b.Date
	}

	for _, p := range cfg.MAPeriods {
		set.columns[fmt.Sprintf("ma%d", p)] = SMA(closes, p)
	}
	for _, p := range cfg.VolMAPeriods {
		set.columns[fmt.Sprintf("vol_ma%d", p)] = SMA(volumes, p)
	}

	macd, sig, hist := MACD(closes, cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal)
	set.columns["macd"] = macd
	set.columns["macd_signal"] = sig
	set.columns["macd_hist"] = hist

	set.columns["rsi"] = RSI(closes, cfg.RSIPeriod)

	k, d, j := KDJ(highs, lows, closes, cfg.KDJPeriod, cfg.KDJSmooth)
	set.columns["kdj_k"] = k
	set.columns["kdj_d"] = d
	set.columns["kdj_j"] = j

	upper, mid, lower := Boll(closes, cfg.BollPeriod, cfg.BollStdFactor)
	set.columns["boll_upper"] = upper
	set.columns["boll_mid"] = mid
	set.columns["boll_lower"] = lower

	set.columns["obv"] = OBV(closes, volumes)

	return set
}
