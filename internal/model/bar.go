package model

import "time"

// PriceBar represents a single daily OHLCV record.
type PriceBar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds the ordered daily history for one symbol.
// Bars are strictly date-ascending with no duplicate dates.
type PriceSeries struct {
	Symbol    string
	Bars      []PriceBar
	FetchedAt time.Time

	// Stale is set when the series was served from an expired cache entry
	// because every provider failed.
	Stale bool
}

// Len returns the number of bars in the series.
func (s *PriceSeries) Len() int { return len(s.Bars) }

// Closes returns the close prices in date order.
func (s *PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Highs returns the high prices in date order.
func (s *PriceSeries) Highs() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.High
	}
	return out
}

// Lows returns the low prices in date order.
func (s *PriceSeries) Lows() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Low
	}
	return out
}

// Volumes returns the volumes in date order.
func (s *PriceSeries) Volumes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Volume
	}
	return out
}

// Last returns the most recent bar. ok is false for an empty series.
func (s *PriceSeries) Last() (PriceBar, bool) {
	if len(s.Bars) == 0 {
		return PriceBar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

// Clone returns a deep copy so cached series are never mutated by callers.
func (s *PriceSeries) Clone() *PriceSeries {
	cp := *s
	cp.Bars = make([]PriceBar, len(s.Bars))
	copy(cp.Bars, s.Bars)
	return &cp
}
