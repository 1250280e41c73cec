package provider

import (
	"context"
	"time"

	"StockRadar/internal/model"
)

// Mock returns controllable fixed data for development and testing.
type Mock struct {
	NameTag   string
	Bars      []model.PriceBar
	BasePrice float64
	Err       error
	Down      bool

	// Calls counts FetchHistory invocations, used to assert single-flight
	// and failover behavior in tests.
	Calls int
}

func (m *Mock) Name() string {
	if m.NameTag != "" {
		return m.NameTag
	}
	return "mock"
}

func (m *Mock) FetchHistory(_ context.Context, sym string, start, end time.Time) ([]model.PriceBar, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		return cleanBars(m.Bars), nil
	}
	days := int(end.Sub(start).Hours()/24) + 1
	bars := GenerateBars(m.BasePrice, end, days)
	if len(bars) == 0 {
		return nil, &EmptyResultError{Provider: m.Name(), Symbol: sym}
	}
	return bars, nil
}

func (m *Mock) IsAvailable(_ context.Context) bool { return !m.Down }

// GenerateBars produces a deterministic gently trending daily series ending
// at the given date, weekends skipped.
func GenerateBars(basePrice float64, end time.Time, count int) []model.PriceBar {
	if basePrice <= 0 {
		basePrice = 10
	}
	bars := make([]model.PriceBar, 0, count)
	day := end
	for len(bars) < count {
		if wd := day.Weekday(); wd != time.Saturday && wd != time.Sunday {
			bars = append(bars, model.PriceBar{Date: day})
		}
		day = day.AddDate(0, 0, -1)
	}
	// Reverse into ascending order, then price each bar off its index.
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}
	for i := range bars {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i].Open = p * 0.999
		bars[i].High = p * 1.005
		bars[i].Low = p * 0.995
		bars[i].Close = p
		bars[i].Volume = 1_000_000
	}
	return bars
}
