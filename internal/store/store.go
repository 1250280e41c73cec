// Package store persists fetched price series keyed by (symbol, period).
package store

import "StockRadar/internal/model"

// Store is the key-value contract the data layer needs: whole-series get and
// atomic whole-series put. Implementations must be safe for concurrent use
// and must never let a reader observe a partially written series.
type Store interface {
	// Get returns the cached series for (symbol, periodDays); found is false
	// when no entry exists.
	Get(symbol string, periodDays int) (series *model.PriceSeries, found bool, err error)
	// Put replaces the entry for (symbol, periodDays) in one atomic step.
	Put(symbol string, periodDays int, series *model.PriceSeries) error
	Close() error
}
