// Package datasource fronts the provider chain with a cache and failover.
package datasource

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"StockRadar/internal/model"
	"StockRadar/internal/provider"
	"StockRadar/internal/store"
	"StockRadar/internal/symbol"
)

// AllProvidersExhaustedError reports that every enabled provider failed for a
// symbol. StaleFallback records whether a stale cached series was available
// and served instead; when a fallback exists the manager returns it with the
// staleness flag set and this error is never surfaced, so callers observing
// the error always see StaleFallback false.
type AllProvidersExhaustedError struct {
	Symbol        string
	StaleFallback bool
}

func (e *AllProvidersExhaustedError) Error() string {
	if e.StaleFallback {
		return fmt.Sprintf("所有数据源均不可用: %s（已回退过期缓存）", e.Symbol)
	}
	return fmt.Sprintf("所有数据源均不可用: %s", e.Symbol)
}

func (e *AllProvidersExhaustedError) Code() string { return "PROVIDERS_EXHAUSTED" }

// Manager resolves price series: fresh cache first, then providers in
// priority order, then stale cache as a last resort. Concurrent requests for
// the same (symbol, period) collapse into one upstream fetch.
type Manager struct {
	providers []provider.Provider
	store     store.Store
	norm      *symbol.Normalizer
	ttl       time.Duration
	group     singleflight.Group
	log       *logrus.Entry

	now func() time.Time // stubbed in tests
}

func NewManager(providers []provider.Provider, st store.Store, norm *symbol.Normalizer, ttl time.Duration, log *logrus.Logger) *Manager {
	return &Manager{
		providers: providers,
		store:     st,
		norm:      norm,
		ttl:       ttl,
		log:       log.WithField("component", "datasource"),
		now:       time.Now,
	}
}

func (m *Manager) fresh(series *model.PriceSeries) bool {
	return m.now().Sub(series.FetchedAt) < m.ttl
}

// GetSeries returns the daily series covering roughly periodDays trading
// days. forceRefresh bypasses the fresh-cache short circuit but still updates
// the cache on success.
func (m *Manager) GetSeries(ctx context.Context, sym string, periodDays int, forceRefresh bool) (*model.PriceSeries, error) {
	if err := m.norm.Validate(sym); err != nil {
		return nil, err
	}

	if !forceRefresh {
		if cached, found, err := m.store.Get(sym, periodDays); err == nil && found && m.fresh(cached) {
			m.log.WithField("symbol", sym).Debug("缓存命中")
			return cached, nil
		} else if err != nil {
			m.log.WithError(err).Warn("读取缓存失败")
		}
	}

	key := fmt.Sprintf("%s/%d", sym, periodDays)
	v, err, _ := m.group.Do(key, func() (interface{}, error) {
		// Another goroutine may have refreshed the entry while this one was
		// queued on the flight group.
		if !forceRefresh {
			if cached, found, err := m.store.Get(sym, periodDays); err == nil && found && m.fresh(cached) {
				return cached, nil
			}
		}
		return m.refresh(ctx, sym, periodDays)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.PriceSeries), nil
}

// refresh walks the provider chain and caches the first usable result. On
// total failure it falls back to a stale cached series when one exists.
func (m *Manager) refresh(ctx context.Context, sym string, periodDays int) (*model.PriceSeries, error) {
	end := m.now()
	// Calendar span padded so the window still holds periodDays trading days
	// after weekends and holidays drop out.
	start := end.AddDate(0, 0, -(periodDays*7/5 + 30))

	for _, p := range m.providers {
		if !p.IsAvailable(ctx) {
			m.log.WithField("provider", p.Name()).Warn("数据源不可用，跳过")
			continue
		}
		bars, err := p.FetchHistory(ctx, sym, start, end)
		if err != nil {
			var unavail *provider.UnavailableError
			var empty *provider.EmptyResultError
			switch {
			case errors.As(err, &unavail):
				m.log.WithField("provider", p.Name()).WithError(err).Warn("数据源请求失败，切换下一个")
			case errors.As(err, &empty):
				m.log.WithField("provider", p.Name()).WithField("symbol", sym).Warn("数据源返回空数据，切换下一个")
			default:
				return nil, err
			}
			continue
		}

		if len(bars) > periodDays {
			bars = bars[len(bars)-periodDays:]
		}
		series := &model.PriceSeries{
			Symbol:    sym,
			Bars:      bars,
			FetchedAt: m.now(),
		}
		if err := m.store.Put(sym, periodDays, series); err != nil {
			m.log.WithError(err).Warn("写入缓存失败")
		}
		m.log.WithFields(logrus.Fields{"symbol": sym, "provider": p.Name(), "bars": len(bars)}).
			Info("行情数据已更新")
		return series, nil
	}

	if cached, found, err := m.store.Get(sym, periodDays); err == nil && found {
		m.log.WithField("symbol", sym).Warn("所有数据源失败，使用过期缓存")
		stale := cached.Clone()
		stale.Stale = true
		return stale, nil
	}
	return nil, &AllProvidersExhaustedError{Symbol: sym, StaleFallback: false}
}

func (m *Manager) Close() error {
	return m.store.Close()
}
