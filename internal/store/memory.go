package store

import (
	"fmt"
	"sync"

	"StockRadar/internal/model"
)

// MemoryStore keeps series in process memory. Used in tests and when running
// without a cache path.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*model.PriceSeries
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*model.PriceSeries)}
}

func memKey(symbol string, periodDays int) string {
	return fmt.Sprintf("%s/%d", symbol, periodDays)
}

func (m *MemoryStore) Get(symbol string, periodDays int) (*model.PriceSeries, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.entries[memKey(symbol, periodDays)]
	if !ok {
		return nil, false, nil
	}
	return s.Clone(), true, nil
}

func (m *MemoryStore) Put(symbol string, periodDays int, series *model.PriceSeries) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[memKey(symbol, periodDays)] = series.Clone()
	return nil
}

func (m *MemoryStore) Close() error { return nil }
