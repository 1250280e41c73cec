package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockRadar/internal/model"
)

func sampleSeries(symbol string, n int) *model.PriceSeries {
	series := &model.PriceSeries{
		Symbol:    symbol,
		FetchedAt: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
	}
	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		p := 10 + 0.1*float64(i)
		series.Bars = append(series.Bars, model.PriceBar{
			Date: day, Open: p, High: p + 0.2, Low: p - 0.2, Close: p + 0.1, Volume: 1000 + float64(i),
		})
		day = day.AddDate(0, 0, 1)
	}
	return series
}

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	sqlite, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func TestRoundTrip(t *testing.T) {
	for name, st := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			in := sampleSeries("600000", 30)
			require.NoError(t, st.Put("600000", 120, in))

			out, found, err := st.Get("600000", 120)
			require.NoError(t, err)
			require.True(t, found)

			assert.Equal(t, in.Symbol, out.Symbol)
			assert.Equal(t, in.FetchedAt.Unix(), out.FetchedAt.Unix())
			require.Len(t, out.Bars, len(in.Bars))
			for i := range in.Bars {
				assert.True(t, in.Bars[i].Date.Equal(out.Bars[i].Date), "bar %d date", i)
				assert.Equal(t, in.Bars[i].Close, out.Bars[i].Close, "bar %d close", i)
				assert.Equal(t, in.Bars[i].Volume, out.Bars[i].Volume, "bar %d volume", i)
			}
		})
	}
}

func TestGetMissingEntry(t *testing.T) {
	for name, st := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, found, err := st.Get("999999", 120)
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestPutReplacesAtomically(t *testing.T) {
	for name, st := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, st.Put("000001", 60, sampleSeries("000001", 60)))

			replacement := sampleSeries("000001", 10)
			replacement.FetchedAt = replacement.FetchedAt.Add(time.Hour)
			require.NoError(t, st.Put("000001", 60, replacement))

			out, found, err := st.Get("000001", 60)
			require.NoError(t, err)
			require.True(t, found)
			assert.Len(t, out.Bars, 10, "old bars must not survive the replace")
			assert.Equal(t, replacement.FetchedAt.Unix(), out.FetchedAt.Unix())
		})
	}
}

func TestKeysAreIndependentPerPeriod(t *testing.T) {
	for name, st := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, st.Put("600519", 30, sampleSeries("600519", 30)))
			require.NoError(t, st.Put("600519", 120, sampleSeries("600519", 120)))

			short, found, err := st.Get("600519", 30)
			require.NoError(t, err)
			require.True(t, found)
			long, found, err := st.Get("600519", 120)
			require.NoError(t, err)
			require.True(t, found)

			assert.Len(t, short.Bars, 30)
			assert.Len(t, long.Bars, 120)
		})
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	st := NewMemoryStore()
	in := sampleSeries("600000", 5)
	require.NoError(t, st.Put("600000", 30, in))

	out, found, err := st.Get("600000", 30)
	require.NoError(t, err)
	require.True(t, found)

	out.Bars[0].Close = -1
	again, _, err := st.Get("600000", 30)
	require.NoError(t, err)
	assert.NotEqual(t, -1.0, again.Bars[0].Close, "callers must not mutate the cached series")
}
