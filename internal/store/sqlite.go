package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"StockRadar/internal/model"
)

// SQLiteStore persists price series to a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.Mutex
	log *logrus.Entry
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string, log *logrus.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so analysis reads keep working while a refresh writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, log: log.WithField("component", "store")}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s.log.WithField("path", dbPath).Info("sqlite store opened")
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS price_series (
			symbol      TEXT NOT NULL,
			period_days INTEGER NOT NULL,
			fetched_at  INTEGER NOT NULL,
			PRIMARY KEY (symbol, period_days)
		)`,
		`CREATE TABLE IF NOT EXISTS price_bars (
			symbol      TEXT NOT NULL,
			period_days INTEGER NOT NULL,
			date        INTEGER NOT NULL,
			open        REAL,
			high        REAL,
			low         REAL,
			close       REAL,
			volume      REAL,
			PRIMARY KEY (symbol, period_days, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bars_key ON price_bars(symbol, period_days)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) Get(symbol string, periodDays int) (*model.PriceSeries, bool, error) {
	var fetchedAt int64
	err := s.db.QueryRow(
		`SELECT fetched_at FROM price_series WHERE symbol = ? AND period_days = ?`,
		symbol, periodDays,
	).Scan(&fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query series: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT date, open, high, low, close, volume
		 FROM price_bars WHERE symbol = ? AND period_days = ? ORDER BY date ASC`,
		symbol, periodDays,
	)
	if err != nil {
		return nil, false, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	series := &model.PriceSeries{
		Symbol:    symbol,
		FetchedAt: time.Unix(fetchedAt, 0),
	}
	for rows.Next() {
		var ts int64
		var b model.PriceBar
		if err := rows.Scan(&ts, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, false, fmt.Errorf("scan bar: %w", err)
		}
		b.Date = time.Unix(ts, 0).UTC()
		series.Bars = append(series.Bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate bars: %w", err)
	}
	return series, true, nil
}

// Put replaces the whole entry inside one transaction, so concurrent readers
// see either the old series or the new one, never a mix.
func (s *SQLiteStore) Put(symbol string, periodDays int, series *model.PriceSeries) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`DELETE FROM price_bars WHERE symbol = ? AND period_days = ?`,
		symbol, periodDays,
	); err != nil {
		return fmt.Errorf("clear bars: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO price_bars (symbol, period_days, date, open, high, low, close, volume)
		 VALUES (?,?,?,?,?,?,?,?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, b := range series.Bars {
		if _, err := stmt.Exec(
			symbol, periodDays, b.Date.Unix(),
			b.Open, b.High, b.Low, b.Close, b.Volume,
		); err != nil {
			return fmt.Errorf("insert bar: %w", err)
		}
	}

	if _, err := tx.Exec(
		`INSERT INTO price_series (symbol, period_days, fetched_at) VALUES (?,?,?)
		 ON CONFLICT(symbol, period_days) DO UPDATE SET fetched_at = excluded.fetched_at`,
		symbol, periodDays, series.FetchedAt.Unix(),
	); err != nil {
		return fmt.Errorf("upsert series: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.log.WithFields(logrus.Fields{"symbol": symbol, "period": periodDays, "bars": len(series.Bars)}).
		Debug("series cached")
	return nil
}

func (s *SQLiteStore) Close() error {
	s.log.Info("closing sqlite store")
	return s.db.Close()
}
