package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"MarketLens/internal/logger"
)

// SQLiteRecorder persists analysis results to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets dashboards read while the scheduler writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, now: time.Now}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info(context.Background(), "sqlite recorder opened", "path", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS indicator_snapshots (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          TEXT NOT NULL,
			timestamp       INTEGER NOT NULL,
			symbol          TEXT NOT NULL,
			as_of           TEXT NOT NULL,
			current_price   REAL,
			sma             REAL,
			sma_window      INTEGER,
			rsi             REAL,
			rsi_window      INTEGER,
			macd            REAL,
			macd_signal     REAL,
			macd_histogram  REAL,
			daily_return    REAL,
			high_52w        REAL,
			low_52w         REAL,
			position_52w    REAL,
			rsi_zone        TEXT,
			crossover       TEXT,
			trend           TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_symbol_ts ON indicator_snapshots(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS sentiment_correlations (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL,
			timestamp   INTEGER NOT NULL,
			symbol      TEXT NOT NULL,
			lag         INTEGER,
			coefficient REAL,
			samples     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_corr_symbol ON sentiment_correlations(symbol)`,

		`CREATE TABLE IF NOT EXISTS portfolio_metrics (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id            TEXT NOT NULL,
			timestamp         INTEGER NOT NULL,
			holdings          TEXT,
			start_date        TEXT,
			end_date          TEXT,
			cumulative        REAL,
			annual_return     REAL,
			annual_volatility REAL,
			sharpe            REAL,
			sharpe_defined    INTEGER,
			excluded_dates    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_portfolio_ts ON portfolio_metrics(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordIndicators(evt *IndicatorEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := evt.Snapshot
	var zone, cross, trend string
	if sig := evt.Signal; sig != nil {
		zone, cross, trend = string(sig.Zone), string(sig.Crossover), string(sig.Trend)
	}
	_, err := r.db.Exec(`INSERT INTO indicator_snapshots
		(run_id, timestamp, symbol, as_of, current_price, sma, sma_window, rsi, rsi_window,
		 macd, macd_signal, macd_histogram, daily_return, high_52w, low_52w, position_52w,
		 rsi_zone, crossover, trend)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		evt.RunID, r.now().Unix(), s.Symbol, s.AsOf.Format(time.DateOnly), s.CurrentPrice,
		s.SMA, s.SMAWindow, s.RSI, s.RSIWindow,
		s.MACD, s.MACDSignal, s.MACDHistogram, s.DailyReturn,
		s.High52w, s.Low52w, s.Position52w,
		zone, cross, trend,
	)
	return err
}

func (r *SQLiteRecorder) RecordCorrelation(evt *CorrelationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO sentiment_correlations
		(run_id, timestamp, symbol, lag, coefficient, samples)
		VALUES (?,?,?,?,?,?)`,
		evt.RunID, r.now().Unix(), evt.Symbol, evt.Lag, evt.Coefficient, evt.Samples,
	)
	return err
}

func (r *SQLiteRecorder) RecordPortfolio(evt *PortfolioEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO portfolio_metrics
		(run_id, timestamp, holdings, start_date, end_date, cumulative,
		 annual_return, annual_volatility, sharpe, sharpe_defined, excluded_dates)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		evt.RunID, r.now().Unix(), evt.Holdings,
		evt.Start.Format(time.DateOnly), evt.End.Format(time.DateOnly), evt.Cumulative,
		evt.AnnualizedReturn, evt.AnnualizedVolatility, evt.Sharpe, evt.SharpeDefined, evt.ExcludedDates,
	)
	return err
}

// RecentSnapshots returns the newest stored snapshots of symbol, newest first.
func (r *SQLiteRecorder) RecentSnapshots(symbol string, limit int) ([]SnapshotRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT run_id, timestamp, as_of, symbol, current_price, sma, rsi,
		macd, macd_histogram, rsi_zone, crossover
		FROM indicator_snapshots WHERE symbol = ? ORDER BY timestamp DESC, id DESC LIMIT ?`,
		symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []SnapshotRow
	for rows.Next() {
		var (
			row  SnapshotRow
			ts   int64
			asOf string
		)
		if err := rows.Scan(&row.RunID, &ts, &asOf, &row.Symbol, &row.Price, &row.SMA, &row.RSI,
			&row.MACD, &row.Histogram, &row.Zone, &row.Crossover); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		row.RecordedAt = time.Unix(ts, 0)
		if row.AsOf, err = time.Parse(time.DateOnly, asOf); err != nil {
			return nil, fmt.Errorf("parse as_of %q: %w", asOf, err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	logger.Info(context.Background(), "closing sqlite recorder")
	return r.db.Close()
}
