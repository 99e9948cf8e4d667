package recorder

import (
	"time"

	"github.com/google/uuid"

	"MarketLens/internal/model"
)

// NewRunID returns the identifier that ties together the rows of one run.
func NewRunID() string { return uuid.NewString() }

// IndicatorEvent holds one symbol's snapshot and its classification.
type IndicatorEvent struct {
	RunID    string
	Snapshot *model.IndicatorSnapshot
	Signal   *model.IndicatorSignal
}

// CorrelationEvent records one sentiment/return correlation.
type CorrelationEvent struct {
	RunID       string
	Symbol      string
	Lag         int
	Coefficient float64
	Samples     int
}

// PortfolioEvent records the headline figures of a portfolio run.
type PortfolioEvent struct {
	RunID                string
	Holdings             string // e.g. "AAPL:0.6,MSFT:0.4"
	Start                time.Time
	End                  time.Time
	Cumulative           float64
	AnnualizedReturn     float64
	AnnualizedVolatility float64
	Sharpe               float64
	SharpeDefined        bool
	ExcludedDates        int
}

// SnapshotRow is a stored indicator snapshot.
type SnapshotRow struct {
	RunID      string
	RecordedAt time.Time
	AsOf       time.Time
	Symbol     string
	Price      float64
	SMA        float64
	RSI        float64
	MACD       float64
	Histogram  float64
	Zone       string
	Crossover  string
}

// Recorder persists analysis results for later review.
type Recorder interface {
	RecordIndicators(evt *IndicatorEvent) error
	RecordCorrelation(evt *CorrelationEvent) error
	RecordPortfolio(evt *PortfolioEvent) error
	RecentSnapshots(symbol string, limit int) ([]SnapshotRow, error)
	Close() error
}
