package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketLens/internal/model"
)

func openTemp(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "sub", "lens.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestSQLiteRecorder_Indicators(t *testing.T) {
	r := openTemp(t)
	clock := time.Unix(1_700_000_000, 0)
	r.now = func() time.Time { clock = clock.Add(time.Minute); return clock }

	asOf := time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC)
	for i, rsi := range []float64{55, 72} {
		evt := &IndicatorEvent{
			RunID:    NewRunID(),
			Snapshot: &model.IndicatorSnapshot{Symbol: "AAPL", AsOf: asOf.AddDate(0, 0, i), CurrentPrice: 190, RSI: rsi},
			Signal:   &model.IndicatorSignal{Symbol: "AAPL", Zone: model.ZoneNeutral, Crossover: model.CrossNone},
		}
		require.NoError(t, r.RecordIndicators(evt))
	}
	require.NoError(t, r.RecordIndicators(&IndicatorEvent{
		RunID:    NewRunID(),
		Snapshot: &model.IndicatorSnapshot{Symbol: "MSFT", AsOf: asOf},
	}))

	rows, err := r.RecentSnapshots("AAPL", 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 72.0, rows[0].RSI)
	assert.Equal(t, asOf.AddDate(0, 0, 1), rows[0].AsOf)
	assert.Equal(t, string(model.ZoneNeutral), rows[0].Zone)
	assert.Len(t, rows[0].RunID, 36)
	assert.NotEqual(t, rows[0].RunID, rows[1].RunID)
}

func TestSQLiteRecorder_CorrelationAndPortfolio(t *testing.T) {
	r := openTemp(t)
	run := NewRunID()
	require.NoError(t, r.RecordCorrelation(&CorrelationEvent{RunID: run, Symbol: "TSLA", Lag: 1, Coefficient: 0.12, Samples: 40}))
	require.NoError(t, r.RecordPortfolio(&PortfolioEvent{
		RunID:    run,
		Holdings: "A:0.6,B:0.4",
		Start:    time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC),
		Sharpe:   1.1, SharpeDefined: true,
	}))

	var n int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM sentiment_correlations WHERE run_id = ?`, run).Scan(&n))
	assert.Equal(t, 1, n)

	var end string
	var defined bool
	require.NoError(t, r.db.QueryRow(`SELECT end_date, sharpe_defined FROM portfolio_metrics WHERE run_id = ?`, run).Scan(&end, &defined))
	assert.Equal(t, "2024-06-28", end)
	assert.True(t, defined)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordCorrelation(&CorrelationEvent{}))
	rows, err := r.RecentSnapshots("X", 1)
	assert.NoError(t, err)
	assert.Empty(t, rows)
}
