package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketLens/internal/eda"
	"MarketLens/internal/model"
	"MarketLens/internal/portfolio"
	"MarketLens/internal/sentiment"
)

func TestFormatIndicatorReport(t *testing.T) {
	rows := []IndicatorRow{
		{
			Snapshot: &model.IndicatorSnapshot{Symbol: "AAPL", AsOf: time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC), CurrentPrice: 189.987, RSI: 72.04, DailyReturn: 0.01234},
			Signal:   &model.IndicatorSignal{Zone: model.ZoneOverbought, Crossover: model.CrossNone, Trend: model.TrendUp, Commentary: []string{"RSI hot"}},
		},
		{
			Snapshot: &model.IndicatorSnapshot{Symbol: "MSFT", RSI: 50},
			Signal:   &model.IndicatorSignal{Zone: model.ZoneNeutral, Crossover: model.CrossNone, Trend: model.TrendFlat},
		},
	}
	out := FormatIndicatorReport(rows, time.Date(2024, 5, 18, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, out, "| AAPL | 2024-05-17 | 189.99 | 1.23% |")
	assert.Contains(t, out, "- **AAPL**: RSI hot")
	assert.NotContains(t, out, "**MSFT**")
}

func TestFormatPortfolio(t *testing.T) {
	rep := &portfolio.Report{
		Returns: []model.Point{
			{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
			{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
		},
		Cumulative: 0.026144,
		Metrics:    portfolio.Metrics{AnnualizedReturn: 0.125, AnnualizedVolatility: 0.2},
		Constituents: []portfolio.SymbolMetrics{
			{Symbol: "A", Weight: 0.6, Metrics: portfolio.Metrics{Sharpe: 1.234, SharpeDefined: true}},
		},
	}
	out := FormatPortfolio(rep)
	assert.Contains(t, out, "# Portfolio 2024-01-02 to 2024-01-03")
	assert.Contains(t, out, "Cumulative return: 2.61%")
	assert.Contains(t, out, "Sharpe ratio: undefined")
	assert.Contains(t, out, "| A | 60.00% | 0.00% | 0.00% | 1.23 |")
}

func TestFormatCorrelationAndEDA(t *testing.T) {
	out := FormatCorrelation(
		[]sentiment.Result{{Symbol: "TSLA", Lag: 1, Coefficient: -0.04321, Samples: 88}},
		map[string]error{"NVDA": model.ErrInsufficientOverlap},
	)
	assert.Contains(t, out, "| TSLA | 1 | -0.0432 | 88 |")
	assert.Contains(t, out, "- NVDA: insufficient overlap")

	rep := eda.Analyze([]model.NewsRecord{
		{Publisher: "a|b", Headline: "Stocks rally", Date: time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)},
	}, eda.Options{})
	out = FormatEDA(rep, 10)
	assert.Contains(t, out, "- Articles: 1 (undated 0)")
	assert.Contains(t, out, `| a\|b | 1 |`)
	assert.Contains(t, out, "| 09 | 1 |")
}

func TestPctNaN(t *testing.T) {
	assert.Equal(t, "n/a", pct(math.NaN()))
	assert.Equal(t, "n/a", num(math.Inf(1), 2))
}

func TestSplitMessage(t *testing.T) {
	text := strings.Repeat("line\n", 10)
	parts := splitMessage(text, 12)
	for _, p := range parts {
		assert.LessOrEqual(t, len(p), 12)
	}
	assert.Equal(t, strings.TrimSuffix(text, "\n"), strings.TrimSuffix(strings.Join(parts, "\n"), "\n"))
	assert.Equal(t, []string{"short"}, splitMessage("short", 12))
}

func TestTelegramNotifier_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "42", payload["chat_id"])
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "")
	n.APIBase = srv.URL
	n.MaxRetries = 1
	require.NoError(t, n.Send(context.Background(), "hello"))
	assert.Equal(t, int32(2), calls.Load())
}

func TestTelegramNotifier_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("T", "1", "")
	n.APIBase = srv.URL
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err := n.SendWithRetry(ctx, "x", 5)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}
