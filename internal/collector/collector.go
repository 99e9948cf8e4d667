package collector

import (
	"context"
	"fmt"
	"math"
	"time"

	"MarketLens/internal/calculator"
	"MarketLens/internal/logger"
	"MarketLens/internal/model"
)

// DefaultLookback is the number of daily bars requested per analysis.
const DefaultLookback = 400

// StaticFetcher serves fixed bars, or a synthetic series around Price.
type StaticFetcher struct {
	Price float64
	Bars  map[string][]model.OHLCV
}

func (m *StaticFetcher) Name() string { return "static" }

func (m *StaticFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if bars, ok := m.Bars[symbol]; ok {
		return lastN(bars, days), nil
	}
	if m.Price <= 0 {
		return nil, fmt.Errorf("%w: %s", model.ErrUnknownSymbol, symbol)
	}
	if days <= 0 {
		days = DefaultLookback
	}
	return generateBars(m.Price, days), nil
}

func generateBars(basePrice float64, count int) []model.OHLCV {
	start := model.Day(time.Now()).AddDate(0, 0, -count)
	bars := make([]model.OHLCV, count)
	for i := range bars {
		p := basePrice * (1 + 0.02*math.Sin(float64(i)/5) + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:     start.AddDate(0, 0, i),
			Open:     p * 0.999,
			High:     p * 1.005,
			Low:      p * 0.995,
			Close:    p,
			AdjClose: p,
			Volume:   1000000,
		}
	}
	return bars
}

// Analysis is everything computed for one symbol.
type Analysis struct {
	Series     model.PriceSeries
	Indicators *calculator.IndicatorSet
	Snapshot   *model.IndicatorSnapshot
}

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Fetcher  Fetcher
	Params   calculator.IndicatorParams
	Lookback int
}

// NewCollector creates a Collector with default indicator windows.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher, Params: calculator.DefaultParams(), Lookback: DefaultLookback}
}

// Series fetches and validates the price history of symbol.
func (c *Collector) Series(ctx context.Context, symbol string) (model.PriceSeries, error) {
	bars, err := c.Fetcher.FetchDailyBars(ctx, symbol, c.Lookback)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("fetch %s daily bars from %s: %w", symbol, c.Fetcher.Name(), err)
	}
	return model.NewPriceSeries(symbol, bars)
}

// Collect fetches symbol and computes its indicators and latest snapshot.
func (c *Collector) Collect(ctx context.Context, symbol string) (*Analysis, error) {
	op := logger.StartOperation(ctx, "collector.collect", "symbol", symbol, "source", c.Fetcher.Name())
	ps, err := c.Series(op.Context(), symbol)
	if err != nil {
		op.EndWithError(err)
		return nil, err
	}
	set, err := calculator.ComputeAll(ps, c.Params)
	if err != nil {
		op.EndWithError(err)
		return nil, err
	}
	snap, err := calculator.Snapshot(ps, set, c.Params)
	if err != nil {
		op.EndWithError(err)
		return nil, err
	}
	op.End()
	logger.Debug(ctx, "indicators computed", "symbol", symbol, "bars", ps.Len(), "rsi", snap.RSI)
	return &Analysis{Series: ps, Indicators: set, Snapshot: snap}, nil
}

// Returns fetches every symbol and returns its daily return series.
func (c *Collector) Returns(ctx context.Context, symbols []string) (map[string]model.ReturnSeries, error) {
	out := make(map[string]model.ReturnSeries, len(symbols))
	for _, sym := range symbols {
		ps, err := c.Series(ctx, sym)
		if err != nil {
			return nil, err
		}
		rs, err := calculator.DailyReturns(ps)
		if err != nil {
			return nil, err
		}
		out[sym] = rs
	}
	return out, nil
}
