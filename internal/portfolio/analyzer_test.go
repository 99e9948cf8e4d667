package portfolio

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketLens/internal/model"
)

func day(n int) time.Time { return time.Date(2024, 3, n, 0, 0, 0, 0, time.UTC) }

func series(symbol string, vals ...float64) model.ReturnSeries {
	rs := model.ReturnSeries{Symbol: symbol}
	for i, v := range vals {
		rs.Points = append(rs.Points, model.Point{Date: day(i + 1), Value: v})
	}
	return rs
}

func mustPortfolio(t *testing.T, w map[string]float64) *model.Portfolio {
	t.Helper()
	p, err := model.NewPortfolio(w)
	require.NoError(t, err)
	return p
}

func TestAnalyze_WeightedReturn(t *testing.T) {
	p := mustPortfolio(t, map[string]float64{"A": 0.6, "B": 0.4})
	rets := map[string]model.ReturnSeries{
		"A": series("A", 0.02, 0.01),
		"B": series("B", -0.01, 0.03),
	}

	rep, err := Analyze(p, rets, Options{})
	require.NoError(t, err)
	require.Len(t, rep.Returns, 2)
	assert.InDelta(t, 0.008, rep.Returns[0].Value, 1e-12)
	assert.InDelta(t, 0.018, rep.Returns[1].Value, 1e-12)
	assert.InDelta(t, 1.008*1.018-1, rep.Cumulative, 1e-12)
	assert.InDelta(t, 1.008*1.018, rep.ValuePath[1].Value, 1e-12)
	assert.Equal(t, day(1), rep.Start())
	assert.Equal(t, day(2), rep.End())
}

func TestAnalyze_Metrics(t *testing.T) {
	p := mustPortfolio(t, map[string]float64{"A": 1})
	rets := map[string]model.ReturnSeries{"A": series("A", 0.01, 0.03)}

	rep, err := Analyze(p, rets, Options{RiskFreeRate: 0.02, TradingDays: 252})
	require.NoError(t, err)

	// mean 0.02, sample stdev sqrt(0.0002)
	wantRet := 0.02 * 252
	wantVol := math.Sqrt(0.0002) * math.Sqrt(252)
	assert.InDelta(t, wantRet, rep.AnnualizedReturn, 1e-9)
	assert.InDelta(t, wantVol, rep.AnnualizedVolatility, 1e-9)
	assert.True(t, rep.SharpeDefined)
	assert.InDelta(t, (wantRet-0.02)/wantVol, rep.Sharpe, 1e-9)

	require.Len(t, rep.Constituents, 1)
	assert.Equal(t, "A", rep.Constituents[0].Symbol)
	assert.InDelta(t, rep.Sharpe, rep.Constituents[0].Sharpe, 1e-12)
}

func TestAnalyze_ZeroVolatility(t *testing.T) {
	p := mustPortfolio(t, map[string]float64{"A": 1})
	rep, err := Analyze(p, map[string]model.ReturnSeries{"A": series("A", 0.01, 0.01, 0.01)}, Options{})
	require.NoError(t, err)
	assert.False(t, rep.SharpeDefined)
	assert.Zero(t, rep.AnnualizedVolatility)
}

func TestAnalyze_ExcludesPartialDates(t *testing.T) {
	p := mustPortfolio(t, map[string]float64{"A": 0.5, "B": 0.5})
	a := series("A", 0.01, 0.02, 0.03)
	b := model.ReturnSeries{Symbol: "B", Points: []model.Point{
		{Date: day(1), Value: 0.01},
		{Date: day(3), Value: 0.01},
		{Date: day(4), Value: 0.01},
	}}

	rep, err := Analyze(p, map[string]model.ReturnSeries{"A": a, "B": b}, Options{})
	require.NoError(t, err)
	require.Len(t, rep.Returns, 2)
	assert.Equal(t, day(1), rep.Returns[0].Date)
	assert.Equal(t, day(3), rep.Returns[1].Date)
	assert.Equal(t, 2, rep.ExcludedDates)
}

func TestAnalyze_Errors(t *testing.T) {
	ab := mustPortfolio(t, map[string]float64{"A": 0.5, "C": 0.5})
	tests := []struct {
		name    string
		p       *model.Portfolio
		returns map[string]model.ReturnSeries
		want    error
	}{
		{"nil portfolio", nil, nil, model.ErrEmptyPortfolio},
		{"missing symbol", ab, map[string]model.ReturnSeries{"A": series("A", 0.01, 0.02)}, model.ErrUnknownSymbol},
		{"single aligned date", ab, map[string]model.ReturnSeries{
			"A": series("A", 0.01, 0.02),
			"C": series("C", 0.01),
		}, model.ErrInsufficientData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Analyze(tt.p, tt.returns, Options{})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAnalyze_TimeOfDayDates(t *testing.T) {
	at16 := func(n int) time.Time { return day(n).Add(16 * time.Hour) }
	p := mustPortfolio(t, map[string]float64{"A": 0.5, "B": 0.5})
	rets := map[string]model.ReturnSeries{
		"A": {Symbol: "A", Points: []model.Point{{Date: at16(1), Value: 0.02}, {Date: at16(2), Value: 0.04}}},
		"B": {Symbol: "B", Points: []model.Point{{Date: at16(1), Value: 0.02}, {Date: at16(2), Value: 0.04}}},
	}

	rep, err := Analyze(p, rets, Options{})
	require.NoError(t, err)
	require.Len(t, rep.Returns, 2)
	assert.Equal(t, day(1), rep.Returns[0].Date)
	assert.InDelta(t, 0.02, rep.Returns[0].Value, 1e-12)
	assert.InDelta(t, 0.04, rep.Returns[1].Value, 1e-12)
	assert.InDelta(t, 1.02*1.04-1, rep.Cumulative, 1e-12)
}

func TestAnalyze_DuplicateDayRejected(t *testing.T) {
	p := mustPortfolio(t, map[string]float64{"A": 0.5, "B": 0.5})
	a := model.ReturnSeries{Symbol: "A", Points: []model.Point{
		{Date: day(1), Value: 0.02},
		{Date: day(1), Value: 0.03},
		{Date: day(2), Value: 0.01},
		{Date: day(3), Value: 0.01},
	}}
	b := model.ReturnSeries{Symbol: "B", Points: []model.Point{
		{Date: day(2), Value: 0.01},
		{Date: day(3), Value: 0.01},
	}}

	_, err := Analyze(p, map[string]model.ReturnSeries{"A": a, "B": b}, Options{})
	assert.ErrorIs(t, err, model.ErrInvalidSeries)
}

func TestAlignDates_CountsSymbolsNotPoints(t *testing.T) {
	holdings := []model.Holding{{Symbol: "A", Weight: 0.5}, {Symbol: "B", Weight: 0.5}}
	returns := map[string]model.ReturnSeries{
		"A": {Symbol: "A", Points: []model.Point{{Date: day(1)}, {Date: day(1).Add(time.Hour)}, {Date: day(2)}}},
		"B": {Symbol: "B", Points: []model.Point{{Date: day(2)}}},
	}

	dates, excluded := alignDates(holdings, returns)
	assert.Equal(t, []time.Time{day(2)}, dates)
	assert.Equal(t, 1, excluded)
}
