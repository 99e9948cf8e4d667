package sentiment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketLens/internal/model"
)

func day(n int) time.Time { return time.Date(2024, 6, n, 0, 0, 0, 0, time.UTC) }

func scored(symbol string, when time.Time, score float64) model.NewsRecord {
	return model.NewsRecord{Date: when, Symbol: symbol, Headline: "h", Sentiment: &score}
}

func returnsOf(symbol string, vals map[int]float64) model.ReturnSeries {
	rs := model.ReturnSeries{Symbol: symbol}
	for d := 1; d <= 30; d++ {
		if v, ok := vals[d]; ok {
			rs.Points = append(rs.Points, model.Point{Date: day(d), Value: v})
		}
	}
	return rs
}

func TestAggregateDaily_MeanPerDay(t *testing.T) {
	news := []model.NewsRecord{
		scored("AAPL", day(3).Add(9*time.Hour), 0.5),
		scored("AAPL", day(3).Add(15*time.Hour), -0.1),
		scored("AAPL", day(1), 1),
		scored("MSFT", day(1), -1),
		{Date: day(1), Symbol: "AAPL", Headline: "unscored"},
	}
	daily := AggregateDaily(news, "AAPL")
	require.Len(t, daily, 2)
	assert.Equal(t, day(1), daily[0].Date)
	assert.Equal(t, 1.0, daily[0].Score)
	assert.Equal(t, 1, daily[0].Articles)
	assert.InDelta(t, 0.2, daily[1].Score, 1e-12)
	assert.Equal(t, 2, daily[1].Articles)
}

func TestCorrelate_PerfectSameDay(t *testing.T) {
	news := []model.NewsRecord{
		scored("AAPL", day(1), 0.1),
		scored("AAPL", day(2), 0.2),
		scored("AAPL", day(3), 0.3),
	}
	rets := returnsOf("AAPL", map[int]float64{1: 0.01, 2: 0.02, 3: 0.03})

	res, err := Correlate(news, rets, Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Samples)
	assert.InDelta(t, 1.0, res.Coefficient, 1e-12)
}

func TestCorrelate_NextDayLag(t *testing.T) {
	news := []model.NewsRecord{
		scored("AAPL", day(1), 1),
		scored("AAPL", day(2), -1),
		scored("AAPL", day(4), 1),
	}
	// Day 3 is not a trading day in this series, so day 2's next trading day is day 4.
	rets := returnsOf("AAPL", map[int]float64{1: 0, 2: 0.05, 4: -0.05, 5: 0.05})

	res, err := Correlate(news, rets, Options{Lag: 1})
	require.NoError(t, err)
	require.Equal(t, 3, res.Samples)
	assert.Equal(t, day(4), res.Pairs[1].ReturnDate)
	assert.Equal(t, day(5), res.Pairs[2].ReturnDate)
	assert.InDelta(t, 1.0, res.Coefficient, 1e-12)
}

func TestCorrelate_InsufficientOverlap(t *testing.T) {
	news := []model.NewsRecord{scored("AAPL", day(1), 0.5), scored("AAPL", day(9), 0.1)}
	rets := returnsOf("AAPL", map[int]float64{1: 0.01, 2: 0.02})

	res, err := Correlate(news, rets, Options{})
	assert.ErrorIs(t, err, model.ErrInsufficientOverlap)
	assert.Equal(t, 1, res.Samples)

	_, err = Correlate(nil, rets, Options{})
	assert.ErrorIs(t, err, model.ErrInsufficientOverlap)
}

func TestCorrelate_ZeroVariance(t *testing.T) {
	news := []model.NewsRecord{scored("AAPL", day(1), 0.5), scored("AAPL", day(2), 0.5)}
	rets := returnsOf("AAPL", map[int]float64{1: 0.01, 2: 0.02})

	_, err := Correlate(news, rets, Options{})
	assert.ErrorIs(t, err, model.ErrUndefinedStatistic)
}

func TestPearson_Symmetric(t *testing.T) {
	xs := []float64{0.3, -0.2, 0.05, 0.9, -0.4, 0.11}
	ys := []float64{0.012, -0.03, 0.004, 0.02, -0.001, 0.007}

	a, err := Pearson(xs, ys)
	require.NoError(t, err)
	b, err := Pearson(ys, xs)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.GreaterOrEqual(t, a, -1.0)
	assert.LessOrEqual(t, a, 1.0)

	inv := make([]float64, len(ys))
	for i, y := range ys {
		inv[i] = -2 * y
	}
	c, err := Pearson(xs, inv)
	require.NoError(t, err)
	assert.InDelta(t, -a, c, 1e-12)
}

func TestCorrelateLags(t *testing.T) {
	news := []model.NewsRecord{
		scored("AAPL", day(1), 0.1),
		scored("AAPL", day(2), 0.4),
		scored("AAPL", day(3), -0.2),
	}
	rets := returnsOf("AAPL", map[int]float64{1: 0.01, 2: 0.03, 3: -0.01, 4: 0.02})

	results, err := CorrelateLags(news, rets, 5)
	require.NoError(t, err)
	// Lags 0, 1 and 2 keep at least two pairs; larger lags run off the series.
	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, i, r.Lag)
	}
}

func TestLexiconScorer(t *testing.T) {
	s := NewLexiconScorer()
	assert.Equal(t, 1.0, s.Score("Apple shares surge after earnings beat"))
	assert.Equal(t, -1.0, s.Score("Stocks plunge on weak guidance"))
	assert.Equal(t, 0.0, s.Score("Company schedules conference call"))
	assert.Equal(t, -1.0, s.Score("Results not strong this quarter"))
	assert.Equal(t, 0.0, s.Score("Gains offset by losses"))
}

func TestScoreMissing(t *testing.T) {
	fixed := 0.25
	news := []model.NewsRecord{
		{Headline: "Shares rally", Sentiment: &fixed},
		{Headline: "Shares slump"},
	}
	out := ScoreMissing(news, NewLexiconScorer())
	require.Len(t, out, 2)
	assert.Equal(t, 0.25, *out[0].Sentiment)
	assert.Equal(t, -1.0, *out[1].Sentiment)
	assert.Nil(t, news[1].Sentiment, "input is not modified")
}

func TestCorrelate_TimeOfDayReturns(t *testing.T) {
	at16 := func(n int) time.Time { return day(n).Add(16 * time.Hour) }
	news := []model.NewsRecord{
		scored("AAPL", at16(1), 0.1),
		scored("AAPL", at16(2), 0.2),
		scored("AAPL", at16(3), 0.3),
	}
	rets := model.ReturnSeries{Symbol: "AAPL", Points: []model.Point{
		{Date: at16(1), Value: 0.01},
		{Date: at16(2), Value: 0.02},
		{Date: at16(3), Value: 0.03},
	}}

	res, err := Correlate(news, rets, Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Samples)
	assert.Equal(t, day(2), res.Pairs[1].ReturnDate)
	assert.InDelta(t, 1.0, res.Coefficient, 1e-12)
}

func TestCorrelate_DuplicateReturnDay(t *testing.T) {
	rets := model.ReturnSeries{Symbol: "AAPL", Points: []model.Point{
		{Date: day(1), Value: 0.01},
		{Date: day(1).Add(time.Hour), Value: 0.02},
	}}
	_, err := Correlate(nil, rets, Options{})
	assert.ErrorIs(t, err, model.ErrInvalidSeries)
}
