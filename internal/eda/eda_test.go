package eda

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketLens/internal/model"
)

func rec(sym, pub, headline string, when time.Time) model.NewsRecord {
	return model.NewsRecord{Symbol: sym, Publisher: pub, Headline: headline, Date: when}
}

func TestAnalyze_Empty(t *testing.T) {
	rep := Analyze(nil, Options{})
	assert.Zero(t, rep.Total)
	assert.Empty(t, rep.ByPublisher)
	assert.Empty(t, rep.ByDate)
	assert.Empty(t, rep.TopKeywords)
	assert.Equal(t, LengthStats{}, rep.HeadlineLength)
}

func TestAnalyze_Counts(t *testing.T) {
	d1 := time.Date(2020, 6, 1, 10, 30, 0, 0, time.UTC)
	d2 := time.Date(2020, 6, 2, 14, 0, 0, 0, time.FixedZone("EDT", -4*3600))
	news := []model.NewsRecord{
		rec("AAPL", "Benzinga Newsdesk", "Apple stock hits record high", d1),
		rec("AAPL", "Lisa Levin", "Apple earnings beat estimates", d1),
		rec("TSLA", "Benzinga Newsdesk", "Tesla stock drops", d2),
		rec("TSLA", "jdoe@benzinga.com", "Tesla earnings preview", d2),
		rec("AAPL", "Lisa Levin", "Apple supplier news", time.Time{}),
	}

	rep := Analyze(news, Options{TopKeywords: 3})
	assert.Equal(t, 5, rep.Total)
	assert.Equal(t, 1, rep.UndatedArticles)

	require.Len(t, rep.ByPublisher, 3)
	assert.Equal(t, Count{Key: "Benzinga Newsdesk", Count: 2}, rep.ByPublisher[0])
	assert.Equal(t, Count{Key: "Lisa Levin", Count: 2}, rep.ByPublisher[1])

	require.Len(t, rep.ByDate, 2)
	assert.Equal(t, 2, rep.ByDate[0].Count)
	assert.Equal(t, time.Date(2020, 6, 2, 0, 0, 0, 0, time.UTC), rep.ByDate[1].Date)

	assert.Equal(t, 2, rep.ByHour[10])
	assert.Equal(t, 2, rep.ByHour[18])
	hour, n := rep.PeakHour()
	assert.Equal(t, 10, hour)
	assert.Equal(t, 2, n)

	assert.Equal(t, []Count{{"apple", 3}, {"earnings", 2}, {"stock", 2}}, rep.TopKeywords)
	assert.Equal(t, []Count{{"benzinga.com", 1}}, rep.PublisherDomains)
}

func TestAnalyze_SymbolFilter(t *testing.T) {
	news := []model.NewsRecord{
		rec("AAPL", "A", "one", time.Time{}),
		rec("TSLA", "B", "two", time.Time{}),
	}
	rep := Analyze(news, Options{Symbols: []string{"tsla"}})
	assert.Equal(t, 1, rep.Total)
	assert.Equal(t, "B", rep.ByPublisher[0].Key)
}

func TestDescribe(t *testing.T) {
	st := describe([]float64{1, 2, 3, 4})
	assert.Equal(t, 4, st.Count)
	assert.InDelta(t, 2.5, st.Mean, 1e-12)
	assert.InDelta(t, 1.2909944487, st.Std, 1e-9)
	assert.Equal(t, 1.0, st.Min)
	assert.InDelta(t, 1.75, st.Q25, 1e-12)
	assert.InDelta(t, 2.5, st.Q50, 1e-12)
	assert.InDelta(t, 3.25, st.Q75, 1e-12)
	assert.Equal(t, 4.0, st.Max)
}
