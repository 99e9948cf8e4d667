// Package eda summarises a news dataset: who publishes, when, about what.
package eda

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"MarketLens/internal/model"
	"MarketLens/internal/text"
)

// DefaultTopKeywords is used when Options.TopKeywords is zero.
const DefaultTopKeywords = 20

var emailDomain = regexp.MustCompile(`@([A-Za-z0-9.-]+\.[A-Za-z]{2,})`)

// Options narrows the analysis.
type Options struct {
	// Symbols keeps only records for these tickers. Empty keeps all.
	Symbols     []string
	TopKeywords int
}

// Count is a labelled frequency.
type Count struct {
	Key   string
	Count int
}

// DayCount is the number of articles on one day.
type DayCount struct {
	Date  time.Time
	Count int
}

// LengthStats describes headline lengths in characters.
type LengthStats struct {
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

// Report is the outcome of Analyze.
type Report struct {
	Total            int
	UndatedArticles  int
	ByPublisher      []Count
	ByDate           []DayCount
	ByHour           [24]int
	TopKeywords      []Count
	HeadlineLength   LengthStats
	PublisherDomains []Count
}

// Analyze builds a Report over news.
func Analyze(news []model.NewsRecord, opts Options) Report {
	topN := opts.TopKeywords
	if topN <= 0 {
		topN = DefaultTopKeywords
	}
	keep := symbolFilter(opts.Symbols)

	var rep Report
	publishers := make(map[string]int)
	domains := make(map[string]int)
	days := make(map[time.Time]int)
	words := make(map[string]int)
	var lengths []float64

	for _, rec := range news {
		if !keep(rec.Symbol) {
			continue
		}
		rep.Total++
		publishers[rec.Publisher]++
		if m := emailDomain.FindStringSubmatch(rec.Publisher); m != nil {
			domains[strings.ToLower(m[1])]++
		}
		if rec.Date.IsZero() {
			rep.UndatedArticles++
		} else {
			utc := rec.Date.UTC()
			days[model.Day(utc)]++
			rep.ByHour[utc.Hour()]++
		}
		lengths = append(lengths, float64(utf8.RuneCountInString(rec.Headline)))
		for _, tok := range text.Tokenize(rec.Headline) {
			if !text.IsStopword(tok) {
				words[tok]++
			}
		}
	}

	rep.ByPublisher = ranked(publishers, 0)
	rep.PublisherDomains = ranked(domains, 0)
	rep.TopKeywords = ranked(words, topN)
	rep.HeadlineLength = describe(lengths)

	rep.ByDate = make([]DayCount, 0, len(days))
	for d, n := range days {
		rep.ByDate = append(rep.ByDate, DayCount{Date: d, Count: n})
	}
	sort.Slice(rep.ByDate, func(i, j int) bool { return rep.ByDate[i].Date.Before(rep.ByDate[j].Date) })
	return rep
}

// PeakHour returns the hour with the most articles.
func (r Report) PeakHour() (hour, count int) {
	for h, n := range r.ByHour {
		if n > count {
			hour, count = h, n
		}
	}
	return hour, count
}

func symbolFilter(symbols []string) func(string) bool {
	if len(symbols) == 0 {
		return func(string) bool { return true }
	}
	set := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		set[strings.ToUpper(s)] = struct{}{}
	}
	return func(sym string) bool {
		_, ok := set[strings.ToUpper(sym)]
		return ok
	}
}

// ranked orders counts by frequency then key. limit <= 0 keeps all.
func ranked(counts map[string]int, limit int) []Count {
	out := make([]Count, 0, len(counts))
	for k, n := range counts {
		out = append(out, Count{Key: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func describe(vals []float64) LengthStats {
	n := len(vals)
	if n == 0 {
		return LengthStats{}
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(n)
	st := LengthStats{
		Count: n,
		Mean:  mean,
		Min:   sorted[0],
		Q25:   quantile(sorted, 0.25),
		Q50:   quantile(sorted, 0.5),
		Q75:   quantile(sorted, 0.75),
		Max:   sorted[n-1],
	}
	if n > 1 {
		ss := 0.0
		for _, v := range sorted {
			ss += (v - mean) * (v - mean)
		}
		st.Std = math.Sqrt(ss / float64(n-1))
	}
	return st
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
