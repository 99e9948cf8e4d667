package notifier

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"MarketLens/internal/calculator"
	"MarketLens/internal/eda"
	"MarketLens/internal/model"
	"MarketLens/internal/portfolio"
	"MarketLens/internal/sentiment"
)

var hundred = decimal.NewFromInt(100)

// pct renders a fraction as a percentage rounded half away from zero.
func pct(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return "n/a"
	}
	return decimal.NewFromFloat(x).Mul(hundred).StringFixed(2) + "%"
}

func num(x float64, places int32) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return "n/a"
	}
	return decimal.NewFromFloat(x).StringFixed(places)
}

// IndicatorRow pairs a snapshot with its classification.
type IndicatorRow struct {
	Snapshot *model.IndicatorSnapshot
	Signal   *model.IndicatorSignal
}

// FormatIndicatorReport renders the watchlist table and notes on notable symbols.
func FormatIndicatorReport(rows []IndicatorRow, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# MarketLens indicators | %s\n\n", now.Format(time.DateOnly))
	if len(rows) == 0 {
		b.WriteString("_No symbols analysed._\n")
		return b.String()
	}
	b.WriteString("| Symbol | As of | Close | Day | SMA | RSI | MACD | Hist | Zone | Cross | Trend |\n")
	b.WriteString("|---|---|---:|---:|---:|---:|---:|---:|---|---|---|\n")
	for _, r := range rows {
		s, sig := r.Snapshot, r.Signal
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			s.Symbol, s.AsOf.Format(time.DateOnly), num(s.CurrentPrice, 2), pct(s.DailyReturn),
			num(s.SMA, 2), num(s.RSI, 1), num(s.MACD, 3), num(s.MACDHistogram, 3),
			sig.Zone, sig.Crossover, sig.Trend)
	}

	var notes strings.Builder
	for _, r := range rows {
		if r.Signal.Zone == model.ZoneNeutral && r.Signal.Crossover == model.CrossNone {
			continue
		}
		fmt.Fprintf(&notes, "- **%s**: %s\n", r.Snapshot.Symbol, strings.Join(r.Signal.Commentary, "; "))
	}
	if notes.Len() > 0 {
		b.WriteString("\n## Alerts\n\n")
		b.WriteString(notes.String())
	}
	return b.String()
}

// FormatIndicatorHistory renders the last n bars of ps with their indicator values.
func FormatIndicatorHistory(ps model.PriceSeries, set *calculator.IndicatorSet, n int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s: last %d sessions\n\n", ps.Symbol, min(n, ps.Len()))
	b.WriteString("| Date | Close | Return | SMA | RSI | MACD | Signal | Hist |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|---:|---:|\n")
	start := max(ps.Len()-n, 0)
	cell := func(s model.IndicatorSeries, day time.Time, places int32) string {
		if v, ok := s.At(day); ok {
			return num(v, places)
		}
		return "-"
	}
	for _, bar := range ps.Bars[start:] {
		ret := "-"
		if v, ok := set.Returns.At(bar.Time); ok {
			ret = pct(v)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			bar.Time.Format(time.DateOnly), num(bar.Close, 2), ret,
			cell(set.SMA, bar.Time, 2), cell(set.RSI, bar.Time, 1),
			cell(set.MACD.Line, bar.Time, 3), cell(set.MACD.Signal, bar.Time, 3), cell(set.MACD.Histogram, bar.Time, 3))
	}
	return b.String()
}

// FormatCorrelation renders sentiment/return correlations.
func FormatCorrelation(results []sentiment.Result, skipped map[string]error) string {
	var b strings.Builder
	b.WriteString("# Sentiment vs. daily return\n\n")
	if len(results) > 0 {
		b.WriteString("| Symbol | Lag | Pearson r | Days |\n|---|---:|---:|---:|\n")
		for _, r := range results {
			fmt.Fprintf(&b, "| %s | %d | %s | %d |\n", r.Symbol, r.Lag, num(r.Coefficient, 4), r.Samples)
		}
	}
	if len(skipped) > 0 {
		b.WriteString("\n## Not computed\n\n")
		for _, sym := range slices.Sorted(maps.Keys(skipped)) {
			fmt.Fprintf(&b, "- %s: %v\n", sym, skipped[sym])
		}
	}
	return b.String()
}

// FormatPortfolio renders a portfolio report.
func FormatPortfolio(rep *portfolio.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Portfolio %s to %s\n\n", rep.Start().Format(time.DateOnly), rep.End().Format(time.DateOnly))
	fmt.Fprintf(&b, "- Trading days: %d (excluded %d)\n", len(rep.Returns), rep.ExcludedDates)
	fmt.Fprintf(&b, "- Cumulative return: %s\n", pct(rep.Cumulative))
	fmt.Fprintf(&b, "- Annualized return: %s\n", pct(rep.AnnualizedReturn))
	fmt.Fprintf(&b, "- Annualized volatility: %s\n", pct(rep.AnnualizedVolatility))
	fmt.Fprintf(&b, "- Sharpe ratio: %s\n", sharpe(rep.Metrics))

	b.WriteString("\n| Symbol | Weight | Ann. return | Ann. vol | Sharpe |\n|---|---:|---:|---:|---:|\n")
	for _, c := range rep.Constituents {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			c.Symbol, pct(c.Weight), pct(c.AnnualizedReturn), pct(c.AnnualizedVolatility), sharpe(c.Metrics))
	}
	return b.String()
}

func sharpe(m portfolio.Metrics) string {
	if !m.SharpeDefined {
		return "undefined (zero volatility)"
	}
	return num(m.Sharpe, 2)
}

// FormatEDA renders a news dataset summary.
func FormatEDA(rep eda.Report, topPublishers int) string {
	var b strings.Builder
	b.WriteString("# News dataset overview\n\n")
	fmt.Fprintf(&b, "- Articles: %d (undated %d)\n", rep.Total, rep.UndatedArticles)
	fmt.Fprintf(&b, "- Publishers: %d\n", len(rep.ByPublisher))
	if len(rep.ByDate) > 0 {
		first, last := rep.ByDate[0], rep.ByDate[len(rep.ByDate)-1]
		fmt.Fprintf(&b, "- Date range: %s to %s over %d days\n",
			first.Date.Format(time.DateOnly), last.Date.Format(time.DateOnly), len(rep.ByDate))
		busiest := rep.ByDate[0]
		for _, d := range rep.ByDate {
			if d.Count > busiest.Count {
				busiest = d
			}
		}
		fmt.Fprintf(&b, "- Busiest day: %s (%d articles)\n", busiest.Date.Format(time.DateOnly), busiest.Count)
	}
	if hour, n := rep.PeakHour(); n > 0 {
		fmt.Fprintf(&b, "- Peak hour (UTC): %02d:00 (%d articles)\n", hour, n)
	}

	hl := rep.HeadlineLength
	b.WriteString("\n## Headline length\n\n| count | mean | std | min | 25% | 50% | 75% | max |\n|---:|---:|---:|---:|---:|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s | %s |\n", hl.Count,
		num(hl.Mean, 2), num(hl.Std, 2), num(hl.Min, 0), num(hl.Q25, 2), num(hl.Q50, 2), num(hl.Q75, 2), num(hl.Max, 0))

	writeCounts(&b, "Top publishers", "Publisher", rep.ByPublisher, topPublishers)
	writeCounts(&b, "Top keywords", "Keyword", rep.TopKeywords, 0)
	writeCounts(&b, "Publisher e-mail domains", "Domain", rep.PublisherDomains, topPublishers)

	b.WriteString("\n## Articles by hour (UTC)\n\n| Hour | Articles |\n|---:|---:|\n")
	for h, n := range rep.ByHour {
		if n > 0 {
			fmt.Fprintf(&b, "| %02d | %d |\n", h, n)
		}
	}
	return b.String()
}

func writeCounts(b *strings.Builder, title, label string, counts []eda.Count, limit int) {
	if len(counts) == 0 {
		return
	}
	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	fmt.Fprintf(b, "\n## %s\n\n| %s | Articles |\n|---|---:|\n", title, label)
	for _, c := range counts {
		fmt.Fprintf(b, "| %s | %d |\n", escapeCell(c.Key), c.Count)
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
