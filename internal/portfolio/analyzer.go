// Package portfolio computes weighted portfolio returns and risk figures.
package portfolio

import (
	"fmt"
	"math"
	"slices"
	"time"

	"MarketLens/internal/model"
)

// DefaultTradingDays is the annualisation factor for daily data.
const DefaultTradingDays = 252

// Options tunes annualisation.
type Options struct {
	RiskFreeRate float64
	TradingDays  int
}

func (o Options) tradingDays() float64 {
	if o.TradingDays <= 0 {
		return DefaultTradingDays
	}
	return float64(o.TradingDays)
}

// Metrics are the annualised figures of one return stream.
type Metrics struct {
	AnnualizedReturn     float64
	AnnualizedVolatility float64
	Sharpe               float64
	// SharpeDefined is false when the volatility is zero.
	SharpeDefined bool
}

// SymbolMetrics are the metrics of one constituent over the aligned dates.
type SymbolMetrics struct {
	Symbol string
	Weight float64
	Metrics
}

// Report is the result of Analyze.
type Report struct {
	Returns    []model.Point
	ValuePath  []model.Point
	Cumulative float64
	Metrics
	// ExcludedDates counts dates where at least one constituent had no return.
	ExcludedDates int
	Constituents  []SymbolMetrics
}

// Start returns the first aligned date.
func (r *Report) Start() time.Time {
	if r == nil || len(r.Returns) == 0 {
		return time.Time{}
	}
	return r.Returns[0].Date
}

// End returns the last aligned date.
func (r *Report) End() time.Time {
	if r == nil || len(r.Returns) == 0 {
		return time.Time{}
	}
	return r.Returns[len(r.Returns)-1].Date
}

// Analyze combines the constituent returns of p by weight.
func Analyze(p *model.Portfolio, returns map[string]model.ReturnSeries, opts Options) (*Report, error) {
	if p.Len() == 0 {
		return nil, model.ErrEmptyPortfolio
	}
	holdings := p.Holdings()
	series := make(map[string]model.ReturnSeries, len(holdings))
	for _, h := range holdings {
		rs, ok := returns[h.Symbol]
		if !ok {
			return nil, fmt.Errorf("%w: %s", model.ErrUnknownSymbol, h.Symbol)
		}
		norm, err := model.NewReturnSeries(h.Symbol, rs.Points)
		if err != nil {
			return nil, err
		}
		series[h.Symbol] = norm
	}
	returns = series

	dates, excluded := alignDates(holdings, returns)
	if len(dates) < 2 {
		return nil, fmt.Errorf("%w: portfolio has %d aligned dates, need 2", model.ErrInsufficientData, len(dates))
	}

	perSymbol := make([][]float64, len(holdings))
	for i := range perSymbol {
		perSymbol[i] = make([]float64, len(dates))
	}
	rep := &Report{
		Returns:       make([]model.Point, len(dates)),
		ValuePath:     make([]model.Point, len(dates)),
		ExcludedDates: excluded,
	}
	daily := make([]float64, len(dates))
	value := 1.0
	for t, day := range dates {
		sum := 0.0
		for i, h := range holdings {
			r, ok := returns[h.Symbol].At(day)
			if !ok {
				return nil, fmt.Errorf("%w: %s has no return on %s", model.ErrInsufficientData, h.Symbol, day.Format(time.DateOnly))
			}
			perSymbol[i][t] = r
			sum += h.Weight * r
		}
		daily[t] = sum
		value *= 1 + sum
		rep.Returns[t] = model.Point{Date: day, Value: sum}
		rep.ValuePath[t] = model.Point{Date: day, Value: value}
	}
	rep.Cumulative = value - 1
	rep.Metrics = metricsOf(daily, opts)

	rep.Constituents = make([]SymbolMetrics, len(holdings))
	for i, h := range holdings {
		rep.Constituents[i] = SymbolMetrics{Symbol: h.Symbol, Weight: h.Weight, Metrics: metricsOf(perSymbol[i], opts)}
	}
	return rep, nil
}

// alignDates returns the dates on which every holding has a return, in
// order, and the number of dates present for some but not all holdings.
func alignDates(holdings []model.Holding, returns map[string]model.ReturnSeries) ([]time.Time, int) {
	seen := make(map[time.Time]map[string]struct{})
	var order []time.Time
	for _, h := range holdings {
		for _, pt := range returns[h.Symbol].Points {
			day := model.Day(pt.Date)
			syms, ok := seen[day]
			if !ok {
				syms = make(map[string]struct{}, len(holdings))
				seen[day] = syms
				order = append(order, day)
			}
			syms[h.Symbol] = struct{}{}
		}
	}
	var dates []time.Time
	excluded := 0
	for _, day := range order {
		if len(seen[day]) == len(holdings) {
			dates = append(dates, day)
		} else {
			excluded++
		}
	}
	slices.SortFunc(dates, time.Time.Compare)
	return dates, excluded
}

func metricsOf(daily []float64, opts Options) Metrics {
	n := opts.tradingDays()
	m := Metrics{
		AnnualizedReturn:     mean(daily) * n,
		AnnualizedVolatility: stdev(daily) * math.Sqrt(n),
	}
	if m.AnnualizedVolatility > 0 {
		m.Sharpe = (m.AnnualizedReturn - opts.RiskFreeRate) / m.AnnualizedVolatility
		m.SharpeDefined = true
	}
	return m
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// stdev is the sample standard deviation.
func stdev(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	mu := mean(vals)
	ss := 0.0
	for _, v := range vals {
		ss += (v - mu) * (v - mu)
	}
	return math.Sqrt(ss / float64(len(vals)-1))
}
