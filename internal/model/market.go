package model

import (
	"fmt"
	"math"
	"time"
)

// OHLCV represents a single daily candlestick bar.
type OHLCV struct {
	Time     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   float64
}

// PriceSeries holds the bars of one symbol in strictly increasing date order.
// Build it with NewPriceSeries; the bars must not be modified afterwards.
type PriceSeries struct {
	Symbol string
	Bars   []OHLCV
}

// Day truncates t to its calendar day at UTC midnight. All date keys in this
// module go through Day so that map lookups and comparisons agree.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewPriceSeries validates bars and returns an immutable series. Bar times
// are normalised with Day.
func NewPriceSeries(symbol string, bars []OHLCV) (PriceSeries, error) {
	if len(bars) == 0 {
		return PriceSeries{}, fmt.Errorf("%w: %s has no bars", ErrInvalidSeries, symbol)
	}
	out := make([]OHLCV, len(bars))
	for i, b := range bars {
		b.Time = Day(b.Time)
		if math.IsNaN(b.Close) || math.IsInf(b.Close, 0) || b.Close <= 0 {
			return PriceSeries{}, fmt.Errorf("%w: %s close %v on %s", ErrInvalidSeries, symbol, b.Close, b.Time.Format(time.DateOnly))
		}
		if i > 0 && !b.Time.After(out[i-1].Time) {
			return PriceSeries{}, fmt.Errorf("%w: %s dates not strictly increasing at %s", ErrInvalidSeries, symbol, b.Time.Format(time.DateOnly))
		}
		out[i] = b
	}
	return PriceSeries{Symbol: symbol, Bars: out}, nil
}

// Len returns the number of bars.
func (p PriceSeries) Len() int { return len(p.Bars) }

// Closes returns a copy of the close prices.
func (p PriceSeries) Closes() []float64 {
	closes := make([]float64, len(p.Bars))
	for i, b := range p.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Dates returns the bar dates.
func (p PriceSeries) Dates() []time.Time {
	dates := make([]time.Time, len(p.Bars))
	for i, b := range p.Bars {
		dates[i] = b.Time
	}
	return dates
}

// Last returns the most recent bar.
func (p PriceSeries) Last() OHLCV {
	return p.Bars[len(p.Bars)-1]
}
