package model

import (
	"fmt"
	"math"
	"slices"
	"time"
)

// Point is one dated value of a derived series.
type Point struct {
	Date  time.Time
	Value float64
}

// points is the shared date-ordered storage behind the derived series.
type points []Point

func (ps points) at(day time.Time) (float64, bool) {
	day = Day(day)
	i, found := slices.BinarySearchFunc(ps, day, func(p Point, t time.Time) int {
		return Day(p.Date).Compare(t)
	})
	if !found {
		return 0, false
	}
	return ps[i].Value, true
}

func (ps points) latest() (Point, bool) {
	if len(ps) == 0 {
		return Point{}, false
	}
	return ps[len(ps)-1], true
}

// IndicatorSeries holds a computed indicator. Dates without enough history
// are absent rather than zero.
type IndicatorSeries struct {
	Name   string
	Symbol string
	Points []Point
}

// At returns the value on day, if defined.
func (s IndicatorSeries) At(day time.Time) (float64, bool) { return points(s.Points).at(day) }

// Latest returns the most recent defined point.
func (s IndicatorSeries) Latest() (Point, bool) { return points(s.Points).latest() }

// Len returns the number of defined points.
func (s IndicatorSeries) Len() int { return len(s.Points) }

// MACDSeries groups the three MACD outputs.
type MACDSeries struct {
	Line      IndicatorSeries
	Signal    IndicatorSeries
	Histogram IndicatorSeries
}

// ReturnSeries maps dates to fractional daily returns.
type ReturnSeries struct {
	Symbol string
	Points []Point
}

// NewReturnSeries normalises point dates with Day and sorts them. Two points
// on the same day and non-finite values are rejected.
func NewReturnSeries(symbol string, pts []Point) (ReturnSeries, error) {
	out := make([]Point, len(pts))
	for i, p := range pts {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			return ReturnSeries{}, fmt.Errorf("%w: %s return %v on %s", ErrInvalidSeries, symbol, p.Value, p.Date.Format(time.DateOnly))
		}
		out[i] = Point{Date: Day(p.Date), Value: p.Value}
	}
	slices.SortStableFunc(out, func(a, b Point) int { return a.Date.Compare(b.Date) })
	for i := 1; i < len(out); i++ {
		if out[i].Date.Equal(out[i-1].Date) {
			return ReturnSeries{}, fmt.Errorf("%w: %s has two returns on %s", ErrInvalidSeries, symbol, out[i].Date.Format(time.DateOnly))
		}
	}
	return ReturnSeries{Symbol: symbol, Points: out}, nil
}

// At returns the return on day, if present.
func (s ReturnSeries) At(day time.Time) (float64, bool) { return points(s.Points).at(day) }

// Latest returns the most recent return.
func (s ReturnSeries) Latest() (Point, bool) { return points(s.Points).latest() }

// Len returns the number of returns.
func (s ReturnSeries) Len() int { return len(s.Points) }

// Values returns the returns without dates.
func (s ReturnSeries) Values() []float64 {
	vals := make([]float64, len(s.Points))
	for i, p := range s.Points {
		vals[i] = p.Value
	}
	return vals
}

// Index returns the position of day in the series or -1.
func (s ReturnSeries) Index(day time.Time) int {
	day = Day(day)
	i, found := slices.BinarySearchFunc(s.Points, day, func(p Point, t time.Time) int {
		return Day(p.Date).Compare(t)
	})
	if !found {
		return -1
	}
	return i
}
