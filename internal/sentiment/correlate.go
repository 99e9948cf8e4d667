// Package sentiment relates news sentiment to stock returns.
package sentiment

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"MarketLens/internal/model"
)

// minOverlap is the smallest sample for which a correlation is defined.
const minOverlap = 2

// DailyScore is the mean sentiment of one symbol on one day.
type DailyScore struct {
	Date     time.Time
	Score    float64
	Articles int
}

// Options controls the join between sentiment and returns.
type Options struct {
	// Lag shifts the return by whole trading days: 0 pairs sentiment on day t
	// with the return of day t, 1 with the next trading day's return.
	Lag int
}

// Pair is one aligned observation.
type Pair struct {
	SentimentDate time.Time
	ReturnDate    time.Time
	Sentiment     float64
	Return        float64
}

// Result is the outcome of a correlation run.
type Result struct {
	Symbol      string
	Lag         int
	Coefficient float64
	Samples     int
	Pairs       []Pair
}

// AggregateDaily averages the scored records of symbol per calendar day.
// Records of other symbols and unscored records are ignored. An empty symbol
// keeps every record.
func AggregateDaily(news []model.NewsRecord, symbol string) []DailyScore {
	type acc struct {
		sum float64
		n   int
	}
	byDay := make(map[time.Time]*acc)
	for _, rec := range news {
		if symbol != "" && rec.Symbol != symbol {
			continue
		}
		if !rec.HasSentiment() || rec.Date.IsZero() {
			continue
		}
		day := model.Day(rec.Date)
		a, ok := byDay[day]
		if !ok {
			a = &acc{}
			byDay[day] = a
		}
		a.sum += *rec.Sentiment
		a.n++
	}

	out := make([]DailyScore, 0, len(byDay))
	for day, a := range byDay {
		out = append(out, DailyScore{Date: day, Score: a.sum / float64(a.n), Articles: a.n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Align joins daily scores with returns. Days that are not in the return
// series are dropped, as are days whose lagged return falls past its end.
func Align(daily []DailyScore, returns model.ReturnSeries, lag int) []Pair {
	pairs := make([]Pair, 0, len(daily))
	for _, d := range daily {
		i := returns.Index(d.Date)
		if i < 0 {
			continue
		}
		j := i + lag
		if j < 0 || j >= returns.Len() {
			continue
		}
		r := returns.Points[j]
		pairs = append(pairs, Pair{
			SentimentDate: d.Date,
			ReturnDate:    r.Date,
			Sentiment:     d.Score,
			Return:        r.Value,
		})
	}
	return pairs
}

// Correlate computes the Pearson correlation between daily mean sentiment
// and the (lagged) daily return of returns.Symbol.
func Correlate(news []model.NewsRecord, returns model.ReturnSeries, opts Options) (Result, error) {
	if opts.Lag < 0 {
		return Result{}, fmt.Errorf("lag must not be negative, got %d", opts.Lag)
	}
	returns, err := model.NewReturnSeries(returns.Symbol, returns.Points)
	if err != nil {
		return Result{}, err
	}
	daily := AggregateDaily(news, returns.Symbol)
	pairs := Align(daily, returns, opts.Lag)
	res := Result{Symbol: returns.Symbol, Lag: opts.Lag, Samples: len(pairs), Pairs: pairs}
	if len(pairs) < minOverlap {
		return res, fmt.Errorf("%w: %s has %d aligned days at lag %d, need %d",
			model.ErrInsufficientOverlap, returns.Symbol, len(pairs), opts.Lag, minOverlap)
	}

	xs := make([]float64, len(pairs))
	ys := make([]float64, len(pairs))
	for i, p := range pairs {
		xs[i], ys[i] = p.Sentiment, p.Return
	}
	coef, err := Pearson(xs, ys)
	if err != nil {
		return res, fmt.Errorf("%s at lag %d: %w", returns.Symbol, opts.Lag, err)
	}
	res.Coefficient = coef
	return res, nil
}

// CorrelateLags runs Correlate for every lag from 0 to maxLag. Lags without
// enough overlap are skipped; other errors abort.
func CorrelateLags(news []model.NewsRecord, returns model.ReturnSeries, maxLag int) ([]Result, error) {
	var results []Result
	for lag := 0; lag <= maxLag; lag++ {
		res, err := Correlate(news, returns, Options{Lag: lag})
		if err != nil {
			if isSkippable(err) {
				continue
			}
			return nil, err
		}
		results = append(results, res)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %s has no lag in 0..%d with a defined correlation",
			model.ErrInsufficientOverlap, returns.Symbol, maxLag)
	}
	return results, nil
}

func isSkippable(err error) bool {
	return errors.Is(err, model.ErrInsufficientOverlap) || errors.Is(err, model.ErrUndefinedStatistic)
}

// Pearson returns the sample correlation coefficient of xs and ys. The
// result is symmetric in its arguments and clamped to [-1, 1].
func Pearson(xs, ys []float64) (float64, error) {
	if len(xs) != len(ys) {
		return 0, fmt.Errorf("pearson: length mismatch %d != %d", len(xs), len(ys))
	}
	n := len(xs)
	if n < minOverlap {
		return 0, fmt.Errorf("%w: pearson needs %d samples, have %d", model.ErrInsufficientOverlap, minOverlap, n)
	}

	mx, my := mean(xs), mean(ys)
	var sxy, sxx, syy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0, fmt.Errorf("%w: correlation with zero variance", model.ErrUndefinedStatistic)
	}
	r := sxy / math.Sqrt(sxx*syy)
	return math.Max(-1, math.Min(1, r)), nil
}

func mean(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
