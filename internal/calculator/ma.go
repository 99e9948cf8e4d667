package calculator

import (
	"errors"
	"fmt"

	"MarketLens/internal/model"
)

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, fmt.Errorf("%w: SMA(%d) needs %d prices, have %d", model.ErrInsufficientData, period, period, len(prices))
	}
	return windowMean(prices[len(prices)-period:]), nil
}

// SMASeries computes SMA(window) of the close price for every bar that has
// window bars of history, the current bar included.
func SMASeries(ps model.PriceSeries, window int) (model.IndicatorSeries, error) {
	if window <= 0 {
		return model.IndicatorSeries{}, errors.New("sma window must be positive")
	}
	if err := requireBars(ps, fmt.Sprintf("SMA(%d)", window), window); err != nil {
		return model.IndicatorSeries{}, err
	}
	vals := smaValues(ps.Closes(), window)
	return toSeries(ps, fmt.Sprintf("SMA_%d", window), window-1, vals), nil
}

// smaValues returns one mean per full window; element k covers vals[k:k+window].
func smaValues(vals []float64, window int) []float64 {
	out := make([]float64, 0, len(vals)-window+1)
	for end := window; end <= len(vals); end++ {
		out = append(out, windowMean(vals[end-window:end]))
	}
	return out
}

func windowMean(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// requireBars fails with ErrInsufficientData when ps is shorter than need.
func requireBars(ps model.PriceSeries, indicator string, need int) error {
	if ps.Len() < need {
		return fmt.Errorf("%w: %s on %s needs %d bars, have %d", model.ErrInsufficientData, indicator, ps.Symbol, need, ps.Len())
	}
	return nil
}

// toSeries dates vals starting at bar index offset.
func toSeries(ps model.PriceSeries, name string, offset int, vals []float64) model.IndicatorSeries {
	pts := make([]model.Point, len(vals))
	for i, v := range vals {
		pts[i] = model.Point{Date: ps.Bars[offset+i].Time, Value: v}
	}
	return model.IndicatorSeries{Name: name, Symbol: ps.Symbol, Points: pts}
}
