package calculator

import (
	"errors"
	"fmt"

	"MarketLens/internal/model"
)

// DefaultRSIWindow is the period Wilder used.
const DefaultRSIWindow = 14

// CalculateRSI returns the latest Wilder-smoothed RSI of prices.
// Requires at least period+1 prices.
func CalculateRSI(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period+1 {
		return 0, fmt.Errorf("%w: RSI(%d) needs %d prices, have %d", model.ErrInsufficientData, period, period+1, len(prices))
	}
	vals := rsiValues(prices, period)
	return vals[len(vals)-1], nil
}

// RSISeries computes RSI(window) for every bar from index window on.
func RSISeries(ps model.PriceSeries, window int) (model.IndicatorSeries, error) {
	if window <= 0 {
		return model.IndicatorSeries{}, errors.New("rsi window must be positive")
	}
	if err := requireBars(ps, fmt.Sprintf("RSI(%d)", window), window+1); err != nil {
		return model.IndicatorSeries{}, err
	}
	vals := rsiValues(ps.Closes(), window)
	return toSeries(ps, fmt.Sprintf("RSI_%d", window), window, vals), nil
}

// rsiValues seeds the average gain and loss with the simple mean of the first
// period changes, then applies Wilder smoothing. Element k belongs to
// closes[period+k].
func rsiValues(closes []float64, period int) []float64 {
	out := make([]float64, 0, len(closes)-period)

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		gain, loss := split(closes[i] - closes[i-1])
		avgGain += gain
		avgLoss += loss
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out = append(out, rsi(avgGain, avgLoss))

	p := float64(period)
	for i := period + 1; i < len(closes); i++ {
		gain, loss := split(closes[i] - closes[i-1])
		avgGain = (avgGain*(p-1) + gain) / p
		avgLoss = (avgLoss*(p-1) + loss) / p
		out = append(out, rsi(avgGain, avgLoss))
	}
	return out
}

func split(change float64) (gain, loss float64) {
	if change > 0 {
		return change, 0
	}
	return 0, -change
}

func rsi(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
