package calculator

import (
	"errors"
	"fmt"

	"MarketLens/internal/model"
)

// Standard MACD periods.
const (
	DefaultMACDFast   = 12
	DefaultMACDSlow   = 26
	DefaultMACDSignal = 9
)

// EMASeries computes EMA(period) of the close price, seeded with the SMA of
// the first period closes.
func EMASeries(ps model.PriceSeries, period int) (model.IndicatorSeries, error) {
	if period <= 0 {
		return model.IndicatorSeries{}, errors.New("ema period must be positive")
	}
	if err := requireBars(ps, fmt.Sprintf("EMA(%d)", period), period); err != nil {
		return model.IndicatorSeries{}, err
	}
	vals := emaValues(ps.Closes(), period)
	return toSeries(ps, fmt.Sprintf("EMA_%d", period), period-1, vals), nil
}

// emaValues returns one EMA per input from index period-1 on.
func emaValues(vals []float64, period int) []float64 {
	k := 2.0 / float64(period+1)
	out := make([]float64, 0, len(vals)-period+1)
	ema := windowMean(vals[:period])
	out = append(out, ema)
	for _, v := range vals[period:] {
		ema = v*k + ema*(1-k)
		out = append(out, ema)
	}
	return out
}

// MACDSeries computes the MACD line, its signal line and the histogram.
// The line starts at bar slow-1, the signal and histogram at bar
// slow+signal-2, so slow+signal-1 bars are required.
func MACDSeries(ps model.PriceSeries, fast, slow, signal int) (model.MACDSeries, error) {
	if fast <= 0 || slow <= 0 || signal <= 0 {
		return model.MACDSeries{}, errors.New("macd periods must be positive")
	}
	if fast >= slow {
		return model.MACDSeries{}, fmt.Errorf("macd fast period %d must be below slow period %d", fast, slow)
	}
	if err := requireBars(ps, fmt.Sprintf("MACD(%d,%d,%d)", fast, slow, signal), slow+signal-1); err != nil {
		return model.MACDSeries{}, err
	}

	closes := ps.Closes()
	fastEMA := emaValues(closes, fast)
	slowEMA := emaValues(closes, slow)

	// fastEMA[j] belongs to bar fast-1+j, slowEMA[j] to bar slow-1+j.
	shift := slow - fast
	line := make([]float64, len(slowEMA))
	for j := range slowEMA {
		line[j] = fastEMA[j+shift] - slowEMA[j]
	}

	sig := emaValues(line, signal)
	hist := make([]float64, len(sig))
	for j := range sig {
		hist[j] = line[j+signal-1] - sig[j]
	}

	lineStart := slow - 1
	sigStart := lineStart + signal - 1
	return model.MACDSeries{
		Line:      toSeries(ps, "MACD", lineStart, line),
		Signal:    toSeries(ps, "MACD_Signal", sigStart, sig),
		Histogram: toSeries(ps, "MACD_Hist", sigStart, hist),
	}, nil
}
