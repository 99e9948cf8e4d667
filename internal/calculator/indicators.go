package calculator

import (
	"fmt"

	"MarketLens/internal/model"
)

// DefaultSMAWindow matches the 20-day average used in the daily reports.
const DefaultSMAWindow = 20

// IndicatorParams selects the lookback of every indicator.
type IndicatorParams struct {
	SMAWindow  int
	RSIWindow  int
	MACDFast   int
	MACDSlow   int
	MACDSignal int
}

// DefaultParams returns SMA 20, RSI 14 and MACD 12/26/9.
func DefaultParams() IndicatorParams {
	return IndicatorParams{
		SMAWindow:  DefaultSMAWindow,
		RSIWindow:  DefaultRSIWindow,
		MACDFast:   DefaultMACDFast,
		MACDSlow:   DefaultMACDSlow,
		MACDSignal: DefaultMACDSignal,
	}
}

// MinBars returns the history needed for every indicator to have a value.
func (p IndicatorParams) MinBars() int {
	return max(p.SMAWindow, p.RSIWindow+1, p.MACDSlow+p.MACDSignal-1)
}

// IndicatorSet holds every series computed for one symbol.
type IndicatorSet struct {
	SMA     model.IndicatorSeries
	RSI     model.IndicatorSeries
	MACD    model.MACDSeries
	Returns model.ReturnSeries
}

// ComputeAll computes SMA, RSI, MACD and daily returns for ps. It fails on the
// first indicator lacking history.
func ComputeAll(ps model.PriceSeries, params IndicatorParams) (*IndicatorSet, error) {
	sma, err := SMASeries(ps, params.SMAWindow)
	if err != nil {
		return nil, err
	}
	rsi, err := RSISeries(ps, params.RSIWindow)
	if err != nil {
		return nil, err
	}
	macd, err := MACDSeries(ps, params.MACDFast, params.MACDSlow, params.MACDSignal)
	if err != nil {
		return nil, err
	}
	returns, err := DailyReturns(ps)
	if err != nil {
		return nil, err
	}
	return &IndicatorSet{SMA: sma, RSI: rsi, MACD: macd, Returns: returns}, nil
}

// Snapshot extracts the latest values of set together with the 52-week range.
func Snapshot(ps model.PriceSeries, set *IndicatorSet, params IndicatorParams) (*model.IndicatorSnapshot, error) {
	last := ps.Last()
	snap := &model.IndicatorSnapshot{
		Symbol:       ps.Symbol,
		AsOf:         last.Time,
		CurrentPrice: last.Close,
		SMAWindow:    params.SMAWindow,
		RSIWindow:    params.RSIWindow,
	}

	latest := func(s model.IndicatorSeries) (float64, error) {
		p, ok := s.Latest()
		if !ok {
			return 0, fmt.Errorf("%w: %s has no values", model.ErrInsufficientData, s.Name)
		}
		return p.Value, nil
	}
	var err error
	if snap.SMA, err = latest(set.SMA); err != nil {
		return nil, err
	}
	if snap.RSI, err = latest(set.RSI); err != nil {
		return nil, err
	}
	if snap.MACD, err = latest(set.MACD.Line); err != nil {
		return nil, err
	}
	if snap.MACDSignal, err = latest(set.MACD.Signal); err != nil {
		return nil, err
	}
	if snap.MACDHistogram, err = latest(set.MACD.Histogram); err != nil {
		return nil, err
	}
	snap.PrevMACDHistogram = snap.MACDHistogram
	if n := set.MACD.Histogram.Len(); n >= 2 {
		snap.PrevMACDHistogram = set.MACD.Histogram.Points[n-2].Value
	}
	if p, ok := set.Returns.Latest(); ok {
		snap.DailyReturn = p.Value
	}

	high, low, err := Calculate52WeekRange(ps.Bars)
	if err != nil {
		return nil, err
	}
	snap.High52w, snap.Low52w = high, low
	if snap.Position52w, err = Calculate52WeekPosition(last.Close, high, low); err != nil {
		return nil, err
	}
	return snap, nil
}
