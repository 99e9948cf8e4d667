package strategy

import "MarketLens/internal/model"

// Thresholds tunes the classification.
type Thresholds struct {
	Overbought float64
	Oversold   float64
	// TrendBand is the percent distance from the SMA still considered flat.
	TrendBand float64
}

// DefaultThresholds are the conventional 70/30 RSI bands and a 1% trend band.
var DefaultThresholds = Thresholds{Overbought: 70, Oversold: 30, TrendBand: 1}

// Evaluate classifies a snapshot with DefaultThresholds.
func Evaluate(snap *model.IndicatorSnapshot) *model.IndicatorSignal {
	return EvaluateWith(snap, DefaultThresholds)
}

// EvaluateWith classifies a snapshot.
func EvaluateWith(snap *model.IndicatorSnapshot, th Thresholds) *model.IndicatorSignal {
	zone, rsiNote := classifyRSI(snap, th)
	cross, macdNote := classifyCrossover(snap)
	trend, dev, trendNote := classifyTrend(snap, th)

	return &model.IndicatorSignal{
		Symbol:     snap.Symbol,
		Zone:       zone,
		Crossover:  cross,
		Trend:      trend,
		Deviation:  dev,
		Commentary: []string{rsiNote, macdNote, trendNote},
	}
}

// Notable reports whether sig is worth an alert: an extreme RSI or a fresh crossover.
func Notable(sig *model.IndicatorSignal) bool {
	return sig.Zone != model.ZoneNeutral || sig.Crossover != model.CrossNone
}
