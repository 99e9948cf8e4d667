package strategy

import (
	"fmt"

	"MarketLens/internal/model"
)

// classifyRSI places the RSI in its momentum zone.
func classifyRSI(snap *model.IndicatorSnapshot, th Thresholds) (model.RSIZone, string) {
	rsi := snap.RSI
	switch {
	case rsi >= th.Overbought:
		return model.ZoneOverbought, fmt.Sprintf("RSI(%d)=%.1f overbought (>= %.0f)", snap.RSIWindow, rsi, th.Overbought)
	case rsi <= th.Oversold:
		return model.ZoneOversold, fmt.Sprintf("RSI(%d)=%.1f oversold (<= %.0f)", snap.RSIWindow, rsi, th.Oversold)
	default:
		return model.ZoneNeutral, fmt.Sprintf("RSI(%d)=%.1f neutral", snap.RSIWindow, rsi)
	}
}

// classifyCrossover detects a sign change of the MACD histogram on the last bar.
func classifyCrossover(snap *model.IndicatorSnapshot) (model.Crossover, string) {
	prev, cur := snap.PrevMACDHistogram, snap.MACDHistogram
	switch {
	case prev <= 0 && cur > 0:
		return model.CrossBullish, fmt.Sprintf("MACD crossed above signal (hist %+.3f)", cur)
	case prev >= 0 && cur < 0:
		return model.CrossBearish, fmt.Sprintf("MACD crossed below signal (hist %+.3f)", cur)
	default:
		return model.CrossNone, fmt.Sprintf("MACD %.3f vs signal %.3f", snap.MACD, snap.MACDSignal)
	}
}

// classifyTrend compares price with its SMA. Deviation is in percent.
func classifyTrend(snap *model.IndicatorSnapshot, th Thresholds) (model.Trend, float64, string) {
	if snap.SMA == 0 {
		return model.TrendFlat, 0, "SMA unavailable"
	}
	deviation := (snap.CurrentPrice - snap.SMA) / snap.SMA * 100
	commentary := fmt.Sprintf("price %+.1f%% vs SMA(%d)", deviation, snap.SMAWindow)
	switch {
	case deviation > th.TrendBand:
		return model.TrendUp, deviation, commentary
	case deviation < -th.TrendBand:
		return model.TrendDown, deviation, commentary
	default:
		return model.TrendFlat, deviation, commentary
	}
}
