package model

// RSIZone classifies momentum from the RSI value.
type RSIZone string

const (
	ZoneOverbought RSIZone = "OVERBOUGHT"
	ZoneOversold   RSIZone = "OVERSOLD"
	ZoneNeutral    RSIZone = "NEUTRAL"
)

// Crossover describes the MACD line crossing its signal line on the last bar.
type Crossover string

const (
	CrossBullish Crossover = "BULLISH"
	CrossBearish Crossover = "BEARISH"
	CrossNone    Crossover = "NONE"
)

// Trend compares the price with its moving average.
type Trend string

const (
	TrendUp   Trend = "UP"
	TrendDown Trend = "DOWN"
	TrendFlat Trend = "FLAT"
)

// IndicatorSignal is the interpretation of an IndicatorSnapshot.
type IndicatorSignal struct {
	Symbol     string
	Zone       RSIZone
	Crossover  Crossover
	Trend      Trend
	Deviation  float64 // percent distance of price from the SMA
	Commentary []string
}
