package model

import "time"

// IndicatorSnapshot holds the latest computed indicators of one symbol.
type IndicatorSnapshot struct {
	Symbol        string
	AsOf          time.Time
	CurrentPrice  float64
	SMA           float64
	SMAWindow     int
	RSI           float64
	RSIWindow     int
	MACD          float64
	MACDSignal    float64
	MACDHistogram float64
	// PrevMACDHistogram is the histogram one bar earlier, used to detect crossovers.
	PrevMACDHistogram float64
	DailyReturn       float64
	High52w           float64
	Low52w            float64
	Position52w       float64 // 0.0 ~ 1.0
}
