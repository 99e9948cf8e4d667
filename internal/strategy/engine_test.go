package strategy

import (
	"testing"

	"MarketLens/internal/model"
)

func TestEvaluate_NeutralMarket(t *testing.T) {
	snap := &model.IndicatorSnapshot{
		Symbol:            "AAPL",
		CurrentPrice:      100.5,
		SMA:               100,
		SMAWindow:         20,
		RSI:               50,
		RSIWindow:         14,
		MACD:              0.4,
		MACDSignal:        0.3,
		MACDHistogram:     0.1,
		PrevMACDHistogram: 0.05,
	}
	sig := Evaluate(snap)
	if sig == nil {
		t.Fatal("expected non-nil signal")
	}
	if sig.Zone != model.ZoneNeutral {
		t.Errorf("expected NEUTRAL zone, got %s", sig.Zone)
	}
	if sig.Crossover != model.CrossNone {
		t.Errorf("expected no crossover, got %s", sig.Crossover)
	}
	if sig.Trend != model.TrendFlat {
		t.Errorf("expected FLAT trend within 1%%, got %s", sig.Trend)
	}
	if len(sig.Commentary) != 3 {
		t.Fatalf("expected 3 commentary lines, got %d", len(sig.Commentary))
	}
	if Notable(sig) {
		t.Error("neutral signal should not be notable")
	}
}

func TestEvaluate_OverboughtWithBearishCross(t *testing.T) {
	snap := &model.IndicatorSnapshot{
		Symbol:            "NVDA",
		CurrentPrice:      130,
		SMA:               110,
		RSI:               78,
		MACDHistogram:     -0.2,
		PrevMACDHistogram: 0.1,
	}
	sig := Evaluate(snap)
	if sig.Zone != model.ZoneOverbought {
		t.Errorf("expected OVERBOUGHT, got %s", sig.Zone)
	}
	if sig.Crossover != model.CrossBearish {
		t.Errorf("expected BEARISH crossover, got %s", sig.Crossover)
	}
	if sig.Trend != model.TrendUp {
		t.Errorf("expected UP trend, got %s", sig.Trend)
	}
	if !Notable(sig) {
		t.Error("expected notable signal")
	}
}

func TestEvaluate_OversoldBullishCross(t *testing.T) {
	snap := &model.IndicatorSnapshot{
		CurrentPrice:      90,
		SMA:               100,
		RSI:               30,
		MACDHistogram:     0.05,
		PrevMACDHistogram: -0.01,
	}
	sig := Evaluate(snap)
	if sig.Zone != model.ZoneOversold {
		t.Errorf("RSI exactly 30 should be OVERSOLD, got %s", sig.Zone)
	}
	if sig.Crossover != model.CrossBullish {
		t.Errorf("expected BULLISH crossover, got %s", sig.Crossover)
	}
	if sig.Trend != model.TrendDown {
		t.Errorf("expected DOWN trend, got %s", sig.Trend)
	}
	if sig.Deviation > -9.99 || sig.Deviation < -10.01 {
		t.Errorf("expected -10%% deviation, got %.3f", sig.Deviation)
	}
}

func TestEvaluateWith_CustomBands(t *testing.T) {
	snap := &model.IndicatorSnapshot{CurrentPrice: 100, SMA: 100, RSI: 65}
	sig := EvaluateWith(snap, Thresholds{Overbought: 60, Oversold: 40})
	if sig.Zone != model.ZoneOverbought {
		t.Errorf("expected OVERBOUGHT with 60 band, got %s", sig.Zone)
	}
}

func TestEvaluate_MissingSMA(t *testing.T) {
	sig := Evaluate(&model.IndicatorSnapshot{CurrentPrice: 10, RSI: 50})
	if sig.Trend != model.TrendFlat || sig.Deviation != 0 {
		t.Errorf("expected FLAT/0 without SMA, got %s/%.2f", sig.Trend, sig.Deviation)
	}
}
