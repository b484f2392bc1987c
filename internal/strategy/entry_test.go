package strategy

import (
	"math"
	"testing"
	"time"

	"TrendSentinel/internal/indicator"
	"TrendSentinel/internal/model"
)

func flatSeries(closes []float64) *model.PriceSeries {
	bars := make([]model.OHLCV, len(closes))
	start := time.Date(2026, 8, 26, 9, 15, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time: start.Add(time.Duration(i) * 5 * time.Minute),
			Open: c, High: c + 1, Low: c - 1, Close: c,
		}
	}
	return &model.PriceSeries{Symbol: "NIFTY", Bars: bars}
}

func TestEvaluateEntry_BuyFlip(t *testing.T) {
	series := flatSeries([]float64{100, 100, 100})
	points := []indicator.Point{
		{},
		{Trend: indicator.TrendShort},
		{Trend: indicator.TrendLong, Signal: indicator.SignalBuy, ATR: 1.5, StopLoss: 98, LongStop: 98},
	}
	p := Params{RiskPerTrade: 2000, LotSize: 75, MaxLots: 10, MaxRiskPercent: 2.5, RewardRatio: 2.0}

	sig := EvaluateEntry(series, points, p)
	if sig == nil {
		t.Fatal("expected entry signal")
	}
	if sig.Side != model.SideLong {
		t.Errorf("side = %s, want LONG", sig.Side)
	}
	if sig.EntryPrice != 100 || sig.StopLoss != 98 {
		t.Errorf("entry/stop = %.2f/%.2f, want 100/98", sig.EntryPrice, sig.StopLoss)
	}
	if sig.Target != 104 {
		t.Errorf("target = %.2f, want 104 (entry + 2x stop distance)", sig.Target)
	}
	if sig.RiskPercent != 2.0 {
		t.Errorf("risk percent = %.2f, want 2.0", sig.RiskPercent)
	}
	// risk per lot = 2 * 75 = 150, 2000/150 = 13 lots, clamped to 10
	if sig.Lots != 10 {
		t.Errorf("lots = %d, want 10", sig.Lots)
	}
}

func TestEvaluateEntry_NoSignal(t *testing.T) {
	series := flatSeries([]float64{100, 100})
	points := []indicator.Point{
		{Trend: indicator.TrendLong},
		{Trend: indicator.TrendLong, StopLoss: 98},
	}
	if sig := EvaluateEntry(series, points, DefaultParams()); sig != nil {
		t.Fatalf("expected nil for trend continuation, got %+v", sig)
	}
}

func TestEvaluateEntry_StaleSignal(t *testing.T) {
	series := flatSeries([]float64{100, 100})
	// Flip happened on the first bar; the last point is invalid (NaN poisoned).
	points := []indicator.Point{
		{Trend: indicator.TrendLong, Signal: indicator.SignalBuy, StopLoss: 98},
		{},
	}
	if sig := EvaluateEntry(series, points, DefaultParams()); sig != nil {
		t.Fatalf("expected nil for stale signal, got %+v", sig)
	}
}

func TestEvaluateEntry_RiskTooWide(t *testing.T) {
	series := flatSeries([]float64{100, 100})
	points := []indicator.Point{
		{Trend: indicator.TrendShort},
		{Trend: indicator.TrendLong, Signal: indicator.SignalBuy, StopLoss: 90},
	}
	p := DefaultParams()
	p.MaxRiskPercent = 2.5
	// 10% stop distance exceeds the cap
	if sig := EvaluateEntry(series, points, p); sig != nil {
		t.Fatalf("expected nil for 10%% risk, got %+v", sig)
	}
}

func TestEvaluateEntry_NaNStopFallsBackToSideStop(t *testing.T) {
	series := flatSeries([]float64{100, 100})
	points := []indicator.Point{
		{Trend: indicator.TrendShort},
		{Trend: indicator.TrendLong, Signal: indicator.SignalBuy, StopLoss: math.NaN(), LongStop: 99},
	}
	sig := EvaluateEntry(series, points, DefaultParams())
	if sig == nil {
		t.Fatal("expected entry signal")
	}
	if sig.StopLoss != 99 {
		t.Errorf("stop = %.2f, want fallback to long stop 99", sig.StopLoss)
	}
}

func TestPositionSize(t *testing.T) {
	tests := []struct {
		name string
		dist float64
		p    Params
		want int
	}{
		{"normal", 2, Params{RiskPerTrade: 2000, LotSize: 75, MaxLots: 20}, 13},
		{"clamped to max", 0.5, Params{RiskPerTrade: 2000, LotSize: 75, MaxLots: 10}, 10},
		{"floor of one", 100, Params{RiskPerTrade: 2000, LotSize: 75, MaxLots: 10}, 1},
		{"zero distance", 0, Params{RiskPerTrade: 2000, LotSize: 75, MaxLots: 10}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := positionSize(tt.dist, tt.p); got != tt.want {
				t.Errorf("positionSize(%.1f) = %d, want %d", tt.dist, got, tt.want)
			}
		})
	}
}
