package strategy

import (
	"fmt"
	"math"
	"time"

	"TrendSentinel/internal/indicator"
	"TrendSentinel/internal/model"
)

// Params holds entry sizing and risk limits.
type Params struct {
	RiskPerTrade   float64 // max rupee risk per trade
	LotSize        int
	MaxLots        int
	MaxRiskPercent float64 // reject entries whose stop is further than this % of price
	RewardRatio    float64 // target distance as a multiple of stop distance
}

// DefaultParams mirrors the deployed bot settings.
func DefaultParams() Params {
	return Params{
		RiskPerTrade:   2000,
		LotSize:        75,
		MaxLots:        10,
		MaxRiskPercent: 2.5,
		RewardRatio:    2.0,
	}
}

// EvaluateEntry turns the latest trailing-stop flip into an entry decision.
// It returns nil when there is no fresh signal, the signal is stale (not on
// the last bar), or the risk limits reject it.
func EvaluateEntry(series *model.PriceSeries, points []indicator.Point, p Params) *model.TradeSignal {
	pt, idx, err := indicator.LatestValid(points)
	if err != nil || idx != len(points)-1 {
		return nil
	}
	if pt.Signal == indicator.SignalNone {
		return nil
	}

	var side model.Side
	if pt.Signal == indicator.SignalBuy {
		side = model.SideLong
	} else {
		side = model.SideShort
	}

	entry := series.Bars[idx].Close

	// The aligned stop can be undefined on the flip bar itself; fall back to
	// the freshly computed stop on the signal side.
	stop := pt.StopLoss
	if math.IsNaN(stop) {
		if side == model.SideLong {
			stop = pt.LongStop
		} else {
			stop = pt.ShortStop
		}
	}

	dist := math.Abs(entry - stop)
	if dist <= 0 || math.IsNaN(dist) {
		return nil
	}
	riskPct := dist / entry * 100
	if riskPct > p.MaxRiskPercent {
		return nil
	}

	var target float64
	if side == model.SideLong {
		target = entry + p.RewardRatio*dist
	} else {
		target = entry - p.RewardRatio*dist
	}

	return &model.TradeSignal{
		Symbol:       series.Symbol,
		Side:         side,
		EntryPrice:   entry,
		StopLoss:     stop,
		Target:       target,
		StopDistance: dist,
		RiskPercent:  riskPct,
		Lots:         positionSize(dist, p),
		Reason:       fmt.Sprintf("trend flip %s, ATR %.2f", pt.Signal, pt.ATR),
		At:           time.Now(),
	}
}

// positionSize converts the per-unit stop distance into lots, clamped to
// [1, MaxLots].
func positionSize(stopDistance float64, p Params) int {
	riskPerLot := stopDistance * float64(p.LotSize)
	if riskPerLot <= 0 {
		return 1
	}
	lots := int(p.RiskPerTrade / riskPerLot)
	if lots < 1 {
		lots = 1
	}
	if lots > p.MaxLots {
		lots = p.MaxLots
	}
	return lots
}
