package strategy

import (
	"fmt"
	"math"
	"time"

	"TrendSentinel/internal/indicator"
	"TrendSentinel/internal/model"
)

// ExitParams holds exit rules shared by all positions.
type ExitParams struct {
	SquareOffHour     int
	SquareOffMinute   int
	CircuitBreakerPct float64 // close when adverse PnL exceeds this percentage
}

// DefaultExitParams uses the 15:15 IST square-off and a 30% circuit breaker.
func DefaultExitParams() ExitParams {
	return ExitParams{SquareOffHour: 15, SquareOffMinute: 15, CircuitBreakerPct: 30}
}

// ExitDecision is the outcome of an exit check.
type ExitDecision struct {
	Exit   bool
	Type   model.ExitType
	Reason string
}

// CheckExit evaluates the exit conditions for an open position, in priority
// order: time square-off, hard stop, trailing stop, target, circuit breaker.
func CheckExit(pos *model.Position, price float64, now time.Time, p ExitParams) ExitDecision {
	squareOff := time.Date(now.Year(), now.Month(), now.Day(),
		p.SquareOffHour, p.SquareOffMinute, 0, 0, now.Location())
	if !now.Before(squareOff) {
		return ExitDecision{true, model.ExitSquareOff, "time-based square off"}
	}

	long := pos.Side == model.SideLong
	hit := func(level float64) bool {
		if long {
			return price <= level
		}
		return price >= level
	}

	if hit(pos.StopLoss) {
		return ExitDecision{true, model.ExitStopLoss, fmt.Sprintf("stop loss hit @ %.2f", price)}
	}
	trailTighter := (long && pos.TrailingStop > pos.StopLoss) || (!long && pos.TrailingStop < pos.StopLoss)
	if pos.TrailingStop > 0 && trailTighter && hit(pos.TrailingStop) {
		return ExitDecision{true, model.ExitTrailingStop, fmt.Sprintf("trailing stop hit @ %.2f", price)}
	}

	targetHit := (long && price >= pos.Target) || (!long && price <= pos.Target)
	if targetHit {
		return ExitDecision{true, model.ExitTarget, fmt.Sprintf("target hit @ %.2f", price)}
	}

	pnlPct := (price - pos.EntryPrice) / pos.EntryPrice * 100
	if !long {
		pnlPct = -pnlPct
	}
	if pnlPct < -p.CircuitBreakerPct {
		return ExitDecision{true, model.ExitCircuit, fmt.Sprintf("circuit breaker: %.1f%% loss", pnlPct)}
	}

	return ExitDecision{}
}

// TrailFromPoint derives the tightened trailing stop for a position from the
// engine's current stop on the position's side. The stop only ratchets in
// the position's favor; an engine value looser than the current trail is
// ignored. Returns the new trail and whether it moved.
func TrailFromPoint(pos *model.Position, pt indicator.Point) (float64, bool) {
	var level float64
	if pos.Side == model.SideLong {
		level = pt.LongStop
	} else {
		level = pt.ShortStop
	}
	if math.IsNaN(level) {
		return pos.TrailingStop, false
	}
	if pos.TrailingStop == 0 {
		return level, true
	}
	if pos.Side == model.SideLong && level > pos.TrailingStop {
		return level, true
	}
	if pos.Side == model.SideShort && level < pos.TrailingStop {
		return level, true
	}
	return pos.TrailingStop, false
}
