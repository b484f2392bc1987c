package strategy

import (
	"math"
	"testing"
	"time"

	"TrendSentinel/internal/indicator"
	"TrendSentinel/internal/model"
)

func longPosition() *model.Position {
	return &model.Position{
		Symbol:     "NIFTY",
		Side:       model.SideLong,
		EntryPrice: 100,
		StopLoss:   95,
		Target:     110,
	}
}

func TestCheckExit(t *testing.T) {
	midSession := time.Date(2026, 8, 26, 11, 0, 0, 0, time.UTC)
	afterClose := time.Date(2026, 8, 26, 15, 20, 0, 0, time.UTC)
	p := ExitParams{SquareOffHour: 15, SquareOffMinute: 15, CircuitBreakerPct: 30}

	tests := []struct {
		name     string
		pos      *model.Position
		price    float64
		now      time.Time
		wantExit bool
		wantType model.ExitType
	}{
		{"hold mid range", longPosition(), 102, midSession, false, ""},
		{"stop loss hit", longPosition(), 94.5, midSession, true, model.ExitStopLoss},
		{"target hit", longPosition(), 110.5, midSession, true, model.ExitTarget},
		{"square off time", longPosition(), 102, afterClose, true, model.ExitSquareOff},
		{
			"trailing stop tighter than SL",
			&model.Position{Side: model.SideLong, EntryPrice: 100, StopLoss: 95, TrailingStop: 101, Target: 110},
			100.5, midSession, true, model.ExitTrailingStop,
		},
		{
			"trailing stop looser than SL ignored",
			&model.Position{Side: model.SideLong, EntryPrice: 100, StopLoss: 95, TrailingStop: 93, Target: 110},
			96, midSession, false, "",
		},
		{
			"short stop loss hit",
			&model.Position{Side: model.SideShort, EntryPrice: 100, StopLoss: 105, Target: 90},
			105.5, midSession, true, model.ExitStopLoss,
		},
		{
			"short target hit",
			&model.Position{Side: model.SideShort, EntryPrice: 100, StopLoss: 105, Target: 90},
			89, midSession, true, model.ExitTarget,
		},
		{
			"circuit breaker on deep adverse move",
			&model.Position{Side: model.SideLong, EntryPrice: 100, StopLoss: 1, Target: 200},
			65, midSession, true, model.ExitCircuit,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := CheckExit(tt.pos, tt.price, tt.now, p)
			if dec.Exit != tt.wantExit {
				t.Fatalf("exit = %v, want %v (%s)", dec.Exit, tt.wantExit, dec.Reason)
			}
			if dec.Exit && dec.Type != tt.wantType {
				t.Errorf("type = %s, want %s", dec.Type, tt.wantType)
			}
		})
	}
}

func TestTrailFromPoint(t *testing.T) {
	long := &model.Position{Side: model.SideLong, TrailingStop: 98}

	// Engine stop above the current trail ratchets up.
	if trail, moved := TrailFromPoint(long, indicator.Point{LongStop: 99}); !moved || trail != 99 {
		t.Errorf("trail = %.2f moved=%v, want 99 true", trail, moved)
	}
	// Looser engine stop is ignored.
	if trail, moved := TrailFromPoint(long, indicator.Point{LongStop: 97}); moved || trail != 98 {
		t.Errorf("trail = %.2f moved=%v, want 98 false", trail, moved)
	}
	// NaN keeps the current trail.
	if trail, moved := TrailFromPoint(long, indicator.Point{LongStop: math.NaN()}); moved || trail != 98 {
		t.Errorf("trail = %.2f moved=%v, want 98 false", trail, moved)
	}
	// Unset trail is initialized from the engine.
	fresh := &model.Position{Side: model.SideLong}
	if trail, moved := TrailFromPoint(fresh, indicator.Point{LongStop: 95}); !moved || trail != 95 {
		t.Errorf("trail = %.2f moved=%v, want 95 true", trail, moved)
	}

	short := &model.Position{Side: model.SideShort, TrailingStop: 102}
	if trail, moved := TrailFromPoint(short, indicator.Point{ShortStop: 101}); !moved || trail != 101 {
		t.Errorf("short trail = %.2f moved=%v, want 101 true", trail, moved)
	}
	if trail, moved := TrailFromPoint(short, indicator.Point{ShortStop: 103}); moved || trail != 102 {
		t.Errorf("short trail = %.2f moved=%v, want 102 false", trail, moved)
	}
}
