package collector

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"TrendSentinel/internal/indicator"
	"TrendSentinel/internal/model"
)

func TestScanAll(t *testing.T) {
	poisoned := GenerateBars(500, 100)
	poisoned[40].Close = math.NaN()

	fetcher := &MockFetcher{
		Price: 22500,
		Bars: map[string][]model.OHLCV{
			"GOOD":   GenerateBars(22500, 100),
			"POISON": poisoned,
		},
		Errs: map[string]error{
			"DOWN": fmt.Errorf("upstream timeout"),
		},
	}

	cfg := indicator.DefaultConfig()
	col := NewCollector(fetcher, []string{"GOOD", "DOWN", "POISON"}, 5, 2, cfg)
	snaps := col.ScanAll(context.Background())

	if len(snaps) != 3 {
		t.Fatalf("snapshots = %d, want 3", len(snaps))
	}
	// Watchlist order is preserved.
	for i, want := range []string{"GOOD", "DOWN", "POISON"} {
		if snaps[i].Symbol != want {
			t.Errorf("snaps[%d].Symbol = %s, want %s", i, snaps[i].Symbol, want)
		}
	}

	good := snaps[0]
	if good.Err != nil {
		t.Fatalf("GOOD scan failed: %v", good.Err)
	}
	if len(good.Points) != 100 {
		t.Errorf("points = %d, want one per bar", len(good.Points))
	}
	if _, _, err := indicator.LatestValid(good.Points); err != nil {
		t.Errorf("expected a valid point on a clean 100-bar series: %v", err)
	}

	if snaps[1].Err == nil {
		t.Error("DOWN should carry the fetch error")
	}
	if snaps[1].Points != nil {
		t.Error("failed symbol should have no points")
	}

	if snaps[2].Err == nil {
		t.Error("POISON should be rejected by bar validation")
	}
	var dq *indicator.DataQualityError
	if !errors.As(snaps[2].Err, &dq) {
		t.Errorf("POISON error = %v, want DataQualityError", snaps[2].Err)
	}
}

func TestScanAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	col := NewCollector(&MockFetcher{Price: 100}, []string{"A", "B"}, 5, 2, indicator.DefaultConfig())
	snaps := col.ScanAll(ctx)
	for _, s := range snaps {
		if s.Err == nil {
			t.Errorf("%s: expected context error", s.Symbol)
		}
	}
}
