package indicator

import "math"

// Aligner delays the configured output fields by one bar, so a decision made
// on bar i only sees values finalized at bar i-1. The stop fields are delayed
// by default; Trend is never delayed. Downstream entry logic reads the
// current trend but sizes stops from the previous bar.
type Aligner struct {
	cfg  Config
	prev Point
}

// NewAligner returns an aligner for cfg. Until a point has passed through,
// delayed fields read as undefined.
func NewAligner(cfg Config) *Aligner {
	return &Aligner{
		cfg: cfg,
		prev: Point{
			StopLoss:     math.NaN(),
			StopDistance: math.NaN(),
			RiskPercent:  math.NaN(),
		},
	}
}

// Next exposes p with the configured fields replaced by the previous bar's
// values, and retains p for the following call.
func (a *Aligner) Next(p Point) Point {
	out := p
	if a.cfg.ShiftStops {
		out.StopLoss = a.prev.StopLoss
		out.StopDistance = a.prev.StopDistance
		out.RiskPercent = a.prev.RiskPercent
	}
	if a.cfg.ShiftSignal {
		out.Signal = a.prev.Signal
		out.Position = a.prev.Position
	}
	a.prev = p
	return out
}

// Align applies the one-bar delay to a whole series at once.
func Align(points []Point, cfg Config) []Point {
	al := NewAligner(cfg)
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = al.Next(p)
	}
	return out
}
