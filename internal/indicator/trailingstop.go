package indicator

import (
	"errors"
	"fmt"
	"math"

	"TrendSentinel/internal/model"
)

// Trend is the direction the trailing stop is currently tracking.
type Trend int

const (
	TrendLong  Trend = 1
	TrendShort Trend = -1
)

// Signal marks a trend flip. A bar without a flip carries SignalNone.
type Signal string

const (
	SignalNone Signal = ""
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
)

// Point is the engine output for one bar. Float fields are NaN and Trend is
// zero until enough history exists (ATR needs period bars, the trailing-stop
// state one more).
type Point struct {
	TR           float64
	ATR          float64
	LongStop     float64
	ShortStop    float64
	Trend        Trend
	Signal       Signal
	StopLoss     float64
	Position     Signal
	StopDistance float64
	RiskPercent  float64
}

// Valid reports whether the trailing-stop state is defined for this bar.
func (p Point) Valid() bool {
	return p.Trend != 0
}

// Config holds the engine parameters. The shift flags select which output
// fields are delayed one bar before being exposed; the deployed variants of
// this indicator disagree on the subset, so it is configuration rather than
// a constant (see Aligner).
type Config struct {
	Period     int
	Multiplier float64

	// ShiftStops delays StopLoss, StopDistance and RiskPercent by one bar,
	// so the value exposed at bar i is the one finalized at bar i-1.
	ShiftStops bool
	// ShiftSignal additionally delays Signal and Position. The reference
	// variant leaves them unshifted.
	ShiftSignal bool
}

// DefaultConfig returns the reference parameters: ATR(21) with a 2x band
// and the one-bar delay on the stop fields only.
func DefaultConfig() Config {
	return Config{Period: 21, Multiplier: 2.0, ShiftStops: true}
}

func (c Config) validate() error {
	if c.Period <= 0 {
		return fmt.Errorf("invalid period %d: must be positive", c.Period)
	}
	if c.Multiplier <= 0 {
		return fmt.Errorf("invalid multiplier %g: must be positive", c.Multiplier)
	}
	return nil
}

// ErrInsufficientData is returned by LatestValid when no bar has a defined
// trailing-stop state. It is the expected outcome for short series, not a
// failure of the engine.
var ErrInsufficientData = errors.New("indicator: not enough bars for trailing stop")

// Engine is the incremental trailing-stop state machine. It retains only the
// previous bar's state, so it serves both batch replay and live streaming.
// An Engine is not safe for concurrent use; feed each symbol its own instance.
type Engine struct {
	cfg Config

	n         int     // bars consumed so far
	trSum     float64 // accumulates the first period true ranges for the seed
	atr       float64
	prevClose float64

	longStop  float64
	shortStop float64
	trend     Trend
}

// NewEngine validates cfg and returns a fresh engine.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:       cfg,
		atr:       math.NaN(),
		prevClose: math.NaN(),
		longStop:  math.NaN(),
		shortStop: math.NaN(),
	}, nil
}

// Step consumes the next bar and returns its raw (unaligned) output point.
// Callers that need the one-bar delay on the stop fields pass the result
// through an Aligner; Compute composes the two.
//
// NaN prices are not rejected: once a NaN reaches the ATR or the carried
// stop, every later bar's state stays undefined, matching the lenient
// behavior this engine replicates. Screen input with ValidateBars when that
// matters.
func (e *Engine) Step(bar model.OHLCV) Point {
	i := e.n
	e.n++

	var tr float64
	if i == 0 {
		tr = bar.High - bar.Low
	} else {
		tr = trueRangeBar(bar.High, bar.Low, e.prevClose)
	}

	period := e.cfg.Period
	switch {
	case i < period-1:
		e.trSum += tr
	case i == period-1:
		e.trSum += tr
		e.atr = e.trSum / float64(period)
	default:
		e.atr = (e.atr*float64(period-1) + tr) / float64(period)
	}

	p := Point{
		TR:           tr,
		ATR:          e.atr,
		LongStop:     math.NaN(),
		ShortStop:    math.NaN(),
		StopLoss:     math.NaN(),
		StopDistance: math.NaN(),
		RiskPercent:  math.NaN(),
	}

	// A NaN ATR (poisoned input) leaves the state undefined from here on;
	// the recurrence has no way to recover.
	if i >= period && !math.IsNaN(e.atr) {
		p = e.advance(i, bar, p)
	}

	e.prevClose = bar.Close
	return p
}

// advance applies the seed or transition rules for a bar with a defined ATR.
func (e *Engine) advance(i int, bar model.OHLCV, p Point) Point {
	basicLong := bar.Close - e.atr*e.cfg.Multiplier
	basicShort := bar.Close + e.atr*e.cfg.Multiplier

	stopLoss := math.NaN()
	if i == e.cfg.Period {
		// Seed bar: fresh stops, trend from the close's side of the long
		// stop, no signal (there is no prior trend to flip from) and no
		// stop-loss yet.
		e.longStop = basicLong
		e.shortStop = basicShort
		if bar.Close > basicLong {
			e.trend = TrendLong
		} else {
			e.trend = TrendShort
		}
	} else {
		// Ratchet: while the previous close held its stop, the stop only
		// tightens; a break resets it to the fresh calculation.
		if e.prevClose >= e.longStop {
			e.longStop = math.Max(basicLong, e.longStop)
		} else {
			e.longStop = basicLong
		}
		if e.prevClose <= e.shortStop {
			e.shortStop = math.Min(basicShort, e.shortStop)
		} else {
			e.shortStop = basicShort
		}

		switch {
		case e.trend == TrendLong && bar.Close <= e.longStop:
			e.trend = TrendShort
			p.Signal = SignalSell
			stopLoss = e.shortStop
		case e.trend == TrendShort && bar.Close >= e.shortStop:
			e.trend = TrendLong
			p.Signal = SignalBuy
			stopLoss = e.longStop
		case e.trend == TrendLong:
			stopLoss = e.longStop
		case e.trend == TrendShort:
			stopLoss = e.shortStop
		}
	}

	p.LongStop = e.longStop
	p.ShortStop = e.shortStop
	p.Trend = e.trend
	p.StopLoss = stopLoss
	switch e.trend {
	case TrendLong:
		p.Position = SignalBuy
	case TrendShort:
		p.Position = SignalSell
	}
	p.StopDistance = math.Abs(bar.Close - stopLoss)
	p.RiskPercent = p.StopDistance / bar.Close * 100
	return p
}

// Compute runs the engine over a full series and returns the aligned
// per-bar output. It is a pure function of bars and cfg: the same input
// always yields identical output. A series shorter than period+1 bars
// produces points that are all invalid, not an error.
func Compute(bars []model.OHLCV, cfg Config) ([]Point, error) {
	eng, err := NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	al := NewAligner(cfg)
	points := make([]Point, len(bars))
	for i, b := range bars {
		points[i] = al.Next(eng.Step(b))
	}
	return points, nil
}

// LatestValid returns the most recent point with a defined trailing-stop
// state and its index, or ErrInsufficientData when the series never
// produced one.
func LatestValid(points []Point) (Point, int, error) {
	for i := len(points) - 1; i >= 0; i-- {
		if points[i].Valid() {
			return points[i], i, nil
		}
	}
	return Point{}, -1, ErrInsufficientData
}
