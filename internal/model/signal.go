package model

import "time"

// Side is the direction of a trade signal or position.
type Side string

const (
	SideLong  Side = "LONG"
	SideShort Side = "SHORT"
)

// ExitType indicates what closed a position.
type ExitType string

const (
	ExitStopLoss     ExitType = "SL"
	ExitTrailingStop ExitType = "TSL"
	ExitTarget       ExitType = "TARGET"
	ExitSquareOff    ExitType = "TIME"
	ExitCircuit      ExitType = "CIRCUIT"
)

// TradeSignal is the strategy's entry decision for one symbol.
type TradeSignal struct {
	Symbol       string
	Side         Side
	EntryPrice   float64
	StopLoss     float64
	Target       float64
	StopDistance float64
	RiskPercent  float64
	Lots         int
	Reason       string
	At           time.Time
}
