package recorder

import "TrendSentinel/internal/model"

// ScanRecord is one symbol's engine output at the end of a scan cycle.
type ScanRecord struct {
	Symbol       string
	Close        float64
	TR           float64
	ATR          float64
	LongStop     float64
	ShortStop    float64
	Trend        int
	Signal       string
	StopLoss     float64
	StopDistance float64
	RiskPercent  float64
}

// Recorder persists scan history, emitted signals and trade lifecycles.
type Recorder interface {
	RecordScan(recs []*ScanRecord) error
	RecordSignal(sig *model.TradeSignal) error
	RecordTrade(trade *model.ClosedTrade) error
	Close() error
}
