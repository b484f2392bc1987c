package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds raw intraday price data for one symbol.
// Bars are time-ascending and never mutated after fetch.
type PriceSeries struct {
	Symbol    string
	Bars      []OHLCV
	LastPrice float64
	FetchedAt time.Time
}

// LastClose returns the close of the most recent bar, or 0 for an empty series.
func (s *PriceSeries) LastClose() float64 {
	if len(s.Bars) == 0 {
		return 0
	}
	return s.Bars[len(s.Bars)-1].Close
}
