package collector

import "TrendSentinel/internal/model"

// Fetcher defines the interface for fetching intraday market data.
type Fetcher interface {
	FetchIntradayBars(symbol string, days int) ([]model.OHLCV, error)
	FetchLTP(symbol string) (float64, error)
	Name() string
}
