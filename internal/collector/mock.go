package collector

import (
	"fmt"
	"time"

	"TrendSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Bars  map[string][]model.OHLCV
	Errs  map[string]error
}

// NewMockFetcher returns a fetcher serving a generated series around a
// default index level.
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{Price: 22500}
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchIntradayBars(symbol string, days int) ([]model.OHLCV, error) {
	if err, ok := m.Errs[symbol]; ok {
		return nil, err
	}
	if bars, ok := m.Bars[symbol]; ok {
		return bars, nil
	}
	return GenerateBars(m.Price, days*125), nil
}

func (m *MockFetcher) FetchLTP(symbol string) (float64, error) {
	if err, ok := m.Errs[symbol]; ok {
		return 0, err
	}
	if bars, ok := m.Bars[symbol]; ok && len(bars) > 0 {
		return bars[len(bars)-1].Close, nil
	}
	if m.Price == 0 {
		return 0, fmt.Errorf("no mock price for %s", symbol)
	}
	return m.Price, nil
}

// GenerateBars produces a gently drifting intraday series around basePrice.
func GenerateBars(basePrice float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	start := time.Now().Add(-time.Duration(count) * 3 * time.Minute)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.0005)
		bars[i] = model.OHLCV{
			Time:   start.Add(time.Duration(i) * 3 * time.Minute),
			Open:   p * 0.999,
			High:   p * 1.002,
			Low:    p * 0.998,
			Close:  p,
			Volume: 50000,
		}
	}
	return bars
}
