package indicator

import (
	"math"

	"TrendSentinel/internal/model"
)

// TrueRange computes the per-bar true range, aligned index-for-index with bars.
// The first bar has no previous close, so its true range is simply high-low.
// Malformed bars (high < low, NaN prices) are not validated; the result
// carries whatever the arithmetic yields.
func TrueRange(bars []model.OHLCV) []float64 {
	tr := make([]float64, len(bars))
	for i, b := range bars {
		if i == 0 {
			tr[i] = b.High - b.Low
			continue
		}
		tr[i] = trueRangeBar(b.High, b.Low, bars[i-1].Close)
	}
	return tr
}

// trueRangeBar is the max of high-low, |high-prevClose|, |low-prevClose|.
func trueRangeBar(high, low, prevClose float64) float64 {
	return math.Max(high-low, math.Max(math.Abs(high-prevClose), math.Abs(low-prevClose)))
}
