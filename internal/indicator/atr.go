package indicator

import (
	"errors"
	"math"
)

// WilderATR smooths a true-range series with Wilder's method.
//
// The returned series has the same length as tr. The first period-1 entries
// are NaN; the entry at period-1 is seeded with the simple mean of the first
// period true ranges, and later entries follow the recurrence
// atr[i] = (atr[i-1]*(period-1) + tr[i]) / period.
//
// A series shorter than period yields an all-NaN result, not an error:
// callers are expected to tolerate an undefined ATR (see LatestValid).
func WilderATR(tr []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	atr := make([]float64, len(tr))
	for i := range atr {
		atr[i] = math.NaN()
	}
	if len(tr) < period {
		return atr, nil
	}

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += tr[i]
	}
	atr[period-1] = sum / float64(period)

	for i := period; i < len(tr); i++ {
		atr[i] = (atr[i-1]*float64(period-1) + tr[i]) / float64(period)
	}
	return atr, nil
}
