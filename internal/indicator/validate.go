package indicator

import (
	"fmt"
	"math"

	"TrendSentinel/internal/model"
)

// DataQualityError reports a bar that would silently poison the recurrence.
type DataQualityError struct {
	Index  int
	Reason string
}

func (e *DataQualityError) Error() string {
	return fmt.Sprintf("bad bar at index %d: %s", e.Index, e.Reason)
}

// ValidateBars checks a series for NaN/Inf prices and non-ascending
// timestamps before it reaches the engine. The engine itself performs no
// validation (a NaN close corrupts every later bar's state), so callers
// that fetch from the network screen their input here and skip the symbol
// on error.
func ValidateBars(bars []model.OHLCV) error {
	for i, b := range bars {
		for _, v := range [...]float64{b.High, b.Low, b.Close} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return &DataQualityError{Index: i, Reason: fmt.Sprintf("non-finite price %g", v)}
			}
		}
		if i > 0 && !bars[i-1].Time.IsZero() && !b.Time.After(bars[i-1].Time) {
			return &DataQualityError{Index: i, Reason: "timestamp not ascending"}
		}
	}
	return nil
}
