package forecast

import (
	"errors"
	"fmt"
)

// ErrAlignment is returned when a forecast is longer than the horizon. An
// oversized forecast signals a horizon mismatch in the caller and must never
// be silently truncated.
var ErrAlignment = errors.New("forecast: series longer than horizon")

// Align reconciles a forecast to exactly `horizon` entries. A shorter series
// is assumed to cover the most recent steps of the test period, so its values
// occupy the tail and the leading steps are filled with the undefined sentinel.
func Align(values []float64, horizon int) ([]float64, error) {
	if len(values) > horizon {
		return nil, fmt.Errorf("%w: %d values for horizon %d", ErrAlignment, len(values), horizon)
	}
	if len(values) == horizon {
		return values, nil
	}
	out := make([]float64, horizon)
	pad := horizon - len(values)
	for i := 0; i < pad; i++ {
		out[i] = Undefined()
	}
	copy(out[pad:], values)
	return out, nil
}
