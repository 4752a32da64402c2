// Package forecast contains the model adapters and the forecast aligner.
// Each adapter wraps one model family behind the same contract: given a
// train/test split it produces a single point-forecast sequence covering at
// most the test horizon. Adapters hold no cross-call state.
package forecast

import (
	"context"
	"math"

	"ForecastBench/internal/model"
)

// Forecaster is the uniform capability implemented by every model adapter.
type Forecaster interface {
	Name() string
	FitAndForecast(ctx context.Context, train, test *model.FeatureTable) (model.ForecastSeries, error)
}

// Undefined is the sentinel marking a horizon step with no forecast.
func Undefined() float64 { return math.NaN() }

// Defined reports whether a forecast value is a real prediction rather than
// the undefined sentinel.
func Defined(v float64) bool { return !math.IsNaN(v) }
