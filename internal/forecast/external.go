package forecast

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"ForecastBench/internal/artifact"
	"ForecastBench/internal/model"
)

// ErrArtifactMissing is returned when an externally trained model's forecast
// file does not exist. The evaluation proceeds without the model; the absence
// is reported, not swallowed.
var ErrArtifactMissing = errors.New("forecast: external artifact not found")

// External consumes a forecast trained in another environment (LSTM/Hybrid
// variants) and delivered as a single-column CSV keyed by row order. The
// external windowing loses the first window-size steps of the test period, so
// the artifact may be shorter than the horizon; date re-attachment happens
// here, on ingestion.
type External struct {
	ModelName string
	Path      string

	// WindowSize is the window length used by the external training script.
	// When set, the artifact must hold exactly horizon−WindowSize rows; when
	// zero, the offset is inferred from the row count.
	WindowSize int
}

// NewExternal creates the adapter for one external artifact.
func NewExternal(name, path string, windowSize int) *External {
	return &External{ModelName: name, Path: path, WindowSize: windowSize}
}

func (e *External) Name() string { return e.ModelName }

func (e *External) FitAndForecast(ctx context.Context, _, test *model.FeatureTable) (model.ForecastSeries, error) {
	if err := ctx.Err(); err != nil {
		return model.ForecastSeries{}, err
	}
	horizon := test.Len()

	values, err := artifact.ReadExternalForecast(e.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.ForecastSeries{}, fmt.Errorf("%w: %s (%s)", ErrArtifactMissing, e.Path, e.ModelName)
		}
		return model.ForecastSeries{}, fmt.Errorf("external %s: %w", e.ModelName, err)
	}

	if e.WindowSize > 0 {
		if want := horizon - e.WindowSize; len(values) != want {
			return model.ForecastSeries{}, fmt.Errorf("external %s: %d rows, expected %d for horizon %d with window %d",
				e.ModelName, len(values), want, horizon, e.WindowSize)
		}
	} else if len(values) < horizon {
		log.Printf("[WARN] external %s: window size not configured, inferring offset %d from row count",
			e.ModelName, horizon-len(values))
	}
	if len(values) > horizon {
		return model.ForecastSeries{}, fmt.Errorf("external %s: %d rows exceed horizon %d", e.ModelName, len(values), horizon)
	}

	return model.ForecastSeries{Model: e.ModelName, Target: model.TargetPrice, Values: values}, nil
}
