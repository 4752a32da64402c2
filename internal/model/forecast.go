package model

// Target names the quantity a forecast series predicts. Models that do not
// forecast price level (VAR, GARCH) are scored against their own target and
// kept out of the price comparison.
type Target string

const (
	TargetPrice      Target = "price"
	TargetReturn     Target = "log_return"
	TargetVolatility Target = "volatility"
)

// ForecastSeries is an ordered sequence of point forecasts for the test
// horizon. Its length may be shorter than the horizon, in which case the
// values cover the final len(Values) steps and the leading steps are
// undefined (externally trained models lose the first window_size steps).
type ForecastSeries struct {
	Model  string
	Target Target
	Values []float64
}

// ModelMetrics holds the accuracy of one model over its defined points.
// NPoints is surfaced because models padded to the horizon are scored on
// fewer points than the others.
type ModelMetrics struct {
	Model   string
	Target  Target
	RMSE    float64
	MAE     float64
	NPoints int
}

// MetricsTable is the benchmark output: one entry per scored model, plus
// the models that were expected but produced no forecast.
type MetricsTable struct {
	Entries []ModelMetrics
	Missing []string
}

// Lookup returns the entry for the named model.
func (t *MetricsTable) Lookup(model string) (ModelMetrics, bool) {
	for _, e := range t.Entries {
		if e.Model == model {
			return e, true
		}
	}
	return ModelMetrics{}, false
}
