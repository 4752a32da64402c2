// Package evaluate scores aligned forecasts against actuals. A model is
// scored over the indices where its forecast is defined, so models padded to
// the horizon get fewer points than the others; NPoints in the output keeps
// that asymmetry visible instead of hiding it.
package evaluate

import (
	"fmt"
	"math"
	"sort"

	"ForecastBench/internal/forecast"
	"ForecastBench/internal/model"
)

// Result is the harness output: the metrics table plus each model's
// forecast aligned to the full horizon (undefined sentinels included), for
// downstream reporting.
type Result struct {
	Table   model.MetricsTable
	Aligned map[string][]float64
}

// Evaluate computes RMSE and MAE per model against the actual series.
// `expected` names the models that should have produced a forecast; entries
// with no forecast (failed fit, missing artifact) are listed in
// Table.Missing without aborting evaluation of the rest. An oversized
// forecast is a caller bug and fails the whole evaluation.
func Evaluate(actuals []float64, forecasts map[string]model.ForecastSeries, expected []string) (*Result, error) {
	horizon := len(actuals)
	if horizon == 0 {
		return nil, fmt.Errorf("evaluate: empty actual series")
	}

	res := &Result{Aligned: make(map[string][]float64, len(forecasts))}

	names := make([]string, 0, len(forecasts))
	for name := range forecasts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		series := forecasts[name]
		aligned, err := forecast.Align(series.Values, horizon)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", name, err)
		}
		res.Aligned[name] = aligned

		var sqSum, absSum float64
		n := 0
		for i, v := range aligned {
			if !forecast.Defined(v) {
				continue
			}
			diff := v - actuals[i]
			sqSum += diff * diff
			absSum += math.Abs(diff)
			n++
		}
		if n == 0 {
			res.Table.Missing = append(res.Table.Missing, name)
			continue
		}
		res.Table.Entries = append(res.Table.Entries, model.ModelMetrics{
			Model:   name,
			Target:  series.Target,
			RMSE:    math.Sqrt(sqSum / float64(n)),
			MAE:     absSum / float64(n),
			NPoints: n,
		})
	}

	for _, name := range expected {
		if _, ok := forecasts[name]; !ok {
			res.Table.Missing = append(res.Table.Missing, name)
		}
	}
	sort.Strings(res.Table.Missing)
	return res, nil
}

// Merge combines per-target results into one, preserving entry order.
func Merge(results ...*Result) *Result {
	merged := &Result{Aligned: make(map[string][]float64)}
	for _, r := range results {
		if r == nil {
			continue
		}
		merged.Table.Entries = append(merged.Table.Entries, r.Table.Entries...)
		merged.Table.Missing = append(merged.Table.Missing, r.Table.Missing...)
		for name, aligned := range r.Aligned {
			merged.Aligned[name] = aligned
		}
	}
	sort.Strings(merged.Table.Missing)
	return merged
}
