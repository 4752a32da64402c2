package evaluate

import (
	"math"
	"testing"

	"ForecastBench/internal/model"
)

func series(name string, values []float64) model.ForecastSeries {
	return model.ForecastSeries{Model: name, Target: model.TargetPrice, Values: values}
}

func TestEvaluate_ConstantMeanForecastRMSEIsPopulationStdDev(t *testing.T) {
	actuals := make([]float64, 20)
	mean := 0.0
	for i := range actuals {
		actuals[i] = float64(i + 81)
		mean += actuals[i]
	}
	mean /= float64(len(actuals))

	variance := 0.0
	for _, v := range actuals {
		variance += (v - mean) * (v - mean)
	}
	popStd := math.Sqrt(variance / float64(len(actuals)))

	constant := make([]float64, 20)
	for i := range constant {
		constant[i] = mean
	}

	res, err := Evaluate(actuals, map[string]model.ForecastSeries{"naive": series("naive", constant)}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entry, ok := res.Table.Lookup("naive")
	if !ok {
		t.Fatal("expected an entry for naive")
	}
	if math.Abs(entry.RMSE-popStd) > 1e-9 {
		t.Errorf("RMSE %v, want population std %v", entry.RMSE, popStd)
	}
}

func TestEvaluate_RMSEGreaterOrEqualMAE(t *testing.T) {
	actuals := []float64{10, 12, 9, 14, 11, 13}
	forecasts := map[string]model.ForecastSeries{
		"a": series("a", []float64{11, 11, 10, 12, 12, 12}),
		"b": series("b", []float64{9, 15, 8, 16, 10, 14}),
	}
	res, err := Evaluate(actuals, forecasts, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, e := range res.Table.Entries {
		if e.MAE < 0 || e.RMSE < e.MAE {
			t.Errorf("model %s: want RMSE >= MAE >= 0, got RMSE=%v MAE=%v", e.Model, e.RMSE, e.MAE)
		}
	}
}

func TestEvaluate_PaddedForecastScoredOnValidSubset(t *testing.T) {
	actuals := make([]float64, 20)
	for i := range actuals {
		actuals[i] = 100
	}
	short := make([]float64, 15)
	for i := range short {
		short[i] = 100
	}
	res, err := Evaluate(actuals, map[string]model.ForecastSeries{"lstm": series("lstm", short)}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entry, ok := res.Table.Lookup("lstm")
	if !ok {
		t.Fatal("expected lstm to be scored on its valid subset")
	}
	if entry.NPoints != 15 {
		t.Errorf("n_points = %d, want horizon - padding = 15", entry.NPoints)
	}
	aligned := res.Aligned["lstm"]
	if len(aligned) != 20 {
		t.Fatalf("aligned length %d, want 20", len(aligned))
	}
	for i := 0; i < 5; i++ {
		if !math.IsNaN(aligned[i]) {
			t.Errorf("aligned[%d] should be the undefined sentinel", i)
		}
	}
}

func TestEvaluate_MissingModelDoesNotAbortOthers(t *testing.T) {
	actuals := []float64{1, 2, 3, 4}
	forecasts := map[string]model.ForecastSeries{
		"arimax":  series("arimax", []float64{1, 2, 3, 4}),
		"prophet": series("prophet", []float64{2, 2, 3, 5}),
		"xgboost": series("xgboost", []float64{1, 1, 4, 4}),
		"hybrid":  series("hybrid", []float64{1, 2, 2, 4}),
	}
	expected := []string{"arimax", "prophet", "xgboost", "hybrid", "lstm"}

	res, err := Evaluate(actuals, forecasts, expected)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Table.Entries) != 4 {
		t.Fatalf("expected 4 scored models, got %d", len(res.Table.Entries))
	}
	if _, ok := res.Table.Lookup("lstm"); ok {
		t.Error("lstm should be absent from the entries")
	}
	found := false
	for _, m := range res.Table.Missing {
		if m == "lstm" {
			found = true
		}
	}
	if !found {
		t.Errorf("lstm should be reported missing, got %v", res.Table.Missing)
	}
}

func TestEvaluate_OversizedForecastFails(t *testing.T) {
	actuals := []float64{1, 2, 3}
	_, err := Evaluate(actuals, map[string]model.ForecastSeries{"bad": series("bad", []float64{1, 2, 3, 4})}, nil)
	if err == nil {
		t.Fatal("expected an alignment error for an oversized forecast")
	}
}

func TestMerge_CombinesTargets(t *testing.T) {
	price := &Result{
		Table:   model.MetricsTable{Entries: []model.ModelMetrics{{Model: "arimax", Target: model.TargetPrice}}},
		Aligned: map[string][]float64{"arimax": {1, 2}},
	}
	vol := &Result{
		Table:   model.MetricsTable{Entries: []model.ModelMetrics{{Model: "garch", Target: model.TargetVolatility}}, Missing: []string{"var"}},
		Aligned: map[string][]float64{"garch": {0.1, 0.2}},
	}
	merged := Merge(price, vol)
	if len(merged.Table.Entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(merged.Table.Entries))
	}
	if len(merged.Aligned) != 2 {
		t.Errorf("expected 2 aligned series, got %d", len(merged.Aligned))
	}
	if len(merged.Table.Missing) != 1 || merged.Table.Missing[0] != "var" {
		t.Errorf("missing list not preserved: %v", merged.Table.Missing)
	}
}
