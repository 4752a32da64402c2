package forecast

import (
	"context"
	"math"
	"testing"

	"ForecastBench/internal/model"
)

func boostedFixture(t *testing.T, n, trainLen int, seed int64) (*model.FeatureTable, *model.FeatureTable, []float64, []float64) {
	t.Helper()
	table := syntheticTable(n, seed)
	train, test := splitTable(table, trainLen)
	trainVol := make([]float64, train.Len())
	forecastVol := make([]float64, test.Len())
	for i := range trainVol {
		trainVol[i] = 0.01 + 0.001*math.Sin(float64(i))
	}
	for i := range forecastVol {
		forecastVol[i] = 0.012
	}
	return train, test, trainVol, forecastVol
}

func TestBoostedTrees_ForecastCoversHorizon(t *testing.T) {
	train, test, trainVol, forecastVol := boostedFixture(t, 250, 200, 31)

	b := NewBoostedTrees(trainVol, forecastVol, false)
	series, err := b.FitAndForecast(context.Background(), train, test)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series.Target != model.TargetPrice {
		t.Errorf("target = %s, want price", series.Target)
	}
	if len(series.Values) != test.Len() {
		t.Fatalf("forecast length %d, want %d", len(series.Values), test.Len())
	}
	for i, v := range series.Values {
		if math.IsNaN(v) || v <= 0 {
			t.Fatalf("step %d: price forecast %v", i, v)
		}
	}
}

func TestBoostedTrees_VolatilityLengthMismatch(t *testing.T) {
	train, test, trainVol, forecastVol := boostedFixture(t, 250, 200, 32)

	b := NewBoostedTrees(trainVol[:len(trainVol)-1], forecastVol, false)
	if _, err := b.FitAndForecast(context.Background(), train, test); err == nil {
		t.Error("expected error for short train volatility column")
	}

	b = NewBoostedTrees(trainVol, forecastVol[:test.Len()-1], false)
	if _, err := b.FitAndForecast(context.Background(), train, test); err == nil {
		t.Error("expected error for short volatility forecast")
	}
}

func TestBoostedTrees_CannotFollowTrendOutOfRange(t *testing.T) {
	// On a persistently trending series the test-period closes leave the
	// training range, and tree predictions cannot follow them out.
	train, test, trainVol, forecastVol := boostedFixture(t, 300, 240, 33)

	maxTrain := 0.0
	for _, c := range train.Closes() {
		if c > maxTrain {
			maxTrain = c
		}
	}

	b := NewBoostedTrees(trainVol, forecastVol, false)
	series, err := b.FitAndForecast(context.Background(), train, test)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range series.Values {
		if v > maxTrain*1.01 {
			t.Errorf("step %d: prediction %v escaped the training close range (max %v)", i, v, maxTrain)
		}
	}
}

func TestBoostedTrees_LogVolumeChangesDesignOnly(t *testing.T) {
	train, _, trainVol, _ := boostedFixture(t, 100, 80, 34)

	raw := NewBoostedTrees(trainVol, nil, false).designMatrix(train, trainVol)
	logged := NewBoostedTrees(trainVol, nil, true).designMatrix(train, trainVol)
	for i := range raw {
		want := math.Log1p(train.Rows[i].Volume)
		if math.Abs(logged[i][5]-want) > 1e-12 {
			t.Fatalf("row %d: log volume column %v, want %v", i, logged[i][5], want)
		}
		if raw[i][5] != train.Rows[i].Volume {
			t.Fatalf("row %d: raw volume column altered", i)
		}
	}
}
