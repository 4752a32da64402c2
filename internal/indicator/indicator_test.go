package indicator

import (
	"math"
	"testing"

	"ForecastBench/internal/collector"
	"ForecastBench/internal/model"
)

func TestSMA_Rolling(t *testing.T) {
	out := SMA([]float64{1, 2, 3, 4, 5}, 3)
	if !math.IsNaN(out[0]) || !math.IsNaN(out[1]) {
		t.Error("entries before the first full window should be NaN")
	}
	want := []float64{2, 3, 4}
	for i, w := range want {
		if math.Abs(out[i+2]-w) > 1e-12 {
			t.Errorf("SMA[%d] = %v, want %v", i+2, out[i+2], w)
		}
	}
}

func TestEMA_ConstantSeries(t *testing.T) {
	values := []float64{5, 5, 5, 5, 5, 5}
	out := EMA(values, 3)
	if !math.IsNaN(out[0]) || !math.IsNaN(out[1]) {
		t.Error("EMA should be undefined before its seed window")
	}
	for i := 2; i < len(out); i++ {
		if math.Abs(out[i]-5) > 1e-12 {
			t.Errorf("EMA[%d] = %v, want 5", i, out[i])
		}
	}
}

func TestRSI_MonotonicGains(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = float64(i + 1)
	}
	out := RSI(values, 14)
	for i := 0; i < 14; i++ {
		if !math.IsNaN(out[i]) {
			t.Errorf("RSI[%d] should be NaN during warm-up", i)
		}
	}
	for i := 14; i < len(out); i++ {
		if out[i] != 100 {
			t.Errorf("RSI[%d] = %v, want 100 for all-gain series", i, out[i])
		}
	}
}

func TestLogReturns(t *testing.T) {
	out := LogReturns([]float64{100, 110, 99})
	if !math.IsNaN(out[0]) {
		t.Error("first log return should be NaN")
	}
	if math.Abs(out[1]-math.Log(1.1)) > 1e-12 {
		t.Errorf("log return = %v, want ln(1.1)", out[1])
	}
	if out[2] >= 0 {
		t.Errorf("expected negative return, got %v", out[2])
	}
}

func TestMACD_DefinedAfterWarmup(t *testing.T) {
	values := make([]float64, 60)
	for i := range values {
		values[i] = 100 + float64(i)
	}
	macd, signal := MACD(values)
	if !math.IsNaN(macd[24]) || math.IsNaN(macd[25]) {
		t.Error("MACD line should become defined at index 25")
	}
	if !math.IsNaN(signal[32]) || math.IsNaN(signal[33]) {
		t.Error("signal line should become defined at index 33")
	}
}

func TestBuild_DropsWarmupRows(t *testing.T) {
	bars := collector.GenerateMockBars(30000, 120)
	prices := &model.PriceSeries{Symbol: "BTC-USD", Bars: bars}

	table, err := Build(prices)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// SMA(50) has the longest lookback: the first 49 bars are dropped.
	if table.Len() != 120-49 {
		t.Fatalf("expected %d rows, got %d", 120-49, table.Len())
	}
	if !table.Rows[0].Date.Equal(bars[49].Date) {
		t.Errorf("first feature row should be bar 49's date")
	}
	for i, r := range table.Rows {
		for name, v := range map[string]float64{
			"log_return": r.LogReturn, "rsi_14": r.RSI14, "sma_20": r.SMA20,
			"sma_50": r.SMA50, "macd": r.MACD, "macd_signal": r.MACDSignal,
		} {
			if math.IsNaN(v) {
				t.Fatalf("row %d: %s is not populated", i, name)
			}
		}
	}
}

func TestBuild_InsufficientHistory(t *testing.T) {
	bars := collector.GenerateMockBars(30000, 40)
	prices := &model.PriceSeries{Symbol: "BTC-USD", Bars: bars}
	if _, err := Build(prices); err == nil {
		t.Fatal("expected an error for history shorter than the longest warm-up")
	}
}
