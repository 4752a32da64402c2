package artifact

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"ForecastBench/internal/model"
)

func samplePrices() *model.PriceSeries {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	series := &model.PriceSeries{Symbol: "BTC-USD"}
	for i := 0; i < 5; i++ {
		p := 60000 + 150.25*float64(i)
		series.Bars = append(series.Bars, model.Bar{
			Date: start.AddDate(0, 0, i),
			Open: p - 50, High: p + 100, Low: p - 120,
			Close: p, Volume: 1.5e9 + float64(i), AdjClose: p,
		})
	}
	return series
}

func TestPrices_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.csv")
	want := samplePrices()
	if err := WritePrices(path, want); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadPrices(path, "BTC-USD")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got.Bars) != len(want.Bars) {
		t.Fatalf("got %d bars, want %d", len(got.Bars), len(want.Bars))
	}
	for i, b := range got.Bars {
		w := want.Bars[i]
		if !b.Date.Equal(w.Date) || b.Close != w.Close || b.Volume != w.Volume {
			t.Errorf("bar %d: got %+v, want %+v", i, b, w)
		}
	}
}

func TestReadPrices_RejectsUnorderedDates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.csv")
	series := samplePrices()
	series.Bars[2].Date = series.Bars[0].Date
	if err := WritePrices(path, series); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ReadPrices(path, "BTC-USD"); err == nil {
		t.Error("expected validation error for non-increasing dates")
	}
}

func TestFeatures_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.csv")
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	want := &model.FeatureTable{Symbol: "BTC-USD"}
	for i := 0; i < 4; i++ {
		want.Rows = append(want.Rows, model.FeatureRow{
			Date: start.AddDate(0, 0, i), Close: 60000.5 + float64(i),
			Volume: 1e9, LogReturn: 0.001 * float64(i),
			RSI14: 55.5, SMA20: 59000, SMA50: 58000,
			MACD: 12.75, MACDSignal: 11.5,
		})
	}
	if err := WriteFeatures(path, want); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadFeatures(path, "BTC-USD")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Len() != want.Len() {
		t.Fatalf("got %d rows, want %d", got.Len(), want.Len())
	}
	for i, r := range got.Rows {
		w := want.Rows[i]
		if r.Close != w.Close || r.LogReturn != w.LogReturn || r.MACDSignal != w.MACDSignal {
			t.Errorf("row %d: got %+v, want %+v", i, r, w)
		}
	}
}

func TestWriteForecast_DateMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.csv")
	series := model.ForecastSeries{Model: "prophet", Target: model.TargetPrice, Values: []float64{1, 2, 3}}
	dates := []time.Time{time.Now(), time.Now()}
	if err := WriteForecast(path, series, dates); err == nil {
		t.Error("expected error when dates do not align with values")
	}
}

func TestReadExternalForecast_HeaderAndValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lstm.csv")
	if err := writeCSV(path, [][]string{{"prediction"}, {"101.5"}, {"102.25"}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	values, err := ReadExternalForecast(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(values) != 2 || values[0] != 101.5 || values[1] != 102.25 {
		t.Errorf("got %v, want [101.5 102.25]", values)
	}
}

func TestReadExternalForecast_RejectsWideRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := writeCSV(path, [][]string{{"1.0", "2.0"}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ReadExternalForecast(path); err == nil {
		t.Error("expected error for a two-column artifact")
	}
}

func TestWriteMetrics_IncludesMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.csv")
	table := &model.MetricsTable{
		Entries: []model.ModelMetrics{
			{Model: "prophet", Target: model.TargetPrice, RMSE: 120.5, MAE: 90.25, NPoints: 292},
		},
		Missing: []string{"lstm"},
	}
	if err := WriteMetrics(path, table); err != nil {
		t.Fatalf("write: %v", err)
	}
	records, err := readCSV(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d rows, want header + entry + missing", len(records))
	}
	if records[1][0] != "prophet" || records[1][4] != "292" {
		t.Errorf("entry row = %v", records[1])
	}
	if records[2][0] != "lstm" || records[2][4] != "0" {
		t.Errorf("missing row = %v", records[2])
	}
}

func TestFormatFloat_RoundTrips(t *testing.T) {
	for _, v := range []float64{0, 1.5, -0.0001, 61234.56789, math.MaxFloat64} {
		got, err := parseFloats([]string{formatFloat(v)})
		if err != nil {
			t.Fatalf("%v: %v", v, err)
		}
		if got[0] != v {
			t.Errorf("round trip changed %v to %v", v, got[0])
		}
	}
}
