// Package artifact persists the flat-file artifacts exchanged between
// pipeline stages: raw prices, the feature table, per-model forecasts, and
// the metrics export. All files are CSV with a header row and ISO dates.
package artifact

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"ForecastBench/internal/model"
)

const dateLayout = "2006-01-02"

// WritePrices persists a price series.
func WritePrices(path string, series *model.PriceSeries) error {
	records := [][]string{{"date", "open", "high", "low", "close", "volume", "adj_close"}}
	for _, b := range series.Bars {
		records = append(records, []string{
			b.Date.Format(dateLayout),
			formatFloat(b.Open), formatFloat(b.High), formatFloat(b.Low),
			formatFloat(b.Close), formatFloat(b.Volume), formatFloat(b.AdjClose),
		})
	}
	return writeCSV(path, records)
}

// ReadPrices loads a price series previously written by WritePrices.
func ReadPrices(path, symbol string) (*model.PriceSeries, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	series := &model.PriceSeries{Symbol: symbol}
	for i, rec := range records {
		if i == 0 {
			continue // header
		}
		if len(rec) != 7 {
			return nil, fmt.Errorf("%s: row %d has %d columns, want 7", path, i+1, len(rec))
		}
		date, err := time.Parse(dateLayout, rec[0])
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", path, i+1, err)
		}
		vals, err := parseFloats(rec[1:])
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", path, i+1, err)
		}
		series.Bars = append(series.Bars, model.Bar{
			Date: date, Open: vals[0], High: vals[1], Low: vals[2],
			Close: vals[3], Volume: vals[4], AdjClose: vals[5],
		})
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}
	return series, nil
}

// WriteFeatures persists the feature table.
func WriteFeatures(path string, table *model.FeatureTable) error {
	records := [][]string{{"date", "close", "volume", "log_return", "rsi_14", "sma_20", "sma_50", "macd", "macd_signal"}}
	for _, r := range table.Rows {
		records = append(records, []string{
			r.Date.Format(dateLayout),
			formatFloat(r.Close), formatFloat(r.Volume), formatFloat(r.LogReturn),
			formatFloat(r.RSI14), formatFloat(r.SMA20), formatFloat(r.SMA50),
			formatFloat(r.MACD), formatFloat(r.MACDSignal),
		})
	}
	return writeCSV(path, records)
}

// ReadFeatures loads a feature table previously written by WriteFeatures.
func ReadFeatures(path, symbol string) (*model.FeatureTable, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	table := &model.FeatureTable{Symbol: symbol}
	for i, rec := range records {
		if i == 0 {
			continue
		}
		if len(rec) != 9 {
			return nil, fmt.Errorf("%s: row %d has %d columns, want 9", path, i+1, len(rec))
		}
		date, err := time.Parse(dateLayout, rec[0])
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", path, i+1, err)
		}
		vals, err := parseFloats(rec[1:])
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", path, i+1, err)
		}
		table.Rows = append(table.Rows, model.FeatureRow{
			Date: date, Close: vals[0], Volume: vals[1], LogReturn: vals[2],
			RSI14: vals[3], SMA20: vals[4], SMA50: vals[5], MACD: vals[6], MACDSignal: vals[7],
		})
	}
	return table, nil
}

// WriteForecast persists one model's forecast with its re-attached dates.
// dates must align with the series values (tail of the test period for a
// short series).
func WriteForecast(path string, series model.ForecastSeries, dates []time.Time) error {
	if len(dates) != len(series.Values) {
		return fmt.Errorf("forecast %s: %d dates for %d values", series.Model, len(dates), len(series.Values))
	}
	records := [][]string{{"date", "value"}}
	for i, v := range series.Values {
		records = append(records, []string{dates[i].Format(dateLayout), formatFloat(v)})
	}
	return writeCSV(path, records)
}

// WriteMetrics exports the comparison table as flat CSV.
func WriteMetrics(path string, table *model.MetricsTable) error {
	records := [][]string{{"model", "target", "rmse", "mae", "n_points"}}
	for _, e := range table.Entries {
		records = append(records, []string{
			e.Model, string(e.Target),
			formatFloat(e.RMSE), formatFloat(e.MAE), strconv.Itoa(e.NPoints),
		})
	}
	for _, m := range table.Missing {
		records = append(records, []string{m, "", "", "", "0"})
	}
	return writeCSV(path, records)
}

func writeCSV(path string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return records, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i+2, err)
		}
		out[i] = v
	}
	return out, nil
}
