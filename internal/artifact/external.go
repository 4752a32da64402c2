package artifact

import (
	"fmt"
	"path/filepath"
	"strconv"

	"ForecastBench/internal/model"
)

// ReadExternalForecast reads a forecast produced in an external training
// environment: a single numeric column keyed by row order, no date column.
// An optional header row is tolerated. The caller re-attaches dates.
func ReadExternalForecast(path string) ([]float64, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	var values []float64
	for i, rec := range records {
		if len(rec) == 0 {
			continue
		}
		if len(rec) != 1 {
			return nil, fmt.Errorf("%s: row %d has %d columns, want 1", path, i+1, len(rec))
		}
		v, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			if i == 0 {
				continue // header row
			}
			return nil, fmt.Errorf("%s: row %d: %w", path, i+1, err)
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s: no forecast values", path)
	}
	return values, nil
}

// ExportExternalInputs writes everything the external training environment
// needs for the test period: the feature matrix and the GARCH volatility
// forecast, one file each under dir.
func ExportExternalInputs(dir string, test *model.FeatureTable, volForecast []float64) error {
	if err := WriteFeatures(filepath.Join(dir, "features_test.csv"), test); err != nil {
		return err
	}
	records := [][]string{{"date", "garch_volatility"}}
	dates := test.Dates()
	for i, v := range volForecast {
		if i >= len(dates) {
			break
		}
		records = append(records, []string{dates[i].Format(dateLayout), formatFloat(v)})
	}
	return writeCSV(filepath.Join(dir, "garch_volatility.csv"), records)
}

// ForecastPath returns the canonical location of one model's forecast file.
func ForecastPath(dir, modelName string) string {
	return filepath.Join(dir, "forecasts", modelName+".csv")
}
