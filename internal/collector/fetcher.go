package collector

import "ForecastBench/internal/model"

// Fetcher defines the interface for acquiring daily price history.
type Fetcher interface {
	FetchDailyBars(symbol string, days int) ([]model.Bar, error)
	Name() string
}
