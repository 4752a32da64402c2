package collector

import (
	"fmt"
	"time"

	"ForecastBench/internal/model"
)

// Collector acquires and validates the raw price series for one symbol.
type Collector struct {
	Fetcher Fetcher
	Symbol  string
	Days    int
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, symbol string, days int) *Collector {
	return &Collector{Fetcher: fetcher, Symbol: symbol, Days: days}
}

// Collect fetches the daily history and returns a validated PriceSeries.
// Data errors here are fatal; nothing downstream can recover from them.
func (c *Collector) Collect() (*model.PriceSeries, error) {
	bars, err := c.Fetcher.FetchDailyBars(c.Symbol, c.Days)
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars: %w", err)
	}
	series := &model.PriceSeries{
		Symbol:    c.Symbol,
		Bars:      bars,
		FetchedAt: time.Now(),
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}
	return series, nil
}
