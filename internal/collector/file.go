package collector

import (
	"fmt"

	"ForecastBench/internal/artifact"
	"ForecastBench/internal/model"
)

// FileFetcher implements Fetcher by reading a previously persisted price
// CSV, so a benchmark can be re-run offline on the same raw data.
type FileFetcher struct {
	Path string
}

// NewFileFetcher creates a fetcher backed by a price CSV artifact.
func NewFileFetcher(path string) *FileFetcher {
	return &FileFetcher{Path: path}
}

func (f *FileFetcher) Name() string { return "file" }

func (f *FileFetcher) FetchDailyBars(symbol string, days int) ([]model.Bar, error) {
	series, err := artifact.ReadPrices(f.Path, symbol)
	if err != nil {
		return nil, fmt.Errorf("read price artifact: %w", err)
	}
	bars := series.Bars
	if days > 0 && len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}
