package collector

import (
	"fmt"
	"path/filepath"
	"testing"

	"ForecastBench/internal/artifact"
	"ForecastBench/internal/model"
)

func TestCollect_ValidSeries(t *testing.T) {
	c := NewCollector(&MockFetcher{BasePrice: 30000}, "BTC-USD", 120)
	series, err := c.Collect()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series.Symbol != "BTC-USD" {
		t.Errorf("symbol = %q", series.Symbol)
	}
	if len(series.Bars) != 120 {
		t.Errorf("got %d bars, want 120", len(series.Bars))
	}
	for i := 1; i < len(series.Bars); i++ {
		if !series.Bars[i].Date.After(series.Bars[i-1].Date) {
			t.Fatalf("bar %d: dates not strictly increasing", i)
		}
	}
}

func TestCollect_RejectsUnorderedBars(t *testing.T) {
	bars := GenerateMockBars(30000, 10)
	bars[4].Date = bars[2].Date
	c := NewCollector(&MockFetcher{Bars: bars}, "BTC-USD", 10)
	if _, err := c.Collect(); err == nil {
		t.Error("expected validation error for out-of-order bars")
	}
}

type failingFetcher struct{}

func (failingFetcher) Name() string { return "failing" }
func (failingFetcher) FetchDailyBars(string, int) ([]model.Bar, error) {
	return nil, fmt.Errorf("boom")
}

func TestCollect_FetchErrorIsFatal(t *testing.T) {
	c := NewCollector(failingFetcher{}, "BTC-USD", 10)
	if _, err := c.Collect(); err == nil {
		t.Error("expected fetch error to surface")
	}
}

func TestFileFetcher_ReadsBackArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.csv")
	series := &model.PriceSeries{Symbol: "BTC-USD", Bars: GenerateMockBars(30000, 30)}
	if err := artifact.WritePrices(path, series); err != nil {
		t.Fatalf("write: %v", err)
	}

	f := NewFileFetcher(path)
	bars, err := f.FetchDailyBars("BTC-USD", 0)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(bars) != 30 {
		t.Fatalf("got %d bars, want 30", len(bars))
	}

	// Trimming keeps the most recent window.
	tail, err := f.FetchDailyBars("BTC-USD", 10)
	if err != nil {
		t.Fatalf("fetch tail: %v", err)
	}
	if len(tail) != 10 {
		t.Fatalf("got %d bars, want 10", len(tail))
	}
	if !tail[9].Date.Equal(bars[29].Date) {
		t.Error("trim should keep the last bars, not the first")
	}
}

func TestFileFetcher_MissingFile(t *testing.T) {
	f := NewFileFetcher(filepath.Join(t.TempDir(), "absent.csv"))
	if _, err := f.FetchDailyBars("BTC-USD", 0); err == nil {
		t.Error("expected error for a missing price artifact")
	}
}
