package collector

import (
	"math"
	"time"

	"ForecastBench/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	BasePrice float64
	Bars      []model.Bar
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ string, days int) ([]model.Bar, error) {
	if m.Bars != nil {
		if days > 0 && len(m.Bars) > days {
			return m.Bars[len(m.Bars)-days:], nil
		}
		return m.Bars, nil
	}
	return GenerateMockBars(m.BasePrice, days), nil
}

// GenerateMockBars builds a deterministic oscillating price path, useful for
// pipeline tests that need enough history for every indicator warm-up.
func GenerateMockBars(basePrice float64, count int) []model.Bar {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		drift := 1 + float64(i)*0.0005
		wave := 1 + 0.03*math.Sin(float64(i)/9)
		p := basePrice * drift * wave
		bars[i] = model.Bar{
			Date:     start.AddDate(0, 0, i),
			Open:     p * 0.999,
			High:     p * 1.005,
			Low:      p * 0.995,
			Close:    p,
			Volume:   1000000 * (1 + 0.2*math.Cos(float64(i)/7)),
			AdjClose: p,
		}
	}
	return bars
}
