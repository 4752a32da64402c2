package forecast

import (
	"math"
	"math/rand"
	"time"

	"ForecastBench/internal/model"
)

// syntheticTable builds a feature table with a noisy trending close and
// plausible regressor columns, deterministic for a given seed.
func syntheticTable(n int, seed int64) *model.FeatureTable {
	rng := rand.New(rand.NewSource(seed))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	table := &model.FeatureTable{Symbol: "BTC-USD"}

	close := 30000.0
	for i := 0; i < n; i++ {
		ret := 0.0005 + 0.01*rng.NormFloat64()
		prev := close
		close *= math.Exp(ret)
		table.Rows = append(table.Rows, model.FeatureRow{
			Date:       start.AddDate(0, 0, i),
			Close:      close,
			Volume:     1e6 * (1 + 0.3*rng.Float64()),
			LogReturn:  math.Log(close / prev),
			RSI14:      50 + 20*math.Sin(float64(i)/8) + 2*rng.NormFloat64(),
			SMA20:      close * (1 + 0.01*rng.NormFloat64()),
			SMA50:      close * (1 + 0.02*rng.NormFloat64()),
			MACD:       100 * math.Sin(float64(i)/15),
			MACDSignal: 90 * math.Sin(float64(i)/15+0.3),
		})
	}
	return table
}

// splitTable cuts a synthetic table at the given index.
func splitTable(table *model.FeatureTable, at int) (train, test *model.FeatureTable) {
	train = &model.FeatureTable{Symbol: table.Symbol, Rows: table.Rows[:at]}
	test = &model.FeatureTable{Symbol: table.Symbol, Rows: table.Rows[at:]}
	return train, test
}
