package indicator

import (
	"fmt"
	"math"

	"ForecastBench/internal/model"
)

// Build derives the full feature table from a price series. Rows where any
// indicator still lacks lookback history are dropped, never null-filled, so
// every emitted row is fully populated.
func Build(prices *model.PriceSeries) (*model.FeatureTable, error) {
	if err := prices.Validate(); err != nil {
		return nil, err
	}
	closes := prices.Closes()

	logRet := LogReturns(closes)
	rsi14 := RSI(closes, 14)
	sma20 := SMA(closes, 20)
	sma50 := SMA(closes, 50)
	macd, signal := MACD(closes)

	table := &model.FeatureTable{Symbol: prices.Symbol}
	for i, bar := range prices.Bars {
		if math.IsNaN(logRet[i]) || math.IsNaN(rsi14[i]) ||
			math.IsNaN(sma20[i]) || math.IsNaN(sma50[i]) ||
			math.IsNaN(macd[i]) || math.IsNaN(signal[i]) {
			continue
		}
		table.Rows = append(table.Rows, model.FeatureRow{
			Date:       bar.Date,
			Close:      bar.Close,
			Volume:     bar.Volume,
			LogReturn:  logRet[i],
			RSI14:      rsi14[i],
			SMA20:      sma20[i],
			SMA50:      sma50[i],
			MACD:       macd[i],
			MACDSignal: signal[i],
		})
	}
	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("feature table %s: %d bars is not enough history for any indicator row",
			prices.Symbol, len(prices.Bars))
	}
	return table, nil
}
