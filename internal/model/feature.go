package model

import "time"

// FeatureRow is one fully populated row of the feature table. Rows that
// lack enough lookback history for any indicator are never emitted.
type FeatureRow struct {
	Date       time.Time
	Close      float64
	Volume     float64
	LogReturn  float64
	RSI14      float64
	SMA20      float64
	SMA50      float64
	MACD       float64
	MACDSignal float64
}

// FeatureTable is the engineered dataset consumed by all model adapters.
// It is produced once per run and must be treated as read-only downstream.
type FeatureTable struct {
	Symbol string
	Rows   []FeatureRow
}

// Len returns the number of rows.
func (t *FeatureTable) Len() int { return len(t.Rows) }

// Dates returns the date column.
func (t *FeatureTable) Dates() []time.Time {
	dates := make([]time.Time, len(t.Rows))
	for i, r := range t.Rows {
		dates[i] = r.Date
	}
	return dates
}

// Closes returns the close column.
func (t *FeatureTable) Closes() []float64 {
	closes := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		closes[i] = r.Close
	}
	return closes
}

// LogReturns returns the log-return column.
func (t *FeatureTable) LogReturns() []float64 {
	rets := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		rets[i] = r.LogReturn
	}
	return rets
}

// Volumes returns the volume column.
func (t *FeatureTable) Volumes() []float64 {
	vols := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		vols[i] = r.Volume
	}
	return vols
}

// ExogenousColumns names the regressor columns in the order produced by Exogenous.
var ExogenousColumns = []string{"rsi_14", "sma_20", "sma_50", "macd", "macd_signal", "volume"}

// Exogenous returns the regressor matrix, row-aligned with the table.
func (t *FeatureTable) Exogenous() [][]float64 {
	m := make([][]float64, len(t.Rows))
	for i, r := range t.Rows {
		m[i] = []float64{r.RSI14, r.SMA20, r.SMA50, r.MACD, r.MACDSignal, r.Volume}
	}
	return m
}
