package recorder

import (
	"time"

	"ForecastBench/internal/model"
)

// RunSnapshot holds everything persisted for one benchmark run.
type RunSnapshot struct {
	Symbol    string
	Rows      int
	TrainRows int
	Horizon   int
	Metrics   *model.MetricsTable
	// Aligned maps model name to its full-horizon forecast (undefined
	// sentinels included), row-aligned with Dates.
	Aligned map[string][]float64
	Dates   []time.Time
}

// Recorder persists benchmark runs for later analysis.
type Recorder interface {
	RecordRun(snap *RunSnapshot) error
	Close() error
}
