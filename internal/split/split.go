// Package split partitions a feature table chronologically. The split never
// reorders or shuffles rows, so temporal leakage from test into train is
// impossible by construction.
package split

import (
	"errors"
	"fmt"
	"math"

	"ForecastBench/internal/model"
)

// ErrInsufficientData is returned when the requested split would leave the
// train or test side empty.
var ErrInsufficientData = errors.New("split: train or test side would be empty")

// Split partitions the table into a training prefix and a test suffix at
// floor(trainFraction * N). The length of the test suffix is the forecast
// horizon used by every model adapter.
func Split(table *model.FeatureTable, trainFraction float64) (train, test *model.FeatureTable, err error) {
	if trainFraction <= 0 || trainFraction >= 1 {
		return nil, nil, fmt.Errorf("split: train fraction %v outside (0, 1)", trainFraction)
	}
	n := table.Len()
	idx := int(math.Floor(trainFraction * float64(n)))
	if idx == 0 || idx == n {
		return nil, nil, fmt.Errorf("%w: %d rows at fraction %v", ErrInsufficientData, n, trainFraction)
	}
	train = &model.FeatureTable{Symbol: table.Symbol, Rows: table.Rows[:idx]}
	test = &model.FeatureTable{Symbol: table.Symbol, Rows: table.Rows[idx:]}
	return train, test, nil
}
