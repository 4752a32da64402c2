package forecast

import (
	"context"
	"fmt"
	"math"

	"ForecastBench/internal/model"
)

// BoostedTrees regresses the close price on the exogenous features plus the
// GARCH conditional volatility, with gradient-boosted trees. The train matrix
// uses GARCH's in-sample fitted volatility; the test matrix uses its
// out-of-sample forecast, so GARCH must run first.
//
// Volume enters raw unless LogVolume is set. The reference run left volume
// unscaled while every other regressor sat in a narrow range, and its error
// dominated the comparison; that behavior is the documented default here,
// not a bug.
type BoostedTrees struct {
	Rounds       int
	Depth        int
	LearningRate float64
	LogVolume    bool

	// Volatility columns supplied by the GARCH adapter.
	TrainVol    []float64
	ForecastVol []float64
}

// NewBoostedTrees creates the adapter with the reference hyperparameters and
// the GARCH volatility columns for the train and test periods.
func NewBoostedTrees(trainVol, forecastVol []float64, logVolume bool) *BoostedTrees {
	return &BoostedTrees{
		Rounds:       200,
		Depth:        3,
		LearningRate: 0.1,
		LogVolume:    logVolume,
		TrainVol:     trainVol,
		ForecastVol:  forecastVol,
	}
}

func (b *BoostedTrees) Name() string { return "xgboost" }

func (b *BoostedTrees) FitAndForecast(ctx context.Context, train, test *model.FeatureTable) (model.ForecastSeries, error) {
	if err := ctx.Err(); err != nil {
		return model.ForecastSeries{}, err
	}
	if len(b.TrainVol) != train.Len() {
		return model.ForecastSeries{}, fmt.Errorf("xgboost: %d volatility values for %d train rows", len(b.TrainVol), train.Len())
	}
	if len(b.ForecastVol) < test.Len() {
		return model.ForecastSeries{}, fmt.Errorf("xgboost: %d volatility forecasts for horizon %d", len(b.ForecastVol), test.Len())
	}

	xTrain := b.designMatrix(train, b.TrainVol)
	m := trainBoosted(xTrain, train.Closes(), b.Rounds, b.Depth, b.LearningRate)

	xTest := b.designMatrix(test, b.ForecastVol[:test.Len()])
	values := make([]float64, test.Len())
	for i, row := range xTest {
		values[i] = m.predict(row)
	}
	return model.ForecastSeries{Model: b.Name(), Target: model.TargetPrice, Values: values}, nil
}

// designMatrix builds the per-row feature vectors: the six exogenous columns
// with volume optionally log-transformed, plus the volatility column.
func (b *BoostedTrees) designMatrix(table *model.FeatureTable, vol []float64) [][]float64 {
	x := make([][]float64, table.Len())
	for i, r := range table.Rows {
		volume := r.Volume
		if b.LogVolume {
			volume = math.Log1p(volume)
		}
		x[i] = []float64{r.RSI14, r.SMA20, r.SMA50, r.MACD, r.MACDSignal, volume, vol[i]}
	}
	return x
}
