package forecast

import (
	"context"
	"fmt"
	"math"

	"github.com/sartorproj/goarima/arima"
	"github.com/sartorproj/goarima/timeseries"
	"gonum.org/v1/gonum/mat"

	"ForecastBench/internal/model"
)

// ARIMAX forecasts the close price by regression with ARIMA errors: an OLS
// fit of close on the exogenous regressors, plus a stepwise-selected ARIMA
// model of the regression residuals. Future exogenous values are taken from
// the test period, an idealized assumption inherited from the reference
// methodology.
type ARIMAX struct {
	MaxP int
	MaxD int
	MaxQ int
}

// NewARIMAX creates the adapter with the default (p,d,q) search bounds.
func NewARIMAX() *ARIMAX {
	return &ARIMAX{MaxP: 3, MaxD: 1, MaxQ: 3}
}

func (a *ARIMAX) Name() string { return "arimax" }

func (a *ARIMAX) FitAndForecast(ctx context.Context, train, test *model.FeatureTable) (model.ForecastSeries, error) {
	horizon := test.Len()
	if train.Len() == 0 || horizon == 0 {
		return model.ForecastSeries{}, fmt.Errorf("arimax: empty train or test table")
	}

	xTrain := exogDesign(train)
	beta, err := solveOLS(xTrain, train.Closes())
	if err != nil {
		return model.ForecastSeries{}, fmt.Errorf("arimax regression: %w", err)
	}

	fitted := predictOLS(xTrain, beta)
	closes := train.Closes()
	resid := make([]float64, len(closes))
	for i := range closes {
		resid[i] = closes[i] - fitted[i]
	}

	best, err := a.searchOrder(ctx, resid)
	if err != nil {
		return model.ForecastSeries{}, err
	}
	residForecast, err := best.Predict(horizon)
	if err != nil {
		return model.ForecastSeries{}, fmt.Errorf("arimax residual forecast: %w", err)
	}

	exogForecast := predictOLS(exogDesign(test), beta)
	values := make([]float64, horizon)
	for i := range values {
		values[i] = exogForecast[i] + residForecast[i]
	}
	return model.ForecastSeries{Model: a.Name(), Target: model.TargetPrice, Values: values}, nil
}

// searchOrder runs a bounded stepwise grid search over (p,d,q), keeping the
// model with the lowest AICc. Individual non-converging orders are skipped.
func (a *ARIMAX) searchOrder(ctx context.Context, series []float64) (*arima.Model, error) {
	var best *arima.Model
	bestAICc := math.Inf(1)
	for p := 0; p <= a.MaxP; p++ {
		for d := 0; d <= a.MaxD; d++ {
			for q := 0; q <= a.MaxQ; q++ {
				if p == 0 && q == 0 {
					continue
				}
				if err := ctx.Err(); err != nil {
					return nil, fmt.Errorf("arimax order search: %w", err)
				}
				m := arima.New(p, d, q)
				if err := m.Fit(timeseries.New(series)); err != nil {
					continue
				}
				if m.AICc < bestAICc {
					bestAICc = m.AICc
					best = m
				}
			}
		}
	}
	if best == nil {
		return nil, fmt.Errorf("arimax: no ARIMA order converged on the residual series")
	}
	return best, nil
}

// exogDesign builds [1 | rsi_14 sma_20 sma_50 macd macd_signal volume].
func exogDesign(table *model.FeatureTable) *mat.Dense {
	exog := table.Exogenous()
	cols := len(model.ExogenousColumns) + 1
	x := mat.NewDense(len(exog), cols, nil)
	for i, row := range exog {
		x.Set(i, 0, 1)
		for j, v := range row {
			x.Set(i, j+1, v)
		}
	}
	return x
}
