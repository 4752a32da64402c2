package forecast

import (
	"context"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"ForecastBench/internal/model"
)

// yearDays is the trigonometric period of the annual seasonality terms.
const yearDays = 365.25

// Prophet fits an additive model in the Prophet family: linear trend, annual
// Fourier seasonality, and four extra regressors (rsi_14, sma_20, macd,
// volume) as linear terms, estimated jointly by least squares. The future
// data frame is the test period's dates and regressor values.
type Prophet struct {
	FourierOrder int
}

// NewProphet creates the adapter with annual seasonality of Fourier order 3.
func NewProphet() *Prophet {
	return &Prophet{FourierOrder: 3}
}

func (p *Prophet) Name() string { return "prophet" }

func (p *Prophet) FitAndForecast(ctx context.Context, train, test *model.FeatureTable) (model.ForecastSeries, error) {
	if err := ctx.Err(); err != nil {
		return model.ForecastSeries{}, err
	}
	if train.Len() == 0 || test.Len() == 0 {
		return model.ForecastSeries{}, fmt.Errorf("prophet: empty train or test table")
	}

	t0 := train.Rows[0].Date
	xTrain := p.design(train, t0)
	beta, err := solveOLS(xTrain, train.Closes())
	if err != nil {
		return model.ForecastSeries{}, fmt.Errorf("prophet fit: %w", err)
	}
	values := predictOLS(p.design(test, t0), beta)
	return model.ForecastSeries{Model: p.Name(), Target: model.TargetPrice, Values: values}, nil
}

// design builds [1 | t | sin/cos pairs | rsi_14 sma_20 macd volume] with t in
// days since the start of training.
func (p *Prophet) design(table *model.FeatureTable, t0 time.Time) *mat.Dense {
	cols := 2 + 2*p.FourierOrder + 4
	x := mat.NewDense(table.Len(), cols, nil)
	for i, row := range table.Rows {
		t := row.Date.Sub(t0).Hours() / 24
		x.Set(i, 0, 1)
		x.Set(i, 1, t)
		for k := 1; k <= p.FourierOrder; k++ {
			arg := 2 * math.Pi * float64(k) * t / yearDays
			x.Set(i, 2*k, math.Sin(arg))
			x.Set(i, 2*k+1, math.Cos(arg))
		}
		base := 2 + 2*p.FourierOrder
		x.Set(i, base, row.RSI14)
		x.Set(i, base+1, row.SMA20)
		x.Set(i, base+2, row.MACD)
		x.Set(i, base+3, row.Volume)
	}
	return x
}
