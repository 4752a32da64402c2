package forecast

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"ForecastBench/internal/model"
)

// VAR jointly models log returns and volume as a bivariate vector
// autoregression. The lag order is selected by minimizing AIC over 1..MaxLag.
// The adapter targets returns/volume co-movement, not price level, so its
// output is scored against realized log returns and excluded from the price
// comparison.
type VAR struct {
	MaxLag int
}

// NewVAR creates the adapter with the default lag search bound of 10.
func NewVAR() *VAR {
	return &VAR{MaxLag: 10}
}

func (v *VAR) Name() string { return "var" }

type varFit struct {
	lag   int
	coefs [2][]float64 // per-equation coefficients: [1, y1 lags..., y2 lags...]
	aic   float64
}

func (v *VAR) FitAndForecast(ctx context.Context, train, test *model.FeatureTable) (model.ForecastSeries, error) {
	horizon := test.Len()
	y1 := train.LogReturns()
	y2 := train.Volumes()

	// A tiny series can still clear fitVAR's rank check at lag 1 while leaving
	// almost no residual degrees of freedom; reject it outright, like GARCH.
	if len(y1) < 30 {
		return model.ForecastSeries{}, fmt.Errorf("var: %d returns is too short to fit", len(y1))
	}

	best, err := v.selectLag(ctx, y1, y2)
	if err != nil {
		return model.ForecastSeries{}, err
	}

	// Iterate the fitted system forward, feeding forecasts back in as lags.
	h1 := append([]float64(nil), y1...)
	h2 := append([]float64(nil), y2...)
	values := make([]float64, horizon)
	for step := 0; step < horizon; step++ {
		f1 := evalVAREquation(best.coefs[0], h1, h2, best.lag)
		f2 := evalVAREquation(best.coefs[1], h1, h2, best.lag)
		values[step] = f1
		h1 = append(h1, f1)
		h2 = append(h2, f2)
	}
	return model.ForecastSeries{Model: v.Name(), Target: model.TargetReturn, Values: values}, nil
}

// selectLag fits the VAR at each candidate lag and keeps the lowest AIC.
func (v *VAR) selectLag(ctx context.Context, y1, y2 []float64) (*varFit, error) {
	var best *varFit
	for lag := 1; lag <= v.MaxLag; lag++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("var lag search: %w", err)
		}
		fit, err := fitVAR(y1, y2, lag)
		if err != nil {
			continue
		}
		if best == nil || fit.aic < best.aic {
			best = fit
		}
	}
	if best == nil {
		return nil, fmt.Errorf("var: no lag in 1..%d produced a valid fit", v.MaxLag)
	}
	return best, nil
}

func fitVAR(y1, y2 []float64, lag int) (*varFit, error) {
	n := len(y1)
	rows := n - lag
	cols := 1 + 2*lag
	if rows <= cols {
		return nil, fmt.Errorf("var: %d observations too few for lag %d", n, lag)
	}

	x := mat.NewDense(rows, cols, nil)
	for t := 0; t < rows; t++ {
		x.Set(t, 0, 1)
		for l := 1; l <= lag; l++ {
			x.Set(t, l, y1[lag+t-l])
			x.Set(t, lag+l, y2[lag+t-l])
		}
	}

	fit := &varFit{lag: lag}
	resid := [2][]float64{}
	for eq, target := range [][]float64{y1[lag:], y2[lag:]} {
		beta, err := solveOLS(x, target)
		if err != nil {
			return nil, err
		}
		fit.coefs[eq] = beta
		pred := predictOLS(x, beta)
		r := make([]float64, rows)
		for i := range r {
			r[i] = target[i] - pred[i]
		}
		resid[eq] = r
	}

	// AIC from the determinant of the residual covariance (MLE scaling).
	var s11, s22, s12 float64
	for i := 0; i < rows; i++ {
		s11 += resid[0][i] * resid[0][i]
		s22 += resid[1][i] * resid[1][i]
		s12 += resid[0][i] * resid[1][i]
	}
	tf := float64(rows)
	det := (s11/tf)*(s22/tf) - (s12/tf)*(s12/tf)
	if det <= 0 {
		return nil, fmt.Errorf("var: singular residual covariance at lag %d", lag)
	}
	fit.aic = tf*math.Log(det) + 2*float64(2*cols)
	return fit, nil
}

// evalVAREquation computes one equation's next value from the lag history.
func evalVAREquation(beta, h1, h2 []float64, lag int) float64 {
	v := beta[0]
	n1, n2 := len(h1), len(h2)
	for l := 1; l <= lag; l++ {
		v += beta[l] * h1[n1-l]
		v += beta[lag+l] * h2[n2-l]
	}
	return v
}
