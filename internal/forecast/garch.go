package forecast

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"

	"ForecastBench/internal/model"
)

// GARCH fits a GARCH(1,1) volatility model with standardized Student-t
// innovations on the training log returns, by maximum likelihood via
// Nelder-Mead. It forecasts conditional volatility, not price: the output is
// scored against realized absolute returns, and the in-sample fitted
// volatility feeds the boosted-tree adapter as an extra regressor.
type GARCH struct{}

// NewGARCH creates the adapter.
func NewGARCH() *GARCH { return &GARCH{} }

func (g *GARCH) Name() string { return "garch" }

func (g *GARCH) FitAndForecast(ctx context.Context, train, test *model.FeatureTable) (model.ForecastSeries, error) {
	if err := ctx.Err(); err != nil {
		return model.ForecastSeries{}, err
	}
	_, forecast, err := g.Volatility(train, test.Len())
	if err != nil {
		return model.ForecastSeries{}, err
	}
	return model.ForecastSeries{Model: g.Name(), Target: model.TargetVolatility, Values: forecast}, nil
}

// Volatility fits the model on the train returns and returns both the
// in-sample conditional volatility (one value per train row) and the
// horizon-step volatility forecast.
func (g *GARCH) Volatility(train *model.FeatureTable, horizon int) (inSample, forecast []float64, err error) {
	returns := train.LogReturns()
	if len(returns) < 30 {
		return nil, nil, fmt.Errorf("garch: %d returns is too short to fit", len(returns))
	}

	sampleVar := stat.Variance(returns, nil)
	if sampleVar <= 0 {
		return nil, nil, fmt.Errorf("garch: zero return variance")
	}

	// θ = [μ, ω, α, β, ν]; invalid regions are penalized rather than
	// transformed so Nelder-Mead can wander freely.
	problem := optimize.Problem{
		Func: func(theta []float64) float64 {
			return garchNegLogLik(returns, sampleVar, theta)
		},
	}
	x0 := []float64{stat.Mean(returns, nil), 0.05 * sampleVar, 0.05, 0.90, 8.0}
	result, err := optimize.Minimize(problem, x0, nil, &optimize.NelderMead{})
	if err != nil {
		return nil, nil, fmt.Errorf("garch: optimize: %w", err)
	}
	theta := result.X
	if garchNegLogLik(returns, sampleVar, theta) >= garchPenalty {
		return nil, nil, fmt.Errorf("garch: likelihood did not move off the constraint boundary")
	}

	mu, omega, alpha, beta := theta[0], theta[1], theta[2], theta[3]

	// In-sample conditional variance recursion, seeded at the sample variance.
	h := sampleVar
	inSample = make([]float64, len(returns))
	inSample[0] = math.Sqrt(h)
	for t := 1; t < len(returns); t++ {
		eps := returns[t-1] - mu
		h = omega + alpha*eps*eps + beta*h
		inSample[t] = math.Sqrt(h)
	}

	// Multi-step forecast: E[ε²] is replaced by the variance forecast itself.
	forecast = make([]float64, horizon)
	for k := 0; k < horizon; k++ {
		eps := 0.0
		if k == 0 {
			eps = returns[len(returns)-1] - mu
			h = omega + alpha*eps*eps + beta*h
		} else {
			h = omega + (alpha+beta)*h
		}
		forecast[k] = math.Sqrt(h)
	}
	return inSample, forecast, nil
}

const garchPenalty = 1e12

// garchNegLogLik is the negative log-likelihood of a GARCH(1,1) with
// standardized Student-t innovations. Constraint violations (non-positive
// variance parameters, non-stationarity, ν ≤ 2) return a flat penalty.
func garchNegLogLik(returns []float64, seedVar float64, theta []float64) float64 {
	mu, omega, alpha, beta, nu := theta[0], theta[1], theta[2], theta[3], theta[4]
	if omega <= 0 || alpha < 0 || beta < 0 || alpha+beta >= 0.9999 || nu <= 2.01 || nu > 200 {
		return garchPenalty
	}

	lgHalf, _ := math.Lgamma((nu + 1) / 2)
	lgNu, _ := math.Lgamma(nu / 2)
	logConst := lgHalf - lgNu - 0.5*math.Log(math.Pi*(nu-2))

	ll := 0.0
	h := seedVar
	for t := 0; t < len(returns); t++ {
		if t > 0 {
			eps := returns[t-1] - mu
			h = omega + alpha*eps*eps + beta*h
		}
		if h <= 0 || math.IsNaN(h) || math.IsInf(h, 0) {
			return garchPenalty
		}
		z := (returns[t] - mu) / math.Sqrt(h)
		ll += logConst - 0.5*math.Log(h) - ((nu+1)/2)*math.Log(1+z*z/(nu-2))
	}
	if math.IsNaN(ll) || math.IsInf(ll, 0) {
		return garchPenalty
	}
	return -ll
}
