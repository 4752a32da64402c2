package forecast

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// solveOLS returns the least-squares coefficients b for X b ≈ y via QR.
func solveOLS(x *mat.Dense, y []float64) ([]float64, error) {
	rows, cols := x.Dims()
	if rows != len(y) {
		return nil, fmt.Errorf("ols: %d design rows vs %d responses", rows, len(y))
	}
	if rows < cols {
		return nil, fmt.Errorf("ols: %d rows is underdetermined for %d coefficients", rows, cols)
	}
	var qr mat.QR
	qr.Factorize(x)
	var sol mat.Dense
	if err := qr.SolveTo(&sol, false, mat.NewDense(len(y), 1, y)); err != nil {
		return nil, fmt.Errorf("ols: %w", err)
	}
	beta := make([]float64, cols)
	for i := range beta {
		beta[i] = sol.At(i, 0)
	}
	return beta, nil
}

// predictOLS applies coefficients to each row of the design matrix.
func predictOLS(x *mat.Dense, beta []float64) []float64 {
	rows, cols := x.Dims()
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		v := 0.0
		for j := 0; j < cols; j++ {
			v += x.At(i, j) * beta[j]
		}
		out[i] = v
	}
	return out
}
