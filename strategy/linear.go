package strategy

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/arloliu/autofmu/errs"
	"github.com/arloliu/autofmu/format"
)

// LinearFit is an ordinary least-squares fit: output[j] = Intercepts[j] + Σ_i Coefficients[j][i]*input[i].
type LinearFit struct {
	// Coefficients has one row per output and one column per input.
	Coefficients [][]float64
	// Intercepts has one entry per output.
	Intercepts []float64
	// RSquared is the uniform average of the per-output R² on the training data.
	RSquared float64
	// RMSE is the training root mean squared error of each output.
	RMSE []float64
}

var _ Result = (*LinearFit)(nil)

// Kind returns format.StrategyLinear.
func (f *LinearFit) Kind() format.StrategyKind { return format.StrategyLinear }

// Score returns the average training R².
func (f *LinearFit) Score() float64 { return f.RSquared }

// Predict evaluates every output for one input vector.
func (f *LinearFit) Predict(x []float64) []float64 {
	out := make([]float64, len(f.Coefficients))
	for j, row := range f.Coefficients {
		v := f.Intercepts[j]
		for i, c := range row {
			v += c * x[i]
		}
		out[j] = v
	}

	return out
}

// String returns a short summary of the fit.
func (f *LinearFit) String() string {
	return fmt.Sprintf("LinearFit{Outputs: %d, Inputs: %d, R²: %.4f}", len(f.Coefficients), len(f.Coefficients[0]), f.RSquared)
}

// fitLinear solves the least-squares problem on centered data and recovers the
// intercepts from the column means. x and y are column-major.
func fitLinear(x, y [][]float64, cfg *fitConfig) (*LinearFit, error) {
	n, p, m := len(x[0]), len(x), len(y)

	xMean := make([]float64, p)
	xc := mat.NewDense(n, p, nil)
	for i, col := range x {
		xMean[i] = calculateMean(col)
		for r, v := range col {
			xc.Set(r, i, v-xMean[i])
		}
	}

	yMean := make([]float64, m)
	yc := mat.NewDense(n, m, nil)
	for j, col := range y {
		yMean[j] = calculateMean(col)
		for r, v := range col {
			yc.Set(r, j, v-yMean[j])
		}
	}

	beta, err := leastSquares(xc, yc)
	if err != nil {
		return nil, err
	}
	if beta.rankDeficient {
		cfg.logger.Warn("linear design matrix is rank deficient, using minimum-norm solution",
			"rank", beta.rank, "inputs", p)
	}

	fit := &LinearFit{
		Coefficients: make([][]float64, m),
		Intercepts:   make([]float64, m),
		RMSE:         make([]float64, m),
	}
	predicted := make([]float64, n)
	r2Sum := 0.0
	for j := range m {
		coeffs := make([]float64, p)
		intercept := yMean[j]
		for i := range p {
			coeffs[i] = beta.coef.At(i, j)
			intercept -= coeffs[i] * xMean[i]
		}
		if !finite(coeffs) || math.IsNaN(intercept) || math.IsInf(intercept, 0) {
			return nil, fmt.Errorf("%w: %w: output %d", errs.ErrFit, errs.ErrNonFinite, j)
		}
		fit.Coefficients[j] = coeffs
		fit.Intercepts[j] = intercept

		for r := range n {
			v := intercept
			for i := range p {
				v += coeffs[i] * x[i][r]
			}
			predicted[r] = v
		}
		r2Sum += calculateRSquared(y[j], predicted)
		fit.RMSE[j] = calculateRMSE(y[j], predicted)
	}
	fit.RSquared = r2Sum / float64(m)

	cfg.logger.Debug("linear fit complete", "r2", fit.RSquared, "rmse", fit.RMSE)

	return fit, nil
}

// machineEpsilon is the spacing of float64 values around 1.
const machineEpsilon = 0x1p-52

type lstsqResult struct {
	coef          *mat.Dense
	rank          int
	rankDeficient bool
}

// leastSquares returns the minimum-norm solution of min ||a*X - b|| from the thin
// SVD of a. Singular values below max(rows, cols)*eps relative to the largest are
// treated as zero, which keeps collinear inputs from producing huge coefficients.
func leastSquares(a, b *mat.Dense) (lstsqResult, error) {
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return lstsqResult{}, fmt.Errorf("%w: singular value decomposition failed", errs.ErrFit)
	}

	r, c := a.Dims()
	_, m := b.Dims()
	rank := svd.Rank(float64(max(r, c)) * machineEpsilon)
	if rank == 0 {
		return lstsqResult{coef: mat.NewDense(c, m, nil), rankDeficient: true}, nil
	}

	var sol mat.Dense
	svd.SolveTo(&sol, b, rank)

	return lstsqResult{coef: &sol, rank: rank, rankDeficient: rank < c}, nil
}

func finite(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}
