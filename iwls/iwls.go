package iwls

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrDimensions indicates a design matrix, response, or start vector
	// with mismatched sizes.
	ErrDimensions = errors.New("iwls: dimension mismatch between design matrix and vectors")
	// ErrRankDeficient indicates a singular weighted cross-product X'WX.
	ErrRankDeficient = errors.New("iwls: weighted normal equations are rank deficient")
	// ErrNotConverged indicates that the coefficient updates did not settle
	// within the iteration budget. The accompanying Result holds the last
	// iterate.
	ErrNotConverged = errors.New("iwls: did not converge")
)

// weightFloor keeps the IWLS weights away from zero when a fitted
// probability saturates.
const weightFloor = 1e-10

// probEps clips fitted probabilities away from {0, 1}.
var probEps = math.Sqrt(math.Nextafter(1, 2) - 1)

// Options controls the IWLS iteration.
type Options struct {
	MaxIter int
	Tol     float64
}

// DefaultOptions returns the default iteration controls.
func DefaultOptions() Options {
	return Options{MaxIter: 100, Tol: 1e-8}
}

// Result holds a fitted concomitant model.
type Result struct {
	// Coefficients are the regression coefficients alpha, one per design
	// matrix column.
	Coefficients []float64
	// Fitted are the mixing probabilities logit^-1(X alpha), clipped to the
	// open unit interval.
	Fitted []float64
	// Iterations is the number of IWLS iterations performed.
	Iterations int
	// Converged reports whether the coefficient change fell below Tol.
	Converged bool
}

// Fit estimates logit(pi_i) = x_i . alpha against the soft response by
// iteratively reweighted least squares. start seeds the coefficients and
// may be nil, which starts from zero. On iteration exhaustion the last
// iterate is returned together with ErrNotConverged.
func Fit(x mat.Matrix, response, start []float64, opt Options) (*Result, error) {
	n, k := x.Dims()
	if n != len(response) || n == 0 || k == 0 {
		return nil, ErrDimensions
	}
	if opt.MaxIter <= 0 {
		opt.MaxIter = DefaultOptions().MaxIter
	}
	if opt.Tol <= 0 {
		opt.Tol = DefaultOptions().Tol
	}

	alpha := make([]float64, k)
	if start != nil {
		if len(start) != k {
			return nil, ErrDimensions
		}
		copy(alpha, start)
	}

	var (
		alphaVec = mat.NewVecDense(k, alpha)
		eta      = mat.NewVecDense(n, nil)
		w        = make([]float64, n)
		z        = make([]float64, n)
		xtwx     = mat.NewSymDense(k, nil)
		xtwz     = mat.NewVecDense(k, nil)
		next     = mat.NewVecDense(k, nil)
		chol     mat.Cholesky
	)

	for iter := 1; iter <= opt.MaxIter; iter++ {
		eta.MulVec(x, alphaVec)
		for i := 0; i < n; i++ {
			e := eta.AtVec(i)
			pi := sigmoid(e)
			wi := pi * (1 - pi)
			if wi < weightFloor {
				wi = weightFloor
			}
			w[i] = wi
			z[i] = e + (response[i]-pi)/wi
		}

		for a := 0; a < k; a++ {
			for b := a; b < k; b++ {
				var s float64
				for i := 0; i < n; i++ {
					s += w[i] * x.At(i, a) * x.At(i, b)
				}
				xtwx.SetSym(a, b, s)
			}
			var s float64
			for i := 0; i < n; i++ {
				s += w[i] * x.At(i, a) * z[i]
			}
			xtwz.SetVec(a, s)
		}

		if ok := chol.Factorize(xtwx); !ok {
			return nil, ErrRankDeficient
		}
		if err := chol.SolveVecTo(next, xtwz); err != nil {
			return nil, ErrRankDeficient
		}

		var delta float64
		for j := 0; j < k; j++ {
			d := math.Abs(next.AtVec(j) - alpha[j])
			if d > delta {
				delta = d
			}
			alpha[j] = next.AtVec(j)
		}

		if delta < opt.Tol {
			return &Result{
				Coefficients: alpha,
				Fitted:       fitted(x, alphaVec, eta),
				Iterations:   iter,
				Converged:    true,
			}, nil
		}
	}

	res := &Result{
		Coefficients: alpha,
		Fitted:       fitted(x, alphaVec, eta),
		Iterations:   opt.MaxIter,
		Converged:    false,
	}
	return res, ErrNotConverged
}

func fitted(x mat.Matrix, alphaVec, eta *mat.VecDense) []float64 {
	eta.MulVec(x, alphaVec)
	n := eta.Len()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		p := sigmoid(eta.AtVec(i))
		switch {
		case p < probEps:
			p = probEps
		case p > 1-probEps:
			p = 1 - probEps
		}
		out[i] = p
	}
	return out
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
