package family

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"
)

// Optimizer is the unconstrained minimization strategy behind the
// censored/truncated theta update.
type Optimizer interface {
	// Minimize searches for a minimum of fn starting from x0 and returns
	// the best parameter vector found, or an error on non-convergence.
	Minimize(fn func(x []float64) float64, x0 []float64) ([]float64, error)
}

// BFGS is the default Optimizer: gonum's quasi-Newton BFGS search with
// finite-difference gradients and a bounded iteration count.
type BFGS struct {
	// MaxIter bounds the number of major iterations. Zero selects the
	// default of 200.
	MaxIter int
}

// Minimize implements Optimizer.
func (b BFGS) Minimize(fn func(x []float64) float64, x0 []float64) ([]float64, error) {
	maxIter := b.MaxIter
	if maxIter <= 0 {
		maxIter = 200
	}
	f0 := fn(x0)
	problem := optimize.Problem{
		Func: fn,
		Grad: func(grad, x []float64) {
			fd.Gradient(grad, fn, x, nil)
		},
	}
	settings := &optimize.Settings{MajorIterations: maxIter}
	res, err := optimize.Minimize(problem, x0, settings, &optimize.BFGS{})
	if err != nil {
		// Finite-difference gradient noise can stall the linesearch right
		// at the optimum; an improved iterate still counts.
		if res != nil && res.F < f0 && !anyNaN(res.X) {
			return res.X, nil
		}
		return nil, err
	}
	if serr := res.Status.Err(); serr != nil {
		return nil, serr
	}
	return res.X, nil
}

func anyNaN(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// numericUpdate maximizes the censored/truncated weighted log-likelihood
// over (mu1, log sigma1, gap, log sigma2) with mu2 = mu1 + exp(gap), so the
// component ordering mu2 >= mu1 holds for any search point.
func (f *mixFamily) numericUpdate(y, posterior []float64, prev *Theta) (Theta, error) {
	var seed Theta
	if prev != nil {
		seed = *prev
	} else {
		var err error
		seed, err = f.momentUpdate(y, posterior, false)
		if err != nil {
			return Theta{}, err
		}
	}

	gap := seed.Mu2 - seed.Mu1
	if gap < math.Exp(minLogSigma) {
		gap = math.Exp(minLogSigma)
	}
	x0 := []float64{seed.Mu1, seed.LogSigma1, math.Log(gap), seed.LogSigma2}

	obj := func(x []float64) float64 {
		th := thetaFromVec(x)
		ll := f.weightedLogLik(y, posterior, th)
		if math.IsNaN(ll) {
			return math.Inf(1)
		}
		return -ll
	}

	xmin, err := f.opt.Minimize(obj, x0)
	if err != nil {
		return Theta{}, fmt.Errorf("%w: %v", ErrOptimizer, err)
	}
	th := thetaFromVec(xmin)
	th.LogSigma1 = math.Max(th.LogSigma1, minLogSigma)
	th.LogSigma2 = math.Max(th.LogSigma2, minLogSigma)
	return th, nil
}

func thetaFromVec(x []float64) Theta {
	return Theta{
		Mu1:       x[0],
		LogSigma1: x[1],
		Mu2:       x[0] + math.Exp(x[2]),
		LogSigma2: x[3],
	}
}

// weightedLogLik is the posterior-weighted component log-likelihood, the
// objective of the numerical M-step.
func (f *mixFamily) weightedLogLik(y, posterior []float64, th Theta) float64 {
	ld1 := f.Density(y, th.Mu1, th.Sigma1(), true)
	ld2 := f.Density(y, th.Mu2, th.Sigma2(), true)
	var s float64
	for i, p := range posterior {
		s += (1-p)*ld1[i] + p*ld2[i]
	}
	return s
}
