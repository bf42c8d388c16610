package mixture

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/regimelab/gomix/family"
	"github.com/regimelab/gomix/iwls"
)

var (
	// ErrTooFewObs indicates too few observations to estimate the four
	// component parameters plus the concomitant coefficients.
	ErrTooFewObs = errors.New("mixture: insufficient observations for the requested model")
	// ErrNonFinite indicates NaN or Inf entries in the response.
	ErrNonFinite = errors.New("mixture: response contains non-finite values")
	// ErrDimensions indicates a design matrix whose row count does not
	// match the response.
	ErrDimensions = errors.New("mixture: design matrix rows must match response length")
)

// minExtraObs is the margin required beyond the parameter count before a
// fit is attempted.
const minExtraObs = 10

// SplitRule selects how the initial hard memberships are assigned.
type SplitRule uint8

const (
	// SplitMean assigns observations at or above the response mean to
	// component 2.
	SplitMean SplitRule = iota
	// SplitMedian splits at the response median instead.
	SplitMedian
)

// Status reports how a fit terminated.
type Status uint8

const (
	// Converged means the log-likelihood improvement fell below the
	// tolerance; the returned parameters are the last improving iterate.
	Converged Status = iota
	// MaxIterReached means the iteration budget was exhausted; the
	// returned parameters are the final iterate.
	MaxIterReached
)

func (s Status) String() string {
	switch s {
	case Converged:
		return "converged"
	case MaxIterReached:
		return "maximum iterations reached"
	default:
		return "unknown"
	}
}

// Config controls the EM iteration.
type Config struct {
	// MaxIter bounds the number of EM iterations.
	MaxIter int
	// Tol is the minimum full log-likelihood improvement per iteration.
	Tol float64
	// Switch inverts the initial membership rule, relabeling which
	// component is the "event" component. It only affects initialization.
	Switch bool
	// InitSplit selects the initial hard-membership rule.
	InitSplit SplitRule
	// IWLS configures the concomitant model fits.
	IWLS iwls.Options
}

// DefaultConfig returns the default EM controls.
func DefaultConfig() Config {
	return Config{
		MaxIter:   100,
		Tol:       1e-8,
		InitSplit: SplitMean,
		IWLS:      iwls.DefaultOptions(),
	}
}

// Snapshot records the model state after one completed EM iteration.
// History entries are appended in order and never mutated.
type Snapshot struct {
	Theta    family.Theta
	Alpha    []float64
	MeanProb float64
	LogLike  family.LogLike
}

// Result is the immutable outcome of a terminated fit.
type Result struct {
	Family family.Family
	Theta  family.Theta
	// Alpha holds the concomitant coefficients; nil when no design matrix
	// was supplied.
	Alpha []float64
	// Posterior holds the component-2 membership probability per
	// observation.
	Posterior []float64
	// Prob holds the mixing probabilities: length 1 without concomitants,
	// length n with.
	Prob       []float64
	LogLike    family.LogLike
	Iterations int
	Status     Status
	History    []Snapshot
}

// iterState carries one iteration's full parameter set so the convergence
// rule can hand back the previous iterate.
type iterState struct {
	theta family.Theta
	alpha []float64
	prob  []float64
	post  []float64
	ll    family.LogLike
}

// Fit estimates the two-component mixture for response y. A non-nil design
// matrix x (n rows, first column typically a constant one) activates the
// concomitant model for the mixing proportion; with x nil a scalar prior is
// used. The returned error is non-nil only for invalid input or a numerical
// failure; hitting the iteration budget yields a usable Result flagged
// MaxIterReached.
func Fit(y []float64, x mat.Matrix, fam family.Family, cfg Config) (*Result, error) {
	if cfg.MaxIter <= 0 {
		cfg.MaxIter = DefaultConfig().MaxIter
	}
	if cfg.Tol <= 0 {
		cfg.Tol = DefaultConfig().Tol
	}

	n := len(y)
	k := 0
	if x != nil {
		xr, xc := x.Dims()
		if xr != n {
			return nil, ErrDimensions
		}
		k = xc
	}
	if n < 4+k+minExtraObs {
		return nil, ErrTooFewObs
	}
	for _, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrNonFinite
		}
	}

	// Initialization: hard split of the response.
	pivot := splitPivot(y, cfg.InitSplit)
	z := make([]float64, n)
	for i, v := range y {
		above := v >= pivot
		if cfg.Switch {
			above = !above
		}
		if above {
			z[i] = 1
		}
	}

	theta, err := fam.ThetaUpdate(y, z, true, nil)
	if err != nil {
		return nil, fmt.Errorf("mixture: initialization: theta update: %w", err)
	}

	var (
		alpha []float64
		prob  []float64
	)
	if x == nil {
		prob = []float64{0.5}
	} else {
		res, err := iwls.Fit(x, z, nil, cfg.IWLS)
		if err != nil {
			return nil, fmt.Errorf("mixture: initialization: concomitant fit: %w", err)
		}
		alpha = res.Coefficients
		prob = res.Fitted
	}

	post, err := fam.PosteriorUpdate(y, prob, theta)
	if err != nil {
		return nil, fmt.Errorf("mixture: initialization: posterior update: %w", err)
	}

	var (
		history []Snapshot
		prev    *iterState
		final   *iterState
		status  = MaxIterReached
	)

	for iter := 1; iter <= cfg.MaxIter; iter++ {
		// M-step: mixing proportion.
		if x == nil {
			prob = []float64{floats.Sum(post) / float64(n)}
		} else {
			res, err := iwls.Fit(x, post, alpha, cfg.IWLS)
			if err != nil {
				return nil, fmt.Errorf("mixture: iteration %d: concomitant fit: %w", iter, err)
			}
			alpha = res.Coefficients
			prob = res.Fitted
		}

		// M-step: distribution parameters.
		seed := theta
		theta, err = fam.ThetaUpdate(y, post, false, &seed)
		if err != nil {
			return nil, fmt.Errorf("mixture: iteration %d: theta update: %w", iter, err)
		}

		// E-step.
		post, err = fam.PosteriorUpdate(y, prob, theta)
		if err != nil {
			return nil, fmt.Errorf("mixture: iteration %d: posterior update: %w", iter, err)
		}

		ll, err := fam.LogLikelihood(y, post, prob, theta)
		if err != nil {
			return nil, fmt.Errorf("mixture: iteration %d: log-likelihood: %w", iter, err)
		}

		cur := &iterState{
			theta: theta,
			alpha: cloneFloats(alpha),
			prob:  cloneFloats(prob),
			post:  cloneFloats(post),
			ll:    ll,
		}
		history = append(history, Snapshot{
			Theta:    cur.theta,
			Alpha:    cloneFloats(cur.alpha),
			MeanProb: meanProb(cur.prob, n),
			LogLike:  cur.ll,
		})

		if prev != nil && ll.Full-prev.ll.Full < cfg.Tol {
			// The iteration that failed to improve is discarded; the last
			// improving iterate is authoritative.
			status = Converged
			final = prev
			break
		}
		prev = cur
		final = cur
	}

	return &Result{
		Family:     fam,
		Theta:      final.theta,
		Alpha:      final.alpha,
		Posterior:  final.post,
		Prob:       final.prob,
		LogLike:    final.ll,
		Iterations: len(history),
		Status:     status,
		History:    history,
	}, nil
}

func splitPivot(y []float64, rule SplitRule) float64 {
	if rule == SplitMedian {
		sorted := make([]float64, len(y))
		copy(sorted, y)
		sort.Float64s(sorted)
		n := len(sorted)
		if n%2 == 0 {
			return (sorted[n/2-1] + sorted[n/2]) / 2
		}
		return sorted[n/2]
	}
	return floats.Sum(y) / float64(len(y))
}

func meanProb(prob []float64, n int) float64 {
	if len(prob) == 1 {
		return prob[0]
	}
	return floats.Sum(prob) / float64(n)
}

func cloneFloats(x []float64) []float64 {
	if x == nil {
		return nil
	}
	out := make([]float64, len(x))
	copy(out, x)
	return out
}
