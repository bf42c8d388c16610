package mixture

import (
	"fmt"
	"math"
	"strings"

	"github.com/regimelab/gomix/family"
)

// Summary condenses a fit result for reporting.
type Summary struct {
	Family     string
	NObs       int
	Theta      family.Theta
	Alpha      []float64
	LogLik     float64
	AIC        float64
	BIC        float64
	EDF        int // effective number of estimated parameters
	Iterations int
	Status     Status
}

// Summary returns a summary of the fitted model.
func (r *Result) Summary() *Summary {
	n := len(r.Posterior)

	// Four distribution parameters plus the mixing model: one scalar prior
	// or K concomitant coefficients.
	edf := 4 + 1
	if r.Alpha != nil {
		edf = 4 + len(r.Alpha)
	}

	ll := r.LogLike.Full
	return &Summary{
		Family:     r.Family.Name(),
		NObs:       n,
		Theta:      r.Theta,
		Alpha:      cloneFloats(r.Alpha),
		LogLik:     ll,
		AIC:        -2*ll + 2*float64(edf),
		BIC:        -2*ll + float64(edf)*math.Log(float64(n)),
		EDF:        edf,
		Iterations: r.Iterations,
		Status:     r.Status,
	}
}

// String renders the summary as a fixed-width report.
func (s *Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Two-component %s mixture model\n", s.Family)
	fmt.Fprintf(&b, "Observations: %d, %s after %d iterations\n", s.NObs, s.Status, s.Iterations)
	fmt.Fprintf(&b, "Component 1: mu=%10.4f sigma=%10.4f\n", s.Theta.Mu1, s.Theta.Sigma1())
	fmt.Fprintf(&b, "Component 2: mu=%10.4f sigma=%10.4f\n", s.Theta.Mu2, s.Theta.Sigma2())
	if s.Alpha != nil {
		fmt.Fprintf(&b, "Concomitant coefficients: %v\n", s.Alpha)
	}
	fmt.Fprintf(&b, "logLik=%.4f AIC=%.4f BIC=%.4f (edf=%d)\n", s.LogLik, s.AIC, s.BIC, s.EDF)
	return b.String()
}
