package family

import (
	"errors"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/regimelab/gomix/dist"
)

var (
	// ErrBounds indicates a censoring/truncation interval with left >= right.
	ErrBounds = errors.New("family: left bound must be strictly below right bound")
	// ErrProbLength indicates a mixing probability vector that is neither a
	// scalar (length 1) nor aligned with the response.
	ErrProbLength = errors.New("family: mixing probability must have length 1 or len(y)")
	// ErrZeroWeight indicates a component that received no posterior mass,
	// leaving its moment estimate undefined.
	ErrZeroWeight = errors.New("family: component received zero posterior weight")
	// ErrOptimizer indicates that the numerical theta update did not converge.
	ErrOptimizer = errors.New("family: theta optimization failed")
)

// minLogSigma floors the log-scale parameters. Scales below exp(-6) are
// treated as a degenerate component collapsing onto a point.
const minLogSigma = -6.0

// probEps is sqrt of the machine epsilon; probabilities are clipped to
// [probEps, 1-probEps] before entering any logarithm.
var probEps = math.Sqrt(math.Nextafter(1, 2) - 1)

// logisticScale converts a standard deviation into the scale parameter of
// the logistic distribution (sd = scale * pi / sqrt(3)).
var logisticScale = math.Sqrt(3) / math.Pi

// Theta holds the distributional parameters of both mixture components.
// Scales are kept on the log axis.
type Theta struct {
	Mu1       float64
	LogSigma1 float64
	Mu2       float64
	LogSigma2 float64
}

// Sigma1 returns the scale of the first component.
func (t Theta) Sigma1() float64 { return math.Exp(t.LogSigma1) }

// Sigma2 returns the scale of the second component.
func (t Theta) Sigma2() float64 { return math.Exp(t.LogSigma2) }

// LogLike decomposes the mixture log-likelihood into the posterior-weighted
// component part and the concomitant (mixing) part.
type LogLike struct {
	Component   float64
	Concomitant float64
	Full        float64
}

// Family is the operation contract shared by all six distribution variants.
//
// Density and Distribution evaluate a single component, so mu and sigma are
// scalars. The mixing probability prob passed to LogLikelihood and
// PosteriorUpdate has length 1 (a scalar prior, broadcast over y) or len(y).
type Family interface {
	// Name identifies the variant, e.g. "censored gaussian".
	Name() string

	// Bounds returns the censoring/truncation interval. Plain variants
	// report (-Inf, +Inf).
	Bounds() (left, right float64)

	// Density evaluates the single-component density (or log density when
	// logD is set) at each element of y.
	Density(y []float64, mu, sigma float64, logD bool) []float64

	// Distribution evaluates the single-component distribution function at
	// each element of q, with the usual lower-tail and log switches.
	Distribution(q []float64, mu, sigma float64, lowerTail, logP bool) []float64

	// Sample draws n values from the two-component mixture, assigning
	// floor(n/2) draws to component 1 and the remainder to component 2.
	Sample(n int, theta Theta, rng *rand.Rand) []float64

	// LogLikelihood returns the log-likelihood decomposition given the
	// posterior memberships and mixing probabilities.
	LogLikelihood(y, posterior, prob []float64, theta Theta) (LogLike, error)

	// PosteriorUpdate recomputes the a-posteriori probability of component
	// 2 membership for each observation (the E-step).
	PosteriorUpdate(y, prob []float64, theta Theta) ([]float64, error)

	// ThetaUpdate re-estimates the distribution parameters from the current
	// posterior (the M-step). With init set, both components start from the
	// global standard deviation. prev seeds the numerical search of the
	// censored/truncated variants and may be nil.
	ThetaUpdate(y, posterior []float64, init bool, prev *Theta) (Theta, error)
}

type shape uint8

const (
	shapeGaussian shape = iota
	shapeLogistic
)

type variant uint8

const (
	variantPlain variant = iota
	variantCensored
	variantTruncated
)

type mixFamily struct {
	name    string
	shape   shape
	variant variant
	left    float64
	right   float64
	opt     Optimizer
}

// Option configures a Family at construction time.
type Option func(*mixFamily)

// WithOptimizer swaps the numerical optimizer used by the censored and
// truncated theta updates.
func WithOptimizer(o Optimizer) Option {
	return func(f *mixFamily) { f.opt = o }
}

// Gaussian returns the plain Gaussian family.
func Gaussian(opts ...Option) Family {
	return newFamily("gaussian", shapeGaussian, variantPlain, math.Inf(-1), math.Inf(1), opts)
}

// Logistic returns the plain logistic family.
func Logistic(opts ...Option) Family {
	return newFamily("logistic", shapeLogistic, variantPlain, math.Inf(-1), math.Inf(1), opts)
}

// CensoredGaussian returns the Gaussian family censored at [left, right].
func CensoredGaussian(left, right float64, opts ...Option) (Family, error) {
	if !(left < right) {
		return nil, ErrBounds
	}
	return newFamily("censored gaussian", shapeGaussian, variantCensored, left, right, opts), nil
}

// TruncatedGaussian returns the Gaussian family truncated to [left, right].
func TruncatedGaussian(left, right float64, opts ...Option) (Family, error) {
	if !(left < right) {
		return nil, ErrBounds
	}
	return newFamily("truncated gaussian", shapeGaussian, variantTruncated, left, right, opts), nil
}

// CensoredLogistic returns the logistic family censored at [left, right].
func CensoredLogistic(left, right float64, opts ...Option) (Family, error) {
	if !(left < right) {
		return nil, ErrBounds
	}
	return newFamily("censored logistic", shapeLogistic, variantCensored, left, right, opts), nil
}

// TruncatedLogistic returns the logistic family truncated to [left, right].
func TruncatedLogistic(left, right float64, opts ...Option) (Family, error) {
	if !(left < right) {
		return nil, ErrBounds
	}
	return newFamily("truncated logistic", shapeLogistic, variantTruncated, left, right, opts), nil
}

func newFamily(name string, s shape, v variant, left, right float64, opts []Option) *mixFamily {
	f := &mixFamily{
		name:    name,
		shape:   s,
		variant: v,
		left:    left,
		right:   right,
		opt:     BFGS{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *mixFamily) Name() string { return f.name }

func (f *mixFamily) Bounds() (left, right float64) { return f.left, f.right }

func (f *mixFamily) base(mu, sigma float64) dist.Dist {
	if f.shape == shapeGaussian {
		return dist.Normal(mu, sigma)
	}
	return dist.Logistic(mu, sigma)
}

func (f *mixFamily) logProb(d dist.Dist, x float64) float64 {
	switch f.variant {
	case variantCensored:
		return dist.CensLogProb(d, f.left, f.right, x)
	case variantTruncated:
		return dist.TruncLogProb(d, f.left, f.right, x)
	default:
		return d.LogProb(x)
	}
}

func (f *mixFamily) Density(y []float64, mu, sigma float64, logD bool) []float64 {
	d := f.base(mu, sigma)
	out := make([]float64, len(y))
	for i, v := range y {
		lp := f.logProb(d, v)
		if logD {
			out[i] = lp
		} else {
			out[i] = math.Exp(lp)
		}
	}
	return out
}

func (f *mixFamily) Distribution(q []float64, mu, sigma float64, lowerTail, logP bool) []float64 {
	d := f.base(mu, sigma)
	out := make([]float64, len(q))
	for i, v := range q {
		switch f.variant {
		case variantCensored:
			out[i] = dist.CensCDF(d, f.left, f.right, v, lowerTail, logP)
		case variantTruncated:
			out[i] = dist.TruncCDF(d, f.left, f.right, v, lowerTail, logP)
		default:
			out[i] = plainCDF(d, v, lowerTail, logP)
		}
	}
	return out
}

func plainCDF(d dist.Dist, x float64, lowerTail, logP bool) float64 {
	switch {
	case lowerTail && logP:
		return d.LogCDF(x)
	case lowerTail:
		return d.CDF(x)
	case logP:
		return d.LogSurvival(x)
	default:
		return d.Survival(x)
	}
}

func (f *mixFamily) Sample(n int, theta Theta, rng *rand.Rand) []float64 {
	n1 := n / 2
	out := make([]float64, n)
	for i := range out {
		mu, sigma := theta.Mu1, theta.Sigma1()
		if i >= n1 {
			mu, sigma = theta.Mu2, theta.Sigma2()
		}
		d := f.base(mu, sigma)
		switch f.variant {
		case variantCensored:
			out[i] = dist.CensRand(d, f.left, f.right, rng)
		case variantTruncated:
			out[i] = dist.TruncRand(d, f.left, f.right, rng)
		default:
			out[i] = d.Quantile(unitOpen(rng))
		}
	}
	return out
}

func unitOpen(rng *rand.Rand) float64 {
	u := rng.Float64()
	for u == 0 {
		u = rng.Float64()
	}
	return u
}

func checkProb(prob []float64, n int) error {
	if len(prob) != 1 && len(prob) != n {
		return ErrProbLength
	}
	return nil
}

func probAt(prob []float64, i int) float64 {
	if len(prob) == 1 {
		return prob[0]
	}
	return prob[i]
}

func clipProb(p float64) float64 {
	switch {
	case p < probEps:
		return probEps
	case p > 1-probEps:
		return 1 - probEps
	default:
		return p
	}
}

func (f *mixFamily) LogLikelihood(y, posterior, prob []float64, theta Theta) (LogLike, error) {
	if err := checkProb(prob, len(y)); err != nil {
		return LogLike{}, err
	}
	ld1 := f.Density(y, theta.Mu1, theta.Sigma1(), true)
	ld2 := f.Density(y, theta.Mu2, theta.Sigma2(), true)

	var ll LogLike
	for i := range y {
		p := clipProb(posterior[i])
		pi := clipProb(probAt(prob, i))
		ll.Component += (1-p)*ld1[i] + p*ld2[i]
		ll.Concomitant += p*math.Log(pi) + (1-p)*math.Log(1-pi)
	}
	ll.Full = ll.Component + ll.Concomitant
	return ll, nil
}

func (f *mixFamily) PosteriorUpdate(y, prob []float64, theta Theta) ([]float64, error) {
	if err := checkProb(prob, len(y)); err != nil {
		return nil, err
	}
	ld1 := f.Density(y, theta.Mu1, theta.Sigma1(), true)
	ld2 := f.Density(y, theta.Mu2, theta.Sigma2(), true)

	post := make([]float64, len(y))
	pair := make([]float64, 2)
	for i := range y {
		pi := clipProb(probAt(prob, i))
		pair[0] = math.Log(pi) + ld2[i]
		pair[1] = math.Log(1-pi) + ld1[i]
		den := floats.LogSumExp(pair)
		if math.IsInf(den, -1) {
			// Both densities vanished; fall back to the prior.
			post[i] = pi
			continue
		}
		post[i] = math.Exp(pair[0] - den)
	}
	return post, nil
}

func (f *mixFamily) ThetaUpdate(y, posterior []float64, init bool, prev *Theta) (Theta, error) {
	if f.variant == variantPlain {
		return f.momentUpdate(y, posterior, init)
	}
	return f.numericUpdate(y, posterior, prev)
}

// momentUpdate is the closed-form weighted moment estimator of the plain
// variants. It also serves as the warm start for the censored/truncated
// numerical search.
func (f *mixFamily) momentUpdate(y, posterior []float64, init bool) (Theta, error) {
	n := len(y)
	w1 := make([]float64, n)
	w2 := make([]float64, n)
	for i, p := range posterior {
		w1[i] = 1 - p
		w2[i] = p
	}
	if floats.Sum(w1) == 0 || floats.Sum(w2) == 0 {
		return Theta{}, ErrZeroWeight
	}

	mu1 := stat.Mean(y, w1)
	mu2 := stat.Mean(y, w2)

	var sd1, sd2 float64
	if init {
		sd := stat.StdDev(y, nil)
		sd1, sd2 = sd, sd
	} else {
		sd1 = stat.StdDev(y, w1)
		sd2 = stat.StdDev(y, w2)
	}

	c := 1.0
	if f.shape == shapeLogistic {
		c = logisticScale
	}
	return Theta{
		Mu1:       mu1,
		LogSigma1: logFloor(sd1 * c),
		Mu2:       mu2,
		LogSigma2: logFloor(sd2 * c),
	}, nil
}

// logFloor maps a scale estimate onto the log axis, floored at minLogSigma
// so a zero-variance component cannot produce log(0).
func logFloor(s float64) float64 {
	if math.IsNaN(s) || s < math.Exp(minLogSigma) {
		return minLogSigma
	}
	return math.Log(s)
}
