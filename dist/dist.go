package dist

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Dist is a single-component base distribution shape. It extends the usual
// density/distribution/quantile contract with log-space tail evaluation so
// that censoring and truncation remain stable near the support edge.
type Dist interface {
	Prob(x float64) float64
	LogProb(x float64) float64
	CDF(x float64) float64
	Survival(x float64) float64
	LogCDF(x float64) float64
	LogSurvival(x float64) float64
	Quantile(p float64) float64
}

type normal struct {
	distuv.Normal
}

// Normal returns a Gaussian shape with mean mu and standard deviation sigma.
func Normal(mu, sigma float64) Dist {
	return normal{distuv.Normal{Mu: mu, Sigma: sigma}}
}

func (n normal) LogCDF(x float64) float64 {
	return stdNormalLogCDF((x - n.Mu) / n.Sigma)
}

func (n normal) LogSurvival(x float64) float64 {
	return stdNormalLogCDF(-(x - n.Mu) / n.Sigma)
}

// stdNormalLogCDF evaluates log Phi(z) for the standard normal. math.Erfc
// underflows near z = -38; past that point the Mills-ratio expansion
// log phi(z) - log(-z) + log(1 - 1/z^2 + 3/z^4) takes over.
func stdNormalLogCDF(z float64) float64 {
	switch {
	case z > 6:
		// log(1-s) with s the upper tail, accurate when Phi(z) ~ 1.
		return math.Log1p(-0.5 * math.Erfc(z/math.Sqrt2))
	case z > -36:
		return math.Log(0.5) + math.Log(math.Erfc(-z/math.Sqrt2))
	default:
		z2 := z * z
		return -0.5*z2 - 0.5*math.Log(2*math.Pi) - math.Log(-z) +
			math.Log1p(-1/z2+3/(z2*z2))
	}
}

type logistic struct {
	distuv.Logistic
}

// Logistic returns a logistic shape with location mu and scale s.
func Logistic(mu, s float64) Dist {
	return logistic{distuv.Logistic{Mu: mu, S: s}}
}

func (l logistic) LogCDF(x float64) float64 {
	return -log1pexp(-(x - l.Mu) / l.S)
}

func (l logistic) LogSurvival(x float64) float64 {
	return -log1pexp((x - l.Mu) / l.S)
}

// log1pexp computes log(1 + e^x) without overflow.
func log1pexp(x float64) float64 {
	if x > 35 {
		return x
	}
	return math.Log1p(math.Exp(x))
}

// LogDiffExp computes log(e^a - e^b) for a >= b without leaving log space.
func LogDiffExp(a, b float64) float64 {
	switch {
	case math.IsInf(b, -1):
		return a
	case a == b:
		return math.Inf(-1)
	default:
		return a + math.Log1p(-math.Exp(b-a))
	}
}
