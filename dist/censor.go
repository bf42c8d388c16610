package dist

import (
	"math"

	"golang.org/x/exp/rand"
)

// logMass returns the log probability mass of d inside [left, right].
func logMass(d Dist, left, right float64) float64 {
	switch {
	case math.IsInf(left, -1) && math.IsInf(right, 1):
		return 0
	case math.IsInf(left, -1):
		return d.LogCDF(right)
	case math.IsInf(right, 1):
		return d.LogSurvival(left)
	default:
		return LogDiffExp(d.LogCDF(right), d.LogCDF(left))
	}
}

// TruncLogProb evaluates the log density of d truncated to [left, right].
// The density is renormalized by the interval mass and zero outside it.
func TruncLogProb(d Dist, left, right, x float64) float64 {
	if x < left || x > right {
		return math.Inf(-1)
	}
	return d.LogProb(x) - logMass(d, left, right)
}

// TruncProb evaluates the density of d truncated to [left, right].
func TruncProb(d Dist, left, right, x float64) float64 {
	return math.Exp(TruncLogProb(d, left, right, x))
}

// TruncCDF evaluates the distribution function of d truncated to
// [left, right]. lowerTail selects P(X <= x) versus P(X > x); logP returns
// the result in log space.
func TruncCDF(d Dist, left, right, x float64, lowerTail, logP bool) float64 {
	var lp float64 // log lower-tail probability
	switch {
	case x <= left:
		lp = math.Inf(-1)
	case x >= right:
		lp = 0
	default:
		num := d.LogCDF(x)
		if !math.IsInf(left, -1) {
			num = LogDiffExp(num, d.LogCDF(left))
		}
		lp = num - logMass(d, left, right)
		if lp > 0 {
			lp = 0
		}
	}
	if !lowerTail {
		lp = LogDiffExp(0, lp)
	}
	if logP {
		return lp
	}
	return math.Exp(lp)
}

// CensLogProb evaluates the log density of d censored at [left, right].
// Strictly inside the interval this is the base log density; an observation
// exactly at a finite bound carries the accumulated tail mass, so the value
// there is log CDF(left) or log Survival(right) rather than the continuous
// density.
func CensLogProb(d Dist, left, right, x float64) float64 {
	switch {
	case x < left || x > right:
		return math.Inf(-1)
	case x == left && !math.IsInf(left, -1):
		return d.LogCDF(left)
	case x == right && !math.IsInf(right, 1):
		return d.LogSurvival(right)
	default:
		return d.LogProb(x)
	}
}

// CensProb evaluates the density of d censored at [left, right].
func CensProb(d Dist, left, right, x float64) float64 {
	return math.Exp(CensLogProb(d, left, right, x))
}

// CensCDF evaluates the distribution function of d censored at
// [left, right]. The argument is clamped into the interval before the base
// distribution is consulted, so at either bound both tails equal the base
// distribution's tail probabilities there.
func CensCDF(d Dist, left, right, x float64, lowerTail, logP bool) float64 {
	x = math.Min(math.Max(x, left), right)
	var lp float64
	if lowerTail {
		lp = d.LogCDF(x)
	} else {
		lp = d.LogSurvival(x)
	}
	if logP {
		return lp
	}
	return math.Exp(lp)
}

// TruncRand draws from d truncated to [left, right] by inverse-CDF
// sampling: a uniform draw is mapped into [CDF(left), CDF(right)] and
// inverted.
func TruncRand(d Dist, left, right float64, rng *rand.Rand) float64 {
	lo, hi := 0.0, 1.0
	if !math.IsInf(left, -1) {
		lo = d.CDF(left)
	}
	if !math.IsInf(right, 1) {
		hi = d.CDF(right)
	}
	return d.Quantile(lo + unitOpen(rng)*(hi-lo))
}

// CensRand draws from d censored at [left, right]: a draw from the base
// shape, clipped into the interval.
func CensRand(d Dist, left, right float64, rng *rand.Rand) float64 {
	x := d.Quantile(unitOpen(rng))
	return math.Min(math.Max(x, left), right)
}

// unitOpen draws from the open interval (0, 1) so quantile inversion never
// sees an exact 0 or 1.
func unitOpen(rng *rand.Rand) float64 {
	u := rng.Float64()
	for u == 0 {
		u = rng.Float64()
	}
	return u
}
