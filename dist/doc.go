// Package dist provides the base distribution shapes of the mixture
// components and the numerical kernels for their censored and truncated
// variants.
//
// A Dist describes a single component (one location/scale pair). The
// Normal and Logistic constructors adapt gonum's distuv distributions and
// add log-space tail evaluation, which the censoring kernels need to stay
// finite when a bound sits far out in a tail.
//
// # Truncation
//
// A truncated distribution restricts the support to [left, right] and
// renormalizes by the probability mass inside the interval:
//
//	d := dist.Normal(0, 1)
//	lp := dist.TruncLogProb(d, -1, 2, 0.5)
//
// # Censoring
//
// A censored distribution records out-of-bound draws at the bound itself,
// so the bounds carry point masses equal to the tail probabilities:
//
//	lp := dist.CensLogProb(d, 0, math.Inf(1), 0) // log P(Y <= 0)
//
// Non-finite bounds degrade every routine to the plain base shape.
package dist
