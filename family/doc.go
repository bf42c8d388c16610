// Package family defines the component distribution families of the
// two-component mixture model.
//
// A Family bundles everything the EM driver needs from the distributional
// side of the model: single-component density and distribution evaluation,
// mixture sampling, the log-likelihood decomposition, the posterior
// (E-step) update, and the parameter (M-step) update. Six variants share
// this contract: plain, censored, and truncated versions of the Gaussian
// and logistic shapes.
//
//	fam := family.Gaussian()
//	fam, err := family.CensoredGaussian(0, math.Inf(1))
//	fam, err := family.TruncatedLogistic(0, 50)
//
// Censored and truncated variants compose the plain shape with the kernels
// in package dist rather than re-deriving any distribution math.
//
// Plain variants re-estimate parameters with closed-form weighted moment
// updates. Censored and truncated variants have no closed form and maximize
// the weighted log-likelihood numerically; the optimizer is pluggable via
// WithOptimizer and defaults to quasi-Newton BFGS with finite-difference
// gradients. The search runs over (mu1, log sigma1, log(mu2-mu1),
// log sigma2), which keeps the components ordered by construction.
//
// A Family is immutable after construction. All per-iteration state (Theta,
// posterior) lives with the caller.
package family
