// Package iwls fits the concomitant model of the mixture: a logistic
// regression of soft responses in [0, 1] on a design matrix, estimated by
// iteratively reweighted least squares.
//
// The response is the posterior membership probability from the EM driver,
// a continuous value rather than a 0/1 count. Each iteration forms the
// binomial working response
//
//	z_i = eta_i + (response_i - pi_i) / w_i,  w_i = pi_i (1 - pi_i)
//
// and solves the weighted normal equations (X'WX) alpha = X'Wz by Cholesky
// factorization. A rank-deficient weighted cross-product (collinear or
// perfectly separating covariates) fails with ErrRankDeficient rather than
// falling back to a pseudo-inverse.
//
// Fit is a pure function of (X, response, start); it keeps no state across
// calls and is safe to use from concurrent fits.
package iwls
