// Package mixture implements the Expectation-Maximization driver for the
// two-component mixture model.
//
// Fit alternates an E-step (posterior component memberships from the
// current parameters) with two M-steps: re-estimating the mixing
// proportion, either as the posterior mean or through the concomitant
// logistic regression when a design matrix is supplied, and re-estimating
// the distribution parameters through the Family contract. Every completed
// iteration appends a Snapshot to the fit history.
//
//	fam := family.Gaussian()
//	result, err := mixture.Fit(y, nil, fam, mixture.DefaultConfig())
//	if err != nil {
//	    // numerical failure; no usable result
//	}
//	fmt.Printf("mu1=%.2f mu2=%.2f (%s after %d iterations)\n",
//	    result.Theta.Mu1, result.Theta.Mu2, result.Status, result.Iterations)
//
// The EM log-likelihood is non-decreasing in exact arithmetic, so an
// iteration that fails to improve it by at least Config.Tol terminates the
// fit and the previous iteration's parameters are returned. Exhausting
// Config.MaxIter is not an error: the final iterate is returned with
// Status MaxIterReached. Genuine numerical failures (a component losing
// all posterior mass, a rank-deficient concomitant fit, a stalled theta
// optimization) abort the fit with an error naming the iteration and
// sub-step.
package mixture
