// Package gomix provides unsupervised two-component mixture models for
// classifying meteorological time series into "event" and "non-event" regimes.
//
// GoMix estimates a two-component mixture by Expectation-Maximization. The
// mixing proportion can optionally be modeled as a logistic function of
// concomitant covariates, fitted by iteratively reweighted least squares
// against the soft posterior memberships. Gaussian and logistic component
// distributions are supported, each in a plain, censored, or truncated
// variant for responses recorded at or restricted to detection bounds.
//
// # Quick Start
//
// Fit a mixture model without concomitant covariates:
//
//	fam := family.Gaussian()
//	result, _ := mixture.Fit(y, nil, fam, mixture.DefaultConfig())
//	fmt.Println(result.Summary())
//
// Fit with a concomitant model for the mixing proportion:
//
//	X, _ := table.DesignMatrix(true, "windspeed")
//	result, _ := mixture.Fit(y, X, fam, mixture.DefaultConfig())
//
// Use a censored family when the instrument records values at a bound:
//
//	fam, _ := family.CensoredGaussian(0, math.Inf(1))
//
// # Packages
//
// The library is organized into the following packages:
//
//   - mixture: EM driver, configuration, fit results and history
//   - family: component distribution families (six variants)
//   - dist: censored/truncated density, distribution, and sampling kernels
//   - iwls: iteratively reweighted least squares for the concomitant model
//   - filter: covariate-based row selection for station data
//   - timeseries: column-oriented observation tables and CSV import
//
// # References
//
//   - Dempster, A.P., Laird, N.M., & Rubin, D.B. (1977). Maximum Likelihood
//     from Incomplete Data via the EM Algorithm
//   - Grün, B., & Leisch, F. (2008). FlexMix Version 2: Finite Mixtures with
//     Concomitant Variables and Varying and Constant Parameters
package gomix
