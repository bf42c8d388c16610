package mixture

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/regimelab/gomix/family"
)

func TestWellSeparatedGaussian(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	truth := family.Theta{Mu1: 0, LogSigma1: 0, Mu2: 10, LogSigma2: 0}
	fam := family.Gaussian()
	y := fam.Sample(1000, truth, rng)

	result, err := Fit(y, nil, fam, DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, Converged, result.Status)

	t.Logf("mu1=%.3f mu2=%.3f sigma1=%.3f sigma2=%.3f after %d iterations",
		result.Theta.Mu1, result.Theta.Mu2, result.Theta.Sigma1(), result.Theta.Sigma2(), result.Iterations)
	assert.InDelta(t, 0.0, result.Theta.Mu1, 0.3)
	assert.InDelta(t, 10.0, result.Theta.Mu2, 0.3)
	assert.InDelta(t, 1.0, result.Theta.Sigma1(), 0.2)
	assert.InDelta(t, 1.0, result.Theta.Sigma2(), 0.2)

	// Posterior splits into two point masses near 0 and 1.
	var low, high int
	for _, p := range result.Posterior {
		switch {
		case p < 0.1:
			low++
		case p > 0.9:
			high++
		}
	}
	assert.Greater(t, low, 400)
	assert.Greater(t, high, 400)

	// Scalar mixing prior near one half.
	require.Len(t, result.Prob, 1)
	assert.InDelta(t, 0.5, result.Prob[0], 0.1)
}

func TestLogLikelihoodNonDecreasing(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	truth := family.Theta{Mu1: 0, LogSigma1: 0, Mu2: 4, LogSigma2: math.Log(1.5)}
	fam := family.Gaussian()
	y := fam.Sample(600, truth, rng)

	cfg := DefaultConfig()
	result, err := Fit(y, nil, fam, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, result.History)

	// Every iteration before the terminating one improved by at least the
	// tolerance; the final recorded iterate is the one that stalled.
	for j := 1; j < len(result.History)-1; j++ {
		assert.GreaterOrEqual(t,
			result.History[j].LogLike.Full,
			result.History[j-1].LogLike.Full+cfg.Tol,
			"log-likelihood dropped at iteration %d", j)
	}
	if n := len(result.History); n >= 2 && result.Status == Converged {
		assert.Less(t,
			result.History[n-1].LogLike.Full-result.History[n-2].LogLike.Full,
			cfg.Tol)
	}
}

func TestConvergedReturnsPreviousIterate(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	truth := family.Theta{Mu1: 0, LogSigma1: 0, Mu2: 8, LogSigma2: 0}
	fam := family.Gaussian()
	y := fam.Sample(500, truth, rng)

	result, err := Fit(y, nil, fam, DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, Converged, result.Status)
	require.GreaterOrEqual(t, len(result.History), 2)

	// The non-improving final iteration stays in the history but does not
	// overwrite the returned parameters.
	last := result.History[len(result.History)-1]
	prev := result.History[len(result.History)-2]
	assert.Equal(t, prev.Theta, result.Theta)
	assert.Equal(t, prev.LogLike, result.LogLike)
	assert.Less(t, last.LogLike.Full-prev.LogLike.Full, DefaultConfig().Tol)
}

func TestPosteriorFixedPoint(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	truth := family.Theta{Mu1: 0, LogSigma1: 0, Mu2: 10, LogSigma2: 0}
	fam := family.Gaussian()
	y := fam.Sample(400, truth, rng)

	result, err := Fit(y, nil, fam, DefaultConfig())
	require.NoError(t, err)

	// Re-running the E-step with the returned parameters reproduces the
	// returned posterior.
	post, err := fam.PosteriorUpdate(y, result.Prob, result.Theta)
	require.NoError(t, err)
	assert.InDeltaSlice(t, result.Posterior, post, 1e-12)
}

func TestMaxIterReached(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	truth := family.Theta{Mu1: 0, LogSigma1: 0, Mu2: 3, LogSigma2: 0}
	fam := family.Gaussian()
	y := fam.Sample(400, truth, rng)

	cfg := DefaultConfig()
	cfg.MaxIter = 2
	result, err := Fit(y, nil, fam, cfg)
	require.NoError(t, err)
	assert.Equal(t, MaxIterReached, result.Status)
	assert.Equal(t, 2, result.Iterations)
	assert.Len(t, result.History, 2)
	// The final iterate is returned on this path.
	assert.Equal(t, result.History[1].Theta, result.Theta)
}

func TestSwitchInvertsLabels(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	truth := family.Theta{Mu1: 0, LogSigma1: 0, Mu2: 10, LogSigma2: 0}
	fam := family.Gaussian()
	y := fam.Sample(600, truth, rng)

	cfg := DefaultConfig()
	cfg.Switch = true
	result, err := Fit(y, nil, fam, cfg)
	require.NoError(t, err)

	// Component 2 is now the low-value regime.
	assert.Greater(t, result.Theta.Mu1, result.Theta.Mu2)
	assert.InDelta(t, 10.0, result.Theta.Mu1, 0.3)
	assert.InDelta(t, 0.0, result.Theta.Mu2, 0.3)
}

func TestMedianSplit(t *testing.T) {
	rng := rand.New(rand.NewSource(25))
	truth := family.Theta{Mu1: 0, LogSigma1: 0, Mu2: 9, LogSigma2: 0}
	fam := family.Gaussian()
	y := fam.Sample(500, truth, rng)

	cfg := DefaultConfig()
	cfg.InitSplit = SplitMedian
	result, err := Fit(y, nil, fam, cfg)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, result.Theta.Mu1, 0.3)
	assert.InDelta(t, 9.0, result.Theta.Mu2, 0.3)
}

func TestConcomitantModel(t *testing.T) {
	rng := rand.New(rand.NewSource(33))
	n := 1000
	alpha := []float64{-0.5, 2}
	y := make([]float64, n)
	x := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		cov := rng.Float64()*4 - 2
		x.Set(i, 0, 1)
		x.Set(i, 1, cov)
		pi := 1 / (1 + math.Exp(-(alpha[0] + alpha[1]*cov)))
		if rng.Float64() < pi {
			y[i] = 8 + rng.NormFloat64()
		} else {
			y[i] = rng.NormFloat64()
		}
	}

	result, err := Fit(y, x, family.Gaussian(), DefaultConfig())
	require.NoError(t, err)
	require.Len(t, result.Alpha, 2)
	require.Len(t, result.Prob, n)

	t.Logf("true alpha=%v, estimated alpha=[%.3f, %.3f]", alpha, result.Alpha[0], result.Alpha[1])
	assert.InDelta(t, 0.0, result.Theta.Mu1, 0.4)
	assert.InDelta(t, 8.0, result.Theta.Mu2, 0.4)
	assert.Greater(t, result.Alpha[1], 1.0, "covariate effect direction and scale")

	// Mixing probabilities are strictly inside the unit interval.
	for _, p := range result.Prob {
		require.Greater(t, p, 0.0)
		require.Less(t, p, 1.0)
	}
}

func TestInsufficientObservations(t *testing.T) {
	y := make([]float64, 10)
	_, err := Fit(y, nil, family.Gaussian(), DefaultConfig())
	assert.ErrorIs(t, err, ErrTooFewObs)
}

func TestNonFiniteResponse(t *testing.T) {
	rng := rand.New(rand.NewSource(37))
	y := make([]float64, 50)
	for i := range y {
		y[i] = rng.NormFloat64()
	}
	y[7] = math.NaN()
	_, err := Fit(y, nil, family.Gaussian(), DefaultConfig())
	assert.ErrorIs(t, err, ErrNonFinite)

	y[7] = math.Inf(1)
	_, err = Fit(y, nil, family.Gaussian(), DefaultConfig())
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestDesignMatrixRowMismatch(t *testing.T) {
	y := make([]float64, 50)
	for i := range y {
		y[i] = float64(i)
	}
	x := mat.NewDense(40, 2, nil)
	_, err := Fit(y, x, family.Gaussian(), DefaultConfig())
	assert.ErrorIs(t, err, ErrDimensions)
}

func TestIdenticalResponsesFail(t *testing.T) {
	// A constant response puts every observation on one side of the split,
	// leaving the other component without mass.
	y := make([]float64, 50)
	for i := range y {
		y[i] = 3
	}
	_, err := Fit(y, nil, family.Gaussian(), DefaultConfig())
	require.Error(t, err)
	assert.ErrorIs(t, err, family.ErrZeroWeight)
}

func TestCensoredMixtureFit(t *testing.T) {
	rng := rand.New(rand.NewSource(41))
	fam, err := family.CensoredGaussian(0, math.Inf(1))
	require.NoError(t, err)

	truth := family.Theta{Mu1: 0.5, LogSigma1: 0, Mu2: 6, LogSigma2: 0}
	y := fam.Sample(800, truth, rng)

	zeros := 0
	for _, v := range y {
		if v == 0 {
			zeros++
		}
	}
	require.Greater(t, zeros, 0, "scenario needs observations at the bound")

	result, err := Fit(y, nil, fam, DefaultConfig())
	require.NoError(t, err)

	t.Logf("true mu1=%.2f mu2=%.2f, estimated mu1=%.3f mu2=%.3f (%d at bound)",
		truth.Mu1, truth.Mu2, result.Theta.Mu1, result.Theta.Mu2, zeros)
	assert.InDelta(t, truth.Mu1, result.Theta.Mu1, 0.6)
	assert.InDelta(t, truth.Mu2, result.Theta.Mu2, 0.6)
}

func TestSummary(t *testing.T) {
	rng := rand.New(rand.NewSource(45))
	truth := family.Theta{Mu1: 0, LogSigma1: 0, Mu2: 7, LogSigma2: 0}
	fam := family.Gaussian()
	y := fam.Sample(500, truth, rng)

	result, err := Fit(y, nil, fam, DefaultConfig())
	require.NoError(t, err)

	s := result.Summary()
	assert.Equal(t, "gaussian", s.Family)
	assert.Equal(t, 500, s.NObs)
	assert.Equal(t, 5, s.EDF)
	assert.InDelta(t, -2*result.LogLike.Full+2*5, s.AIC, 1e-9)
	assert.InDelta(t, -2*result.LogLike.Full+5*math.Log(500), s.BIC, 1e-9)
	assert.NotEmpty(t, s.String())
}
