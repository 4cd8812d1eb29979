package noise

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// Gaussian is sampled Gaussian noise. It is not a process noise model:
// it generates random disturbance and measurement noise vectors for
// simulations and examples.
type Gaussian struct {
	// dist is a multivariate normal distribution
	dist *distmv.Normal
	// mean is Gaussian mean
	mean []float64
	// cov is Gaussian covariance
	cov *mat.SymDense
}

// NewGaussian creates new Gaussian noise with given mean and covariance.
// It returns error if the dimensions disagree or the covariance is not
// positive definite.
func NewGaussian(mean []float64, cov mat.Symmetric) (*Gaussian, error) {
	if len(mean) != cov.SymmetricDim() {
		return nil, fmt.Errorf("invalid noise dimensions: mean %d, cov %dx%d",
			len(mean), cov.SymmetricDim(), cov.SymmetricDim())
	}

	dist, ok := newGaussianDist(mean, cov)
	if !ok {
		return nil, fmt.Errorf("failed to create Gaussian noise")
	}

	m := make([]float64, len(mean))
	copy(m, mean)

	c := mat.NewSymDense(cov.SymmetricDim(), nil)
	c.CopySym(cov)

	return &Gaussian{
		dist: dist,
		mean: m,
		cov:  c,
	}, nil
}

// Sample draws a random noise vector.
func (g *Gaussian) Sample() mat.Vector {
	r := g.dist.Rand(nil)

	return mat.NewVecDense(len(r), r)
}

// Cov returns a copy of the noise covariance.
func (g *Gaussian) Cov() mat.Symmetric {
	c := mat.NewSymDense(g.cov.SymmetricDim(), nil)
	c.CopySym(g.cov)

	return c
}

// Mean returns a copy of the noise mean.
func (g *Gaussian) Mean() []float64 {
	m := make([]float64, len(g.mean))
	copy(m, g.mean)

	return m
}

// Reset re-seeds the noise source.
// It returns error if the distribution fails to be recreated.
func (g *Gaussian) Reset() error {
	dist, ok := newGaussianDist(g.mean, g.cov)
	if !ok {
		return fmt.Errorf("failed to reset Gaussian noise")
	}
	g.dist = dist

	return nil
}

func newGaussianDist(mean []float64, cov mat.Symmetric) (*distmv.Normal, bool) {
	src := rand.New(rand.NewSource(uint64(time.Now().UnixNano())))

	return distmv.NewNormal(mean, cov, src)
}

// String implements the Stringer interface.
func (g *Gaussian) String() string {
	return fmt.Sprintf("Gaussian{\nMean=%v\nCov=%v\n}", g.mean, mat.Formatted(g.cov, mat.Prefix("    "), mat.Squeeze()))
}
