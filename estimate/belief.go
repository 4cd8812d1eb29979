package estimate

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Belief is a Gaussian state belief: a mean vector together with a
// symmetric covariance matrix of matching dimension.
type Belief struct {
	// mean is the belief mean
	mean *mat.VecDense
	// cov is the belief covariance
	cov *mat.SymDense
}

// NewBelief returns a belief with the given mean and covariance.
// It returns error if their dimensions disagree.
func NewBelief(mean mat.Vector, cov mat.Symmetric) (*Belief, error) {
	if mean == nil || cov == nil {
		return nil, fmt.Errorf("invalid belief: mean %v, cov %v", mean, cov)
	}

	if mean.Len() != cov.SymmetricDim() {
		return nil, fmt.Errorf("invalid belief dimensions: mean %d, cov %dx%d",
			mean.Len(), cov.SymmetricDim(), cov.SymmetricDim())
	}

	m := &mat.VecDense{}
	m.CloneFromVec(mean)

	c := mat.NewSymDense(cov.SymmetricDim(), nil)
	c.CopySym(cov)

	return &Belief{
		mean: m,
		cov:  c,
	}, nil
}

// Dim returns the state dimension of the belief.
func (b *Belief) Dim() int {
	return b.mean.Len()
}

// Mean returns a copy of the belief mean.
func (b *Belief) Mean() mat.Vector {
	m := &mat.VecDense{}
	m.CloneFromVec(b.mean)

	return m
}

// Cov returns a copy of the belief covariance.
func (b *Belief) Cov() mat.Symmetric {
	c := mat.NewSymDense(b.cov.SymmetricDim(), nil)
	c.CopySym(b.cov)

	return c
}

// Clone returns a deep copy of the belief.
func (b *Belief) Clone() *Belief {
	c, _ := NewBelief(b.mean, b.cov)

	return c
}

// String implements the Stringer interface.
func (b *Belief) String() string {
	return fmt.Sprintf("Belief{\nMean=%v\nCov=%v\n}",
		mat.Formatted(b.mean, mat.Prefix("     "), mat.Squeeze()),
		mat.Formatted(b.cov, mat.Prefix("    "), mat.Squeeze()))
}
