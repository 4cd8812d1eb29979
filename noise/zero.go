package noise

import (
	"gonum.org/v1/gonum/mat"
)

// Zero is zero process noise i.e. no covariance inflation.
type Zero struct{}

// NewZero returns zero process noise.
func NewZero() (*Zero, error) {
	return &Zero{}, nil
}

// Inflate returns a copy of cov unchanged.
func (z *Zero) Inflate(dt float64, mean mat.Vector, cov mat.Symmetric) (*mat.SymDense, error) {
	out := mat.NewSymDense(cov.SymmetricDim(), nil)
	out.CopySym(cov)

	return out, nil
}

// String implements the Stringer interface.
func (z *Zero) String() string {
	return "Zero{}"
}
