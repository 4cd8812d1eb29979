package noise

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Additive is time-dependent additive process noise: a fixed covariance
// rate matrix accumulated linearly over elapsed time. This is the
// continuous-time white noise approximation: over dt seconds the state
// covariance grows by dt times the rate. The state mean plays no role.
type Additive struct {
	// rate is covariance growth per second
	rate *mat.SymDense
}

// NewAdditive returns additive process noise with the given covariance
// rate per second. It returns error if rate is nil.
func NewAdditive(rate mat.Symmetric) (*Additive, error) {
	if rate == nil {
		return nil, fmt.Errorf("invalid noise rate: %v", rate)
	}

	r := mat.NewSymDense(rate.SymmetricDim(), nil)
	r.CopySym(rate)

	return &Additive{rate: r}, nil
}

// Rate returns a copy of the covariance rate matrix.
func (a *Additive) Rate() mat.Symmetric {
	r := mat.NewSymDense(a.rate.SymmetricDim(), nil)
	r.CopySym(a.rate)

	return r
}

// Inflate returns cov increased by dt times the noise rate.
// It returns error if cov dimensions do not match the rate matrix.
func (a *Additive) Inflate(dt float64, mean mat.Vector, cov mat.Symmetric) (*mat.SymDense, error) {
	n := a.rate.SymmetricDim()
	if cov.SymmetricDim() != n {
		return nil, fmt.Errorf("invalid covariance dimensions: %d != %d", cov.SymmetricDim(), n)
	}

	out := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			out.SetSym(i, j, cov.At(i, j)+dt*a.rate.At(i, j))
		}
	}

	return out, nil
}

// String implements the Stringer interface.
func (a *Additive) String() string {
	return fmt.Sprintf("Additive{\nRate=%v\n}", mat.Formatted(a.rate, mat.Prefix("     "), mat.Squeeze()))
}
