package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/mikael-s-persson/vague/sigma"
)

// Propagation wraps an arbitrary state propagation function as
// nonlinear dynamics. It only serves the sigma point path.
type Propagation struct {
	// n is the state dimension
	n int
	// f maps a state dt seconds forward
	f func(x mat.Vector, dt float64) (mat.Vector, error)
}

// NewPropagation returns nonlinear dynamics on an n-dimensional state
// propagated by f. It returns error if n is not positive or f is nil.
func NewPropagation(n int, f func(x mat.Vector, dt float64) (mat.Vector, error)) (*Propagation, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid state dimension: %d", n)
	}
	if f == nil {
		return nil, fmt.Errorf("missing propagation function")
	}

	return &Propagation{n: n, f: f}, nil
}

// StateDim returns the state dimension.
func (p *Propagation) StateDim() int {
	return p.n
}

// PropagateSigmaPoints advances every sample by dt seconds through the
// wrapped function.
func (p *Propagation) PropagateSigmaPoints(pts *sigma.Points, dt float64) (*sigma.Points, error) {
	if pts.Dim() != p.n {
		return nil, fmt.Errorf("invalid sigma point dimension: %d != %d", pts.Dim(), p.n)
	}

	return pts.Transform(p.n, func(x mat.Vector) (mat.Vector, error) {
		return p.f(x, dt)
	})
}

// Measurement wraps an arbitrary measurement function as a nonlinear
// observer. It only serves the sigma point path. Extra inputs given to
// the estimator are passed through to the wrapped function.
type Measurement struct {
	// nx and ny are state and observation dimensions
	nx, ny int
	// f maps a state into observation space
	f func(x mat.Vector, extra ...mat.Vector) (mat.Vector, error)
}

// NewMeasurement returns a nonlinear observer mapping nx-dimensional
// states to ny-dimensional observations through f.
// It returns error if the dimensions are not positive or f is nil.
func NewMeasurement(nx, ny int, f func(x mat.Vector, extra ...mat.Vector) (mat.Vector, error)) (*Measurement, error) {
	if nx <= 0 || ny <= 0 {
		return nil, fmt.Errorf("invalid observer dimensions: [%d x %d]", nx, ny)
	}
	if f == nil {
		return nil, fmt.Errorf("missing measurement function")
	}

	return &Measurement{nx: nx, ny: ny, f: f}, nil
}

// Dims returns state and observation dimensions of the observer.
func (m *Measurement) Dims() (nx, ny int) {
	return m.nx, m.ny
}

// ObserveSigmaPoints maps every sample through the wrapped function.
func (m *Measurement) ObserveSigmaPoints(pts *sigma.Points, extra ...mat.Vector) (*sigma.Points, error) {
	if pts.Dim() != m.nx {
		return nil, fmt.Errorf("invalid sigma point dimension: %d != %d", pts.Dim(), m.nx)
	}

	return pts.Transform(m.ny, func(x mat.Vector) (mat.Vector, error) {
		return m.f(x, extra...)
	})
}
