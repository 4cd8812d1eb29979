// Package model provides ready-made dynamics and observer
// implementations for the estimator: linear models built from matrices
// and wrappers turning plain functions into sigma point collaborators.
package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/mikael-s-persson/vague/estimate"
	"github.com/mikael-s-persson/vague/sigma"
)

// Transition is linear dynamics driven by a time-step parameterized
// state transition matrix. It propagates beliefs in closed form
// (mean F*x, covariance F*P*F^T) and can also be applied to sigma
// points sample by sample, so it serves both estimator paths.
type Transition struct {
	// n is the state dimension
	n int
	// f builds the transition matrix for a step of dt seconds
	f func(dt float64) mat.Matrix
}

// NewTransition returns linear dynamics on an n-dimensional state with
// transition matrices built by f. It returns error if n is not positive
// or f is nil.
func NewTransition(n int, f func(dt float64) mat.Matrix) (*Transition, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid state dimension: %d", n)
	}
	if f == nil {
		return nil, fmt.Errorf("missing transition function")
	}

	return &Transition{n: n, f: f}, nil
}

// NewConstantVelocity returns the constant velocity transition on a
// state laid out as dim position components followed by dim velocity
// components: position advances by velocity times dt.
func NewConstantVelocity(dim int) (*Transition, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("invalid position dimension: %d", dim)
	}

	n := 2 * dim
	f := func(dt float64) mat.Matrix {
		t := mat.NewDense(n, n, nil)
		for i := 0; i < n; i++ {
			t.Set(i, i, 1.0)
		}
		for i := 0; i < dim; i++ {
			t.Set(i, dim+i, dt)
		}

		return t
	}

	return &Transition{n: n, f: f}, nil
}

// StateDim returns the state dimension.
func (t *Transition) StateDim() int {
	return t.n
}

// Matrix returns the transition matrix for a step of dt seconds.
func (t *Transition) Matrix(dt float64) mat.Matrix {
	return t.f(dt)
}

// Propagate advances belief b by dt seconds.
// It returns error if the belief dimension does not match the model.
func (t *Transition) Propagate(b *estimate.Belief, dt float64) (*estimate.Belief, error) {
	if b.Dim() != t.n {
		return nil, fmt.Errorf("invalid belief dimension: %d != %d", b.Dim(), t.n)
	}

	f := t.f(dt)

	mean := mat.NewVecDense(t.n, nil)
	mean.MulVec(f, b.Mean())

	fp := new(mat.Dense)
	fp.Mul(f, b.Cov())
	fpf := new(mat.Dense)
	fpf.Mul(fp, f.T())

	cov := mat.NewSymDense(t.n, nil)
	for i := 0; i < t.n; i++ {
		for j := i; j < t.n; j++ {
			cov.SetSym(i, j, fpf.At(i, j))
		}
	}

	return estimate.NewBelief(mean, cov)
}

// PropagateSigmaPoints advances every sample by dt seconds.
func (t *Transition) PropagateSigmaPoints(p *sigma.Points, dt float64) (*sigma.Points, error) {
	if p.Dim() != t.n {
		return nil, fmt.Errorf("invalid sigma point dimension: %d != %d", p.Dim(), t.n)
	}

	f := t.f(dt)

	return p.Transform(t.n, func(x mat.Vector) (mat.Vector, error) {
		out := mat.NewVecDense(t.n, nil)
		out.MulVec(f, x)

		return out, nil
	})
}

// Observation is a linear observer with a static observation matrix H.
// It observes beliefs directly (mean H*x, Jacobian H) and sigma points
// sample by sample, serving both estimator paths. Extra inputs are
// accepted and ignored.
type Observation struct {
	// h is the observation matrix
	h *mat.Dense
}

// NewObservation returns a linear observer with observation matrix h.
// It returns error if h is nil.
func NewObservation(h *mat.Dense) (*Observation, error) {
	if h == nil {
		return nil, fmt.Errorf("invalid observation matrix: %v", h)
	}

	return &Observation{h: mat.DenseCopyOf(h)}, nil
}

// Dims returns state and observation dimensions of the observer.
func (o *Observation) Dims() (nx, ny int) {
	ny, nx = o.h.Dims()

	return nx, ny
}

// Observe returns the expected observation H*x of belief b.
func (o *Observation) Observe(b *estimate.Belief, extra ...mat.Vector) (mat.Vector, error) {
	nx, ny := o.Dims()
	if b.Dim() != nx {
		return nil, fmt.Errorf("invalid belief dimension: %d != %d", b.Dim(), nx)
	}

	y := mat.NewVecDense(ny, nil)
	y.MulVec(o.h, b.Mean())

	return y, nil
}

// Jacobian returns the observation matrix H.
func (o *Observation) Jacobian(b *estimate.Belief, extra ...mat.Vector) (mat.Matrix, error) {
	return mat.DenseCopyOf(o.h), nil
}

// ObserveSigmaPoints maps every sample through H.
func (o *Observation) ObserveSigmaPoints(p *sigma.Points, extra ...mat.Vector) (*sigma.Points, error) {
	nx, ny := o.Dims()
	if p.Dim() != nx {
		return nil, fmt.Errorf("invalid sigma point dimension: %d != %d", p.Dim(), nx)
	}

	return p.Transform(ny, func(x mat.Vector) (mat.Vector, error) {
		out := mat.NewVecDense(ny, nil)
		out.MulVec(o.h, x)

		return out, nil
	})
}
