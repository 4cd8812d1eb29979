package vague

import (
	"gonum.org/v1/gonum/mat"

	"github.com/mikael-s-persson/vague/estimate"
	"github.com/mikael-s-persson/vague/sigma"
)

// Dynamics is a process model driving the system state forward in time.
// A concrete model provides at least one of the two capabilities probed
// by the estimator on every predict: LinearDynamics when the model can
// map a belief in closed form, NonlinearDynamics when it can only be
// applied pointwise to sigma point samples. Models providing both are
// run on the linear path.
type Dynamics interface {
	// StateDim returns the state dimension the model operates on
	StateDim() int
}

// LinearDynamics propagates a belief directly to a later time.
type LinearDynamics interface {
	Dynamics
	// Propagate advances the belief by dt seconds
	Propagate(b *estimate.Belief, dt float64) (*estimate.Belief, error)
}

// NonlinearDynamics propagates sigma point samples to a later time.
type NonlinearDynamics interface {
	Dynamics
	// PropagateSigmaPoints advances every sample by dt seconds
	PropagateSigmaPoints(p *sigma.Points, dt float64) (*sigma.Points, error)
}

// Observer projects system state into observation space.
// As with Dynamics, the estimator probes for LinearObserver first and
// falls back to NonlinearObserver.
type Observer interface {
	// Dims returns state and observation dimensions of the observer
	Dims() (nx, ny int)
}

// LinearObserver observes a belief directly and exposes its Jacobian.
type LinearObserver interface {
	Observer
	// Observe returns the expected observation of belief b
	Observe(b *estimate.Belief, extra ...mat.Vector) (mat.Vector, error)
	// Jacobian returns the observation Jacobian evaluated at b
	Jacobian(b *estimate.Belief, extra ...mat.Vector) (mat.Matrix, error)
}

// NonlinearObserver observes sigma point samples pointwise.
type NonlinearObserver interface {
	Observer
	// ObserveSigmaPoints maps every sample into observation space
	ObserveSigmaPoints(p *sigma.Points, extra ...mat.Vector) (*sigma.Points, error)
}

// ProcessNoise inflates a state covariance to account for unmodeled
// dynamics accumulated over dt seconds. The mean is informational only:
// implementations may read it but the estimator never lets them modify
// the state estimate through it.
type ProcessNoise interface {
	// Inflate returns the covariance cov inflated by dt seconds of noise
	Inflate(dt float64, mean mat.Vector, cov mat.Symmetric) (*mat.SymDense, error)
}

// Estimate is a Gaussian state estimate.
type Estimate interface {
	// Mean returns estimate mean
	Mean() mat.Vector
	// Cov returns estimate covariance
	Cov() mat.Symmetric
}
