// Package estimator implements a recursive Gaussian state estimator: a
// belief is advanced in time with Predict, projected into observation
// space with PredictObservation and fused with real measurements via
// Assimilate. Linear collaborators run on an exact Kalman path; anything
// else is handled through sigma point (unscented) sampling.
package estimator

import (
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/mikael-s-persson/vague"
	"github.com/mikael-s-persson/vague/estimate"
	"github.com/mikael-s-persson/vague/sigma"
)

// ErrInvalidTimeOrder is returned by Predict when asked to wind the
// estimator back in time.
var ErrInvalidTimeOrder = errors.New("invalid time order")

// Estimator tracks a Gaussian state belief through time. Its only
// mutable state is the current time and the current belief; every
// operation either completes or returns an error leaving both untouched.
// An Estimator is not safe for concurrent use.
type Estimator struct {
	// time is the time the current belief refers to
	time time.Time
	// estimate is the current state belief
	estimate *estimate.Belief
	// rule draws sigma points for nonlinear collaborators
	rule sigma.Rule
}

// New returns an estimator holding the given belief at the given time.
// A nil rule selects the cubature sigma point rule.
func New(t time.Time, initial *estimate.Belief, rule sigma.Rule) (*Estimator, error) {
	if initial == nil {
		return nil, fmt.Errorf("invalid initial estimate: %v", initial)
	}

	if rule == nil {
		rule = sigma.NewCubature()
	}

	return &Estimator{
		time:     t,
		estimate: initial.Clone(),
		rule:     rule,
	}, nil
}

// Time returns the time the current estimate refers to.
// It is monotonically non-decreasing across Predict calls.
func (e *Estimator) Time() time.Time {
	return e.time
}

// Estimate returns a copy of the current state belief.
func (e *Estimator) Estimate() *estimate.Belief {
	return e.estimate.Clone()
}

// Predict advances the belief to time t through the given dynamics and
// inflates the resulting covariance with processNoise (nil means no
// inflation). Calling Predict with the current time is a no-op. Calling
// it with an earlier time fails with ErrInvalidTimeOrder. On any error
// the estimator's time and belief are unchanged.
func (e *Estimator) Predict(t time.Time, dynamics vague.Dynamics, processNoise vague.ProcessNoise) error {
	if t.Equal(e.time) {
		return nil
	}
	if t.Before(e.time) {
		return fmt.Errorf("%w: %s is before %s", ErrInvalidTimeOrder, t, e.time)
	}
	dt := t.Sub(e.time).Seconds()

	var next *estimate.Belief
	switch d := dynamics.(type) {
	case vague.LinearDynamics:
		var err error
		next, err = d.Propagate(e.estimate, dt)
		if err != nil {
			return fmt.Errorf("failed to propagate belief: %v", err)
		}
	case vague.NonlinearDynamics:
		points, err := e.rule.SigmaPoints(e.estimate)
		if err != nil {
			return fmt.Errorf("failed to generate sigma points: %v", err)
		}

		propagated, err := d.PropagateSigmaPoints(points, dt)
		if err != nil {
			return fmt.Errorf("failed to propagate sigma points: %v", err)
		}

		next, err = propagated.Statistics()
		if err != nil {
			return fmt.Errorf("failed to recover belief from sigma points: %v", err)
		}
	default:
		return fmt.Errorf("dynamics %T propagates neither beliefs nor sigma points", dynamics)
	}

	if processNoise != nil {
		cov, err := processNoise.Inflate(dt, next.Mean(), next.Cov())
		if err != nil {
			return fmt.Errorf("failed to apply process noise: %v", err)
		}

		next, err = estimate.NewBelief(next.Mean(), cov)
		if err != nil {
			return fmt.Errorf("failed to apply process noise: %v", err)
		}
	}

	// commit only once every step has succeeded
	e.time = t
	e.estimate = next

	return nil
}

// PredictObservation projects the current belief into observation space
// without modifying the estimator. The result carries the predicted
// observation mean, the predicted observation covariance and the
// state-observation cross covariance; all three are populated on both
// the linear and the sigma point path.
func (e *Estimator) PredictObservation(observer vague.Observer, extra ...mat.Vector) (*estimate.PredictedObservation, error) {
	switch o := observer.(type) {
	case vague.LinearObserver:
		return e.predictObservationLinear(o, extra...)
	case vague.NonlinearObserver:
		return e.predictObservationSigma(o, extra...)
	}

	return nil, fmt.Errorf("observer %T observes neither beliefs nor sigma points", observer)
}

func (e *Estimator) predictObservationLinear(o vague.LinearObserver, extra ...mat.Vector) (*estimate.PredictedObservation, error) {
	y, err := o.Observe(e.estimate, extra...)
	if err != nil {
		return nil, fmt.Errorf("failed to observe belief: %v", err)
	}

	jac, err := o.Jacobian(e.estimate, extra...)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate observation jacobian: %v", err)
	}

	// cross covariance: P * J^T
	cross := new(mat.Dense)
	cross.Mul(e.estimate.Cov(), jac.T())

	// observation covariance: J * P * J^T
	yCov := new(mat.Dense)
	yCov.Mul(jac, cross)

	ny := y.Len()
	yCovSym := mat.NewSymDense(ny, nil)
	for i := 0; i < ny; i++ {
		for j := i; j < ny; j++ {
			yCovSym.SetSym(i, j, yCov.At(i, j))
		}
	}

	belief, err := estimate.NewBelief(y, yCovSym)
	if err != nil {
		return nil, fmt.Errorf("failed to form predicted observation: %v", err)
	}

	return estimate.NewPredictedObservation(belief, cross)
}

func (e *Estimator) predictObservationSigma(o vague.NonlinearObserver, extra ...mat.Vector) (*estimate.PredictedObservation, error) {
	points, err := e.rule.SigmaPoints(e.estimate)
	if err != nil {
		return nil, fmt.Errorf("failed to generate sigma points: %v", err)
	}
	_, centered := points.MeanCentered()

	yPoints, err := o.ObserveSigmaPoints(points, extra...)
	if err != nil {
		return nil, fmt.Errorf("failed to observe sigma points: %v", err)
	}

	belief, err := yPoints.Statistics()
	if err != nil {
		return nil, fmt.Errorf("failed to recover observation statistics: %v", err)
	}
	_, yCentered := yPoints.MeanCentered()

	// cross covariance: Xc * diag(w) * Yc^T
	weights := points.Weights()
	weighted := new(mat.Dense)
	weighted.Mul(centered, mat.NewDiagDense(len(weights), weights))

	cross := new(mat.Dense)
	cross.Mul(weighted, yCentered.T())

	return estimate.NewPredictedObservation(belief, cross)
}

// Assimilate fuses an observation into the belief through the standard
// Kalman update. The innovation covariance, the sum of the predicted
// observation covariance and the observation covariance, must be
// positive definite; if its factorization fails an error is returned
// and the belief is unchanged. The covariance update is the plain
// (non-Joseph) form: symmetry and positive semi-definiteness are not
// actively restored under accumulated floating point error.
func (e *Estimator) Assimilate(predicted *estimate.PredictedObservation, observation *estimate.Belief) error {
	if predicted == nil || observation == nil {
		return fmt.Errorf("invalid observation: predicted %v, observation %v", predicted, observation)
	}

	ny := observation.Dim()
	if predicted.Dim() != ny {
		return fmt.Errorf("invalid observation dimensions: %d != %d", predicted.Dim(), ny)
	}

	nx := e.estimate.Dim()
	if rows, _ := predicted.CrossCov().Dims(); rows != nx {
		return fmt.Errorf("invalid cross covariance dimensions: %d != %d", rows, nx)
	}

	// innovation covariance: S = Pyy + R
	s := mat.NewSymDense(ny, nil)
	s.AddSym(predicted.Cov(), observation.Cov())

	var chol mat.Cholesky
	if ok := chol.Factorize(s); !ok {
		return fmt.Errorf("innovation covariance is not positive definite")
	}

	// Kalman gain: K = Pxy * S^-1, via solving S * K^T = Pxy^T
	kt := new(mat.Dense)
	if err := chol.SolveTo(kt, predicted.CrossCov().T()); err != nil {
		return fmt.Errorf("failed to compute kalman gain: %v", err)
	}
	gain := kt.T()

	// innovation: z - y
	inn := new(mat.VecDense)
	inn.SubVec(observation.Mean(), predicted.Mean())

	// mean correction: x + K * inn
	corr := new(mat.VecDense)
	corr.MulVec(gain, inn)
	mean := mat.VecDenseCopyOf(e.estimate.Mean())
	mean.AddVec(mean, corr)

	// covariance correction: P - K * S * K^T
	ks := new(mat.Dense)
	ks.Mul(gain, s)
	ksk := new(mat.Dense)
	ksk.Mul(ks, gain.T())

	p := e.estimate.Cov()
	cov := mat.NewSymDense(nx, nil)
	for i := 0; i < nx; i++ {
		for j := i; j < nx; j++ {
			cov.SetSym(i, j, p.At(i, j)-ksk.At(i, j))
		}
	}

	next, err := estimate.NewBelief(mean, cov)
	if err != nil {
		return fmt.Errorf("failed to update estimate: %v", err)
	}
	e.estimate = next

	return nil
}
