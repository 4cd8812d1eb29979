package estimate

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// PredictedObservation is a belief projected into observation space
// together with the state-observation cross covariance. It is produced
// by the estimator's observation prediction and consumed by measurement
// fusion; the cross covariance is what forms the Kalman gain.
type PredictedObservation struct {
	// Belief holds predicted observation mean and covariance
	*Belief
	// cross is the state-observation cross covariance
	cross *mat.Dense
}

// NewPredictedObservation returns a predicted observation with the given
// observation-space belief and nx-by-ny cross covariance.
// It returns error if the cross covariance columns do not match the
// belief dimension.
func NewPredictedObservation(b *Belief, cross mat.Matrix) (*PredictedObservation, error) {
	if b == nil || cross == nil {
		return nil, fmt.Errorf("invalid predicted observation: belief %v, cross %v", b, cross)
	}

	r, c := cross.Dims()
	if c != b.Dim() {
		return nil, fmt.Errorf("invalid cross covariance dimensions: %dx%d, observation %d",
			r, c, b.Dim())
	}

	return &PredictedObservation{
		Belief: b.Clone(),
		cross:  mat.DenseCopyOf(cross),
	}, nil
}

// CrossCov returns a copy of the state-observation cross covariance.
func (p *PredictedObservation) CrossCov() mat.Matrix {
	return mat.DenseCopyOf(p.cross)
}
