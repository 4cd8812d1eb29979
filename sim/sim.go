// Package sim generates ground truth trajectories and noisy measurement
// sequences for exercising the estimator, and plots the results.
package sim

import (
	"fmt"

	"github.com/milosgajdos/matrix"
	"gonum.org/v1/gonum/mat"

	"github.com/mikael-s-persson/vague/model"
	"github.com/mikael-s-persson/vague/noise"
	"github.com/mikael-s-persson/vague/rand"
)

// Trajectory rolls the state init forward through trans for the given
// number of steps of dt seconds each and returns the states, including
// the initial one, stored in the rows of the result. If q is non-nil a
// random perturbation with covariance dt times q's covariance is added
// at every step.
// It returns error if the dynamics or the noise generation fail.
func Trajectory(init mat.Vector, trans *model.Transition, steps int, dt float64, q *noise.Gaussian) (*mat.Dense, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("invalid number of steps: %d", steps)
	}

	n := trans.StateDim()
	if init.Len() != n {
		return nil, fmt.Errorf("invalid initial state dimension: %d != %d", init.Len(), n)
	}

	var perturbations *mat.Dense
	if q != nil {
		qCov := q.Cov()
		cov := mat.NewSymDense(n, nil)
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				cov.SetSym(i, j, dt*qCov.At(i, j))
			}
		}

		var err error
		perturbations, err = rand.WithCovN(cov, steps)
		if err != nil {
			return nil, fmt.Errorf("failed to draw process perturbations: %v", err)
		}
	}

	f := trans.Matrix(dt)

	states := mat.NewDense(steps+1, n, nil)
	x := mat.VecDenseCopyOf(init)
	next := mat.NewVecDense(n, nil)
	states.SetRow(0, rawVec(x))

	for s := 0; s < steps; s++ {
		next.MulVec(f, x)
		if perturbations != nil {
			next.AddVec(next, perturbations.ColView(s))
		}
		x.CopyVec(next)
		states.SetRow(s+1, rawVec(x))
	}

	return states, nil
}

// Observe maps every state row through the observer's observation
// matrix h and returns the measurements stored in rows. If r is non-nil
// a noise sample is added to every measurement.
func Observe(states *mat.Dense, h *mat.Dense, r *noise.Gaussian) (*mat.Dense, error) {
	if states == nil || h == nil {
		return nil, fmt.Errorf("invalid observation inputs: states %v, h %v", states, h)
	}

	count, nx := states.Dims()
	ny, hx := h.Dims()
	if hx != nx {
		return nil, fmt.Errorf("invalid observation matrix dimensions: [%d x %d], state %d", ny, hx, nx)
	}

	outputs := mat.NewDense(count, ny, nil)
	y := mat.NewVecDense(ny, nil)
	for s := 0; s < count; s++ {
		y.MulVec(h, states.RowView(s))
		if r != nil {
			y.AddVec(y, r.Sample())
		}
		outputs.SetRow(s, rawVec(y))
	}

	return outputs, nil
}

// Stats returns the sample mean and covariance of the observations
// stored in the rows of samples.
// It returns error if the covariance fails to be computed.
func Stats(samples *mat.Dense) ([]float64, *mat.SymDense, error) {
	if samples == nil {
		return nil, nil, fmt.Errorf("invalid samples: %v", samples)
	}

	rows, cols := samples.Dims()
	mean := make([]float64, cols)
	for j := 0; j < cols; j++ {
		mean[j] = mat.Sum(samples.ColView(j)) / float64(rows)
	}

	// matrix.Cov wants variables in rows and samples in columns
	cov, err := matrix.Cov(mat.DenseCopyOf(samples.T()), "cols")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to calculate covariance matrix: %v", err)
	}

	return mean, cov, nil
}

func rawVec(v *mat.VecDense) []float64 {
	raw := make([]float64, v.Len())
	for i := range raw {
		raw[i] = v.AtVec(i)
	}

	return raw
}
