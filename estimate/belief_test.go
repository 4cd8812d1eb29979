package estimate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestNewBelief(t *testing.T) {
	assert := assert.New(t)

	mean := mat.NewVecDense(2, []float64{1.0, 2.0})
	cov := mat.NewSymDense(2, []float64{1.0, 0.5, 0.5, 2.0})

	b, err := NewBelief(mean, cov)
	assert.NoError(err)
	assert.NotNil(b)
	assert.Equal(2, b.Dim())
	assert.True(mat.EqualApprox(mean, b.Mean(), 1e-15))
	assert.True(mat.EqualApprox(cov, b.Cov(), 1e-15))

	// dimension mismatch
	b, err = NewBelief(mat.NewVecDense(3, nil), cov)
	assert.Nil(b)
	assert.Error(err)

	// nil inputs
	b, err = NewBelief(nil, cov)
	assert.Nil(b)
	assert.Error(err)

	b, err = NewBelief(mean, nil)
	assert.Nil(b)
	assert.Error(err)
}

func TestBeliefCopySemantics(t *testing.T) {
	assert := assert.New(t)

	mean := mat.NewVecDense(2, []float64{1.0, 2.0})
	cov := mat.NewSymDense(2, []float64{1.0, 0.0, 0.0, 1.0})

	b, err := NewBelief(mean, cov)
	assert.NoError(err)

	// mutating the source must not reach the belief
	mean.SetVec(0, -10.0)
	cov.SetSym(0, 0, -10.0)
	assert.Equal(1.0, b.Mean().AtVec(0))
	assert.Equal(1.0, b.Cov().At(0, 0))

	// mutating accessor results must not reach the belief either
	m := b.Mean().(*mat.VecDense)
	m.SetVec(1, -10.0)
	assert.Equal(2.0, b.Mean().AtVec(1))
}

func TestBeliefClone(t *testing.T) {
	assert := assert.New(t)

	b, err := NewBelief(mat.NewVecDense(2, []float64{1.0, 2.0}), mat.NewSymDense(2, []float64{1.0, 0.0, 0.0, 1.0}))
	assert.NoError(err)

	c := b.Clone()
	assert.True(mat.EqualApprox(b.Mean(), c.Mean(), 1e-15))
	assert.True(mat.EqualApprox(b.Cov(), c.Cov(), 1e-15))

	c.mean.SetVec(0, -10.0)
	assert.Equal(1.0, b.Mean().AtVec(0))
}

func TestNewPredictedObservation(t *testing.T) {
	assert := assert.New(t)

	b, err := NewBelief(mat.NewVecDense(1, []float64{0.5}), mat.NewSymDense(1, []float64{2.0}))
	assert.NoError(err)

	cross := mat.NewDense(2, 1, []float64{2.0, 1.0})
	p, err := NewPredictedObservation(b, cross)
	assert.NoError(err)
	assert.NotNil(p)
	assert.Equal(1, p.Dim())
	assert.True(mat.EqualApprox(cross, p.CrossCov(), 1e-15))

	// cross covariance columns must match the observation dimension
	p, err = NewPredictedObservation(b, mat.NewDense(2, 3, nil))
	assert.Nil(p)
	assert.Error(err)

	p, err = NewPredictedObservation(nil, cross)
	assert.Nil(p)
	assert.Error(err)

	p, err = NewPredictedObservation(b, nil)
	assert.Nil(p)
	assert.Error(err)
}
