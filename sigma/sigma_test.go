package sigma

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"

	"github.com/mikael-s-persson/vague/estimate"
)

func newBelief(t *testing.T) *estimate.Belief {
	b, err := estimate.NewBelief(
		mat.NewVecDense(2, []float64{1.0, -2.0}),
		mat.NewSymDense(2, []float64{2.0, 0.5, 0.5, 1.0}),
	)
	assert.NoError(t, err)

	return b
}

func TestCubatureMomentMatching(t *testing.T) {
	assert := assert.New(t)

	b := newBelief(t)

	points, err := NewCubature().SigmaPoints(b)
	assert.NoError(err)
	assert.Equal(2, points.Dim())
	assert.Equal(4, points.Len())

	// weights are uniform and sum to 1
	sum := 0.0
	for _, w := range points.Weights() {
		assert.InDelta(0.25, w, 1e-15)
		sum += w
	}
	assert.InDelta(1.0, sum, 1e-15)

	// the weighted sample moments reproduce the belief exactly
	stats, err := points.Statistics()
	assert.NoError(err)
	assert.True(mat.EqualApprox(b.Mean(), stats.Mean(), 1e-12))
	assert.True(mat.EqualApprox(b.Cov(), stats.Cov(), 1e-12))
}

func TestCubatureSingularCovariance(t *testing.T) {
	assert := assert.New(t)

	// rank deficient covariance: Cholesky fails, the SVD square root
	// must take over
	b, err := estimate.NewBelief(
		mat.NewVecDense(2, []float64{0.0, 0.0}),
		mat.NewSymDense(2, []float64{1.0, 0.0, 0.0, 0.0}),
	)
	assert.NoError(err)

	points, err := NewCubature().SigmaPoints(b)
	assert.NoError(err)

	stats, err := points.Statistics()
	assert.NoError(err)
	assert.True(mat.EqualApprox(b.Cov(), stats.Cov(), 1e-12))
}

func TestMeanCentered(t *testing.T) {
	assert := assert.New(t)

	b := newBelief(t)

	points, err := NewCubature().SigmaPoints(b)
	assert.NoError(err)

	mean, centered := points.MeanCentered()
	assert.True(mat.EqualApprox(b.Mean(), mean, 1e-12))

	// centered samples have zero weighted mean
	w := points.Weights()
	rows, cols := centered.Dims()
	for i := 0; i < rows; i++ {
		acc := 0.0
		for c := 0; c < cols; c++ {
			acc += w[c] * centered.At(i, c)
		}
		assert.InDelta(0.0, acc, 1e-12)
	}
}

func TestTransform(t *testing.T) {
	assert := assert.New(t)

	b := newBelief(t)

	points, err := NewCubature().SigmaPoints(b)
	assert.NoError(err)

	// project onto the first coordinate
	projected, err := points.Transform(1, func(x mat.Vector) (mat.Vector, error) {
		return mat.NewVecDense(1, []float64{x.AtVec(0)}), nil
	})
	assert.NoError(err)
	assert.Equal(1, projected.Dim())
	assert.Equal(points.Len(), projected.Len())

	stats, err := projected.Statistics()
	assert.NoError(err)
	assert.InDelta(1.0, stats.Mean().AtVec(0), 1e-12)
	assert.InDelta(2.0, stats.Cov().At(0, 0), 1e-12)

	// wrong output dimension is rejected
	projected, err = points.Transform(2, func(x mat.Vector) (mat.Vector, error) {
		return mat.NewVecDense(1, []float64{x.AtVec(0)}), nil
	})
	assert.Nil(projected)
	assert.Error(err)
}

func TestNewPoints(t *testing.T) {
	assert := assert.New(t)

	x := mat.NewDense(2, 3, nil)
	w := mat.NewVecDense(3, []float64{0.5, 0.25, 0.25})

	p, err := NewPoints(x, w)
	assert.NoError(err)
	assert.NotNil(p)

	p, err = NewPoints(x, mat.NewVecDense(2, nil))
	assert.Nil(p)
	assert.Error(err)

	p, err = NewPoints(nil, w)
	assert.Nil(p)
	assert.Error(err)
}
