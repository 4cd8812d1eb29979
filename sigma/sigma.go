package sigma

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/mikael-s-persson/vague/estimate"
)

// Points is a deterministic weighted sample set drawn from a Gaussian
// belief. Sample state vectors are stored in the columns of x; weights
// sum to 1. The weighted mean and covariance of a freshly drawn set
// reproduce the source belief's first two moments exactly.
type Points struct {
	// x stores sample vectors in columns
	x *mat.Dense
	// w stores sample weights
	w *mat.VecDense
}

// NewPoints returns a sigma point set with samples stored in the columns
// of x weighted by w. It returns error if the number of columns and
// weights disagree.
func NewPoints(x *mat.Dense, w *mat.VecDense) (*Points, error) {
	if x == nil || w == nil {
		return nil, fmt.Errorf("invalid sigma points: x %v, w %v", x, w)
	}

	_, cols := x.Dims()
	if cols != w.Len() {
		return nil, fmt.Errorf("invalid sigma point count: %d samples, %d weights", cols, w.Len())
	}

	return &Points{x: x, w: w}, nil
}

// Dim returns the dimension of the sample vectors.
func (p *Points) Dim() int {
	rows, _ := p.x.Dims()

	return rows
}

// Len returns the number of samples in the set.
func (p *Points) Len() int {
	_, cols := p.x.Dims()

	return cols
}

// Weights returns a copy of the sample weights.
func (p *Points) Weights() []float64 {
	w := make([]float64, p.w.Len())
	for i := range w {
		w[i] = p.w.AtVec(i)
	}

	return w
}

// Mean returns the weighted mean of the samples.
func (p *Points) Mean() mat.Vector {
	rows, cols := p.x.Dims()

	mean := mat.NewVecDense(rows, nil)
	for c := 0; c < cols; c++ {
		mean.AddScaledVec(mean, p.w.AtVec(c), p.x.ColView(c))
	}

	return mean
}

// MeanCentered returns the weighted sample mean together with the
// samples with the mean subtracted from every column.
func (p *Points) MeanCentered() (mat.Vector, *mat.Dense) {
	rows, cols := p.x.Dims()
	mean := p.Mean()

	centered := mat.NewDense(rows, cols, nil)
	col := mat.NewVecDense(rows, nil)
	for c := 0; c < cols; c++ {
		col.SubVec(p.x.ColView(c), mean)
		centered.SetCol(c, rawVec(col))
	}

	return mean, centered
}

// Statistics recombines the weighted samples into a belief.
// It returns error if the resulting moments do not form a valid belief.
func (p *Points) Statistics() (*estimate.Belief, error) {
	rows, cols := p.x.Dims()
	mean, centered := p.MeanCentered()

	cov := mat.NewSymDense(rows, nil)
	outer := mat.NewDense(rows, rows, nil)
	for c := 0; c < cols; c++ {
		d := centered.ColView(c)
		outer.Mul(d, d.T())
		outer.Scale(p.w.AtVec(c), outer)

		for i := 0; i < rows; i++ {
			for j := i; j < rows; j++ {
				cov.SetSym(i, j, cov.At(i, j)+outer.At(i, j))
			}
		}
	}

	return estimate.NewBelief(mean, cov)
}

// Transform maps f over every sample and returns the resulting set of
// dim-dimensional samples carrying the same weights.
// It returns error if f fails or returns a sample of the wrong dimension.
func (p *Points) Transform(dim int, f func(x mat.Vector) (mat.Vector, error)) (*Points, error) {
	_, cols := p.x.Dims()

	out := mat.NewDense(dim, cols, nil)
	for c := 0; c < cols; c++ {
		y, err := f(p.x.ColView(c))
		if err != nil {
			return nil, fmt.Errorf("failed to transform sigma point %d: %v", c, err)
		}
		if y.Len() != dim {
			return nil, fmt.Errorf("invalid transformed sigma point dimension: %d != %d", y.Len(), dim)
		}
		for i := 0; i < dim; i++ {
			out.Set(i, c, y.AtVec(i))
		}
	}

	w := &mat.VecDense{}
	w.CloneFromVec(p.w)

	return &Points{x: out, w: w}, nil
}

func rawVec(v *mat.VecDense) []float64 {
	raw := make([]float64, v.Len())
	for i := range raw {
		raw[i] = v.AtVec(i)
	}

	return raw
}

// Rule is a deterministic sigma point placement scheme.
type Rule interface {
	// SigmaPoints draws a weighted sample set whose first two moments
	// reproduce the belief exactly
	SigmaPoints(b *estimate.Belief) (*Points, error)
}

// Cubature is the spherical cubature placement rule: 2N points at
// mean +/- sqrt(N) times the columns of the covariance square root,
// all carrying weight 1/2N.
type Cubature struct{}

// NewCubature returns a cubature sigma point rule.
func NewCubature() *Cubature {
	return &Cubature{}
}

// SigmaPoints draws cubature sigma points from belief b.
// It returns error if the covariance square root fails to be computed.
func (c *Cubature) SigmaPoints(b *estimate.Belief) (*Points, error) {
	if b == nil {
		return nil, fmt.Errorf("invalid belief: %v", b)
	}

	n := b.Dim()
	sqrtCov, err := sqrtPSD(b.Cov())
	if err != nil {
		return nil, fmt.Errorf("failed to compute covariance square root: %v", err)
	}

	mean := b.Mean()
	scale := math.Sqrt(float64(n))

	x := mat.NewDense(n, 2*n, nil)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			x.Set(i, j, mean.AtVec(i)+scale*sqrtCov.At(i, j))
			x.Set(i, j+n, mean.AtVec(i)-scale*sqrtCov.At(i, j))
		}
	}

	w := mat.NewVecDense(2*n, nil)
	for i := 0; i < 2*n; i++ {
		w.SetVec(i, 1/float64(2*n))
	}

	return &Points{x: x, w: w}, nil
}

// sqrtPSD returns a square root L of cov such that L*L^T = cov.
// Cholesky is attempted first; it can be numerically unstable if cov is
// (almost) singular, in which case an SVD square root is used instead.
func sqrtPSD(cov mat.Symmetric) (*mat.Dense, error) {
	var chol mat.Cholesky
	if ok := chol.Factorize(cov); ok {
		l := &mat.TriDense{}
		chol.LTo(l)

		return mat.DenseCopyOf(l), nil
	}

	var svd mat.SVD
	if ok := svd.Factorize(cov, mat.SVDFull); !ok {
		return nil, fmt.Errorf("SVD factorization failed")
	}

	u := new(mat.Dense)
	svd.UTo(u)
	vals := svd.Values(nil)
	for i := range vals {
		vals[i] = math.Sqrt(vals[i])
	}
	u.Mul(u, mat.NewDiagDense(len(vals), vals))

	return u, nil
}
