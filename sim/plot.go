package sim

import (
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// New2DPlot creates a scatter plot of the first two columns of the
// three data sources:
// truth:    ground truth states
// measure:  measurement values
// filtered: estimator output
// It returns error if either of the supplied data matrices is nil or
// has fewer than 2 columns.
func New2DPlot(truth, measure, filtered *mat.Dense) (*plot.Plot, error) {
	p := plot.New()

	p.Title.Text = "Estimation"
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"
	p.Legend.Top = true

	series := []struct {
		name  string
		data  *mat.Dense
		color color.RGBA
		shape draw.GlyphDrawer
	}{
		{"truth", truth, color.RGBA{R: 255, B: 128, A: 255}, draw.PyramidGlyph{}},
		{"measurement", measure, color.RGBA{G: 255, A: 128}, draw.RingGlyph{}},
		{"filtered", filtered, color.RGBA{R: 169, G: 169, B: 169, A: 255}, draw.CrossGlyph{}},
	}

	for _, s := range series {
		if s.data == nil {
			return nil, fmt.Errorf("invalid data supplied for %s", s.name)
		}
		if _, cols := s.data.Dims(); cols < 2 {
			return nil, fmt.Errorf("invalid data dimensions for %s", s.name)
		}

		scatter, err := plotter.NewScatter(makePoints(s.data))
		if err != nil {
			return nil, fmt.Errorf("failed to create scatter for %s: %v", s.name, err)
		}
		scatter.GlyphStyle.Color = s.color
		scatter.Shape = s.shape
		scatter.GlyphStyle.Radius = vg.Points(3)

		p.Add(scatter)
		p.Legend.Add(s.name, scatter)
	}

	return p, nil
}

func makePoints(m *mat.Dense) plotter.XYs {
	r, _ := m.Dims()
	pts := make(plotter.XYs, r)
	for i := 0; i < r; i++ {
		pts[i].X = m.At(i, 0)
		pts[i].Y = m.At(i, 1)
	}

	return pts
}
